package timezone

import (
	"time"
	_ "time/tzdata"

	"github.com/attendanceterminal/internal/calendar"
)

// Load returns the named location, UTC for an empty name.
func Load(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// Today returns the calendar date of now as seen in location.
func Today(now time.Time, location *time.Location) time.Time {
	return calendar.Truncate(now.In(location))
}
