package periods

import (
	"time"

	"github.com/attendanceterminal/internal/calendar"
	"github.com/attendanceterminal/internal/timetable"
)

// Counts holds scheduled occurrences per subject.
type Counts map[string]int

// Get returns the count for subject, zero when absent.
func (c Counts) Get(subject string) int {
	return c[subject]
}

type Split struct {
	// Past counts occurrences on or before the reference date.
	Past Counts
	// Future counts occurrences strictly after the reference date.
	Future Counts
	// FutureDates lists, per subject, the date of every future occurrence in
	// ascending order. A day appears once per period held that day.
	FutureDates map[string][]time.Time
}

func (s Split) FutureDatesOf(subject string) []time.Time {
	return s.FutureDates[subject]
}

// SplitByPeriod partitions schedule around today. Today itself is past.
func SplitByPeriod(schedule timetable.Schedule, today time.Time) Split {
	today = calendar.Truncate(today)
	split := Split{
		Past:        Counts{},
		Future:      Counts{},
		FutureDates: map[string][]time.Time{},
	}
	for _, day := range schedule {
		for _, subject := range day.Subjects {
			if !day.Date.After(today) {
				split.Past[subject]++
				continue
			}
			split.Future[subject]++
			split.FutureDates[subject] = append(split.FutureDates[subject], day.Date)
		}
	}
	return split
}
