package terms

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/attendanceterminal/internal/calendar"
	"github.com/attendanceterminal/internal/timetable"
	"github.com/attendanceterminal/internal/timezone"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type ID string

func NewID() ID {
	return ID(gonanoid.Must())
}

// Term is the static configuration of one academic term. It is never mutated
// after it has been loaded.
type Term struct {
	ID    ID
	Name  string
	Start time.Time
	End   time.Time
	// Today pins the reference date. When zero, the reference date is the
	// current date in Location.
	Today     time.Time
	Location  string
	Timetable timetable.Timetable
	Holidays  []calendar.HolidayRange
}

type termJSON struct {
	ID        ID                      `json:"id,omitempty"`
	Name      string                  `json:"name"`
	Start     string                  `json:"start"`
	End       string                  `json:"end"`
	Today     string                  `json:"today,omitempty"`
	Location  string                  `json:"location,omitempty"`
	Timetable timetable.Timetable     `json:"timetable"`
	Holidays  []calendar.HolidayRange `json:"holidays"`
}

func (t Term) MarshalJSON() ([]byte, error) {
	raw := termJSON{
		ID:        t.ID,
		Name:      t.Name,
		Start:     t.Start.Format(time.DateOnly),
		End:       t.End.Format(time.DateOnly),
		Location:  t.Location,
		Timetable: t.Timetable,
		Holidays:  t.Holidays,
	}
	if !t.Today.IsZero() {
		raw.Today = t.Today.Format(time.DateOnly)
	}
	return json.Marshal(raw)
}

func (t *Term) UnmarshalJSON(data []byte) error {
	var raw termJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := calendar.ParseDate(raw.Start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := calendar.ParseDate(raw.End)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	var today time.Time
	if raw.Today != "" {
		if today, err = calendar.ParseDate(raw.Today); err != nil {
			return fmt.Errorf("today: %w", err)
		}
	}
	*t = Term{
		ID:        raw.ID,
		Name:      raw.Name,
		Start:     start,
		End:       end,
		Today:     today,
		Location:  raw.Location,
		Timetable: raw.Timetable,
		Holidays:  raw.Holidays,
	}
	return nil
}

// LoadFile reads a term from a JSON file.
func LoadFile(path string) (*Term, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read term: %w", err)
	}
	term := &Term{}
	if err := json.Unmarshal(data, term); err != nil {
		return nil, fmt.Errorf("decode term %q: %w", path, err)
	}
	return term, nil
}

// Validate checks the timetable and builds the calendar, so that range
// errors surface when the term is loaded rather than when it is used.
func (t Term) Validate() error {
	if err := t.Timetable.Validate(); err != nil {
		return fmt.Errorf("timetable: %w", err)
	}
	if _, err := t.Calendar(); err != nil {
		return err
	}
	if _, err := timezone.Load(t.Location); err != nil {
		return fmt.Errorf("location: %w", err)
	}
	return nil
}

func (t Term) Calendar() (*calendar.Calendar, error) {
	return calendar.New(t.Start, t.End, t.Holidays)
}

// ReferenceDate returns the date that separates past from future classes.
func (t Term) ReferenceDate(now time.Time) time.Time {
	if !t.Today.IsZero() {
		return calendar.Truncate(t.Today)
	}
	location, err := timezone.Load(t.Location)
	if err != nil {
		location = time.UTC
	}
	return timezone.Today(now, location)
}

// Schedule expands the term into one entry per working day.
func (t Term) Schedule() (timetable.Schedule, error) {
	cal, err := t.Calendar()
	if err != nil {
		return nil, err
	}
	return timetable.BuildSchedule(cal.WorkingDays, t.Timetable), nil
}
