package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

// RestDay is the weekday on which no classes are held.
const RestDay = time.Sunday

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t, keeping its calendar day.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t, nil
}

type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start %s is after end %s",
		e.Start.Format(time.DateOnly), e.End.Format(time.DateOnly))
}

// HolidayRange is an inclusive range of days without classes.
type HolidayRange struct {
	Name  string
	Start time.Time
	End   time.Time
}

type holidayRangeJSON struct {
	Name  string `json:"name,omitempty"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r HolidayRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(holidayRangeJSON{
		Name:  r.Name,
		Start: r.Start.Format(time.DateOnly),
		End:   r.End.Format(time.DateOnly),
	})
}

func (r *HolidayRange) UnmarshalJSON(data []byte) error {
	var raw holidayRangeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := ParseDate(raw.Start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := ParseDate(raw.End)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	*r = HolidayRange{Name: raw.Name, Start: start, End: end}
	return nil
}

type HolidaySet map[time.Time]struct{}

func (s HolidaySet) Contains(day time.Time) bool {
	_, ok := s[Truncate(day)]
	return ok
}

// ExpandHolidays returns every day covered by ranges.
func ExpandHolidays(ranges []HolidayRange) (HolidaySet, error) {
	holidays := HolidaySet{}
	for _, r := range ranges {
		start, end := Truncate(r.Start), Truncate(r.End)
		if start.After(end) {
			return nil, &InvalidRangeError{Start: start, End: end}
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			holidays[d] = struct{}{}
		}
	}
	return holidays, nil
}

// WorkingDays returns days in [start, end] that are neither RestDay nor
// holidays, in ascending order.
func WorkingDays(start, end time.Time, holidays HolidaySet) ([]time.Time, error) {
	start, end = Truncate(start), Truncate(end)
	if end.Before(start) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == RestDay || holidays.Contains(d) {
			continue
		}
		days = append(days, d)
	}
	return days, nil
}

type Calendar struct {
	Start       time.Time
	End         time.Time
	Holidays    HolidaySet
	WorkingDays []time.Time
}

// New expands holidays and working days eagerly, so that range errors
// surface before any report is computed.
func New(start, end time.Time, ranges []HolidayRange) (*Calendar, error) {
	holidays, err := ExpandHolidays(ranges)
	if err != nil {
		return nil, fmt.Errorf("expand holidays: %w", err)
	}
	days, err := WorkingDays(start, end, holidays)
	if err != nil {
		return nil, fmt.Errorf("working days: %w", err)
	}
	return &Calendar{
		Start:       Truncate(start),
		End:         Truncate(end),
		Holidays:    holidays,
		WorkingDays: days,
	}, nil
}

func (c *Calendar) IsHoliday(day time.Time) bool {
	return c.Holidays.Contains(day)
}

func (c *Calendar) IsWorkingDay(day time.Time) bool {
	day = Truncate(day)
	if day.Before(c.Start) || day.After(c.End) {
		return false
	}
	return day.Weekday() != RestDay && !c.IsHoliday(day)
}
