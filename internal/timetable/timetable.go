package timetable

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var ErrUnknownWeekday = errors.New("unknown weekday")

// Timetable maps a weekday name ("Monday".."Sunday") to the subjects meeting
// that day, in period order. A subject may appear more than once per day.
type Timetable map[string][]string

var weekdays = map[string]time.Weekday{
	time.Sunday.String():    time.Sunday,
	time.Monday.String():    time.Monday,
	time.Tuesday.String():   time.Tuesday,
	time.Wednesday.String(): time.Wednesday,
	time.Thursday.String():  time.Thursday,
	time.Friday.String():    time.Friday,
	time.Saturday.String():  time.Saturday,
}

func (t Timetable) Validate() error {
	for name := range t {
		if _, ok := weekdays[name]; !ok {
			return fmt.Errorf("%q: %w", name, ErrUnknownWeekday)
		}
	}
	return nil
}

// On returns subjects meeting on the weekday, nil if there are none.
func (t Timetable) On(weekday time.Weekday) []string {
	return t[weekday.String()]
}

// Subjects returns every subject in the timetable, sorted.
func (t Timetable) Subjects() []string {
	seen := map[string]bool{}
	var subjects []string
	for _, daySubjects := range t {
		for _, subject := range daySubjects {
			if seen[subject] {
				continue
			}
			seen[subject] = true
			subjects = append(subjects, subject)
		}
	}
	slices.Sort(subjects)
	return subjects
}

type Day struct {
	Date     time.Time
	Subjects []string
}

// Occurrences returns how many periods of subject are held on the day.
func (d Day) Occurrences(subject string) int {
	n := 0
	for _, s := range d.Subjects {
		if s == subject {
			n++
		}
	}
	return n
}

type Schedule []Day

// BuildSchedule maps each working day to its subjects. The result has exactly
// one entry per input day, in input order.
func BuildSchedule(workingDays []time.Time, t Timetable) Schedule {
	schedule := make(Schedule, 0, len(workingDays))
	for _, day := range workingDays {
		subjects := t.On(day.Weekday())
		if subjects == nil {
			subjects = []string{}
		}
		schedule = append(schedule, Day{
			Date:     day,
			Subjects: subjects,
		})
	}
	return schedule
}

// Occurrences counts every scheduled period of subject.
func (s Schedule) Occurrences(subject string) int {
	n := 0
	for _, day := range s {
		n += day.Occurrences(subject)
	}
	return n
}

// After returns the days strictly after day.
func (s Schedule) After(day time.Time) Schedule {
	i, _ := slices.BinarySearchFunc(s, day, func(d Day, target time.Time) int {
		return d.Date.Compare(target)
	})
	if i < len(s) && s[i].Date.Equal(day) {
		i++
	}
	return s[i:]
}
