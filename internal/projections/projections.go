package projections

import (
	"fmt"
	"math"
	"time"

	"github.com/attendanceterminal/internal/attendance"
	"github.com/attendanceterminal/internal/calendar"
	"github.com/attendanceterminal/internal/timetable"
)

// EarliestReach assumes every next class is attended and returns the 1-based
// position and date of the first class after which attendance reaches the
// threshold. ok is false if futureDates run out first.
func EarliestReach(attended, held int, futureDates []time.Time) (count int, date time.Time, ok bool) {
	present, total := attended, held
	for i, day := range futureDates {
		present++
		total++
		if attendance.MeetsThreshold(present, total) {
			return i + 1, day, true
		}
	}
	return 0, time.Time{}, false
}

// MaxAffordableBunks returns how many future classes can be missed while the
// final ratio stays at or above the threshold, all others attended.
func MaxAffordableBunks(attended, held, future int) int {
	// floor(attended + future - 0.75*(held+future))
	slack := 4*(attended+future) - 3*(held+future)
	if slack <= 0 {
		return 0
	}
	return slack / 4
}

// ProjectScenario returns the final percentage if rate of the remaining
// classes are attended.
func ProjectScenario(held, future, attended int, rate float64) (float64, error) {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return 0, fmt.Errorf("rate %v is outside [0, 1]", rate)
	}
	total := held + future
	if total == 0 {
		return 0, nil
	}
	return (float64(attended) + rate*float64(future)) / float64(total) * 100, nil
}

// ProjectBunkDay returns the final percentage if missed future classes are
// skipped and every other one is attended.
func ProjectBunkDay(held, future, attended, missed int) float64 {
	total := held + future
	if total == 0 {
		return 0
	}
	missed = min(max(missed, 0), future)
	return float64(attended+future-missed) / float64(total) * 100
}

type SubjectState struct {
	Held     int
	Future   int
	Attended int
}

type BunkDay struct {
	Date time.Time
	// Projected is the final percentage of every subject meeting that day,
	// as given by ProjectBunkDay.
	Projected map[string]float64
}

// SafeBunkDay returns the first day after today on which every class can be
// skipped while each subject meeting that day still ends at or above the
// threshold, assuming full attendance otherwise. Days without classes are not
// candidates. A subject missing from state has no classes on record, so any
// day it meets is unsafe.
func SafeBunkDay(schedule timetable.Schedule, today time.Time, state map[string]SubjectState) (BunkDay, bool) {
	for _, day := range schedule.After(calendar.Truncate(today)) {
		if len(day.Subjects) == 0 {
			continue
		}
		if projected, ok := skipDay(day, state); ok {
			return BunkDay{Date: day.Date, Projected: projected}, true
		}
	}
	return BunkDay{}, false
}

func skipDay(day timetable.Day, state map[string]SubjectState) (map[string]float64, bool) {
	missed := map[string]int{}
	for _, subject := range day.Subjects {
		missed[subject]++
	}
	projected := make(map[string]float64, len(missed))
	for subject, n := range missed {
		s := state[subject]
		// Decided in integers, the percentage is only reported.
		if !attendance.MeetsThreshold(s.Attended+s.Future-n, s.Held+s.Future) {
			return nil, false
		}
		projected[subject] = ProjectBunkDay(s.Held, s.Future, s.Attended, n)
	}
	return projected, true
}
