package statistics

import (
	"time"

	"github.com/attendanceterminal/internal/attendance"
	"github.com/attendanceterminal/internal/terms"
)

// Input is what a student reports for one subject: either a count of
// attended classes or an estimated percentage of held classes.
type Input struct {
	Attended *int
	Percent  *float64
}

func Count(attended int) Input {
	return Input{Attended: &attended}
}

func Percent(percent float64) Input {
	return Input{Percent: &percent}
}

type Options struct {
	// PlanRate is the share of remaining classes the student plans to
	// attend, in [0, 1].
	PlanRate *float64
}

type Subject struct {
	Name string
	attendance.Result
	Status attendance.Status
	// Bunks is how many future classes can be missed, set when safe.
	Bunks int
	// ReachIn and ReachOn tell after how many consecutive classes, and on
	// which date, the threshold is reached. Set when at risk.
	ReachIn int
	ReachOn time.Time
	// Scenario is the projected final percentage under Options.PlanRate.
	Scenario *float64
	// Err is set when the subject's input was invalid. Other fields are
	// then zero except Name, Held and Future.
	Err error
}

type Report struct {
	TermID   terms.ID
	TermName string
	Today    time.Time
	Subjects []Subject
	// Total sums all valid subjects.
	Total    attendance.Result
	PlanRate *float64
	Scenario *float64
	// SafeBunkDay is the first future day that can be skipped entirely,
	// zero if there is none.
	SafeBunkDay time.Time
	// SafeBunkDayProjection is the final percentage of each subject meeting
	// on SafeBunkDay if that day is skipped.
	SafeBunkDayProjection map[string]float64
}

func (r Report) HasSafeBunkDay() bool {
	return !r.SafeBunkDay.IsZero()
}

// Failed returns subjects whose input could not be evaluated.
func (r Report) Failed() []Subject {
	var failed []Subject
	for _, s := range r.Subjects {
		if s.Err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}
