package attendance

import (
	"fmt"
	"math"
)

// Threshold is the minimum share of classes a student has to attend.
const Threshold = 0.75

// MeetsThreshold reports whether attended/total is at least 75%, compared in
// integers so the boundary is exact.
func MeetsThreshold(attended, total int) bool {
	return 4*attended >= 3*total
}

type Status uint

const (
	StatusUnknown Status = iota
	// StatusSafe is at or above the threshold already.
	StatusSafe
	// StatusAtRisk is below the threshold but can still reach it.
	StatusAtRisk
	// StatusCannotReach stays below the threshold even with full attendance.
	StatusCannotReach
)

func (s Status) String() string {
	switch s {
	case StatusSafe:
		return "safe"
	case StatusAtRisk:
		return "at risk"
	case StatusCannotReach:
		return "cannot reach"
	default:
		return "unknown"
	}
}

type Result struct {
	Held     int
	Attended int
	// Percent is attended over held so far, 0 when nothing was held.
	Percent float64
	Future  int
	// Needed is the minimum number of future classes to attend so that the
	// final ratio over held+future reaches the threshold.
	Needed   int
	CanReach bool
}

func (r Result) Status() Status {
	switch {
	case r.Held > 0 && MeetsThreshold(r.Attended, r.Held):
		return StatusSafe
	case !r.CanReach:
		return StatusCannotReach
	default:
		return StatusAtRisk
	}
}

// Evaluate computes the attendance result of one subject.
func Evaluate(held, future, attended int) Result {
	var percent float64
	if held > 0 {
		percent = float64(attended) / float64(held) * 100
	}
	// ceil(0.75*(held+future) - attended) == ceil((3*(held+future) - 4*attended) / 4)
	needed := 0
	if shortfall := 3*(held+future) - 4*attended; shortfall > 0 {
		needed = (shortfall + 3) / 4
	}
	return Result{
		Held:     held,
		Attended: attended,
		Percent:  percent,
		Future:   future,
		Needed:   needed,
		CanReach: needed <= future,
	}
}

type InvalidAttendanceError struct {
	Held     int
	Attended int
	Percent  float64
	Reason   string
}

func (e *InvalidAttendanceError) Error() string {
	return fmt.Sprintf("invalid attendance: %s (attended %d, held %d)", e.Reason, e.Attended, e.Held)
}

// Validate checks an attended count against the classes held so far.
func Validate(held, attended int) error {
	switch {
	case attended < 0:
		return &InvalidAttendanceError{Held: held, Attended: attended, Reason: "attended is negative"}
	case attended > held:
		return &InvalidAttendanceError{Held: held, Attended: attended, Reason: "attended exceeds held"}
	default:
		return nil
	}
}

// AttendedFromPercent converts an estimated attendance percentage into a
// count of attended classes, rounding down.
func AttendedFromPercent(percent float64, held int) (int, error) {
	if math.IsNaN(percent) || percent < 0 || percent > 100 {
		return 0, &InvalidAttendanceError{
			Held:    held,
			Percent: percent,
			Reason:  fmt.Sprintf("percent %v is outside [0, 100]", percent),
		}
	}
	return int(math.Floor(percent / 100 * float64(held))), nil
}
