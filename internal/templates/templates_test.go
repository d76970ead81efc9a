package templates

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/attendanceterminal/internal/attendance"
	"github.com/attendanceterminal/internal/calendar"
	"github.com/attendanceterminal/internal/statistics"
)

func TestReport(t *testing.T) {
	scenario := 81.5
	report := &statistics.Report{
		TermName: "Monsoon 2025",
		Today:    calendar.Date(2025, 8, 17),
		Subjects: []statistics.Subject{
			{
				Name:   "CS",
				Result: attendance.Result{Held: 9, Future: 14},
				Err:    errors.New("attended exceeds held"),
			},
			{
				Name:   "English",
				Result: attendance.Evaluate(10, 18, 10),
				Status: attendance.StatusSafe,
				Bunks:  7,
			},
			{
				Name:    "Math",
				Result:  attendance.Evaluate(19, 29, 9),
				Status:  attendance.StatusAtRisk,
				ReachIn: 21,
				ReachOn: calendar.Date(2025, 10, 13),
			},
			{
				Name:   "Physics",
				Result: attendance.Evaluate(10, 0, 5),
				Status: attendance.StatusCannotReach,
			},
		},
		Scenario:    &scenario,
		SafeBunkDay: calendar.Date(2025, 8, 18),
		SafeBunkDayProjection: map[string]float64{
			"Math":    37.0 / 48 * 100,
			"Physics": 84,
		},
	}

	var buf bytes.Buffer
	if err := Report(&buf, report); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Monsoon 2025 as of Sunday, 17 August 2025",
		"Invalid input: attended exceeds held",
		"Safe. You can miss 7 more classes.",
		"Current %: 47.37%",
		"Attend next 21 to reach 75% by Monday, 13 October 2025.",
		"Cannot reach 75% even with full attendance.",
		"Next safe bunk day: Monday, 18 August 2025\n  Math ends at 77.08% if you skip it\n  Physics ends at 84.00% if you skip it",
		"Overall with your plan: 81.50%",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}
}
