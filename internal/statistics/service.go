package statistics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/attendanceterminal/internal/attendance"
	"github.com/attendanceterminal/internal/periods"
	"github.com/attendanceterminal/internal/projections"
	"github.com/attendanceterminal/internal/terms"
)

var ErrInvalidPlanRate = errors.New("plan rate must be within [0, 1]")

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// Generate computes the attendance report of term as of today. Calendar
// errors abort the report, invalid subject inputs are reported on the subject.
func (s *Service) Generate(
	ctx context.Context,
	term *terms.Term,
	today time.Time,
	inputs map[string]Input,
	opts Options,
) (*Report, error) {
	if opts.PlanRate != nil && !validRate(*opts.PlanRate) {
		return nil, fmt.Errorf("%v: %w", *opts.PlanRate, ErrInvalidPlanRate)
	}
	if err := term.Timetable.Validate(); err != nil {
		return nil, fmt.Errorf("validate timetable: %w", err)
	}
	schedule, err := term.Schedule()
	if err != nil {
		return nil, fmt.Errorf("build schedule: %w", err)
	}
	split := periods.SplitByPeriod(schedule, today)

	report := &Report{
		TermID:   term.ID,
		TermName: term.Name,
		Today:    today,
		PlanRate: opts.PlanRate,
	}
	state := map[string]projections.SubjectState{}
	var held, future, attended int
	for _, name := range term.Timetable.Subjects() {
		subject := evaluateSubject(name, split, inputs[name], opts)
		report.Subjects = append(report.Subjects, subject)
		// A failed subject enters the bunk day scan as never attended.
		state[name] = projections.SubjectState{
			Held:     subject.Held,
			Future:   subject.Future,
			Attended: subject.Attended,
		}
		if subject.Err != nil {
			continue
		}
		held += subject.Held
		future += subject.Future
		attended += subject.Attended
	}

	report.Total = attendance.Evaluate(held, future, attended)
	if opts.PlanRate != nil {
		scenario, err := projections.ProjectScenario(held, future, attended, *opts.PlanRate)
		if err != nil {
			return nil, fmt.Errorf("project scenario: %w", err)
		}
		report.Scenario = &scenario
	}
	if day, ok := projections.SafeBunkDay(schedule, today, state); ok {
		report.SafeBunkDay = day.Date
		report.SafeBunkDayProjection = day.Projected
	}

	s.logger.InfoContext(ctx, "report generated",
		"term_id", term.ID,
		"today", today.Format(time.DateOnly),
		"subjects", len(report.Subjects),
		"failed", len(report.Failed()),
	)
	return report, nil
}

func evaluateSubject(name string, split periods.Split, input Input, opts Options) Subject {
	held, future := split.Past.Get(name), split.Future.Get(name)
	subject := Subject{Name: name}
	subject.Held, subject.Future = held, future

	attended, err := resolveAttended(input, held)
	if err != nil {
		subject.Err = err
		return subject
	}

	subject.Result = attendance.Evaluate(held, future, attended)
	subject.Status = subject.Result.Status()
	switch subject.Status {
	case attendance.StatusSafe:
		subject.Bunks = projections.MaxAffordableBunks(attended, held, future)
	case attendance.StatusAtRisk:
		if n, day, ok := projections.EarliestReach(attended, held, split.FutureDatesOf(name)); ok {
			subject.ReachIn, subject.ReachOn = n, day
		}
	}
	if opts.PlanRate != nil {
		if scenario, err := projections.ProjectScenario(held, future, attended, *opts.PlanRate); err == nil {
			subject.Scenario = &scenario
		}
	}
	return subject
}

func resolveAttended(input Input, held int) (int, error) {
	attended := 0
	switch {
	case input.Attended != nil:
		attended = *input.Attended
	case input.Percent != nil:
		var err error
		if attended, err = attendance.AttendedFromPercent(*input.Percent, held); err != nil {
			return 0, err
		}
	}
	if err := attendance.Validate(held, attended); err != nil {
		return 0, err
	}
	return attended, nil
}

func validRate(rate float64) bool {
	return !math.IsNaN(rate) && rate >= 0 && rate <= 1
}
