package calendars

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/attendanceterminal/internal/terms"
)

type Service struct {
	logger       *slog.Logger
	termsService *terms.Service
}

func NewService(
	logger *slog.Logger,
	termsService *terms.Service,
) *Service {
	return &Service{
		logger:       logger,
		termsService: termsService,
	}
}

// WriteICal writes the remaining class days and the holidays of a term as
// all-day events.
func (s *Service) WriteICal(ctx context.Context, w io.Writer, id terms.ID, now time.Time) error {
	term, err := s.termsService.Get(ctx, id)
	if err != nil {
		return err
	}
	icalendar, err := Build(term, term.ReferenceDate(now))
	if err != nil {
		return err
	}
	return icalendar.SerializeTo(w)
}

// Build creates the calendar of class days after today and of every
// holiday range of term.
func Build(term *terms.Term, today time.Time) (*ics.Calendar, error) {
	schedule, err := term.Schedule()
	if err != nil {
		return nil, fmt.Errorf("build schedule: %w", err)
	}

	icalendar := ics.NewCalendar()
	icalendar.SetName(term.Name)
	for _, day := range schedule.After(today) {
		if len(day.Subjects) == 0 {
			continue
		}
		event := icalendar.AddEvent(eventID(term.ID, "classes", day.Date))
		event.SetSummary(fmt.Sprintf("Classes: %s", strings.Join(day.Subjects, ", ")))
		event.SetAllDayStartAt(day.Date)
		event.SetAllDayEndAt(day.Date.AddDate(0, 0, 1))
	}
	for _, holiday := range term.Holidays {
		event := icalendar.AddEvent(eventID(term.ID, "holiday", holiday.Start))
		name := holiday.Name
		if name == "" {
			name = "Holiday"
		}
		event.SetSummary(name)
		event.SetAllDayStartAt(holiday.Start)
		event.SetAllDayEndAt(holiday.End.AddDate(0, 0, 1))
	}
	return icalendar, nil
}

func eventID(id terms.ID, kind string, day time.Time) string {
	return fmt.Sprintf("%s-%s-%s@attendanceterminal", id, kind, day.Format("20060102"))
}
