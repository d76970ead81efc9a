package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/attendanceterminal/internal/calendars"
	"github.com/attendanceterminal/internal/feedback"
	"github.com/attendanceterminal/internal/http/templates"
	"github.com/attendanceterminal/internal/metrics"
	"github.com/attendanceterminal/internal/statistics"
	"github.com/attendanceterminal/internal/terms"
)

func Handler(
	logger *slog.Logger,
	renderer templates.Renderer,
	staticHandler http.Handler,
	m *metrics.Metrics,
	termsService *terms.Service,
	statisticsService *statistics.Service,
	calendarsService *calendars.Service,
	feedbackService *feedback.Service,
) http.HandlerFunc {
	mux := http.NewServeMux()
	handle := func(pattern string, handler http.HandlerFunc) {
		mux.HandleFunc(pattern, m.WrapHandler(pattern, handler))
	}

	handle("GET /{$}", handleListTerms(logger, renderer, termsService))
	handle("GET /terms/{term_id}/{$}", handleTermPage(logger, renderer, termsService))
	handle("POST /terms/{term_id}/report", handleCreateReport(logger, renderer, m, termsService, statisticsService))
	handle("GET /terms/{term_id}/schedule.ics", handleGetCalendar(logger, calendarsService))

	handle("GET /feedback", handleFeedbackPage(logger, renderer))
	handle("POST /feedback", handleCreateFeedback(logger, renderer, m, feedbackService))

	mux.Handle("GET /metrics", m.Handler())
	mux.Handle("GET /", staticHandler)

	return WithMiddlewares(
		WithAccessLogs(logger),
		WithRecover(logger),
	)(mux.ServeHTTP)
}

func handleListTerms(logger *slog.Logger, renderer templates.Renderer, termsService *terms.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := termsService.List(r.Context())
		if err != nil {
			logger.Error("list terms", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if err := renderer.RenderIndexPage(w, templates.IndexData{Terms: list}); err != nil {
			logger.Error("render index page", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}

func handleTermPage(logger *slog.Logger, renderer templates.Renderer, termsService *terms.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, ok := getTerm(w, r, logger, termsService)
		if !ok {
			return
		}
		if err := renderer.RenderTermPage(w, termData(term, "")); err != nil {
			logger.Error("render term page", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}

func handleCreateReport(
	logger *slog.Logger,
	renderer templates.Renderer,
	m *metrics.Metrics,
	termsService *terms.Service,
	statisticsService *statistics.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, ok := getTerm(w, r, logger, termsService)
		if !ok {
			return
		}

		if err := r.ParseForm(); err != nil {
			logger.Error("parse form", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		rejectForm := func(err error) {
			w.WriteHeader(http.StatusBadRequest)
			if err := renderer.RenderTermPage(w, termData(term, err.Error())); err != nil {
				logger.Error("render term page", "error", err)
			}
		}

		inputs, opts, err := parseReportForm(r.PostForm, term.Timetable.Subjects())
		if err != nil {
			rejectForm(err)
			return
		}

		report, err := statisticsService.Generate(r.Context(), term, term.ReferenceDate(time.Now()), inputs, opts)
		m.ReportGenerated(err)
		if errors.Is(err, statistics.ErrInvalidPlanRate) {
			rejectForm(err)
			return
		} else if err != nil {
			logger.Error("generate report", "term_id", term.ID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		if err := renderer.RenderReportPage(w, templates.ReportData{
			Term:   term,
			Report: report,
		}); err != nil {
			logger.Error("render report page", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}

func handleGetCalendar(logger *slog.Logger, calendarsService *calendars.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := terms.ID(r.PathValue("term_id"))

		w.Header().Set("Content-Type", "text/calendar")
		if err := calendarsService.WriteICal(r.Context(), w, id, time.Now()); errors.Is(err, terms.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		} else if err != nil {
			logger.Error("write calendar", "term_id", id, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}

func handleFeedbackPage(logger *slog.Logger, renderer templates.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := renderer.RenderFeedbackPage(w, templates.FeedbackData{}); err != nil {
			logger.Error("render feedback page", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}
}

func handleCreateFeedback(
	logger *slog.Logger,
	renderer templates.Renderer,
	m *metrics.Metrics,
	feedbackService *feedback.Service,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			logger.Error("parse form", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		data := templates.FeedbackData{Submitted: true}
		_, err := feedbackService.Submit(r.Context(), r.PostForm.Get("text"))
		switch {
		case errors.Is(err, feedback.ErrEmpty), errors.Is(err, feedback.ErrTooLong):
			w.WriteHeader(http.StatusBadRequest)
			data = templates.FeedbackData{Error: err.Error()}
		case err != nil:
			logger.Error("submit feedback", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		default:
			m.FeedbackSubmitted()
		}

		if err := renderer.RenderFeedbackPage(w, data); err != nil {
			logger.Error("render feedback page", "error", err)
			return
		}
	}
}

func getTerm(w http.ResponseWriter, r *http.Request, logger *slog.Logger, termsService *terms.Service) (*terms.Term, bool) {
	id := terms.ID(r.PathValue("term_id"))
	term, err := termsService.Get(r.Context(), id)
	if errors.Is(err, terms.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return nil, false
	} else if err != nil {
		logger.Error("get term", "term_id", id, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return nil, false
	}
	return term, true
}

func termData(term *terms.Term, errMessage string) templates.TermData {
	return templates.TermData{
		Term:     term,
		Today:    term.ReferenceDate(time.Now()),
		Subjects: term.Timetable.Subjects(),
		Error:    errMessage,
	}
}
