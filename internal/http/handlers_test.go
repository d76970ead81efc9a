package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/attendanceterminal/internal/calendars"
	"github.com/attendanceterminal/internal/feedback"
	"github.com/attendanceterminal/internal/http/static"
	"github.com/attendanceterminal/internal/http/templates"
	"github.com/attendanceterminal/internal/keys"
	"github.com/attendanceterminal/internal/metrics"
	"github.com/attendanceterminal/internal/statistics"
	"github.com/attendanceterminal/internal/terms"
	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	termsService := terms.NewService(logger, terms.NewStore(db))
	term, err := terms.LoadFile("../terms/testdata/term.json")
	require.NoError(t, err)
	term.ID = "monsoon"
	require.NoError(t, termsService.Create(context.Background(), term))

	key, err := keys.NewKey()
	require.NoError(t, err)

	return Handler(
		logger,
		templates.NewEmbedTemplates(),
		static.NewEmbedHandler(),
		metrics.New(),
		termsService,
		statistics.NewService(logger),
		calendars.NewService(logger, termsService),
		feedback.NewService(logger, feedback.NewStore(db, key)),
	)
}

func do(handler http.HandlerFunc, method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestPages(t *testing.T) {
	handler := newTestHandler(t)

	rec := do(handler, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/terms/monsoon/"`)

	rec = do(handler, http.MethodGet, "/terms/monsoon/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="count.Math"`)
	assert.Contains(t, rec.Body.String(), "Sunday, 17 August 2025")

	rec = do(handler, http.MethodGet, "/terms/missing/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(handler, http.MethodGet, "/style.css", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateReport(t *testing.T) {
	handler := newTestHandler(t)

	rec := do(handler, http.MethodPost, "/terms/monsoon/report", url.Values{
		"count.Math":      {"9"},
		"count.English":   {"10"},
		"mode.Physics":    {"percent"},
		"percent.Physics": {"70"},
		"count.CS":        {"12"},
		"plan":            {"80"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Attend next 21, reaches 75% by Monday, 13 October 2025")
	assert.Contains(t, body, "Safe, can miss 7")
	assert.Contains(t, body, "Invalid input")
	assert.Contains(t, body, "With your plan")
	assert.Contains(t, body, "Math ends at 77.08% if you skip it")

	rec = do(handler, http.MethodPost, "/terms/monsoon/report", url.Values{"plan": {"150"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "plan rate")

	rec = do(handler, http.MethodPost, "/terms/monsoon/report", url.Values{"plan": {"NaN"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "NaN%")

	rec = do(handler, http.MethodPost, "/terms/monsoon/report", url.Values{"count.Math": {"many"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(handler, http.MethodPost, "/terms/missing/report", url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCalendar(t *testing.T) {
	handler := newTestHandler(t)

	rec := do(handler, http.MethodGet, "/terms/monsoon/schedule.ics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "BEGIN:VCALENDAR"))

	rec = do(handler, http.MethodGet, "/terms/missing/schedule.ics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateFeedback(t *testing.T) {
	handler := newTestHandler(t)

	rec := do(handler, http.MethodPost, "/feedback", url.Values{"text": {"the form is great"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thanks!")

	rec = do(handler, http.MethodPost, "/feedback", url.Values{"text": {"   "}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "feedback is empty")

	rec = do(handler, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "feedback_submitted_total 1")
	assert.Contains(t, rec.Body.String(), `http_requests_total{route="POST /feedback",status="400"} 1`)
}

func TestParseReportForm(t *testing.T) {
	subjects := []string{"Math", "Physics"}

	inputs, opts, err := parseReportForm(url.Values{
		"count.Math":      {" 4 "},
		"mode.Physics":    {"percent"},
		"percent.Physics": {"62.5"},
		"plan":            {"50"},
	}, subjects)
	require.NoError(t, err)
	require.NotNil(t, inputs["Math"].Attended)
	assert.Equal(t, 4, *inputs["Math"].Attended)
	require.NotNil(t, inputs["Physics"].Percent)
	assert.Equal(t, 62.5, *inputs["Physics"].Percent)
	require.NotNil(t, opts.PlanRate)
	assert.Equal(t, 0.5, *opts.PlanRate)

	inputs, opts, err = parseReportForm(url.Values{}, subjects)
	require.NoError(t, err)
	assert.Empty(t, inputs)
	assert.Nil(t, opts.PlanRate)

	_, _, err = parseReportForm(url.Values{"mode.Math": {"guess"}}, subjects)
	assert.ErrorIs(t, err, ErrInvalidForm)
}
