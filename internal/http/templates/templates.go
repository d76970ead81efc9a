package templates

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/attendanceterminal/internal/statistics"
	reports "github.com/attendanceterminal/internal/templates"
	"github.com/attendanceterminal/internal/terms"
)

type Renderer interface {
	RenderIndexPage(io.Writer, IndexData) error
	RenderTermPage(io.Writer, TermData) error
	RenderReportPage(io.Writer, ReportData) error
	RenderFeedbackPage(io.Writer, FeedbackData) error
}

type IndexData struct {
	Terms []*terms.Term
}

type TermData struct {
	Term     *terms.Term
	Today    time.Time
	Subjects []string
	// Error is shown above the form when the previous submission was
	// rejected.
	Error string
}

type ReportData struct {
	Term   *terms.Term
	Report *statistics.Report
}

type FeedbackData struct {
	Submitted bool
	Error     string
}

const layoutName = "_layout.html.template"

var funcs = template.FuncMap(reports.Funcs)

func parsePage(fsys fs.FS, name string) (*template.Template, error) {
	return template.New(layoutName).Funcs(funcs).ParseFS(fsys, layoutName, name)
}

//go:embed *.html.template
var embedFS embed.FS

var _ Renderer = &embedTemplates{}

type embedTemplates struct {
	pages map[string]*template.Template
}

func NewEmbedTemplates() Renderer {
	pages := map[string]*template.Template{}
	for _, name := range pageNames {
		pages[name] = template.Must(parsePage(embedFS, name))
	}
	return &embedTemplates{pages: pages}
}

func (t *embedTemplates) render(w io.Writer, name string, data any) error {
	return t.pages[name].Execute(w, data)
}

func (t *embedTemplates) RenderIndexPage(w io.Writer, data IndexData) error {
	return t.render(w, indexPage, data)
}

func (t *embedTemplates) RenderTermPage(w io.Writer, data TermData) error {
	return t.render(w, termPage, data)
}

func (t *embedTemplates) RenderReportPage(w io.Writer, data ReportData) error {
	return t.render(w, reportPage, data)
}

func (t *embedTemplates) RenderFeedbackPage(w io.Writer, data FeedbackData) error {
	return t.render(w, feedbackPage, data)
}

var _ Renderer = &filesystemTemplates{}

// filesystemTemplates parses templates on every render, so that changes are
// picked up without a restart.
type filesystemTemplates struct {
	fsys fs.FS
}

func NewFilesystemTemplates(path string) Renderer {
	return &filesystemTemplates{fsys: os.DirFS(path)}
}

func (t *filesystemTemplates) render(w io.Writer, name string, data any) error {
	page, err := parsePage(t.fsys, name)
	if err != nil {
		return err
	}
	return page.Execute(w, data)
}

func (t *filesystemTemplates) RenderIndexPage(w io.Writer, data IndexData) error {
	return t.render(w, indexPage, data)
}

func (t *filesystemTemplates) RenderTermPage(w io.Writer, data TermData) error {
	return t.render(w, termPage, data)
}

func (t *filesystemTemplates) RenderReportPage(w io.Writer, data ReportData) error {
	return t.render(w, reportPage, data)
}

func (t *filesystemTemplates) RenderFeedbackPage(w io.Writer, data FeedbackData) error {
	return t.render(w, feedbackPage, data)
}

const (
	indexPage    = "index.html.template"
	termPage     = "term.html.template"
	reportPage   = "report.html.template"
	feedbackPage = "feedback.html.template"
)

var pageNames = []string{indexPage, termPage, reportPage, feedbackPage}
