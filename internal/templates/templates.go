package templates

import (
	"embed"
	"io"
	"io/fs"
	"text/template"
	"time"

	"github.com/attendanceterminal/internal/attendance"
	"github.com/attendanceterminal/internal/statistics"
)

//go:embed *.gotmpl
var templatesFS embed.FS

// Funcs are shared with the HTML templates.
var Funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("Monday, 02 January 2006")
	},
	"percent": func(p float64) string {
		return formatPercent(p)
	},
	"threshold": func() string {
		return formatThreshold(attendance.Threshold)
	},
	"isSafe":        func(s attendance.Status) bool { return s == attendance.StatusSafe },
	"isAtRisk":      func(s attendance.Status) bool { return s == attendance.StatusAtRisk },
	"isCannotReach": func(s attendance.Status) bool { return s == attendance.StatusCannotReach },
}

var t = mustParseFS(templatesFS)

func mustParseFS(fs fs.FS) *template.Template {
	templates, err := template.New("").Funcs(Funcs).ParseFS(fs, "*.gotmpl")
	if err != nil {
		panic(err)
	}
	return templates
}

func Report(w io.Writer, report *statistics.Report) error {
	return t.ExecuteTemplate(w, "report.txt.gotmpl", report)
}
