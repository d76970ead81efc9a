// Command report prints the attendance report of a term.
//
//	report -term term.json [-today 2025-08-17] [-plan 80] Math=9 Physics=70%
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/attendanceterminal/internal/calendar"
	"github.com/attendanceterminal/internal/statistics"
	"github.com/attendanceterminal/internal/templates"
	"github.com/attendanceterminal/internal/terms"
)

func main() {
	termPath := flag.String("term", "term.json", "path to the term JSON file")
	today := flag.String("today", "", "reference date (YYYY-MM-DD), defaults to the term's date")
	plan := flag.Float64("plan", -1, "percentage of remaining classes you plan to attend")
	verbose := flag.Bool("verbose", false, "if true, will log debug information")
	flag.Parse()

	level := new(slog.LevelVar)
	if !*verbose {
		level.Set(slog.LevelWarn)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	term, err := terms.LoadFile(*termPath)
	if err != nil {
		log.Fatalf("[ERROR] %s", err)
	}
	if err := term.Validate(); err != nil {
		log.Fatalf("[ERROR] term: %s", err)
	}

	referenceDate := term.ReferenceDate(time.Now())
	if *today != "" {
		if referenceDate, err = calendar.ParseDate(*today); err != nil {
			log.Fatalf("[ERROR] today: %s", err)
		}
	}

	inputs, err := statistics.ParseInputs(flag.Args(), term.Timetable.Subjects())
	if err != nil {
		log.Fatalf("[ERROR] %s", err)
	}

	var opts statistics.Options
	if *plan >= 0 {
		rate := *plan / 100
		opts.PlanRate = &rate
	}

	report, err := statistics.NewService(logger).Generate(context.Background(), term, referenceDate, inputs, opts)
	if err != nil {
		log.Fatalf("[ERROR] %s", err)
	}
	if err := templates.Report(os.Stdout, report); err != nil {
		log.Fatalf("[ERROR] render report: %s", err)
	}
}
