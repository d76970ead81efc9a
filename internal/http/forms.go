package http

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/attendanceterminal/internal/statistics"
)

var ErrInvalidForm = errors.New("invalid form")

// parseReportForm reads the per-subject inputs and the optional plan. A
// subject with an empty value is left out and counts as nothing attended.
func parseReportForm(form url.Values, subjects []string) (map[string]statistics.Input, statistics.Options, error) {
	inputs := make(map[string]statistics.Input, len(subjects))
	for _, subject := range subjects {
		switch mode := form.Get("mode." + subject); mode {
		case "percent":
			value := strings.TrimSpace(form.Get("percent." + subject))
			if value == "" {
				continue
			}
			percent, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, statistics.Options{}, fmt.Errorf("%s: percent %q: %w", subject, value, ErrInvalidForm)
			}
			inputs[subject] = statistics.Percent(percent)
		case "", "count":
			value := strings.TrimSpace(form.Get("count." + subject))
			if value == "" {
				continue
			}
			count, err := strconv.Atoi(value)
			if err != nil {
				return nil, statistics.Options{}, fmt.Errorf("%s: count %q: %w", subject, value, ErrInvalidForm)
			}
			inputs[subject] = statistics.Count(count)
		default:
			return nil, statistics.Options{}, fmt.Errorf("%s: mode %q: %w", subject, mode, ErrInvalidForm)
		}
	}

	var opts statistics.Options
	if value := strings.TrimSpace(form.Get("plan")); value != "" {
		plan, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, statistics.Options{}, fmt.Errorf("plan %q: %w", value, ErrInvalidForm)
		}
		rate := plan / 100
		opts.PlanRate = &rate
	}
	return inputs, opts, nil
}
