package statistics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidInput = errors.New("invalid input")

// ParseInputs parses "Subject=count" and "Subject=NN%" tokens. Subject
// names are matched case-insensitively against subjects.
func ParseInputs(args []string, subjects []string) (map[string]Input, error) {
	byLower := make(map[string]string, len(subjects))
	for _, s := range subjects {
		byLower[strings.ToLower(s)] = s
	}
	inputs := make(map[string]Input, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("%q: expected Subject=count or Subject=NN%%: %w", arg, ErrInvalidInput)
		}
		subject, ok := byLower[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%q: unknown subject: %w", name, ErrInvalidInput)
		}
		if percent, isPercent := strings.CutSuffix(value, "%"); isPercent {
			p, err := strconv.ParseFloat(percent, 64)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", arg, ErrInvalidInput)
			}
			inputs[subject] = Percent(p)
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", arg, ErrInvalidInput)
		}
		inputs[subject] = Count(n)
	}
	return inputs, nil
}
