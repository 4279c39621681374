// Package reporter renders a portfolio for people and machines.
package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"legacy-modernizer/internal/model"
)

// Formats lists the accepted --report values.
var Formats = []string{"console", "json", "markdown"}

// New returns the reporter for format writing to out (stdout when nil).
func New(format string, out io.Writer) (model.Reporter, error) {
	if out == nil {
		out = os.Stdout
	}
	switch strings.ToLower(format) {
	case "", "console":
		return NewConsoleReporter(out), nil
	case "json":
		return NewJSONReporter(out), nil
	case "markdown", "md":
		return NewMarkdownReporter(out), nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// percent clamps a validation score for display; stored scores keep their
// raw value.
func percent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// riskOrder is the display order for the risk distribution.
var riskOrder = append(append([]model.RiskLevel{}, model.RiskLevels...), model.RiskUnknown)

// truncate keeps the first max characters of s.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return s
}
