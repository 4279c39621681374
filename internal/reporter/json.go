package reporter

import (
	"encoding/json"
	"io"

	"legacy-modernizer/internal/model"
)

type JSONReporter struct {
	out io.Writer
}

func NewJSONReporter(out io.Writer) *JSONReporter {
	return &JSONReporter{out: out}
}

func (r *JSONReporter) Report(p *model.Portfolio) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
