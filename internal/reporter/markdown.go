package reporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"legacy-modernizer/internal/auditor"
	"legacy-modernizer/internal/model"
)

// MarkdownReporter writes the executive modernization summary.
type MarkdownReporter struct {
	out io.Writer
}

func NewMarkdownReporter(out io.Writer) *MarkdownReporter {
	return &MarkdownReporter{out: out}
}

func (r *MarkdownReporter) Report(p *model.Portfolio) error {
	s := p.Summary
	var b strings.Builder

	b.WriteString("# EXECUTIVE MODERNIZATION REPORT\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", p.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "**Run:** %s\n\n", p.RunID)

	b.WriteString("## 1. Portfolio Overview\n")
	fmt.Fprintf(&b, "- **Total Programs Analyzed:** %d\n", s.Programs)
	fmt.Fprintf(&b, "- **Average Complexity Score:** %.2f\n", s.AverageComplexity)
	fmt.Fprintf(&b, "- **Conversion Success Rate:** %.1f%%\n", percent(s.AverageValidation))
	fmt.Fprintf(&b, "- **Embedded SQL Blocks:** %d\n", s.SQLBlocks)
	fmt.Fprintf(&b, "- **Decision Points:** %d\n\n", s.TotalLogicPoints)

	b.WriteString("## 2. Risk Distribution\n")
	b.WriteString("| Risk | Programs |\n|---|---|\n")
	for _, level := range riskOrder {
		if n := s.RiskDistribution[level]; n > 0 {
			fmt.Fprintf(&b, "| %s | %d |\n", level, n)
		}
	}
	b.WriteString("\n")

	b.WriteString("## 3. Technical Recommendations\n")
	fmt.Fprintf(&b, "- High-risk programs identified: %d.\n", s.HighRiskPrograms)
	fmt.Fprintf(&b, "- Audits passed without missing elements: %d of %d.\n", s.PassedAudits, s.Programs)
	fmt.Fprintf(&b, "- Automated Refactoring Confidence is **%.1f%%**.\n\n", percent(s.AverageValidation))

	if len(p.Units) > 0 {
		b.WriteString("## 4. Program Detail\n")
		b.WriteString("| Program | Risk | Complexity | Logic Points | SQL | Validation | Missing |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, u := range p.Units {
			fmt.Fprintf(&b, "| %s | %s | %.2f | %d | %d | %d | %s |\n",
				u.Fact.Name, u.Risk, u.Fact.ComplexityScore, u.Fact.LogicPoints, len(u.Fact.SQLBlocks),
				auditor.DisplayScore(u.Audit.ValidationScore), strings.Join(u.Audit.MissingElements, ", "))
		}
		b.WriteString("\n")
	}

	if len(p.Failures) > 0 {
		b.WriteString("## 5. Unreadable Sources\n")
		for _, f := range p.Failures {
			fmt.Fprintf(&b, "- `%s`: %s\n", f.Path, f.Error)
		}
	}

	_, err := io.WriteString(r.out, b.String())
	return err
}
