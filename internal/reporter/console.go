package reporter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"legacy-modernizer/internal/auditor"
	"legacy-modernizer/internal/model"
)

type ConsoleReporter struct {
	out io.Writer
}

func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReporter{out: out}
}

func (r *ConsoleReporter) Report(p *model.Portfolio) error {
	if len(p.Units) == 0 && len(p.Failures) == 0 {
		fmt.Fprintln(r.out, color.YellowString("No programs found in %s.", p.Source))
		return nil
	}

	for _, u := range p.Units {
		// Format: NAME (path): [RISK] complexity | audit
		fmt.Fprintf(r.out, "%s (%s): [%s] complexity %.2f | audit %d\n",
			color.New(color.Bold).Sprint(u.Fact.Name), u.Path, riskColor(u.Risk).Sprint(u.Risk),
			u.Fact.ComplexityScore, auditor.DisplayScore(u.Audit.ValidationScore))

		if len(u.Audit.MissingElements) > 0 {
			fmt.Fprintf(r.out, "\tMissing: %s\n", color.CyanString(strings.Join(u.Audit.MissingElements, ", ")))
		}
		if u.GenerationError != "" {
			fmt.Fprintf(r.out, "\tGeneration failed: %s\n", color.RedString(u.GenerationError))
		}
		for _, issue := range u.Issues {
			fmt.Fprintf(r.out, "\t%s: [%s] %s\n", issue.Location, levelColor(issue.Level).Sprint(issue.Level), issue.Message)
			if issue.Snippet != "" {
				fmt.Fprintf(r.out, "\t  Code: %s\n", color.CyanString(truncate(strings.Join(strings.Fields(issue.Snippet), " "), 80)))
			}
			if issue.Suggestion != "" {
				fmt.Fprintf(r.out, "\t  Suggestion: %s\n", issue.Suggestion)
			}
		}
	}
	fmt.Fprintln(r.out)

	if len(p.Units) > 0 {
		if err := r.table(p.Units); err != nil {
			return err
		}
	}

	for _, f := range p.Failures {
		fmt.Fprintf(r.out, "%s %s: %s\n", color.RedString("✘"), f.Path, f.Error)
	}

	s := p.Summary
	fmt.Fprintf(r.out, "\n%s %d programs, average complexity %.2f, conversion success %.1f%%, %d high risk.\n",
		color.GreenString("✔"), s.Programs, s.AverageComplexity, percent(s.AverageValidation), s.HighRiskPrograms)
	return nil
}

func (r *ConsoleReporter) table(units []model.Analysis) error {
	rows := make([][]string, 0, len(units))
	for _, u := range units {
		rows = append(rows, []string{
			u.Fact.Name,
			string(u.Risk),
			strconv.FormatFloat(u.Fact.ComplexityScore, 'f', 2, 64),
			strconv.Itoa(u.Fact.LogicPoints),
			strconv.Itoa(len(u.Fact.SQLBlocks)),
			strconv.Itoa(auditor.DisplayScore(u.Audit.ValidationScore)),
			strconv.FormatBool(u.Audit.SQLIntegrityOK),
		})
	}

	table := tablewriter.NewWriter(r.out)
	table.Header("Program", "Risk", "Complexity", "Logic", "SQL", "Audit", "SQL Integrity")
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func riskColor(l model.RiskLevel) *color.Color {
	switch l {
	case model.RiskHigh:
		return color.New(color.FgRed, color.Bold)
	case model.RiskMedium:
		return color.New(color.FgYellow, color.Bold)
	case model.RiskLow:
		return color.New(color.FgGreen, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}

func levelColor(l model.Severity) *color.Color {
	switch l {
	case model.SeverityFatal:
		return color.New(color.FgRed, color.Bold)
	case model.SeverityWarning:
		return color.New(color.FgYellow, color.Bold)
	case model.SeveritySuggestion:
		return color.New(color.FgBlue, color.Bold)
	default:
		return color.New(color.FgWhite)
	}
}
