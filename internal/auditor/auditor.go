package auditor

import (
	"fmt"

	"go.uber.org/zap"

	"legacy-modernizer/internal/logging"
	"legacy-modernizer/internal/model"
	"legacy-modernizer/internal/parser"
)

// SQLAuditor parses embedded SQL blocks and runs the registered rules on them.
type SQLAuditor struct {
	rules  []model.Rule
	parser *parser.SQLParser
	log    *zap.SugaredLogger
}

func NewSQLAuditor(p *parser.SQLParser, log *zap.SugaredLogger) *SQLAuditor {
	if p == nil {
		p = parser.NewSQLParser()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &SQLAuditor{
		rules:  make([]model.Rule, 0),
		parser: p,
		log:    log,
	}
}

func (a *SQLAuditor) Register(rule model.Rule) {
	a.rules = append(a.rules, rule)
}

// RegisterDefaults adds the built-in rule set.
func (a *SQLAuditor) RegisterDefaults() {
	a.Register(&NoWhereRule{})
	a.Register(&SelectStarRule{})
	a.Register(&NegativeQueryRule{})
}

// Review profiles every block and returns the rule findings. A block the
// grammar cannot read yields an SQL_UNPARSED suggestion and no rule runs on it.
func (a *SQLAuditor) Review(blocks []model.SQLBlock) ([]model.Issue, []model.SQLProfile) {
	var allIssues []model.Issue
	profiles := make([]model.SQLProfile, 0, len(blocks))

	for i := range blocks {
		block := &blocks[i]

		// 1. Parse SQL
		profile, stmt, err := a.parser.Profile(*block)
		profiles = append(profiles, profile)
		if err != nil {
			allIssues = append(allIssues, model.Issue{
				Type:       "SQL_UNPARSED",
				Level:      model.SeveritySuggestion,
				Message:    fmt.Sprintf("Embedded SQL block %d could not be parsed", block.Index),
				Suggestion: "Review this block by hand when translating.",
				Snippet:    block.SQL,
				Location:   block.Location,
			})
			continue
		}

		// 2. Run Rules
		for _, rule := range a.rules {
			issues, err := rule.Check(block, stmt)
			if err != nil {
				a.log.Warnw("sql rule failed", "rule", rule.Name(), "location", block.Location.String(), "error", err)
				continue
			}
			if len(issues) > 0 {
				allIssues = append(allIssues, issues...)
			}
		}
	}

	return allIssues, profiles
}
