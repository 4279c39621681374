package auditor

import (
	"strings"

	"github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/opcode"
	"github.com/pingcap/tidb/parser/test_driver"

	"legacy-modernizer/internal/model"
)

// NegativeQueryRule flags predicates a derived repository query cannot
// serve from an index: NOT IN, <> and LIKE with a leading wildcard.
type NegativeQueryRule struct{}

func (r *NegativeQueryRule) Name() string { return "negative_query" }

func (r *NegativeQueryRule) Check(block *model.SQLBlock, node ast.StmtNode) ([]model.Issue, error) {
	v := &negativeVisitor{block: block}
	node.Accept(v)
	return v.issues, nil
}

type negativeVisitor struct {
	block  *model.SQLBlock
	issues []model.Issue
}

func (v *negativeVisitor) add(typ, msg, suggestion string) {
	v.issues = append(v.issues, newIssue(v.block, typ, model.SeverityWarning, msg, suggestion))
}

func (v *negativeVisitor) Enter(in ast.Node) (ast.Node, bool) {
	switch expr := in.(type) {
	case *ast.PatternInExpr:
		if expr.Not {
			v.add("NEGATIVE_QUERY", "NOT IN predicate in embedded SQL",
				"Use NOT EXISTS in the derived repository query.")
		}
	case *ast.BinaryOperationExpr:
		if expr.Op == opcode.NE {
			v.add("NEGATIVE_QUERY", "<> predicate in embedded SQL",
				"A negative comparison usually scans; consider an explicit status list.")
		}
	case *ast.PatternLikeOrIlikeExpr:
		if lit, ok := expr.Pattern.(*test_driver.ValueExpr); ok && strings.HasPrefix(lit.GetString(), "%") {
			v.add("LEADING_WILDCARD", "LIKE pattern starts with a wildcard",
				"Map the search to a full-text or suffix index instead of a LIKE query.")
		}
	}
	return in, false
}

func (v *negativeVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}
