package auditor

import (
	"github.com/pingcap/tidb/parser/ast"

	"legacy-modernizer/internal/model"
)

func newIssue(block *model.SQLBlock, typ string, level model.Severity, msg, suggestion string) model.Issue {
	return model.Issue{
		Type:       typ,
		Level:      level,
		Message:    msg,
		Suggestion: suggestion,
		Snippet:    block.SQL,
		Location:   block.Location,
	}
}

// NoWhereRule flags UPDATE and DELETE statements that touch every row.
type NoWhereRule struct{}

func (r *NoWhereRule) Name() string { return "no_where_clause" }

func (r *NoWhereRule) Check(block *model.SQLBlock, node ast.StmtNode) ([]model.Issue, error) {
	var verb string
	switch stmt := node.(type) {
	case *ast.UpdateStmt:
		if stmt.Where != nil {
			return nil, nil
		}
		verb = "UPDATE"
	case *ast.DeleteStmt:
		if stmt.Where != nil {
			return nil, nil
		}
		verb = "DELETE"
	default:
		return nil, nil
	}

	return []model.Issue{newIssue(block, "UNSAFE_"+verb, model.SeverityFatal,
		verb+" without WHERE clause rewrites the whole table",
		"Confirm the batch intent and map it to an explicit bulk repository method.")}, nil
}

// SelectStarRule flags a SELECT * once per statement.
type SelectStarRule struct{}

func (r *SelectStarRule) Name() string { return "select_star" }

func (r *SelectStarRule) Check(block *model.SQLBlock, node ast.StmtNode) ([]model.Issue, error) {
	stmt, ok := node.(*ast.SelectStmt)
	if !ok || stmt.Fields == nil {
		return nil, nil
	}
	for _, field := range stmt.Fields.Fields {
		if field.WildCard == nil {
			continue
		}
		return []model.Issue{newIssue(block, "SELECT_STAR", model.SeveritySuggestion,
			"SELECT * cannot be mapped to a typed entity reliably",
			"List the columns explicitly so the generated record matches the host variables.")}, nil
	}
	return nil, nil
}
