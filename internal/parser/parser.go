package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	_ "github.com/pingcap/tidb/parser/test_driver"
)

// SQLParser wraps the TiDB parser for COBOL embedded SQL.
// A *SQLParser is not safe for concurrent use; create one per goroutine.
type SQLParser struct {
	p *parser.Parser
}

func NewSQLParser() *SQLParser {
	return &SQLParser{
		p: parser.New(),
	}
}

var (
	// INTO :A, :B between the select list and FROM
	intoHostVars  = regexp.MustCompile(`(?is)\bINTO\s+:[\w-]+(?:\s*(?:,|INDICATOR)?\s*:[\w-]+)*`)
	hostVariable  = regexp.MustCompile(`:[A-Za-z][\w-]*`)
	declareCursor = regexp.MustCompile(`(?is)^\s*DECLARE\s+[\w-]+\s+CURSOR\s+(?:WITH\s+HOLD\s+)?FOR\s+`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// Prepare rewrites an EXEC SQL body into something a MySQL grammar accepts:
// cursor declarations are reduced to their SELECT, SELECT ... INTO host
// variable lists are dropped and remaining host variables become '?'.
func Prepare(block string) string {
	sql := declareCursor.ReplaceAllString(block, "")
	if isSelect(sql) {
		sql = intoHostVars.ReplaceAllString(sql, "")
	}
	sql = hostVariable.ReplaceAllString(sql, "?")
	sql = whitespace.ReplaceAllString(sql, " ")
	return strings.TrimSpace(sql)
}

func isSelect(sql string) bool {
	fields := strings.Fields(sql)
	return len(fields) > 0 && strings.EqualFold(fields[0], "SELECT")
}

// Parse converts an embedded SQL block into an AST
func (sp *SQLParser) Parse(block string) (ast.StmtNode, error) {
	sql := Prepare(block)
	if sql == "" {
		return nil, fmt.Errorf("no valid SQL found")
	}
	stmtNodes, _, err := sp.p.Parse(sql, "", "")
	if err != nil {
		return nil, err
	}
	if len(stmtNodes) == 0 {
		return nil, fmt.Errorf("no valid SQL found")
	}
	// For now, we return the first statement found
	return stmtNodes[0], nil
}

// StatementKind names the top-level statement type.
func StatementKind(node ast.StmtNode) string {
	switch node.(type) {
	case *ast.SelectStmt:
		return "SELECT"
	case *ast.InsertStmt:
		return "INSERT"
	case *ast.UpdateStmt:
		return "UPDATE"
	case *ast.DeleteStmt:
		return "DELETE"
	case *ast.CommitStmt:
		return "COMMIT"
	case *ast.RollbackStmt:
		return "ROLLBACK"
	default:
		return "OTHER"
	}
}
