package parser

import (
	"strings"

	"github.com/pingcap/tidb/parser/ast"

	"legacy-modernizer/internal/model"
)

// ExtractTableNames extracts the distinct table names a statement touches,
// in order of first appearance. Schema qualifiers are kept.
func ExtractTableNames(node ast.StmtNode) []string {
	var tables []string

	switch stmt := node.(type) {
	case *ast.SelectStmt:
		if stmt.From != nil {
			extractTableRefs(stmt.From.TableRefs, &tables)
		}
	case *ast.UpdateStmt:
		if stmt.TableRefs != nil && stmt.TableRefs.TableRefs != nil {
			extractTableRefs(stmt.TableRefs.TableRefs, &tables)
		}
	case *ast.DeleteStmt:
		if stmt.TableRefs != nil && stmt.TableRefs.TableRefs != nil {
			extractTableRefs(stmt.TableRefs.TableRefs, &tables)
		}
	case *ast.InsertStmt:
		if stmt.Table != nil {
			extractTableRefs(stmt.Table.TableRefs, &tables)
		}
	}

	return dedupe(tables)
}

func extractTableRefs(join *ast.Join, tables *[]string) {
	if join == nil {
		return
	}

	if join.Left != nil {
		extractTableSource(join.Left, tables)
	}
	if join.Right != nil {
		extractTableSource(join.Right, tables)
	}
}

func extractTableSource(r ast.ResultSetNode, tables *[]string) {
	switch src := r.(type) {
	case *ast.TableSource:
		if tn, ok := src.Source.(*ast.TableName); ok {
			name := tn.Name.O
			if tn.Schema.O != "" {
				name = tn.Schema.O + "." + name
			}
			*tables = append(*tables, strings.ToUpper(name))
		}
	case *ast.Join:
		extractTableRefs(src, tables)
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Profile parses a block and summarises it. Blocks the grammar rejects
// come back with kind UNPARSED and the error.
func (sp *SQLParser) Profile(block model.SQLBlock) (model.SQLProfile, ast.StmtNode, error) {
	node, err := sp.Parse(block.SQL)
	if err != nil {
		return model.SQLProfile{Index: block.Index, Kind: "UNPARSED"}, nil, err
	}
	return model.SQLProfile{
		Index:  block.Index,
		Kind:   StatementKind(node),
		Tables: ExtractTableNames(node),
	}, node, nil
}
