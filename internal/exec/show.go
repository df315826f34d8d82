package exec

import (
	"fmt"

	"litedb/internal/ast"
	"litedb/internal/catalog"
	"litedb/internal/plan"
)

// ShowOp renders catalog introspection output for SHOW TABLES / SHOW
// COLUMNS, a read-only query over the catalog rather than a table's store.
// Each entry in Lines is already a fully formatted output line:
// "schema.name" for SHOW TABLES, "name\ttype" for SHOW COLUMNS.
type ShowOp struct {
	node *plan.ShowNode
	cat  *catalog.Catalog

	Lines []string
}

func NewShow(node *plan.ShowNode, cat *catalog.Catalog) *ShowOp {
	return &ShowOp{node: node, cat: cat}
}

func (s *ShowOp) Run() error {
	if s.node.Type == ast.ShowTables {
		return s.showTables()
	}
	return s.showColumns()
}

func (s *ShowOp) showTables() error {
	for _, t := range s.cat.AllTables() {
		if s.node.Schema != "" && t.Schema != s.node.Schema {
			continue
		}
		s.Lines = append(s.Lines, fmt.Sprintf("%s.%s", t.Schema, t.Name))
	}
	return nil
}

func (s *ShowOp) showColumns() error {
	table, ok := s.cat.GetTable(s.node.Schema, s.node.Table)
	if !ok {
		return catalog.ErrTableNotFound
	}
	for _, col := range table.Columns {
		s.Lines = append(s.Lines, fmt.Sprintf("%s\t%s", col.Name, columnTypeName(col)))
	}
	return nil
}

func columnTypeName(col ast.ColumnDef) string {
	switch col.Type {
	case ast.TypeInt:
		return "INT"
	case ast.TypeLong:
		return "LONG"
	case ast.TypeDouble:
		return "DOUBLE"
	case ast.TypeChar:
		return fmt.Sprintf("CHAR(%d)", col.Length)
	case ast.TypeVarchar:
		return fmt.Sprintf("VARCHAR(%d)", col.Length)
	default:
		return "UNKNOWN"
	}
}
