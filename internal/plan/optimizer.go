package plan

import (
	"fmt"

	"litedb/internal/ast"
	"litedb/internal/catalog"
)

// Optimizer is a trivial structural translation from a parsed statement to
// a linear plan-tree chain, not a cost-based planner.
type Optimizer struct {
	Catalog *catalog.Catalog
}

// New returns an optimizer that resolves table/column references against
// cat.
func New(cat *catalog.Catalog) *Optimizer {
	return &Optimizer{Catalog: cat}
}

// Build compiles one parsed statement into its plan tree.
func (o *Optimizer) Build(stmt ast.Statement) (*Node, error) {
	switch stmt.Kind {
	case ast.KindSelect:
		return o.buildSelect(stmt.Select)
	case ast.KindInsert:
		return o.buildInsert(stmt.Insert)
	case ast.KindUpdate:
		return o.buildUpdate(stmt.Update)
	case ast.KindDelete:
		return o.buildDelete(stmt.Delete)
	case ast.KindCreate:
		return o.buildCreate(stmt.Create)
	case ast.KindDrop:
		return o.buildDrop(stmt.Drop)
	case ast.KindTrx:
		return &Node{Kind: Trx, TrxNode: &TrxNode{Command: stmt.Trx.Command}}, nil
	case ast.KindShow:
		return o.buildShow(stmt.Show)
	default:
		return nil, fmt.Errorf("plan: unsupported statement kind %v", stmt.Kind)
	}
}

func (o *Optimizer) resolveTable(schema, name string) (*catalog.Table, error) {
	t, ok := o.Catalog.GetTable(schema, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", catalog.ErrTableNotFound, schema, name)
	}
	return t, nil
}

// buildFilter resolves a WHERE clause to a (column position, literal)
// equality test, recognizing the column reference on either side.
func buildFilter(table *catalog.Table, where *ast.WhereClause) (*Node, error) {
	if where == nil {
		return nil, nil
	}

	col, val := where.Left, where.Right
	if col.Kind != ast.ExprColumnRef {
		col, val = where.Right, where.Left
	}
	if col.Kind != ast.ExprColumnRef {
		return nil, fmt.Errorf("plan: WHERE clause has no column reference")
	}

	idx := table.ColumnIndex(col.Column)
	if idx < 0 {
		return nil, fmt.Errorf("plan: unknown column %q in WHERE clause", col.Column)
	}

	return &Node{
		Kind:       Filter,
		FilterNode: &FilterNode{ColIdx: idx, Value: val.Literal},
	}, nil
}

func scanChain(table *catalog.Table, where *ast.WhereClause) (*Node, error) {
	scan := &Node{Kind: Scan, ScanNode: &ScanNode{Table: table}}

	filter, err := buildFilter(table, where)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return scan, nil
	}
	filter.Next = scan
	return filter, nil
}

func (o *Optimizer) buildSelect(stmt *ast.SelectStatement) (*Node, error) {
	table, err := o.resolveTable(stmt.From.Schema, stmt.From.Table)
	if err != nil {
		return nil, err
	}

	child, err := scanChain(table, stmt.Where)
	if err != nil {
		return nil, err
	}

	var outCols []string
	var colIDs []int
	for _, e := range stmt.SelectList {
		if e.Kind == ast.ExprStar {
			for i, c := range table.Columns {
				outCols = append(outCols, c.Name)
				colIDs = append(colIDs, i)
			}
			continue
		}
		idx := table.ColumnIndex(e.Column)
		if idx < 0 {
			return nil, fmt.Errorf("plan: unknown column %q in SELECT list", e.Column)
		}
		outCols = append(outCols, e.Column)
		colIDs = append(colIDs, idx)
	}

	return &Node{
		Kind: Select,
		Next: child,
		SelectNode: &SelectNode{
			Table:      table,
			OutColumns: outCols,
			ColIDs:     colIDs,
		},
	}, nil
}

func (o *Optimizer) buildInsert(stmt *ast.InsertStatement) (*Node, error) {
	table, err := o.resolveTable(stmt.Into.Schema, stmt.Into.Table)
	if err != nil {
		return nil, err
	}
	return &Node{
		Kind:       Insert,
		InsertNode: &InsertNode{Table: table, Values: stmt.Values},
	}, nil
}

func (o *Optimizer) buildUpdate(stmt *ast.UpdateStatement) (*Node, error) {
	table, err := o.resolveTable(stmt.Table.Schema, stmt.Table.Table)
	if err != nil {
		return nil, err
	}

	child, err := scanChain(table, stmt.Where)
	if err != nil {
		return nil, err
	}

	idxs := make([]int, 0, len(stmt.Set))
	values := make([]ast.Expr, 0, len(stmt.Set))
	for _, assign := range stmt.Set {
		idx := table.ColumnIndex(assign.Column)
		if idx < 0 {
			return nil, fmt.Errorf("plan: unknown column %q in SET clause", assign.Column)
		}
		idxs = append(idxs, idx)
		values = append(values, assign.Value)
	}

	return &Node{
		Kind: Update,
		Next: child,
		UpdateNode: &UpdateNode{
			Table:  table,
			Idxs:   idxs,
			Values: values,
		},
	}, nil
}

func (o *Optimizer) buildDelete(stmt *ast.DeleteStatement) (*Node, error) {
	table, err := o.resolveTable(stmt.From.Schema, stmt.From.Table)
	if err != nil {
		return nil, err
	}

	child, err := scanChain(table, stmt.Where)
	if err != nil {
		return nil, err
	}

	return &Node{
		Kind:       Delete,
		Next:       child,
		DeleteNode: &DeleteNode{Table: table},
	}, nil
}

func (o *Optimizer) buildCreate(stmt *ast.CreateStatement) (*Node, error) {
	if stmt.Type == ast.CreateIndex {
		table, err := o.resolveTable(stmt.Schema, stmt.Table)
		if err != nil {
			return nil, err
		}
		for _, col := range stmt.IndexColumns {
			if _, ok := table.Column(col); !ok {
				return nil, fmt.Errorf("plan: unknown column %q for index %s", col, stmt.IndexName)
			}
		}
	}
	return &Node{
		Kind: Create,
		CreateNode: &CreateNode{
			Type:         stmt.Type,
			IfNotExists:  stmt.IfNotExists,
			Schema:       stmt.Schema,
			Table:        stmt.Table,
			Columns:      stmt.Columns,
			IndexName:    stmt.IndexName,
			IndexColumns: stmt.IndexColumns,
		},
	}, nil
}

func (o *Optimizer) buildDrop(stmt *ast.DropStatement) (*Node, error) {
	return &Node{
		Kind: Drop,
		DropNode: &DropNode{
			Type:      stmt.Type,
			IfExists:  stmt.IfExists,
			Schema:    stmt.Schema,
			Table:     stmt.Table,
			IndexName: stmt.IndexName,
		},
	}, nil
}

func (o *Optimizer) buildShow(stmt *ast.ShowStatement) (*Node, error) {
	return &Node{
		Kind: Show,
		ShowNode: &ShowNode{
			Type:   stmt.Type,
			Schema: stmt.Schema,
			Table:  stmt.Table,
		},
	}, nil
}
