// Package frontend wraps a real SQL parser and translates its AST into the
// engine's own narrow statement contract (internal/ast). The engine never
// sees a token or a grammar rule; this is the one place that does.
package frontend

import (
	"fmt"
	"strconv"

	"github.com/pingcap/tidb/pkg/parser"
	tiast "github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/mysql"
	"github.com/pingcap/tidb/pkg/parser/opcode"
	driver "github.com/pingcap/tidb/pkg/parser/test_driver"
	datum "github.com/pingcap/tidb/pkg/parser/types"

	"litedb/internal/ast"
)

// Frontend parses SQL text into the engine's statement contract.
type Frontend struct {
	p *parser.Parser
}

// New returns a Frontend backed by a fresh tidb parser instance.
func New() *Frontend {
	return &Frontend{p: parser.New()}
}

// Parse splits sql on statement boundaries and translates each one.
func (f *Frontend) Parse(sql string) ([]ast.Statement, error) {
	stmtNodes, _, err := f.p.Parse(sql, "", "")
	if err != nil {
		return nil, fmt.Errorf("frontend: parse error: %w", err)
	}

	stmts := make([]ast.Statement, 0, len(stmtNodes))
	for _, node := range stmtNodes {
		s, err := translate(node)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func translate(node tiast.StmtNode) (ast.Statement, error) {
	switch n := node.(type) {
	case *tiast.CreateTableStmt:
		return translateCreateTable(n)
	case *tiast.CreateIndexStmt:
		return translateCreateIndex(n)
	case *tiast.DropTableStmt:
		return translateDropTable(n)
	case *tiast.DropDatabaseStmt:
		return translateDropSchema(n)
	case *tiast.DropIndexStmt:
		return translateDropIndex(n)
	case *tiast.InsertStmt:
		return translateInsert(n)
	case *tiast.SelectStmt:
		return translateSelect(n)
	case *tiast.UpdateStmt:
		return translateUpdate(n)
	case *tiast.DeleteStmt:
		return translateDelete(n)
	case *tiast.BeginStmt:
		return ast.Statement{Kind: ast.KindTrx, Trx: &ast.TrxStatement{Command: ast.TrxBegin}}, nil
	case *tiast.CommitStmt:
		return ast.Statement{Kind: ast.KindTrx, Trx: &ast.TrxStatement{Command: ast.TrxCommit}}, nil
	case *tiast.RollbackStmt:
		return ast.Statement{Kind: ast.KindTrx, Trx: &ast.TrxStatement{Command: ast.TrxRollback}}, nil
	case *tiast.ShowStmt:
		return translateShow(n)
	default:
		return ast.Statement{}, fmt.Errorf("frontend: unsupported statement %T", node)
	}
}

func translateCreateTable(n *tiast.CreateTableStmt) (ast.Statement, error) {
	cols := make([]ast.ColumnDef, 0, len(n.Cols))
	for _, c := range n.Cols {
		col, err := translateColumnDef(c)
		if err != nil {
			return ast.Statement{}, err
		}
		cols = append(cols, col)
	}
	return ast.Statement{
		Kind: ast.KindCreate,
		Create: &ast.CreateStatement{
			Type:        ast.CreateTable,
			IfNotExists: n.IfNotExists,
			Schema:      n.Table.Schema.O,
			Table:       n.Table.Name.O,
			Columns:     cols,
		},
	}, nil
}

func translateColumnDef(c *tiast.ColumnDef) (ast.ColumnDef, error) {
	col := ast.ColumnDef{Name: c.Name.Name.O, Nullable: true}

	switch c.Tp.GetType() {
	case mysql.TypeLong, mysql.TypeInt24, mysql.TypeShort, mysql.TypeTiny:
		col.Type = ast.TypeInt
	case mysql.TypeLonglong:
		col.Type = ast.TypeLong
	case mysql.TypeDouble, mysql.TypeFloat, mysql.TypeNewDecimal:
		col.Type = ast.TypeDouble
	case mysql.TypeString:
		col.Type = ast.TypeChar
		col.Length = c.Tp.GetFlen()
	case mysql.TypeVarchar, mysql.TypeVarString:
		col.Type = ast.TypeVarchar
		col.Length = c.Tp.GetFlen()
	default:
		return ast.ColumnDef{}, fmt.Errorf("frontend: unsupported column type for %q", col.Name)
	}

	for _, opt := range c.Options {
		switch opt.Tp {
		case tiast.ColumnOptionNotNull:
			col.Nullable = false
		case tiast.ColumnOptionNull:
			col.Nullable = true
		}
	}
	return col, nil
}

func translateCreateIndex(n *tiast.CreateIndexStmt) (ast.Statement, error) {
	cols := make([]string, 0, len(n.IndexPartSpecifications))
	for _, spec := range n.IndexPartSpecifications {
		if spec.Column != nil {
			cols = append(cols, spec.Column.Name.O)
		}
	}
	return ast.Statement{
		Kind: ast.KindCreate,
		Create: &ast.CreateStatement{
			Type:         ast.CreateIndex,
			IfNotExists:  n.IfNotExists,
			Schema:       n.Table.Schema.O,
			Table:        n.Table.Name.O,
			IndexName:    n.IndexName,
			IndexColumns: cols,
		},
	}, nil
}

func translateDropTable(n *tiast.DropTableStmt) (ast.Statement, error) {
	if len(n.Tables) != 1 {
		return ast.Statement{}, fmt.Errorf("frontend: DROP TABLE supports exactly one table at a time")
	}
	t := n.Tables[0]
	return ast.Statement{
		Kind: ast.KindDrop,
		Drop: &ast.DropStatement{
			Type:     ast.DropTableKind,
			IfExists: n.IfExists,
			Schema:   t.Schema.O,
			Table:    t.Name.O,
		},
	}, nil
}

func translateDropSchema(n *tiast.DropDatabaseStmt) (ast.Statement, error) {
	return ast.Statement{
		Kind: ast.KindDrop,
		Drop: &ast.DropStatement{
			Type:     ast.DropSchemaKind,
			IfExists: n.IfExists,
			Schema:   n.Name.O,
		},
	}, nil
}

func translateDropIndex(n *tiast.DropIndexStmt) (ast.Statement, error) {
	return ast.Statement{
		Kind: ast.KindDrop,
		Drop: &ast.DropStatement{
			Type:      ast.DropIndexKind,
			IfExists:  n.IfExists,
			Schema:    n.Table.Schema.O,
			Table:     n.Table.Name.O,
			IndexName: n.IndexName,
		},
	}, nil
}

func translateInsert(n *tiast.InsertStmt) (ast.Statement, error) {
	ref, err := tableRefFrom(n.Table)
	if err != nil {
		return ast.Statement{}, err
	}
	if len(n.Lists) != 1 {
		return ast.Statement{}, fmt.Errorf("frontend: INSERT supports exactly one VALUES row at a time")
	}
	values := make([]ast.Expr, 0, len(n.Lists[0]))
	for _, e := range n.Lists[0] {
		values = append(values, translateExpr(e))
	}
	return ast.Statement{
		Kind:   ast.KindInsert,
		Insert: &ast.InsertStatement{Into: ref, Values: values},
	}, nil
}

func translateSelect(n *tiast.SelectStmt) (ast.Statement, error) {
	ref, err := tableRefFrom(n.From)
	if err != nil {
		return ast.Statement{}, err
	}

	list := make([]ast.Expr, 0, len(n.Fields.Fields))
	for _, f := range n.Fields.Fields {
		if f.WildCard != nil {
			list = append(list, ast.Expr{Kind: ast.ExprStar})
			continue
		}
		list = append(list, translateExpr(f.Expr))
	}

	where, err := translateWhere(n.Where)
	if err != nil {
		return ast.Statement{}, err
	}

	return ast.Statement{
		Kind: ast.KindSelect,
		Select: &ast.SelectStatement{
			From:       ref,
			SelectList: list,
			Where:      where,
		},
	}, nil
}

func translateUpdate(n *tiast.UpdateStmt) (ast.Statement, error) {
	ref, err := tableRefFrom(n.TableRefs)
	if err != nil {
		return ast.Statement{}, err
	}

	set := make([]ast.Assignment, 0, len(n.List))
	for _, a := range n.List {
		set = append(set, ast.Assignment{
			Column: a.Column.Name.O,
			Value:  translateExpr(a.Expr),
		})
	}

	where, err := translateWhere(n.Where)
	if err != nil {
		return ast.Statement{}, err
	}

	return ast.Statement{
		Kind:   ast.KindUpdate,
		Update: &ast.UpdateStatement{Table: ref, Set: set, Where: where},
	}, nil
}

func translateDelete(n *tiast.DeleteStmt) (ast.Statement, error) {
	ref, err := tableRefFrom(n.TableRefs)
	if err != nil {
		return ast.Statement{}, err
	}

	where, err := translateWhere(n.Where)
	if err != nil {
		return ast.Statement{}, err
	}

	return ast.Statement{
		Kind:   ast.KindDelete,
		Delete: &ast.DeleteStatement{From: ref, Where: where},
	}, nil
}

func translateShow(n *tiast.ShowStmt) (ast.Statement, error) {
	switch n.Tp {
	case tiast.ShowTables:
		return ast.Statement{
			Kind: ast.KindShow,
			Show: &ast.ShowStatement{Type: ast.ShowTables, Schema: n.DBName},
		}, nil
	case tiast.ShowColumns:
		schema, table := n.DBName, ""
		if n.Table != nil {
			if schema == "" {
				schema = n.Table.Schema.O
			}
			table = n.Table.Name.O
		}
		return ast.Statement{
			Kind: ast.KindShow,
			Show: &ast.ShowStatement{Type: ast.ShowColumns, Schema: schema, Table: table},
		}, nil
	default:
		return ast.Statement{}, fmt.Errorf("frontend: unsupported SHOW statement")
	}
}

// tableRefFrom extracts the single base table named by a FROM clause; join
// clauses are rejected since the engine never plans a join.
func tableRefFrom(refs *tiast.TableRefsClause) (ast.TableRef, error) {
	join, ok := refs.TableRefs.Left.(*tiast.TableSource)
	if !ok {
		return ast.TableRef{}, fmt.Errorf("frontend: only a single base table is supported in FROM")
	}
	tn, ok := join.Source.(*tiast.TableName)
	if !ok {
		return ast.TableRef{}, fmt.Errorf("frontend: FROM must name a table directly")
	}
	if refs.TableRefs.Right != nil {
		return ast.TableRef{}, fmt.Errorf("frontend: joins are not supported")
	}
	return ast.TableRef{Schema: tn.Schema.O, Table: tn.Name.O}, nil
}

// translateWhere reduces a WHERE clause to the single equality predicate
// the engine understands; anything richer is rejected.
func translateWhere(expr tiast.ExprNode) (*ast.WhereClause, error) {
	if expr == nil {
		return nil, nil
	}
	bin, ok := expr.(*tiast.BinaryOperationExpr)
	if !ok || bin.Op != opcode.EQ {
		return nil, fmt.Errorf("frontend: WHERE must be a single equality predicate")
	}
	return &ast.WhereClause{
		Left:  translateExpr(bin.L),
		Right: translateExpr(bin.R),
	}, nil
}

func translateExpr(expr tiast.ExprNode) ast.Expr {
	switch e := expr.(type) {
	case *tiast.ColumnNameExpr:
		return ast.Expr{Kind: ast.ExprColumnRef, Column: e.Name.Name.O}
	case *driver.ValueExpr:
		return ast.Expr{Kind: ast.ExprLiteral, Literal: translateLiteral(e)}
	default:
		return ast.Expr{Kind: ast.ExprOther}
	}
}

func translateLiteral(v *driver.ValueExpr) ast.Literal {
	switch v.Kind() {
	case datum.KindNull:
		return ast.Literal{Kind: ast.LiteralNull}
	case datum.KindInt64:
		return ast.Literal{Kind: ast.LiteralInt, Ival: v.GetInt64()}
	case datum.KindUint64:
		return ast.Literal{Kind: ast.LiteralInt, Ival: int64(v.GetUint64())}
	case datum.KindFloat32:
		return ast.Literal{Kind: ast.LiteralFloat, Fval: float64(v.GetFloat32())}
	case datum.KindFloat64:
		return ast.Literal{Kind: ast.LiteralFloat, Fval: v.GetFloat64()}
	case datum.KindMysqlDecimal:
		// A plain fractional literal such as 10.5 parses as a decimal.
		f, _ := strconv.ParseFloat(v.GetMysqlDecimal().String(), 64)
		return ast.Literal{Kind: ast.LiteralFloat, Fval: f}
	case datum.KindString, datum.KindBytes:
		return ast.Literal{Kind: ast.LiteralString, Sval: v.GetString()}
	default:
		return ast.Literal{Kind: ast.LiteralString, Sval: v.GetString()}
	}
}
