package txn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"litedb/internal/ast"
	"litedb/internal/catalog"
)

func idColumn() []ast.ColumnDef {
	return []ast.ColumnDef{{Name: "id", Type: ast.TypeInt}}
}

func intLiteral(v int64) ast.Expr {
	return ast.Expr{Kind: ast.ExprLiteral, Literal: ast.Literal{Kind: ast.LiteralInt, Ival: v}}
}

func TestBeginTwiceIsAnError(t *testing.T) {
	cat := catalog.New(0, 0, 0)
	log := New(cat)
	require.NoError(t, log.Begin())
	assert.ErrorIs(t, log.Begin(), ErrAlreadyInTransaction)
}

func TestCommitOrRollbackOutsideTransactionIsAnError(t *testing.T) {
	cat := catalog.New(0, 0, 0)
	log := New(cat)
	assert.ErrorIs(t, log.Commit(), ErrNotInTransaction)
	assert.ErrorIs(t, log.Rollback(), ErrNotInTransaction)
}

func TestRollbackUndoesInsertDeleteUpdate(t *testing.T) {
	cat := catalog.New(0, 0, 0)
	log := New(cat)
	table, _ := cat.CreateTable("db", "t", idColumn())
	table.Store.SetRecorder(log)

	require.NoError(t, log.Begin())

	id, err := table.Store.Insert([]ast.Expr{intLiteral(1)})
	require.NoError(t, err)

	require.NoError(t, table.Store.Update(id, []int{0}, []ast.Expr{intLiteral(2)}))

	id2, err := table.Store.Insert([]ast.Expr{intLiteral(3)})
	require.NoError(t, err)
	table.Store.Delete(id2)

	require.Equal(t, 4, log.Len())
	require.NoError(t, log.Rollback())

	// after rollback the table must be empty again: the insert is undone,
	// and the insert-then-delete pair cancels out too.
	_, ok := table.Store.SeqScan(nil)
	assert.False(t, ok)
	assert.False(t, log.InTransaction())
}

func TestRollbackDeleteReinstatesRowInOriginalPosition(t *testing.T) {
	cat := catalog.New(0, 0, 0)
	log := New(cat)
	table, _ := cat.CreateTable("db", "t", idColumn())

	id, err := table.Store.Insert([]ast.Expr{intLiteral(1)})
	require.NoError(t, err)

	table.Store.SetRecorder(log)
	require.NoError(t, log.Begin())
	table.Store.Delete(id)
	require.NoError(t, log.Rollback())

	cur, ok := table.Store.SeqScan(nil)
	require.True(t, ok)
	assert.Equal(t, id, cur)
	assert.Equal(t, int64(1), table.Store.DecodeRow(cur)[0].Literal.Ival)
}

func TestCommitClearsUndoStackWithoutReversingMutations(t *testing.T) {
	cat := catalog.New(0, 0, 0)
	log := New(cat)
	table, _ := cat.CreateTable("db", "t", idColumn())
	table.Store.SetRecorder(log)

	require.NoError(t, log.Begin())
	_, err := table.Store.Insert([]ast.Expr{intLiteral(1)})
	require.NoError(t, err)
	require.NoError(t, log.Commit())

	assert.False(t, log.InTransaction())
	cur, ok := table.Store.SeqScan(nil)
	require.True(t, ok)
	assert.Equal(t, int64(1), table.Store.DecodeRow(cur)[0].Literal.Ival)
}

func TestRollbackDropSchemaReinstatesTablesAndClearsPending(t *testing.T) {
	cat := catalog.New(0, 0, 0)
	log := New(cat)
	_, _ = cat.CreateTable("db", "t", idColumn())

	require.NoError(t, log.Begin())
	tables, outcome := cat.DropSchema("db")
	require.Equal(t, catalog.Created, outcome)
	log.RecordDropSchema(tables)

	_, ok := cat.GetTable("db", "t")
	require.False(t, ok)

	require.NoError(t, log.Rollback())

	_, ok = cat.GetTable("db", "t")
	assert.True(t, ok, "rollback must reinstate every table the schema drop removed")

	// the name must be usable again, since ClearPending ran on rollback:
	// once the reinstated table is removed, the same name can be created.
	_, outcome = cat.DropTable("db", "t")
	require.Equal(t, catalog.Created, outcome)
	_, outcome = cat.CreateTable("db", "t", idColumn())
	assert.Equal(t, catalog.Created, outcome)
}
