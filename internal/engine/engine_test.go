package engine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"litedb/internal/config"
)

func newTestEngine() *Engine {
	return New(config.Defaults())
}

func TestRunSQLCreateInsertSelect(t *testing.T) {
	e := newTestEngine()

	_, err := e.RunSQL("CREATE TABLE db.accounts (id INT, balance DOUBLE);")
	require.NoError(t, err)

	_, err = e.RunSQL("INSERT INTO db.accounts VALUES (1, 10.5);")
	require.NoError(t, err)
	_, err = e.RunSQL("INSERT INTO db.accounts VALUES (2, 20.0);")
	require.NoError(t, err)

	results, err := e.RunSQL("SELECT * FROM db.accounts WHERE id = 2;")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Rows, 1)
	assert.Equal(t, []string{"2", "20"}, results[0].Rows[0])
}

func TestRunSQLUpdateRollbackRestoresOriginalValue(t *testing.T) {
	e := newTestEngine()
	_, err := e.RunSQL("CREATE TABLE db.accounts (id INT, balance DOUBLE);")
	require.NoError(t, err)
	_, err = e.RunSQL("INSERT INTO db.accounts VALUES (1, 10.5);")
	require.NoError(t, err)

	_, err = e.RunSQL("BEGIN;")
	require.NoError(t, err)
	_, err = e.RunSQL("UPDATE db.accounts SET balance = 0.0 WHERE id = 1;")
	require.NoError(t, err)
	_, err = e.RunSQL("ROLLBACK;")
	require.NoError(t, err)

	results, err := e.RunSQL("SELECT * FROM db.accounts WHERE id = 1;")
	require.NoError(t, err)
	assert.Equal(t, "10.5", results[0].Rows[0][1])
}

func TestRunSQLDeleteCommitFreesSlotForReuse(t *testing.T) {
	e := newTestEngine()
	_, err := e.RunSQL("CREATE TABLE db.t (id INT);")
	require.NoError(t, err)
	_, err = e.RunSQL("INSERT INTO db.t VALUES (1);")
	require.NoError(t, err)

	table, ok := e.Catalog.GetTable("db", "t")
	require.True(t, ok)
	deleted, ok := table.Store.SeqScan(nil)
	require.True(t, ok)

	_, err = e.RunSQL("BEGIN;")
	require.NoError(t, err)
	_, err = e.RunSQL("DELETE FROM db.t WHERE id = 1;")
	require.NoError(t, err)
	_, err = e.RunSQL("COMMIT;")
	require.NoError(t, err)

	results, err := e.RunSQL("SELECT * FROM db.t;")
	require.NoError(t, err)
	assert.Len(t, results[0].Rows, 0)

	_, err = e.RunSQL("INSERT INTO db.t VALUES (2);")
	require.NoError(t, err)
	reused, ok := table.Store.SeqScan(nil)
	require.True(t, ok)
	assert.Equal(t, deleted, reused, "the next insert must reuse the slot the committed delete freed")
}

func TestRunSQLDropSchemaRollbackReinstatesTable(t *testing.T) {
	e := newTestEngine()
	_, err := e.RunSQL("CREATE TABLE db.t (id INT);")
	require.NoError(t, err)
	_, err = e.RunSQL("INSERT INTO db.t VALUES (1);")
	require.NoError(t, err)

	_, err = e.RunSQL("BEGIN;")
	require.NoError(t, err)
	_, err = e.RunSQL("DROP SCHEMA db;")
	require.NoError(t, err)
	_, err = e.RunSQL("ROLLBACK;")
	require.NoError(t, err)

	results, err := e.RunSQL("SELECT * FROM db.t;")
	require.NoError(t, err)
	require.Len(t, results[0].Rows, 1)
}

func TestRunSQLCreateTableIfNotExistsSoftens(t *testing.T) {
	e := newTestEngine()
	_, err := e.RunSQL("CREATE TABLE db.t (id INT);")
	require.NoError(t, err)

	results, err := e.RunSQL("CREATE TABLE IF NOT EXISTS db.t (id INT);")
	require.NoError(t, err)
	require.Len(t, results[0].Messages, 1)

	_, err = e.RunSQL("CREATE TABLE db.t (id INT);")
	assert.Error(t, err, "without IF NOT EXISTS, re-creating the table is a fatal statement error")
}

func TestSessionReportsErrorWithoutHaltingTheLoop(t *testing.T) {
	e := newTestEngine()
	var out bytes.Buffer
	sess := NewSession(e, &out)

	in := "CREATE TABLE db.t (id INT);\nINSERT INTO db.t VALUES (1);\nSELECT * FROM db.missing;\nSELECT * FROM db.t;\n"
	require.NoError(t, sess.Run(bytes.NewBufferString(in)))

	output := out.String()
	assert.Contains(t, output, "[Error]")
	assert.Contains(t, output, "1")
}

func TestSessionExitTerminatesTheLoop(t *testing.T) {
	e := newTestEngine()
	var out bytes.Buffer
	sess := NewSession(e, &out)

	in := "CREATE TABLE db.t (id INT);\nexit\nSELECT * FROM db.t;\n"
	require.NoError(t, sess.Run(bytes.NewBufferString(in)))
	assert.NotContains(t, out.String(), "[Error]")
}

func TestRunUntilErrorHaltsAtTheFirstFatalStatement(t *testing.T) {
	e := newTestEngine()
	var out bytes.Buffer
	sess := NewSession(e, &out)

	in := "CREATE TABLE db.t (id INT);\nSELECT * FROM db.missing;\nINSERT INTO db.t VALUES (1);\n"
	err := sess.RunUntilError(bytes.NewBufferString(in))
	require.Error(t, err, "a statement error must abort exec-mode instead of being swallowed")

	results, runErr := e.RunSQL("SELECT * FROM db.t;")
	require.NoError(t, runErr)
	assert.Len(t, results[0].Rows, 0, "the statement after the failure must never have run")
}

func TestRunUntilErrorCompletesNormallyWhenNoStatementFails(t *testing.T) {
	e := newTestEngine()
	var out bytes.Buffer
	sess := NewSession(e, &out)

	in := "CREATE TABLE db.t (id INT);\nINSERT INTO db.t VALUES (1);\n"
	require.NoError(t, sess.RunUntilError(bytes.NewBufferString(in)))
}

func TestRunUntilErrorStopsScanningAtExit(t *testing.T) {
	e := newTestEngine()
	var out bytes.Buffer
	sess := NewSession(e, &out)

	in := "CREATE TABLE db.t (id INT);\nexit\nSELECT * FROM db.missing;\n"
	require.NoError(t, sess.RunUntilError(bytes.NewBufferString(in)))
}
