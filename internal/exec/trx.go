package exec

import (
	"litedb/internal/ast"
	"litedb/internal/plan"
	"litedb/internal/txn"
)

// TrxOp executes BEGIN/COMMIT/ROLLBACK against the session's undo log.
type TrxOp struct {
	node *plan.TrxNode
	log  *txn.Log
	msgs *Messages
}

func NewTrx(node *plan.TrxNode, log *txn.Log, msgs *Messages) *TrxOp {
	return &TrxOp{node: node, log: log, msgs: msgs}
}

func (t *TrxOp) Run() error {
	switch t.node.Command {
	case ast.TrxBegin:
		if err := t.log.Begin(); err != nil {
			return err
		}
		t.msgs.Infof("Transaction begins.")
	case ast.TrxCommit:
		if err := t.log.Commit(); err != nil {
			return err
		}
		t.msgs.Infof("Transaction commits.")
	case ast.TrxRollback:
		if err := t.log.Rollback(); err != nil {
			return err
		}
		t.msgs.Infof("Transaction rolls back.")
	}
	return nil
}
