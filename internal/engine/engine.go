// Package engine ties the frontend, optimizer, and executor together into
// one session value. The catalog and the transaction log are fields of
// this value rather than package globals.
package engine

import (
	"fmt"

	"litedb/internal/catalog"
	"litedb/internal/config"
	"litedb/internal/exec"
	"litedb/internal/frontend"
	"litedb/internal/plan"
	"litedb/internal/txn"
)

// Engine is one session's complete state: the catalog, the undo log bound
// to it, and the frontend/optimizer used to compile incoming SQL text.
type Engine struct {
	Catalog   *catalog.Catalog
	Txn       *txn.Log
	frontend  *frontend.Frontend
	optimizer *plan.Optimizer
}

// New builds a fresh, empty engine using cfg's tunables.
func New(cfg config.Engine) *Engine {
	cat := catalog.New(cfg.Storage.TupleGroupSize, cfg.Validation.MaxTableNameLength, cfg.Validation.MaxColumnNameLength)
	log := txn.New(cat)
	return &Engine{
		Catalog:   cat,
		Txn:       log,
		frontend:  frontend.New(),
		optimizer: plan.New(cat),
	}
}

// RunSQL parses sql (which may hold several statements) and executes each
// one in order, stopping at the first error.
func (e *Engine) RunSQL(sql string) ([]*exec.Result, error) {
	stmts, err := e.frontend.Parse(sql)
	if err != nil {
		return nil, err
	}

	results := make([]*exec.Result, 0, len(stmts))
	for _, stmt := range stmts {
		node, err := e.optimizer.Build(stmt)
		if err != nil {
			return results, err
		}

		// A table's store needs the open transaction's recorder wired in
		// before the operator chain touches it, and cleared once the
		// statement that opened or closed the transaction has run.
		e.syncRecorders()

		res, err := exec.Execute(node, e.Catalog, e.Txn)
		if err != nil {
			return results, fmt.Errorf("engine: %w", err)
		}
		results = append(results, res)

		e.syncRecorders()
	}
	return results, nil
}

// syncRecorders attaches the transaction log as every table's mutation
// recorder while a transaction is open, and detaches it once the
// transaction has closed, so stores outside a transaction skip undo
// bookkeeping entirely.
func (e *Engine) syncRecorders() {
	for _, t := range e.Catalog.AllTables() {
		if e.Txn.InTransaction() {
			t.Store.SetRecorder(e.Txn)
		} else {
			t.Store.SetRecorder(nil)
		}
	}
}
