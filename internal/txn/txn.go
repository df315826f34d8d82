// Package txn implements the session's undo log: a stack of before-images
// and catalog reversals that rolls back (or releases, on commit) every
// mutation performed since BEGIN. It is the one component that reaches
// into both internal/storage and internal/catalog, since a single
// transaction spans row and schema mutations alike.
package txn

import (
	"fmt"

	"litedb/internal/catalog"
	"litedb/internal/storage"
)

// ErrAlreadyInTransaction is returned by Begin when a transaction is
// already open.
var ErrAlreadyInTransaction = fmt.Errorf("txn: already in transaction")

// ErrNotInTransaction is returned by Commit/Rollback outside a
// transaction.
var ErrNotInTransaction = fmt.Errorf("txn: not in transaction")

type kind int

const (
	kindInsert kind = iota
	kindUpdate
	kindDelete
	kindCreateTable
	kindCreateIndex
	kindDropSchema
	kindDropTable
	kindDropIndex
)

// entry is one undo record. It is a tagged union in spirit: only the
// fields relevant to Kind are ever populated.
type entry struct {
	kind kind

	store *storage.Store
	slot  storage.SlotID
	// before is the update's before-image, or nil for other kinds.
	before []byte

	schema    string
	name      string
	indexName string
	index     *catalog.Index
	tables    []*catalog.Table
}

// Log is the per-session undo stack plus the open/closed transaction flag.
// It implements storage.Recorder so the store can push entries without
// depending on this package.
type Log struct {
	cat    *catalog.Catalog
	open   bool
	stack  []entry
}

// New returns a closed (no transaction open) undo log bound to cat.
func New(cat *catalog.Catalog) *Log {
	return &Log{cat: cat}
}

// InTransaction reports whether a transaction is currently open.
func (l *Log) InTransaction() bool { return l.open }

// Len reports the number of undo entries pushed since BEGIN — used by
// tests to check the "|undo_stack| equals operation count" invariant.
func (l *Log) Len() int { return len(l.stack) }

// Begin opens a new transaction.
func (l *Log) Begin() error {
	if l.open {
		return ErrAlreadyInTransaction
	}
	l.open = true
	return nil
}

// push appends an entry to the undo stack. Reserving a dropped name is done
// by the RecordDrop* callers, not here.
func (l *Log) push(e entry) {
	l.stack = append(l.stack, e)
}

// RecordInsert implements storage.Recorder.
func (l *Log) RecordInsert(store *storage.Store, id storage.SlotID) {
	l.push(entry{kind: kindInsert, store: store, slot: id})
}

// RecordDelete implements storage.Recorder.
func (l *Log) RecordDelete(store *storage.Store, id storage.SlotID) {
	l.push(entry{kind: kindDelete, store: store, slot: id})
}

// RecordUpdate implements storage.Recorder.
func (l *Log) RecordUpdate(store *storage.Store, id storage.SlotID, before []byte) {
	l.push(entry{kind: kindUpdate, store: store, slot: id, before: before})
}

// RecordCreateTable registers an undo entry for a just-created table.
func (l *Log) RecordCreateTable(schema, name string) {
	l.push(entry{kind: kindCreateTable, schema: schema, name: name})
}

// RecordCreateIndex registers an undo entry for a just-created index.
func (l *Log) RecordCreateIndex(schema, name, indexName string) {
	l.push(entry{kind: kindCreateIndex, schema: schema, name: name, indexName: indexName})
}

// RecordDropSchema registers an undo entry for a dropped schema's tables
// and marks each dropped (schema, name) pending so it cannot be
// re-created until commit or rollback resolves the transaction.
func (l *Log) RecordDropSchema(tables []*catalog.Table) {
	for _, t := range tables {
		l.cat.MarkPending(t.Schema, t.Name)
	}
	l.push(entry{kind: kindDropSchema, tables: tables})
}

// RecordDropTable registers an undo entry for one dropped table and
// reserves its name.
func (l *Log) RecordDropTable(t *catalog.Table) {
	l.cat.MarkPending(t.Schema, t.Name)
	l.push(entry{kind: kindDropTable, tables: []*catalog.Table{t}})
}

// RecordDropIndex registers an undo entry for a dropped index.
func (l *Log) RecordDropIndex(schema, name string, idx *catalog.Index) {
	l.push(entry{kind: kindDropIndex, schema: schema, name: name, index: idx})
}

// Rollback pops every entry in stack (LIFO) order and reverses it, then
// clears the transaction flag.
func (l *Log) Rollback() error {
	if !l.open {
		return ErrNotInTransaction
	}
	for i := len(l.stack) - 1; i >= 0; i-- {
		l.undo(l.stack[i])
	}
	l.stack = nil
	l.open = false
	return nil
}

func (l *Log) undo(e entry) {
	switch e.kind {
	case kindInsert:
		e.store.Arena.RemoveLive(e.slot)
		e.store.Arena.PushFree(e.slot)
	case kindDelete:
		e.store.Arena.RemoveFree(e.slot)
		e.store.Arena.AddLive(e.slot)
	case kindUpdate:
		e.store.RestorePayload(e.slot, e.before)
	case kindCreateTable:
		l.cat.DropTable(e.schema, e.name)
	case kindCreateIndex:
		l.cat.DropIndex(e.schema, e.name, e.indexName)
	case kindDropSchema, kindDropTable:
		for _, t := range e.tables {
			l.cat.ClearPending(t.Schema, t.Name)
			l.cat.InsertTable(t)
		}
	case kindDropIndex:
		l.cat.ReattachIndex(e.schema, e.name, e.index)
	}
}

// Commit pops every entry in stack order, running each entry's commit
// action (typically releasing the before-image or finalizing a deferred
// destroy), then clears the transaction flag.
func (l *Log) Commit() error {
	if !l.open {
		return ErrNotInTransaction
	}
	for i := len(l.stack) - 1; i >= 0; i-- {
		l.finalize(l.stack[i])
	}
	l.stack = nil
	l.open = false
	return nil
}

func (l *Log) finalize(e entry) {
	switch e.kind {
	case kindDelete:
		// The slot already sits on the free list; nothing further to do
		// since this engine has no manual memory to release.
	case kindDropSchema, kindDropTable:
		for _, t := range e.tables {
			l.cat.ClearPending(t.Schema, t.Name)
		}
	case kindDropIndex:
		// Index metadata is garbage-collected; no explicit release needed.
	}
}
