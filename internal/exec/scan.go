package exec

import (
	"litedb/internal/catalog"
	"litedb/internal/storage"
)

// SeqScanOperator reads live tuples from a table store's data list,
// one at a time, in forward order from the head.
type SeqScanOperator struct {
	table *catalog.Table

	started bool
	next    *storage.SlotID
	finish  bool
}

// NewSeqScan builds a sequential scan over table.
func NewSeqScan(table *catalog.Table) *SeqScanOperator {
	return &SeqScanOperator{table: table}
}

// Next returns the current candidate tuple and advances the
// next-candidate pointer, following a two-phase scheme: the first call
// seeds the cursor from the head, every call after that yields what the
// previous call already fetched as its successor.
func (s *SeqScanOperator) Next() (*Row, error) {
	if s.finish {
		return nil, nil
	}

	store := s.table.Store

	var cur storage.SlotID
	var ok bool
	if !s.started {
		cur, ok = store.SeqScan(nil)
		s.started = true
	} else if s.next != nil {
		cur, ok = *s.next, true
	} else {
		ok = false
	}

	if !ok {
		s.finish = true
		return nil, nil
	}

	row := &Row{Store: store, Slot: cur, Cells: store.DecodeRow(cur)}

	if succ, hasNext := store.SeqScan(&cur); hasNext {
		s.next = &succ
	} else {
		s.next = nil
		s.finish = true
	}

	return row, nil
}
