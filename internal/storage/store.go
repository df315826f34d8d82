package storage

import "litedb/internal/ast"

// Recorder is notified of every row mutation so an open transaction can
// keep an undo log before the change becomes visible. The storage package
// never depends on the transaction package directly; internal/txn
// implements this interface and is wired in by the engine.
type Recorder interface {
	// RecordInsert must be called before the slot is linked into the data
	// list, so a rollback mid-insert still sees a consistent store.
	RecordInsert(store *Store, id SlotID)
	// RecordDelete must be called before the slot is moved to the free
	// list.
	RecordDelete(store *Store, id SlotID)
	// RecordUpdate must be called with a copy of the current payload,
	// before the columns are overwritten.
	RecordUpdate(store *Store, id SlotID, before []byte)
}

// Store owns one table's tuple arena and the schema layout needed to
// encode and decode its rows.
type Store struct {
	Arena    *Arena
	Layout   []ColumnLayout
	recorder Recorder
}

// NewStore builds a Store for a table whose columns are cols, in schema
// order; column offsets and the tuple size are fixed for the table's
// lifetime. groupSize overrides the arena's growth step when positive.
func NewStore(cols []ast.ColumnDef, groupSize int) *Store {
	layout, tupleSize := BuildLayout(cols)
	arena := NewArena(tupleSize)
	arena.SetGroupSize(groupSize)
	return &Store{
		Arena:  arena,
		Layout: layout,
	}
}

// SetRecorder attaches (or clears, with nil) the transaction recorder
// consulted on every mutation.
func (s *Store) SetRecorder(r Recorder) { s.recorder = r }

func (s *Store) inTransaction() bool { return s.recorder != nil }

// Insert acquires a free slot (growing the arena if necessary), links it
// at the head of the data list, encodes values in schema order by
// position, and registers an undo entry if a transaction is open.
func (s *Store) Insert(values []ast.Expr) (SlotID, error) {
	id, err := s.Arena.PopFree()
	if err != nil {
		return 0, err
	}

	payload := s.Arena.Payload(id)
	for i, v := range values {
		if i >= len(s.Layout) {
			break
		}
		if err := EncodeColumn(payload, i, s.Layout[i], v); err != nil {
			s.Arena.PushFree(id)
			return 0, err
		}
	}

	if s.inTransaction() {
		s.recorder.RecordInsert(s, id)
	}
	s.Arena.AddLive(id)

	return id, nil
}

// Delete unlinks the slot from the data list and pushes it onto the free
// list; the payload is left untouched. An undo entry is registered first
// if a transaction is open.
func (s *Store) Delete(id SlotID) {
	if s.inTransaction() {
		s.recorder.RecordDelete(s, id)
	}
	s.Arena.RemoveLive(id)
	s.Arena.PushFree(id)
}

// Update copies the current payload into a before-image for the undo log
// (if a transaction is open), then overwrites the named columns by
// position using the encoding rules in EncodeColumn.
func (s *Store) Update(id SlotID, idxs []int, values []ast.Expr) error {
	payload := s.Arena.Payload(id)

	if s.inTransaction() {
		before := make([]byte, len(payload))
		copy(before, payload)
		s.recorder.RecordUpdate(s, id, before)
	}

	for i, idx := range idxs {
		if idx < 0 || idx >= len(s.Layout) {
			continue
		}
		if err := EncodeColumn(payload, idx, s.Layout[idx], values[i]); err != nil {
			return err
		}
	}
	return nil
}

// RestorePayload overwrites a slot's payload bytes wholesale; used by the
// undo log to reverse an update on rollback. List membership is untouched
// since an update never moves a slot between lists.
func (s *Store) RestorePayload(id SlotID, before []byte) {
	copy(s.Arena.Payload(id), before)
}

// SeqScan returns the first live tuple when cur is nil, otherwise the
// successor of *cur, or (0, false) at the end of the data list.
func (s *Store) SeqScan(cur *SlotID) (SlotID, bool) {
	if cur == nil {
		return s.Arena.SeqScanHead()
	}
	return s.Arena.SeqScanNext(*cur)
}

// DecodeRow decodes every column of a tuple in schema order.
func (s *Store) DecodeRow(id SlotID) []ast.Expr {
	payload := s.Arena.Payload(id)
	row := make([]ast.Expr, len(s.Layout))
	for i, col := range s.Layout {
		row[i] = DecodeColumn(payload, i, col)
	}
	return row
}
