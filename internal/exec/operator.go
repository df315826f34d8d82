// Package exec implements the pull-based physical operator pipeline:
// one operator per plan node, linked the way the plan tree linked them,
// driven by repeated Next() calls in the Volcano style.
package exec

import (
	"fmt"

	"litedb/internal/ast"
	"litedb/internal/storage"
)

// Row is one decoded tuple plus the identity of its backing slot, handed
// up the pipeline so Update/Delete can write back through the store.
type Row struct {
	Store *storage.Store
	Slot  storage.SlotID
	Cells []ast.Expr
}

// Operator is the single pull-based operation every physical operator
// exposes: advance and emit. Exhaustion is signalled by a nil *Row with a
// nil error; a non-nil error halts the whole pipeline.
type Operator interface {
	Next() (*Row, error)
}

// Messages collects the one-line `[Info]` outcomes a non-iterating or
// terminal operator reports, mirroring the original's console lines.
type Messages struct {
	lines []string
}

// Infof records one informational line.
func (m *Messages) Infof(format string, args ...any) {
	m.lines = append(m.lines, "[Info]  "+fmt.Sprintf(format, args...))
}

// Lines returns every message recorded so far.
func (m *Messages) Lines() []string { return m.lines }
