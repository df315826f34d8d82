package exec

import (
	"fmt"

	"litedb/internal/catalog"
	"litedb/internal/plan"
	"litedb/internal/txn"
)

// Result is the materialized outcome of running one plan tree: the
// projected rows (SELECT), the preformatted lines (SHOW), and the one-line
// status messages a caller prints, mirroring the session loop's console
// output.
type Result struct {
	Columns  []string
	Rows     [][]string
	Lines    []string
	Messages []string
}

// Execute walks node's child chain bottom-up to build the matching
// operator pipeline, runs the root operator, and collects its output —
// the Go counterpart of the original executor's generateOperator.
func Execute(node *plan.Node, cat *catalog.Catalog, log *txn.Log) (*Result, error) {
	msgs := &Messages{}

	switch node.Kind {
	case plan.Select:
		child, err := buildChain(node.Next)
		if err != nil {
			return nil, err
		}
		op := NewSelect(node.SelectNode, child, msgs)
		if err := op.Run(); err != nil {
			return nil, err
		}
		return &Result{Columns: node.SelectNode.OutColumns, Rows: op.Rows, Messages: msgs.Lines()}, nil

	case plan.Update:
		child, err := buildChain(node.Next)
		if err != nil {
			return nil, err
		}
		op := NewUpdate(node.UpdateNode, child, msgs)
		if err := op.Run(); err != nil {
			return nil, err
		}
		return &Result{Messages: msgs.Lines()}, nil

	case plan.Delete:
		child, err := buildChain(node.Next)
		if err != nil {
			return nil, err
		}
		op := NewDelete(node.DeleteNode, child, msgs)
		if err := op.Run(); err != nil {
			return nil, err
		}
		return &Result{Messages: msgs.Lines()}, nil

	case plan.Insert:
		op := NewInsert(node.InsertNode, msgs)
		if err := op.Run(); err != nil {
			return nil, err
		}
		return &Result{Messages: msgs.Lines()}, nil

	case plan.Create:
		op := NewCreate(node.CreateNode, cat, log, msgs)
		if err := op.Run(); err != nil {
			return nil, err
		}
		return &Result{Messages: msgs.Lines()}, nil

	case plan.Drop:
		op := NewDrop(node.DropNode, cat, log, msgs)
		if err := op.Run(); err != nil {
			return nil, err
		}
		return &Result{Messages: msgs.Lines()}, nil

	case plan.Trx:
		op := NewTrx(node.TrxNode, log, msgs)
		if err := op.Run(); err != nil {
			return nil, err
		}
		return &Result{Messages: msgs.Lines()}, nil

	case plan.Show:
		op := NewShow(node.ShowNode, cat)
		if err := op.Run(); err != nil {
			return nil, err
		}
		return &Result{Lines: op.Lines, Messages: msgs.Lines()}, nil

	default:
		return nil, fmt.Errorf("exec: unsupported plan node kind %v", node.Kind)
	}
}

// buildChain recursively constructs the pull chain for a Scan/Filter leaf
// sequence, child-first, matching the order the scan/filter operators must
// be linked in.
func buildChain(node *plan.Node) (Operator, error) {
	if node == nil {
		return nil, fmt.Errorf("exec: missing scan chain")
	}
	switch node.Kind {
	case plan.Scan:
		return NewSeqScan(node.ScanNode.Table), nil
	case plan.Filter:
		child, err := buildChain(node.Next)
		if err != nil {
			return nil, err
		}
		return NewFilter(node.FilterNode, child), nil
	default:
		return nil, fmt.Errorf("exec: unexpected node kind %v in scan chain", node.Kind)
	}
}
