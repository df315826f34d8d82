package exec

import "litedb/internal/plan"

// SelectOp pulls its child to exhaustion, accumulating decoded rows, then
// reports the projection; it produces no rows to a further parent — SELECT
// is always the root of its chain.
type SelectOp struct {
	node  *plan.SelectNode
	child Operator
	msgs  *Messages

	Rows [][]string // materialized projection, one row of formatted cells each
}

func NewSelect(node *plan.SelectNode, child Operator, msgs *Messages) *SelectOp {
	return &SelectOp{node: node, child: child, msgs: msgs}
}

// Run drives the pipeline to completion and materializes the projection.
func (s *SelectOp) Run() error {
	for {
		row, err := s.child.Next()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		cells := make([]string, len(s.node.ColIDs))
		for i, idx := range s.node.ColIDs {
			cells[i] = formatLiteral(row.Cells[idx].Literal)
		}
		s.Rows = append(s.Rows, cells)
	}
	s.msgs.Infof("%d row(s) selected.", len(s.Rows))
	return nil
}

// UpdateOp pulls each matching row from its child and writes the SET list
// through the store, counting successes.
type UpdateOp struct {
	node  *plan.UpdateNode
	child Operator
	msgs  *Messages
}

func NewUpdate(node *plan.UpdateNode, child Operator, msgs *Messages) *UpdateOp {
	return &UpdateOp{node: node, child: child, msgs: msgs}
}

func (u *UpdateOp) Run() error {
	count := 0
	for {
		row, err := u.child.Next()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		if err := row.Store.Update(row.Slot, u.node.Idxs, u.node.Values); err != nil {
			return err
		}
		count++
	}
	u.msgs.Infof("Update %d tuple successfully.", count)
	return nil
}

// DeleteOp pulls each matching row from its child and deletes it through
// the store, counting successes.
type DeleteOp struct {
	child Operator
	msgs  *Messages
}

func NewDelete(_ *plan.DeleteNode, child Operator, msgs *Messages) *DeleteOp {
	return &DeleteOp{child: child, msgs: msgs}
}

func (d *DeleteOp) Run() error {
	count := 0
	for {
		row, err := d.child.Next()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		row.Store.Delete(row.Slot)
		count++
	}
	d.msgs.Infof("Delete %d tuple successfully.", count)
	return nil
}

// InsertOp has no child; it pushes one literal row into the store.
type InsertOp struct {
	node *plan.InsertNode
	msgs *Messages
}

func NewInsert(node *plan.InsertNode, msgs *Messages) *InsertOp {
	return &InsertOp{node: node, msgs: msgs}
}

func (ins *InsertOp) Run() error {
	if _, err := ins.node.Table.Store.Insert(ins.node.Values); err != nil {
		return err
	}
	ins.msgs.Infof("Insert tuple successfully.")
	return nil
}
