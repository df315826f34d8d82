package exec

import (
	"litedb/internal/ast"
	"litedb/internal/plan"
)

// FilterOperator pulls from its child until it is exhausted or a row
// matches a single equality predicate.
type FilterOperator struct {
	child Operator
	node  *plan.FilterNode
}

// NewFilter wraps child with a single column-equals-literal predicate.
func NewFilter(node *plan.FilterNode, child Operator) *FilterOperator {
	return &FilterOperator{child: child, node: node}
}

// Next pulls rows from the child until one matches or the child is
// exhausted.
func (f *FilterOperator) Next() (*Row, error) {
	for {
		row, err := f.child.Next()
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, nil
		}
		if matches(row.Cells[f.node.ColIdx].Literal, f.node.Value) {
			return row, nil
		}
	}
}

// matches compares two literals of the same kind for equality. Mismatched
// literal kinds never match. Float equality compares the two float64
// values directly rather than their bit patterns.
func matches(cell, target ast.Literal) bool {
	if cell.Kind != target.Kind {
		return false
	}
	switch cell.Kind {
	case ast.LiteralInt:
		return cell.Ival == target.Ival
	case ast.LiteralFloat:
		return cell.Fval == target.Fval
	case ast.LiteralString:
		return cell.Sval == target.Sval
	default:
		return false
	}
}
