package exec

import (
	"strconv"
	"strings"

	"litedb/internal/ast"
)

// formatLiteral renders one decoded cell value for the plain row table
// a SELECT prints.
func formatLiteral(l ast.Literal) string {
	switch l.Kind {
	case ast.LiteralNull:
		return "NULL"
	case ast.LiteralInt:
		return strconv.FormatInt(l.Ival, 10)
	case ast.LiteralFloat:
		return strconv.FormatFloat(l.Fval, 'g', -1, 64)
	case ast.LiteralString:
		return l.Sval
	default:
		return ""
	}
}

// FormatRows renders a SELECT's materialized rows as a simple row table:
// a header of column names, then one tab-separated line per row.
func FormatRows(cols []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(cols, "\t"))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}
