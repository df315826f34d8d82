package storage

import (
	"encoding/binary"
	"fmt"
	"math"

	"litedb/internal/ast"
)

// ColumnLayout is the precomputed, immutable-after-creation placement of
// one column within a tuple's payload region.
type ColumnLayout struct {
	Type     ast.ColumnType
	Length   int // CHAR/VARCHAR declared length, including the terminator byte
	Offset   int // byte offset within the payload region (after the null-bitmap)
	Size     int // encoded byte width of this column
	Nullable bool
}

// ColumnSize returns the encoded byte width for a column type/length:
// INT=4, LONG=8, DOUBLE=8, CHAR(L)=L, VARCHAR(L)=L.
func ColumnSize(t ast.ColumnType, length int) int {
	switch t {
	case ast.TypeInt:
		return 4
	case ast.TypeLong, ast.TypeDouble:
		return 8
	case ast.TypeChar, ast.TypeVarchar:
		return length
	default:
		return 0
	}
}

// BuildLayout computes offsets and the total payload size (null-bitmap +
// column region) for a schema's columns, in declared order.
func BuildLayout(cols []ast.ColumnDef) (layouts []ColumnLayout, tupleSize int) {
	n := len(cols)
	layouts = make([]ColumnLayout, n)
	offset := 0
	for i, c := range cols {
		size := ColumnSize(c.Type, c.Length)
		layouts[i] = ColumnLayout{
			Type:     c.Type,
			Length:   c.Length,
			Offset:   offset,
			Size:     size,
			Nullable: c.Nullable,
		}
		offset += size
	}
	// null-bitmap occupies the first n bytes of the payload, ahead of the
	// column region; shift every column offset past it.
	for i := range layouts {
		layouts[i].Offset += n
	}
	return layouts, n + offset
}

// isNull reports whether the null bit for column idx is set.
func isNull(payload []byte, idx int) bool {
	return payload[idx] != 0
}

func setNull(payload []byte, idx int, null bool) {
	if null {
		payload[idx] = 1
	} else {
		payload[idx] = 0
	}
}

// EncodeColumn writes one value into its column's region of payload,
// dispatching on the source expression's literal kind. An expression kind
// other than a literal leaves the column unchanged.
func EncodeColumn(payload []byte, idx int, col ColumnLayout, e ast.Expr) error {
	if e.Kind != ast.ExprLiteral {
		return nil
	}
	lit := e.Literal
	switch lit.Kind {
	case ast.LiteralNull:
		setNull(payload, idx, true)
		return nil
	case ast.LiteralInt:
		setNull(payload, idx, false)
		region := payload[col.Offset : col.Offset+col.Size]
		if col.Size == 4 {
			binary.LittleEndian.PutUint32(region, uint32(int32(lit.Ival)))
		} else {
			binary.LittleEndian.PutUint64(region, uint64(lit.Ival))
		}
		return nil
	case ast.LiteralFloat:
		setNull(payload, idx, false)
		region := payload[col.Offset : col.Offset+col.Size]
		if col.Size == 4 {
			binary.LittleEndian.PutUint32(region, math.Float32bits(float32(lit.Fval)))
		} else {
			binary.LittleEndian.PutUint64(region, math.Float64bits(lit.Fval))
		}
		return nil
	case ast.LiteralString:
		if len(lit.Sval) >= col.Length {
			return fmt.Errorf("storage: value %q overflows column of length %d", lit.Sval, col.Length)
		}
		setNull(payload, idx, false)
		region := payload[col.Offset : col.Offset+col.Size]
		clear(region)
		copy(region, lit.Sval)
		region[len(lit.Sval)] = 0
		return nil
	default:
		return nil
	}
}

// DecodeColumn reads one column's value back out of payload as an Expr
// literal.
func DecodeColumn(payload []byte, idx int, col ColumnLayout) ast.Expr {
	if isNull(payload, idx) {
		return ast.Expr{Kind: ast.ExprLiteral, Literal: ast.Literal{Kind: ast.LiteralNull}}
	}

	region := payload[col.Offset : col.Offset+col.Size]
	switch col.Type {
	case ast.TypeInt:
		v := int32(binary.LittleEndian.Uint32(region))
		return ast.Expr{Kind: ast.ExprLiteral, Literal: ast.Literal{Kind: ast.LiteralInt, Ival: int64(v)}}
	case ast.TypeLong:
		v := int64(binary.LittleEndian.Uint64(region))
		return ast.Expr{Kind: ast.ExprLiteral, Literal: ast.Literal{Kind: ast.LiteralInt, Ival: v}}
	case ast.TypeDouble:
		v := math.Float64frombits(binary.LittleEndian.Uint64(region))
		return ast.Expr{Kind: ast.ExprLiteral, Literal: ast.Literal{Kind: ast.LiteralFloat, Fval: v}}
	case ast.TypeChar, ast.TypeVarchar:
		buf := make([]byte, col.Length)
		copy(buf, region)
		s := string(buf)
		if nul := indexByte(s, 0); nul >= 0 {
			s = s[:nul]
		}
		return ast.Expr{Kind: ast.ExprLiteral, Literal: ast.Literal{Kind: ast.LiteralString, Sval: s}}
	default:
		return ast.Expr{Kind: ast.ExprLiteral, Literal: ast.Literal{Kind: ast.LiteralNull}}
	}
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
