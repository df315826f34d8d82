package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"litedb/internal/ast"
)

func sampleColumns() []ast.ColumnDef {
	return []ast.ColumnDef{
		{Name: "id", Type: ast.TypeInt, Nullable: false},
		{Name: "balance", Type: ast.TypeDouble, Nullable: true},
		{Name: "name", Type: ast.TypeVarchar, Length: 8, Nullable: true},
	}
}

func TestBuildLayoutOffsetsFollowNullBitmap(t *testing.T) {
	layout, tupleSize := BuildLayout(sampleColumns())
	require.Len(t, layout, 3)

	// the null-bitmap occupies the first len(cols) bytes.
	assert.Equal(t, 3, layout[0].Offset)
	assert.Equal(t, 4, layout[0].Size)
	assert.Equal(t, 7, layout[1].Offset)
	assert.Equal(t, 8, layout[1].Size)
	assert.Equal(t, 15, layout[2].Offset)
	assert.Equal(t, 8, layout[2].Size)

	assert.Equal(t, 3+4+8+8, tupleSize)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	layout, tupleSize := BuildLayout(sampleColumns())
	payload := make([]byte, tupleSize)

	require.NoError(t, EncodeColumn(payload, 0, layout[0], ast.Expr{Kind: ast.ExprLiteral, Literal: ast.Literal{Kind: ast.LiteralInt, Ival: 42}}))
	require.NoError(t, EncodeColumn(payload, 1, layout[1], ast.Expr{Kind: ast.ExprLiteral, Literal: ast.Literal{Kind: ast.LiteralFloat, Fval: 3.5}}))
	require.NoError(t, EncodeColumn(payload, 2, layout[2], ast.Expr{Kind: ast.ExprLiteral, Literal: ast.Literal{Kind: ast.LiteralString, Sval: "ab"}}))

	got0 := DecodeColumn(payload, 0, layout[0])
	assert.Equal(t, int64(42), got0.Literal.Ival)

	got1 := DecodeColumn(payload, 1, layout[1])
	assert.Equal(t, 3.5, got1.Literal.Fval)

	got2 := DecodeColumn(payload, 2, layout[2])
	assert.Equal(t, "ab", got2.Literal.Sval)
}

func TestEncodeColumnRejectsStringAtOrOverLength(t *testing.T) {
	layout, tupleSize := BuildLayout(sampleColumns())
	payload := make([]byte, tupleSize)

	// column length is 8; a value of exactly 8 bytes leaves no room for the
	// terminator and must be rejected, not silently truncated.
	err := EncodeColumn(payload, 2, layout[2], ast.Expr{Kind: ast.ExprLiteral, Literal: ast.Literal{Kind: ast.LiteralString, Sval: "abcdefgh"}})
	assert.Error(t, err)
}

func TestEncodeColumnNullLeavesPayloadUntouched(t *testing.T) {
	layout, tupleSize := BuildLayout(sampleColumns())
	payload := make([]byte, tupleSize)
	for i := range payload {
		payload[i] = 0xFF
	}
	// reset bitmap bytes only, to isolate the column region check below.
	payload[0], payload[1], payload[2] = 0, 0, 0

	require.NoError(t, EncodeColumn(payload, 1, layout[1], ast.Expr{Kind: ast.ExprLiteral, Literal: ast.Literal{Kind: ast.LiteralNull}}))

	assert.True(t, isNull(payload, 1))
	region := payload[layout[1].Offset : layout[1].Offset+layout[1].Size]
	for _, b := range region {
		assert.Equal(t, byte(0xFF), b, "null encode must not touch the column's payload bytes")
	}
}
