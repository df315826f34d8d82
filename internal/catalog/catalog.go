// Package catalog provides the schema-qualified table directory: the
// (schema, name) -> Table map, column/index metadata, and the outcome-enum
// mutation helpers the executor's DDL operators call through.
package catalog

import (
	"fmt"

	"litedb/internal/ast"
	"litedb/internal/storage"
)

// Index is catalog metadata only; no acceleration structure is ever built
// or consulted during a scan.
type Index struct {
	Name    string
	Columns []string
}

// Table owns one table's schema and its row storage.
type Table struct {
	Schema  string
	Name    string
	Columns []ast.ColumnDef
	Indexes []*Index
	Store   *storage.Store
}

// Column looks up a column definition by name, or returns (zero, false).
func (t *Table) Column(name string) (ast.ColumnDef, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ast.ColumnDef{}, false
}

// ColumnIndex returns the declared position of a column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Index looks up an index by exact name equality.
func (t *Table) Index(name string) (*Index, bool) {
	for _, idx := range t.Indexes {
		if idx.Name == name {
			return idx, true
		}
	}
	return nil, false
}

func newTable(schema, name string, cols []ast.ColumnDef, groupSize int) *Table {
	return &Table{
		Schema:  schema,
		Name:    name,
		Columns: cols,
		Store:   storage.NewStore(cols, groupSize),
	}
}

type tableKey struct{ schema, name string }

// Outcome is the explicit result of a catalog mutation.
type Outcome int

const (
	Created Outcome = iota
	AlreadyExists
	NotFound
)

var (
	ErrTableNotFound  = fmt.Errorf("catalog: table not found")
	ErrTableExists    = fmt.Errorf("catalog: table already exists")
	ErrSchemaNotFound = fmt.Errorf("catalog: schema not found")
	ErrIndexExists    = fmt.Errorf("catalog: index already exists")
	ErrIndexNotFound  = fmt.Errorf("catalog: index not found")
	ErrPendingDrop    = fmt.Errorf("catalog: name reserved by a pending drop in the open transaction")
	ErrNameTooLong    = fmt.Errorf("catalog: name exceeds the configured length limit")
)

// Catalog maps (schema, name) to a Table. Lookup, insert, and erase are
// all constant-time map operations.
type Catalog struct {
	tables  map[tableKey]*Table
	pending map[tableKey]bool // names reserved by a drop still pending commit/rollback

	groupSize           int
	maxTableNameLength  int
	maxColumnNameLength int
}

// New returns an empty catalog. groupSize overrides each table's arena
// growth step; maxTableNameLength/maxColumnNameLength bound identifier
// length at CREATE TABLE time (zero disables the corresponding check).
func New(groupSize, maxTableNameLength, maxColumnNameLength int) *Catalog {
	return &Catalog{
		tables:              make(map[tableKey]*Table),
		pending:             make(map[tableKey]bool),
		groupSize:           groupSize,
		maxTableNameLength:  maxTableNameLength,
		maxColumnNameLength: maxColumnNameLength,
	}
}

// GetTable returns the table for (schema, name), or (nil, false).
func (c *Catalog) GetTable(schema, name string) (*Table, bool) {
	t, ok := c.tables[tableKey{schema, name}]
	return t, ok
}

// FindSchema reports whether any table carries the given schema string.
func (c *Catalog) FindSchema(schema string) bool {
	for k := range c.tables {
		if k.schema == schema {
			return true
		}
	}
	return false
}

// AllTables returns every table in the catalog, in unspecified order.
func (c *Catalog) AllTables() []*Table {
	out := make([]*Table, 0, len(c.tables))
	for _, t := range c.tables {
		out = append(out, t)
	}
	return out
}

// CreateTable builds and inserts a new table, or reports AlreadyExists if
// the (schema, name) is already taken — including by a drop that is still
// pending inside an open transaction.
func (c *Catalog) CreateTable(schema, name string, cols []ast.ColumnDef) (*Table, Outcome) {
	key := tableKey{schema, name}
	if _, ok := c.tables[key]; ok {
		return nil, AlreadyExists
	}
	if c.pending[key] {
		return nil, AlreadyExists
	}
	t := newTable(schema, name, cols, c.groupSize)
	c.tables[key] = t
	return t, Created
}

// CheckNameLengths validates a table name and its column names against the
// catalog's configured limits, or returns ErrNameTooLong.
func (c *Catalog) CheckNameLengths(table string, cols []ast.ColumnDef) error {
	if c.maxTableNameLength > 0 && len(table) > c.maxTableNameLength {
		return fmt.Errorf("%w: table %q", ErrNameTooLong, table)
	}
	if c.maxColumnNameLength > 0 {
		for _, col := range cols {
			if len(col.Name) > c.maxColumnNameLength {
				return fmt.Errorf("%w: column %q", ErrNameTooLong, col.Name)
			}
		}
	}
	return nil
}

// InsertTable re-inserts a previously removed table verbatim; used by undo
// rollback.
func (c *Catalog) InsertTable(t *Table) {
	c.tables[tableKey{t.Schema, t.Name}] = t
}

// DropTable removes a table from the catalog and returns it, or reports
// NotFound.
func (c *Catalog) DropTable(schema, name string) (*Table, Outcome) {
	key := tableKey{schema, name}
	t, ok := c.tables[key]
	if !ok {
		return nil, NotFound
	}
	delete(c.tables, key)
	return t, Created
}

// MarkPending reserves (schema, name) so a CREATE TABLE cannot race a
// still-open DROP TABLE/SCHEMA inside the same transaction.
func (c *Catalog) MarkPending(schema, name string) {
	c.pending[tableKey{schema, name}] = true
}

// ClearPending releases a reservation made by MarkPending, called on
// commit or rollback of the owning transaction.
func (c *Catalog) ClearPending(schema, name string) {
	delete(c.pending, tableKey{schema, name})
}

// DropSchema removes every table in schema and returns them, or reports
// NotFound if the schema has no tables.
func (c *Catalog) DropSchema(schema string) ([]*Table, Outcome) {
	var dropped []*Table
	for key, t := range c.tables {
		if key.schema == schema {
			dropped = append(dropped, t)
			delete(c.tables, key)
		}
	}
	if len(dropped) == 0 {
		return nil, NotFound
	}
	return dropped, Created
}

// CreateIndex attaches a new index to an existing table.
func (c *Catalog) CreateIndex(schema, name, indexName string, cols []string) Outcome {
	t, ok := c.GetTable(schema, name)
	if !ok {
		return NotFound
	}
	if _, exists := t.Index(indexName); exists {
		return AlreadyExists
	}
	t.Indexes = append(t.Indexes, &Index{Name: indexName, Columns: cols})
	return Created
}

// DropIndex removes an index from its table and returns it.
func (c *Catalog) DropIndex(schema, name, indexName string) (*Index, Outcome) {
	t, ok := c.GetTable(schema, name)
	if !ok {
		return nil, NotFound
	}
	for i, idx := range t.Indexes {
		if idx.Name == indexName {
			t.Indexes = append(t.Indexes[:i], t.Indexes[i+1:]...)
			return idx, Created
		}
	}
	return nil, NotFound
}

// ReattachIndex re-adds a previously dropped index to its table; used by
// undo rollback.
func (c *Catalog) ReattachIndex(schema, name string, idx *Index) {
	t, ok := c.GetTable(schema, name)
	if !ok {
		return
	}
	t.Indexes = append(t.Indexes, idx)
}
