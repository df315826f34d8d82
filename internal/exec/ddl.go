package exec

import (
	"litedb/internal/ast"
	"litedb/internal/catalog"
	"litedb/internal/plan"
	"litedb/internal/txn"
)

// CreateOp consults and mutates the catalog for CREATE TABLE/INDEX,
// registering an undo entry when a transaction is open.
type CreateOp struct {
	node *plan.CreateNode
	cat  *catalog.Catalog
	log  *txn.Log
	msgs *Messages
}

func NewCreate(node *plan.CreateNode, cat *catalog.Catalog, log *txn.Log, msgs *Messages) *CreateOp {
	return &CreateOp{node: node, cat: cat, log: log, msgs: msgs}
}

func (c *CreateOp) Run() error {
	if c.node.Type == ast.CreateTable {
		return c.createTable()
	}
	return c.createIndex()
}

func (c *CreateOp) createTable() error {
	if err := c.cat.CheckNameLengths(c.node.Table, c.node.Columns); err != nil {
		return err
	}
	_, outcome := c.cat.CreateTable(c.node.Schema, c.node.Table, c.node.Columns)
	switch outcome {
	case catalog.Created:
		if c.log.InTransaction() {
			c.log.RecordCreateTable(c.node.Schema, c.node.Table)
		}
		c.msgs.Infof("Create table successfully.")
		return nil
	default: // AlreadyExists
		if c.node.IfNotExists {
			c.msgs.Infof("Table %s.%s already existed.", c.node.Schema, c.node.Table)
			return nil
		}
		return catalog.ErrTableExists
	}
}

func (c *CreateOp) createIndex() error {
	outcome := c.cat.CreateIndex(c.node.Schema, c.node.Table, c.node.IndexName, c.node.IndexColumns)
	switch outcome {
	case catalog.Created:
		if c.log.InTransaction() {
			c.log.RecordCreateIndex(c.node.Schema, c.node.Table, c.node.IndexName)
		}
		c.msgs.Infof("Create index successfully.")
		return nil
	case catalog.NotFound:
		return catalog.ErrTableNotFound
	default: // AlreadyExists
		if c.node.IfNotExists {
			c.msgs.Infof("Index %s already existed.", c.node.IndexName)
			return nil
		}
		return catalog.ErrIndexExists
	}
}

// DropOp consults and mutates the catalog for DROP SCHEMA/TABLE/INDEX,
// deferring destruction to commit time when a transaction is open.
type DropOp struct {
	node *plan.DropNode
	cat  *catalog.Catalog
	log  *txn.Log
	msgs *Messages
}

func NewDrop(node *plan.DropNode, cat *catalog.Catalog, log *txn.Log, msgs *Messages) *DropOp {
	return &DropOp{node: node, cat: cat, log: log, msgs: msgs}
}

func (d *DropOp) Run() error {
	switch d.node.Type {
	case ast.DropSchemaKind:
		return d.dropSchema()
	case ast.DropTableKind:
		return d.dropTable()
	default:
		return d.dropIndex()
	}
}

func (d *DropOp) dropSchema() error {
	tables, outcome := d.cat.DropSchema(d.node.Schema)
	if outcome == catalog.NotFound {
		if d.node.IfExists {
			d.msgs.Infof("Schema %s did not exist.", d.node.Schema)
			return nil
		}
		return catalog.ErrSchemaNotFound
	}
	if d.log.InTransaction() {
		d.log.RecordDropSchema(tables)
	}
	d.msgs.Infof("Drop schema successfully.")
	return nil
}

func (d *DropOp) dropTable() error {
	table, outcome := d.cat.DropTable(d.node.Schema, d.node.Table)
	if outcome == catalog.NotFound {
		if d.node.IfExists {
			d.msgs.Infof("Table %s.%s did not exist.", d.node.Schema, d.node.Table)
			return nil
		}
		return catalog.ErrTableNotFound
	}
	if d.log.InTransaction() {
		d.log.RecordDropTable(table)
	}
	d.msgs.Infof("Drop table successfully.")
	return nil
}

func (d *DropOp) dropIndex() error {
	idx, outcome := d.cat.DropIndex(d.node.Schema, d.node.Table, d.node.IndexName)
	if outcome == catalog.NotFound {
		if d.node.IfExists {
			d.msgs.Infof("Index %s did not exist.", d.node.IndexName)
			return nil
		}
		return catalog.ErrIndexNotFound
	}
	if d.log.InTransaction() {
		d.log.RecordDropIndex(d.node.Schema, d.node.Table, idx)
	}
	d.msgs.Infof("Drop index successfully.")
	return nil
}
