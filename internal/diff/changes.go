// Package diff compares two schema models and describes the difference as
// an ordered list of atomic changes, each of which can be applied to a model
// or rendered into DDL.
package diff

import (
	"github.com/koba/ddlkit/internal/schema"
)

// Change is a single alteration of a schema model. Changes only identify
// their targets by name and hold detached copies of the elements they add.
type Change interface {
	// TableName returns the name of the table the change applies to.
	TableName() string
	change()
}

// ColumnChange is a change scoped to a single column.
type ColumnChange interface {
	Change
	ColumnName() string
}

type (
	// AddTable creates a table, including its primary key, its indexes and
	// the foreign keys that can be created along with it.
	AddTable struct {
		Table *schema.Table
	}

	// RemoveTable drops a table.
	RemoveTable struct {
		Table string
	}

	// AddColumn adds a column. Previous and Next name the neighbours of the
	// column in the target model, empty at either end.
	AddColumn struct {
		Table    string
		Column   *schema.Column
		Previous string
		Next     string
	}

	// RemoveColumn drops a column.
	RemoveColumn struct {
		Table  string
		Column string
	}

	// ColumnTypeChange changes the type code of a column.
	ColumnTypeChange struct {
		Table  string
		Column string
		From   int
		To     int
	}

	// ColumnSizeChange changes the size and scale of a column.
	ColumnSizeChange struct {
		Table     string
		Column    string
		FromSize  string
		FromScale int
		Size      string
		Scale     int
	}

	// ColumnRequiredChange toggles the NOT NULL constraint of a column.
	ColumnRequiredChange struct {
		Table  string
		Column string
	}

	// ColumnDefaultValueChange sets or clears the default value of a column.
	ColumnDefaultValueChange struct {
		Table   string
		Column  string
		Default *string
	}

	// ColumnAutoIncrementChange toggles the auto-increment flag of a column.
	ColumnAutoIncrementChange struct {
		Table  string
		Column string
	}

	// AddPrimaryKey flags the given columns as the primary key.
	AddPrimaryKey struct {
		Table   string
		Columns []string
	}

	// RemovePrimaryKey drops the primary key made of the given columns.
	RemovePrimaryKey struct {
		Table   string
		Columns []string
	}

	// AddIndex creates an index.
	AddIndex struct {
		Table string
		Index *schema.Index
	}

	// RemoveIndex drops an index.
	RemoveIndex struct {
		Table string
		Index *schema.Index
	}

	// AddForeignKey creates a foreign key.
	AddForeignKey struct {
		Table      string
		ForeignKey *schema.ForeignKey
	}

	// RemoveForeignKey drops a foreign key.
	RemoveForeignKey struct {
		Table      string
		ForeignKey *schema.ForeignKey
	}
)

func (c *AddTable) TableName() string                  { return c.Table.Name }
func (c *RemoveTable) TableName() string               { return c.Table }
func (c *AddColumn) TableName() string                 { return c.Table }
func (c *RemoveColumn) TableName() string              { return c.Table }
func (c *ColumnTypeChange) TableName() string          { return c.Table }
func (c *ColumnSizeChange) TableName() string          { return c.Table }
func (c *ColumnRequiredChange) TableName() string      { return c.Table }
func (c *ColumnDefaultValueChange) TableName() string  { return c.Table }
func (c *ColumnAutoIncrementChange) TableName() string { return c.Table }
func (c *AddPrimaryKey) TableName() string             { return c.Table }
func (c *RemovePrimaryKey) TableName() string          { return c.Table }
func (c *AddIndex) TableName() string                  { return c.Table }
func (c *RemoveIndex) TableName() string               { return c.Table }
func (c *AddForeignKey) TableName() string             { return c.Table }
func (c *RemoveForeignKey) TableName() string          { return c.Table }

func (c *AddColumn) ColumnName() string                 { return c.Column.Name }
func (c *RemoveColumn) ColumnName() string              { return c.Column }
func (c *ColumnTypeChange) ColumnName() string          { return c.Column }
func (c *ColumnSizeChange) ColumnName() string          { return c.Column }
func (c *ColumnRequiredChange) ColumnName() string      { return c.Column }
func (c *ColumnDefaultValueChange) ColumnName() string  { return c.Column }
func (c *ColumnAutoIncrementChange) ColumnName() string { return c.Column }

// change marks the types above as Change implementations.
func (*AddTable) change()                  {}
func (*RemoveTable) change()               {}
func (*AddColumn) change()                 {}
func (*RemoveColumn) change()              {}
func (*ColumnTypeChange) change()          {}
func (*ColumnSizeChange) change()          {}
func (*ColumnRequiredChange) change()      {}
func (*ColumnDefaultValueChange) change()  {}
func (*ColumnAutoIncrementChange) change() {}
func (*AddPrimaryKey) change()             {}
func (*RemovePrimaryKey) change()          {}
func (*AddIndex) change()                  {}
func (*RemoveIndex) change()               {}
func (*AddForeignKey) change()             {}
func (*RemoveForeignKey) change()          {}
