package diff

import (
	"fmt"
	"strings"

	"github.com/koba/ddlkit/internal/schema"
)

// TargetNotFoundError is returned when a change refers to a table,
// column, index or foreign key that the model does not contain.
type TargetNotFoundError struct {
	Change string // change kind, e.g. "AddColumn"
	Table  string
	Target string // "table", "column", "index" or "foreign key"
	Name   string
}

func (e *TargetNotFoundError) Error() string {
	if e.Target == "table" {
		return fmt.Sprintf("diff: cannot apply %s: table %q not found", e.Change, e.Name)
	}
	return fmt.Sprintf("diff: cannot apply %s: %s %q not found in table %q", e.Change, e.Target, e.Name, e.Table)
}

// Apply mutates db in place according to the change. Toggle changes are
// not idempotent: applying them twice restores the original state.
func Apply(db *schema.Database, c Change, caseSensitive bool) error {
	kind := Kind(c)
	if add, ok := c.(*AddTable); ok {
		if err := db.AddTable(add.Table.Clone()); err != nil {
			return fmt.Errorf("diff: cannot apply %s: %w", kind, err)
		}
		return nil
	}
	if rm, ok := c.(*RemoveTable); ok {
		if !db.RemoveTable(rm.Table, caseSensitive) {
			return &TargetNotFoundError{Change: kind, Table: rm.Table, Target: "table", Name: rm.Table}
		}
		return nil
	}
	t := db.Table(c.TableName(), caseSensitive)
	if t == nil {
		return &TargetNotFoundError{Change: kind, Table: c.TableName(), Target: "table", Name: c.TableName()}
	}
	column := func(name string) (*schema.Column, error) {
		if col := t.Column(name, caseSensitive); col != nil {
			return col, nil
		}
		return nil, &TargetNotFoundError{Change: kind, Table: t.Name, Target: "column", Name: name}
	}
	switch c := c.(type) {
	case *AddColumn:
		pos := len(t.Columns)
		if i := t.ColumnIndex(c.Previous, caseSensitive); c.Previous != "" && i >= 0 {
			pos = i + 1
		} else if i := t.ColumnIndex(c.Next, caseSensitive); c.Next != "" && i >= 0 {
			pos = i
		}
		if err := t.InsertColumn(pos, c.Column.Clone()); err != nil {
			return fmt.Errorf("diff: cannot apply %s: %w", kind, err)
		}
	case *RemoveColumn:
		if !t.RemoveColumn(c.Column, caseSensitive) {
			return &TargetNotFoundError{Change: kind, Table: t.Name, Target: "column", Name: c.Column}
		}
	case *ColumnTypeChange:
		col, err := column(c.Column)
		if err != nil {
			return err
		}
		if err := col.SetTypeCode(c.To); err != nil {
			return fmt.Errorf("diff: cannot apply %s: %w", kind, err)
		}
	case *ColumnSizeChange:
		col, err := column(c.Column)
		if err != nil {
			return err
		}
		if err := col.SetSize(c.Size); err != nil {
			return fmt.Errorf("diff: cannot apply %s: %w", kind, err)
		}
		col.SetScale(c.Scale)
	case *ColumnRequiredChange:
		col, err := column(c.Column)
		if err != nil {
			return err
		}
		col.Required = !col.Required
	case *ColumnDefaultValueChange:
		col, err := column(c.Column)
		if err != nil {
			return err
		}
		col.DefaultValue = nil
		if c.Default != nil {
			col.SetDefault(*c.Default)
		}
	case *ColumnAutoIncrementChange:
		col, err := column(c.Column)
		if err != nil {
			return err
		}
		col.AutoIncrement = !col.AutoIncrement
	case *AddPrimaryKey:
		cols := make([]*schema.Column, 0, len(c.Columns))
		for _, name := range c.Columns {
			col, err := column(name)
			if err != nil {
				return err
			}
			cols = append(cols, col)
		}
		for _, col := range cols {
			col.PrimaryKey = true
		}
	case *RemovePrimaryKey:
		for _, name := range c.Columns {
			col, err := column(name)
			if err != nil {
				return err
			}
			col.PrimaryKey = false
		}
	case *AddIndex:
		if err := t.AddIndex(c.Index.Clone()); err != nil {
			return fmt.Errorf("diff: cannot apply %s: %w", kind, err)
		}
	case *RemoveIndex:
		target := t.FindIndex(c.Index, caseSensitive)
		if c.Index.Name != "" {
			if named := t.Index(c.Index.Name, caseSensitive); named != nil {
				target = named
			}
		}
		if target == nil {
			return &TargetNotFoundError{Change: kind, Table: t.Name, Target: "index", Name: indexLabel(c.Index)}
		}
		t.RemoveIndex(target, caseSensitive)
	case *AddForeignKey:
		if err := t.AddForeignKey(c.ForeignKey.Clone()); err != nil {
			return fmt.Errorf("diff: cannot apply %s: %w", kind, err)
		}
	case *RemoveForeignKey:
		target := t.FindForeignKey(c.ForeignKey, caseSensitive)
		if c.ForeignKey.Name != "" {
			if named := t.ForeignKey(c.ForeignKey.Name, caseSensitive); named != nil {
				target = named
			}
		}
		if target == nil {
			return &TargetNotFoundError{Change: kind, Table: t.Name, Target: "foreign key", Name: foreignKeyLabel(c.ForeignKey)}
		}
		t.RemoveForeignKey(target, caseSensitive)
	default:
		return fmt.Errorf("diff: unexpected change %T", c)
	}
	return nil
}

// ApplyAll applies the changes in order. It stops at the first failing
// change and leaves the model partially migrated.
func ApplyAll(db *schema.Database, changes []Change, caseSensitive bool) error {
	for i, c := range changes {
		if err := Apply(db, c, caseSensitive); err != nil {
			return fmt.Errorf("change %d of %d: %w", i+1, len(changes), err)
		}
	}
	return nil
}

// Kind returns the name of the change type, e.g. "AddColumn".
func Kind(c Change) string {
	name := fmt.Sprintf("%T", c)
	return name[strings.LastIndexByte(name, '.')+1:]
}

func indexLabel(idx *schema.Index) string {
	if idx.Name != "" {
		return idx.Name
	}
	return "(" + strings.Join(idx.ColumnNames(), ", ") + ")"
}

func foreignKeyLabel(fk *schema.ForeignKey) string {
	if fk.Name != "" {
		return fk.Name
	}
	return "(" + strings.Join(fk.LocalColumns(), ", ") + ") -> " + fk.ForeignTable
}
