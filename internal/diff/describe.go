package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/koba/ddlkit/internal/schema"
)

// Describe returns a one-line description of the change.
func Describe(c Change) string {
	switch c := c.(type) {
	case *AddTable:
		return fmt.Sprintf("add table %s (%d columns)", c.Table.Name, len(c.Table.Columns))
	case *RemoveTable:
		return fmt.Sprintf("remove table %s", c.Table)
	case *AddColumn:
		pos := "at the end"
		switch {
		case c.Previous != "":
			pos = "after " + c.Previous
		case c.Next != "":
			pos = "before " + c.Next
		}
		return fmt.Sprintf("add column %s.%s %s %s", c.Table, c.Column.Name, typeLabel(c.Column), pos)
	case *RemoveColumn:
		return fmt.Sprintf("remove column %s.%s", c.Table, c.Column)
	case *ColumnTypeChange:
		from, _ := schema.TypeName(c.From)
		to, _ := schema.TypeName(c.To)
		return fmt.Sprintf("change type of %s.%s from %s to %s", c.Table, c.Column, from, to)
	case *ColumnSizeChange:
		return fmt.Sprintf("change size of %s.%s from %s to %s", c.Table, c.Column, sizeLabel(c.FromSize, c.FromScale), sizeLabel(c.Size, c.Scale))
	case *ColumnRequiredChange:
		return fmt.Sprintf("toggle NOT NULL of %s.%s", c.Table, c.Column)
	case *ColumnDefaultValueChange:
		if c.Default == nil {
			return fmt.Sprintf("remove default of %s.%s", c.Table, c.Column)
		}
		return fmt.Sprintf("set default of %s.%s to %q", c.Table, c.Column, *c.Default)
	case *ColumnAutoIncrementChange:
		return fmt.Sprintf("toggle auto-increment of %s.%s", c.Table, c.Column)
	case *AddPrimaryKey:
		return fmt.Sprintf("add primary key on %s (%s)", c.Table, strings.Join(c.Columns, ", "))
	case *RemovePrimaryKey:
		return fmt.Sprintf("remove primary key on %s (%s)", c.Table, strings.Join(c.Columns, ", "))
	case *AddIndex:
		return fmt.Sprintf("add %s %s on %s (%s)", indexKind(c.Index), c.Index.Name, c.Table, strings.Join(c.Index.ColumnNames(), ", "))
	case *RemoveIndex:
		return fmt.Sprintf("remove %s %s on %s", indexKind(c.Index), indexLabel(c.Index), c.Table)
	case *AddForeignKey:
		return fmt.Sprintf("add foreign key %s on %s (%s) references %s (%s)", c.ForeignKey.Name, c.Table,
			strings.Join(c.ForeignKey.LocalColumns(), ", "), c.ForeignKey.ForeignTable, strings.Join(c.ForeignKey.ForeignColumns(), ", "))
	case *RemoveForeignKey:
		return fmt.Sprintf("remove foreign key %s on %s", foreignKeyLabel(c.ForeignKey), c.Table)
	default:
		return fmt.Sprintf("unknown change %T", c)
	}
}

// Display writes the changes, one per line, in a human-readable format.
func Display(w io.Writer, changes []Change) {
	if len(changes) == 0 {
		fmt.Fprintln(w, "No differences found.")
		return
	}
	fmt.Fprintf(w, "=== %d changes ===\n\n", len(changes))
	for i, c := range changes {
		fmt.Fprintf(w, "%3d. %s\n", i+1, Describe(c))
	}
}

func typeLabel(c *schema.Column) string {
	if c.Size() == "" {
		return c.Type()
	}
	return c.Type() + "(" + sizeLabel(c.Size(), c.Scale()) + ")"
}

func sizeLabel(size string, scale int) string {
	if size == "" {
		return "-"
	}
	if scale != 0 {
		return fmt.Sprintf("%s,%d", size, scale)
	}
	return size
}

func indexKind(idx *schema.Index) string {
	if idx.Unique {
		return "unique index"
	}
	return "index"
}
