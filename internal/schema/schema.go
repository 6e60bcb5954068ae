package schema

import (
	"fmt"
	"strings"
)

// Database represents a database schema model
type Database struct {
	Name    string   `json:"name"`
	Catalog string   `json:"catalog,omitempty"`
	Schema  string   `json:"schema,omitempty"`
	Tables  []*Table `json:"tables"`
}

// Table represents a table with its columns, indexes and foreign keys
type Table struct {
	Name        string        `json:"name"`
	Type        string        `json:"type,omitempty"` // TABLE or VIEW
	Catalog     string        `json:"catalog,omitempty"`
	Schema      string        `json:"schema,omitempty"`
	Description string        `json:"description,omitempty"`
	Columns     []*Column     `json:"columns"`
	Indexes     []*Index      `json:"indexes,omitempty"`
	ForeignKeys []*ForeignKey `json:"foreign_keys,omitempty"`
}

// Index represents a unique or non-unique index
type Index struct {
	Name    string         `json:"name,omitempty"`
	Unique  bool           `json:"unique,omitempty"`
	Columns []*IndexColumn `json:"columns"`
}

// IndexColumn references a column of an index
type IndexColumn struct {
	Name            string `json:"name"`
	OrdinalPosition int    `json:"ordinal_position,omitempty"`
}

// ForeignKey represents a foreign key constraint
type ForeignKey struct {
	Name         string       `json:"name,omitempty"`
	ForeignTable string       `json:"foreign_table"`
	References   []*Reference `json:"references"`
}

// Reference pairs a local column with the column it references
type Reference struct {
	Local    string `json:"local"`
	Foreign  string `json:"foreign"`
	Sequence int    `json:"sequence,omitempty"`
}

// EqualNames compares two identifiers, ignoring case unless caseSensitive is set.
func EqualNames(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// Table returns the table with the given name, or nil.
func (d *Database) Table(name string, caseSensitive bool) *Table {
	for _, t := range d.Tables {
		if EqualNames(t.Name, name, caseSensitive) {
			return t
		}
	}
	return nil
}

// AddTable appends a table. Table names are unique, compared
// case-insensitively.
func (d *Database) AddTable(t *Table) error {
	if d.Table(t.Name, false) != nil {
		return &DuplicateError{Kind: "table", Name: t.Name}
	}
	d.Tables = append(d.Tables, t)
	return nil
}

// RemoveTable removes the named table and reports if it was found.
func (d *Database) RemoveTable(name string, caseSensitive bool) bool {
	for i, t := range d.Tables {
		if EqualNames(t.Name, name, caseSensitive) {
			d.Tables = append(d.Tables[:i], d.Tables[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the database.
func (d *Database) Clone() *Database {
	nd := &Database{Name: d.Name, Catalog: d.Catalog, Schema: d.Schema}
	nd.Tables = make([]*Table, len(d.Tables))
	for i, t := range d.Tables {
		nd.Tables[i] = t.Clone()
	}
	return nd
}

// MergeWith adds copies of the tables of other to d. It fails without
// modifying d if both define a table with the same name.
func (d *Database) MergeWith(other *Database) error {
	for _, t := range other.Tables {
		if d.Table(t.Name, false) != nil {
			return fmt.Errorf("cannot merge database %q into %q: %w", other.Name, d.Name, &DuplicateError{Kind: "table", Name: t.Name})
		}
	}
	for _, t := range other.Tables {
		d.Tables = append(d.Tables, t.Clone())
	}
	return nil
}

// Equal reports if both databases define the same structure. Table order,
// and the names of indexes and foreign keys, are not significant.
func (d *Database) Equal(o *Database, caseSensitive bool) bool {
	if len(d.Tables) != len(o.Tables) {
		return false
	}
	for _, t := range d.Tables {
		ot := o.Table(t.Name, caseSensitive)
		if ot == nil || !t.Equal(ot, caseSensitive) {
			return false
		}
	}
	return true
}

// Column returns the named column, or nil.
func (t *Table) Column(name string, caseSensitive bool) *Column {
	if i := t.ColumnIndex(name, caseSensitive); i >= 0 {
		return t.Columns[i]
	}
	return nil
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string, caseSensitive bool) int {
	for i, c := range t.Columns {
		if EqualNames(c.Name, name, caseSensitive) {
			return i
		}
	}
	return -1
}

// AddColumn appends a column.
func (t *Table) AddColumn(c *Column) error {
	return t.InsertColumn(len(t.Columns), c)
}

// InsertColumn inserts a column at position pos.
func (t *Table) InsertColumn(pos int, c *Column) error {
	if t.Column(c.Name, false) != nil {
		return &DuplicateError{Kind: "column", Table: t.Name, Name: c.Name}
	}
	if pos < 0 || pos > len(t.Columns) {
		pos = len(t.Columns)
	}
	t.Columns = append(t.Columns, nil)
	copy(t.Columns[pos+1:], t.Columns[pos:])
	t.Columns[pos] = c
	return nil
}

// RemoveColumn removes the named column and reports if it was found.
func (t *Table) RemoveColumn(name string, caseSensitive bool) bool {
	i := t.ColumnIndex(name, caseSensitive)
	if i < 0 {
		return false
	}
	t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
	return true
}

// PrimaryKeyColumns returns the columns flagged as primary key, in table order.
func (t *Table) PrimaryKeyColumns() []*Column {
	var pk []*Column
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pk = append(pk, c)
		}
	}
	return pk
}

// PrimaryKeyNames returns the primary key column names, in table order.
func (t *Table) PrimaryKeyNames() []string {
	var names []string
	for _, c := range t.PrimaryKeyColumns() {
		names = append(names, c.Name)
	}
	return names
}

// HasPrimaryKey reports if at least one column is flagged as primary key.
func (t *Table) HasPrimaryKey() bool {
	return len(t.PrimaryKeyColumns()) > 0
}

// Index returns the named index, or nil.
func (t *Table) Index(name string, caseSensitive bool) *Index {
	for _, idx := range t.Indexes {
		if idx.Name != "" && EqualNames(idx.Name, name, caseSensitive) {
			return idx
		}
	}
	return nil
}

// AddIndex appends an index. Unnamed indexes never clash.
func (t *Table) AddIndex(idx *Index) error {
	if idx.Name != "" && t.Index(idx.Name, false) != nil {
		return &DuplicateError{Kind: "index", Table: t.Name, Name: idx.Name}
	}
	t.Indexes = append(t.Indexes, idx)
	return nil
}

// RemoveIndex removes the given index and reports if it was found.
// The index is matched by identity first, then structurally.
func (t *Table) RemoveIndex(idx *Index, caseSensitive bool) bool {
	for i, cur := range t.Indexes {
		if cur == idx {
			t.Indexes = append(t.Indexes[:i], t.Indexes[i+1:]...)
			return true
		}
	}
	for i, cur := range t.Indexes {
		if cur.Equal(idx, caseSensitive) {
			t.Indexes = append(t.Indexes[:i], t.Indexes[i+1:]...)
			return true
		}
	}
	return false
}

// ForeignKey returns the named foreign key, or nil.
func (t *Table) ForeignKey(name string, caseSensitive bool) *ForeignKey {
	for _, fk := range t.ForeignKeys {
		if fk.Name != "" && EqualNames(fk.Name, name, caseSensitive) {
			return fk
		}
	}
	return nil
}

// AddForeignKey appends a foreign key.
func (t *Table) AddForeignKey(fk *ForeignKey) error {
	if fk.Name != "" && t.ForeignKey(fk.Name, false) != nil {
		return &DuplicateError{Kind: "foreign key", Table: t.Name, Name: fk.Name}
	}
	t.ForeignKeys = append(t.ForeignKeys, fk)
	return nil
}

// RemoveForeignKey removes the given foreign key and reports if it was
// found. The key is matched by identity first, then structurally.
func (t *Table) RemoveForeignKey(fk *ForeignKey, caseSensitive bool) bool {
	for i, cur := range t.ForeignKeys {
		if cur == fk {
			t.ForeignKeys = append(t.ForeignKeys[:i], t.ForeignKeys[i+1:]...)
			return true
		}
	}
	for i, cur := range t.ForeignKeys {
		if cur.Equal(fk, caseSensitive) {
			t.ForeignKeys = append(t.ForeignKeys[:i], t.ForeignKeys[i+1:]...)
			return true
		}
	}
	return false
}

// FindIndex returns the first index structurally equal to idx, or nil.
func (t *Table) FindIndex(idx *Index, caseSensitive bool) *Index {
	for _, cur := range t.Indexes {
		if cur.Equal(idx, caseSensitive) {
			return cur
		}
	}
	return nil
}

// FindForeignKey returns the first foreign key structurally equal to fk, or nil.
func (t *Table) FindForeignKey(fk *ForeignKey, caseSensitive bool) *ForeignKey {
	for _, cur := range t.ForeignKeys {
		if cur.Equal(fk, caseSensitive) {
			return cur
		}
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	nt := &Table{
		Name:        t.Name,
		Type:        t.Type,
		Catalog:     t.Catalog,
		Schema:      t.Schema,
		Description: t.Description,
	}
	nt.Columns = make([]*Column, len(t.Columns))
	for i, c := range t.Columns {
		nt.Columns[i] = c.Clone()
	}
	for _, idx := range t.Indexes {
		nt.Indexes = append(nt.Indexes, idx.Clone())
	}
	for _, fk := range t.ForeignKeys {
		nt.ForeignKeys = append(nt.ForeignKeys, fk.Clone())
	}
	return nt
}

// Equal reports if both tables have the same name, the same columns, and
// the same indexes and foreign keys regardless of their names. Columns are
// matched by name; their position only matters when rendering, like the
// declaration order of indexes and foreign keys.
func (t *Table) Equal(o *Table, caseSensitive bool) bool {
	if !EqualNames(t.Name, o.Name, caseSensitive) || len(t.Columns) != len(o.Columns) {
		return false
	}
	for _, c := range t.Columns {
		oc := o.Column(c.Name, caseSensitive)
		if oc == nil || !c.SameDefinition(oc) {
			return false
		}
	}
	if len(t.Indexes) != len(o.Indexes) || len(t.ForeignKeys) != len(o.ForeignKeys) {
		return false
	}
	used := make([]bool, len(o.Indexes))
	for _, idx := range t.Indexes {
		if !claim(len(o.Indexes), used, func(i int) bool { return idx.Equal(o.Indexes[i], caseSensitive) }) {
			return false
		}
	}
	used = make([]bool, len(o.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		if !claim(len(o.ForeignKeys), used, func(i int) bool { return fk.Equal(o.ForeignKeys[i], caseSensitive) }) {
			return false
		}
	}
	return true
}

// claim marks the first unused position matching f.
func claim(n int, used []bool, f func(int) bool) bool {
	for i := 0; i < n; i++ {
		if !used[i] && f(i) {
			used[i] = true
			return true
		}
	}
	return false
}

func (t *Table) String() string {
	return fmt.Sprintf("Table [name=%s; %d columns]", t.Name, len(t.Columns))
}

// ColumnNames returns the ordered column names of the index.
func (i *Index) ColumnNames() []string {
	names := make([]string, len(i.Columns))
	for j, c := range i.Columns {
		names[j] = c.Name
	}
	return names
}

// HasColumn reports if the index covers the named column.
func (i *Index) HasColumn(name string, caseSensitive bool) bool {
	for _, c := range i.Columns {
		if EqualNames(c.Name, name, caseSensitive) {
			return true
		}
	}
	return false
}

// Equal reports if both indexes are of the same kind and cover the same
// columns in the same order. Names are ignored.
func (i *Index) Equal(o *Index, caseSensitive bool) bool {
	return i.Unique == o.Unique && EqualNameLists(i.ColumnNames(), o.ColumnNames(), caseSensitive)
}

// Clone returns a deep copy of the index.
func (i *Index) Clone() *Index {
	ni := &Index{Name: i.Name, Unique: i.Unique, Columns: make([]*IndexColumn, len(i.Columns))}
	for j, c := range i.Columns {
		nc := *c
		ni.Columns[j] = &nc
	}
	return ni
}

// LocalColumns returns the ordered local column names.
func (f *ForeignKey) LocalColumns() []string {
	names := make([]string, len(f.References))
	for i, r := range f.References {
		names[i] = r.Local
	}
	return names
}

// ForeignColumns returns the ordered referenced column names.
func (f *ForeignKey) ForeignColumns() []string {
	names := make([]string, len(f.References))
	for i, r := range f.References {
		names[i] = r.Foreign
	}
	return names
}

// Equal reports if both keys reference the same table with the same
// ordered column pairs. Names are ignored.
func (f *ForeignKey) Equal(o *ForeignKey, caseSensitive bool) bool {
	return EqualNames(f.ForeignTable, o.ForeignTable, caseSensitive) &&
		EqualNameLists(f.LocalColumns(), o.LocalColumns(), caseSensitive) &&
		EqualNameLists(f.ForeignColumns(), o.ForeignColumns(), caseSensitive)
}

// Clone returns a deep copy of the foreign key.
func (f *ForeignKey) Clone() *ForeignKey {
	nf := &ForeignKey{Name: f.Name, ForeignTable: f.ForeignTable, References: make([]*Reference, len(f.References))}
	for i, r := range f.References {
		nr := *r
		nf.References[i] = &nr
	}
	return nf
}

// EqualNameLists reports if both ordered name lists are equal.
func EqualNameLists(a, b []string, caseSensitive bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualNames(a[i], b[i], caseSensitive) {
			return false
		}
	}
	return true
}

// Row is a single table row keyed by column name
type Row map[string]any
