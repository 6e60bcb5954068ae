// Package reader builds a schema model from the metadata of a live
// database.
package reader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/koba/ddlkit/internal/logging"
	"github.com/koba/ddlkit/internal/platform"
	"github.com/koba/ddlkit/internal/schema"
)

// ReadError reports a failed metadata query. Table is empty when the table
// listing itself failed.
type ReadError struct {
	Table string
	Op    string
	Err   error
}

func (e *ReadError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("reader: failed to read %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("reader: failed to read %s of table %q: %v", e.Op, e.Table, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Options select what is read. Empty fields take the reader's defaults.
type Options struct {
	Name         string
	Catalog      string
	Schema       string
	TableTypes   []string
	TablePattern string
}

// Sizes assumed for columns the database reports no size for.
var defaultSizes = map[int]string{
	schema.TypeChar:          "254",
	schema.TypeVarChar:       "254",
	schema.TypeLongVarChar:   "254",
	schema.TypeBinary:        "254",
	schema.TypeVarBinary:     "254",
	schema.TypeLongVarBinary: "254",
	schema.TypeInteger:       "32",
	schema.TypeBigInt:        "64",
	schema.TypeReal:          "7,0",
	schema.TypeFloat:         "15,0",
	schema.TypeDouble:        "15,0",
	schema.TypeDecimal:       "15,15",
	schema.TypeNumeric:       "15,15",
}

// Reader reads models through a Source, interpreting native type names
// with the dialect's descriptor.
type Reader struct {
	Info   *platform.Info
	Source Source

	TableColumns      []Descriptor
	ColumnColumns     []Descriptor
	PrimaryKeyColumns []Descriptor
	ForeignKeyColumns []Descriptor
	IndexColumns      []Descriptor

	DefaultTablePattern string
	DefaultTableTypes   []string
}

// New returns a reader with the default descriptor lists.
func New(info *platform.Info, source Source) *Reader {
	return &Reader{
		Info:                info,
		Source:              source,
		TableColumns:        append([]Descriptor(nil), TableDescriptors...),
		ColumnColumns:       append([]Descriptor(nil), ColumnDescriptors...),
		PrimaryKeyColumns:   append([]Descriptor(nil), PrimaryKeyDescriptors...),
		ForeignKeyColumns:   append([]Descriptor(nil), ForeignKeyDescriptors...),
		IndexColumns:        append([]Descriptor(nil), IndexDescriptors...),
		DefaultTablePattern: "%",
		DefaultTableTypes:   []string{"TABLE"},
	}
}

// ForPlatform returns a reader for the named dialect.
func ForPlatform(name string) (*Reader, error) {
	info, err := platform.Lookup(name)
	if err != nil {
		return nil, err
	}
	var source Source
	switch info.Name {
	case "mysql":
		source = mysqlSource{}
	case "postgresql":
		source = postgresSource{}
	case "sqlite":
		source = sqliteSource{}
	default:
		source = genericSource{}
	}
	return New(info, source), nil
}

// Read reads the tables of the database. Tables whose columns, keys or
// indexes cannot be read are logged and left out.
func (r *Reader) Read(ctx context.Context, q Querier, opts Options) (*schema.Database, error) {
	db := &schema.Database{Name: opts.Name, Catalog: opts.Catalog, Schema: opts.Schema}

	pattern := opts.TablePattern
	if pattern == "" {
		pattern = r.DefaultTablePattern
	}
	types := opts.TableTypes
	if len(types) == 0 {
		types = r.DefaultTableTypes
	}

	var tables []*schema.Table
	err := r.scan(r.Source.Tables(ctx, q, opts.Schema, pattern))(r.TableColumns, func(v values) error {
		name := v.str("TABLE_NAME")
		if name == "" || !hasType(types, v.str("TABLE_TYPE")) {
			return nil
		}
		tables = append(tables, &schema.Table{
			Name:        name,
			Type:        v.str("TABLE_TYPE"),
			Catalog:     v.str("TABLE_CAT"),
			Schema:      v.str("TABLE_SCHEM"),
			Description: v.str("REMARKS"),
		})
		return nil
	})
	if err != nil {
		return nil, &ReadError{Op: "tables", Err: err}
	}

	for _, t := range tables {
		if err := r.readTable(ctx, q, opts.Schema, t); err != nil {
			logging.TableSkipped(ctx, t.Name, err.Op, err.Err)
			continue
		}
		if err := db.AddTable(t); err != nil {
			logging.TableSkipped(ctx, t.Name, "tables", err)
		}
	}
	return db, nil
}

func hasType(types []string, typ string) bool {
	for _, t := range types {
		if strings.EqualFold(t, typ) {
			return true
		}
	}
	return false
}

// scan returns a function reading the result of a query through a
// descriptor list and closing it. Nil rows read as empty.
func (r *Reader) scan(rows *sql.Rows, err error) func([]Descriptor, func(values) error) error {
	return func(descs []Descriptor, f func(values) error) error {
		if err != nil {
			return err
		}
		if rows == nil {
			return nil
		}
		defer rows.Close()
		s, err := newScanner(rows, descs)
		if err != nil {
			return err
		}
		return s.each(f)
	}
}

func (r *Reader) readTable(ctx context.Context, q Querier, schemaName string, t *schema.Table) *ReadError {
	fail := func(op string, err error) *ReadError {
		return &ReadError{Table: t.Name, Op: op, Err: err}
	}

	err := r.scan(r.Source.Columns(ctx, q, schemaName, t.Name))(r.ColumnColumns, func(v values) error {
		c, err := r.readColumn(v)
		if err != nil {
			return err
		}
		return t.AddColumn(c)
	})
	if err != nil {
		return fail("columns", err)
	}

	var fk *schema.ForeignKey
	err = r.scan(r.Source.ForeignKeys(ctx, q, schemaName, t.Name))(r.ForeignKeyColumns, func(v values) error {
		fk = r.readForeignKey(t, fk, v)
		return nil
	})
	if err != nil {
		return fail("foreign keys", err)
	}

	err = r.scan(r.Source.Indexes(ctx, q, schemaName, t.Name))(r.IndexColumns, func(v values) error {
		r.readIndex(t, v)
		return nil
	})
	if err != nil {
		return fail("indexes", err)
	}

	err = r.scan(r.Source.PrimaryKeys(ctx, q, schemaName, t.Name))(r.PrimaryKeyColumns, func(v values) error {
		name := v.str("COLUMN_NAME")
		c := t.Column(name, true)
		if c == nil {
			return fmt.Errorf("primary key column %q not found", name)
		}
		c.PrimaryKey = true
		return nil
	})
	if err != nil {
		return fail("primary key", err)
	}

	if r.Info.SystemIndexesReturned {
		removeSystemIndexes(t)
	}
	return nil
}

func (r *Reader) readColumn(v values) (*schema.Column, error) {
	typeName, inlineSize := splitInlineSize(v.str("TYPE_NAME"))

	code := schema.TypeOther
	switch {
	case v.has("DATA_TYPE"):
		code = v.num("DATA_TYPE")
	case typeName != "":
		if c, ok := r.Info.TypeCodeFor(v.str("TYPE_NAME")); ok {
			code = c
		} else if c, ok := r.Info.TypeCodeFor(typeName); ok {
			code = c
		} else {
			logging.Debug("unknown native type", "column", v.str("COLUMN_NAME"), "type", v.str("TYPE_NAME"))
		}
	}

	c := &schema.Column{Name: v.str("COLUMN_NAME"), PrecisionRadix: v.num("NUM_PREC_RADIX")}
	if err := c.SetTypeCode(code); err != nil {
		if err := c.SetTypeCode(schema.TypeOther); err != nil {
			return nil, err
		}
	}
	if v.has("COLUMN_DEF") {
		c.SetDefault(normalizeDefault(v.str("COLUMN_DEF")))
	}

	size := v.str("COLUMN_SIZE")
	if size == "" {
		size = inlineSize
	}
	if size == "" {
		size = defaultSizes[c.TypeCode()]
	}
	if err := c.SetSize(size); err != nil {
		return nil, fmt.Errorf("column %q: %w", c.Name, err)
	}
	if scale := v.num("DECIMAL_DIGITS"); scale != 0 {
		c.SetScale(scale)
	}

	c.Required = strings.EqualFold(strings.TrimSpace(v.str("IS_NULLABLE")), "NO")
	c.AutoIncrement = strings.EqualFold(strings.TrimSpace(v.str("IS_AUTOINCREMENT")), "YES")
	c.Description = v.str("REMARKS")
	return c, nil
}

// readForeignKey adds one reference row to the table. Rows sharing a key
// name form one key. Unnamed rows continue the previous unnamed key until
// their sequence restarts at 1.
func (r *Reader) readForeignKey(t *schema.Table, last *schema.ForeignKey, v values) *schema.ForeignKey {
	name := v.str("FK_NAME")
	var fk *schema.ForeignKey
	if name != "" {
		fk = t.ForeignKey(name, true)
	} else if last != nil && last.Name == "" && v.num("KEY_SEQ") > 1 {
		fk = last
	}
	if fk == nil {
		fk = &schema.ForeignKey{Name: name, ForeignTable: v.str("PKTABLE_NAME")}
		t.ForeignKeys = append(t.ForeignKeys, fk)
	}
	fk.References = append(fk.References, &schema.Reference{
		Local:    v.str("FKCOLUMN_NAME"),
		Foreign:  v.str("PKCOLUMN_NAME"),
		Sequence: v.num("KEY_SEQ"),
	})
	return fk
}

// readIndex adds one index column row to the table. Rows without an index
// name describe table statistics and are skipped.
func (r *Reader) readIndex(t *schema.Table, v values) {
	name := v.str("INDEX_NAME")
	if name == "" {
		return
	}
	idx := t.Index(name, true)
	if idx == nil {
		idx = &schema.Index{Name: name, Unique: !v.flag("NON_UNIQUE")}
		t.Indexes = append(t.Indexes, idx)
	}
	idx.Columns = append(idx.Columns, &schema.IndexColumn{
		Name:            v.str("COLUMN_NAME"),
		OrdinalPosition: v.num("ORDINAL_POSITION"),
	})
}

// removeSystemIndexes drops the indexes the database created for the
// primary key and the foreign keys: at most one unique index on exactly the
// primary key columns, and per foreign key at most one non-unique index on
// exactly its local columns. Index names are not consulted.
func removeSystemIndexes(t *schema.Table) {
	if pk := t.PrimaryKeyNames(); len(pk) > 0 {
		removeFirstIndex(t, true, pk)
	}
	for _, fk := range t.ForeignKeys {
		removeFirstIndex(t, false, fk.LocalColumns())
	}
}

func removeFirstIndex(t *schema.Table, unique bool, columns []string) {
	for i, idx := range t.Indexes {
		if idx.Unique == unique && schema.EqualNameLists(idx.ColumnNames(), columns, true) {
			t.Indexes = append(t.Indexes[:i], t.Indexes[i+1:]...)
			return
		}
	}
}

// splitInlineSize splits a native type name like VARCHAR(254) or
// DECIMAL(10, 2) into the name and the size.
func splitInlineSize(native string) (string, string) {
	native = strings.TrimSpace(native)
	open := strings.IndexByte(native, '(')
	if open < 0 || !strings.HasSuffix(native, ")") {
		return native, ""
	}
	size := strings.ReplaceAll(native[open+1:len(native)-1], " ", "")
	return strings.TrimSpace(native[:open]), size
}

// normalizeDefault strips the quoting and the type cast databases add to
// literal defaults, e.g. 'abc'::character varying or ((0)).
func normalizeDefault(def string) string {
	def = strings.TrimSpace(def)
	for enclosed(def) {
		def = strings.TrimSpace(def[1 : len(def)-1])
	}
	if !strings.HasPrefix(def, "'") {
		return def
	}
	var b strings.Builder
	for i := 1; i < len(def); i++ {
		if def[i] != '\'' {
			b.WriteByte(def[i])
			continue
		}
		if i+1 < len(def) && def[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		if rest := def[i+1:]; rest == "" || strings.HasPrefix(rest, "::") {
			return b.String()
		}
		return def
	}
	return def
}

// enclosed reports if s is wrapped in one pair of matching parentheses.
func enclosed(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i < len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}
