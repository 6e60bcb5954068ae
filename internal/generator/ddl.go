package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/koba/ddlkit/internal/diff"
	"github.com/koba/ddlkit/internal/platform"
	"github.com/koba/ddlkit/internal/schema"
)

// DDLGenerator generates DDL statements for one dialect. Statements are
// returned without the trailing delimiter; Script adds it.
type DDLGenerator struct {
	info    *platform.Info
	dialect *Dialect

	// Delimited quotes identifiers with the dialect's quote characters.
	Delimited bool
	// CaseSensitive controls name lookups in the models being rendered.
	CaseSensitive bool
}

// NewDDLGenerator creates a new DDL generator for the named dialect
func NewDDLGenerator(dialect string) (*DDLGenerator, error) {
	info, err := platform.Lookup(dialect)
	if err != nil {
		return nil, err
	}
	d, ok := dialects[info.Name]
	if !ok {
		d = &Dialect{}
	}
	return &DDLGenerator{
		info:      info,
		dialect:   d,
		Delimited: true,
	}, nil
}

// Info returns the capabilities of the generator's dialect.
func (g *DDLGenerator) Info() *platform.Info { return g.info }

// CreateTable returns the statements creating the table, its indexes and
// its foreign keys.
func (g *DDLGenerator) CreateTable(table *schema.Table) []string {
	stmts := g.createTable(table)
	if !g.info.ForeignKeysEmbedded {
		stmts = append(stmts, g.createForeignKeys(table)...)
	}
	return stmts
}

// DropTable returns the statement dropping the table.
func (g *DDLGenerator) DropTable(table *schema.Table) string {
	if g.dialect.DropTable != nil {
		return g.dialect.DropTable(g, table)
	}
	return "DROP TABLE " + g.quote(table.Name)
}

// CreateTables returns the statements creating all tables of the database,
// referenced tables first. Foreign keys that are not part of CREATE TABLE
// are added once all tables exist. With dropFirst the script starts by
// dropping the tables.
func (g *DDLGenerator) CreateTables(db *schema.Database, dropFirst bool) ([]string, error) {
	tables, err := g.orderedTables(db)
	if err != nil {
		return nil, err
	}
	var stmts []string
	if dropFirst {
		drops, err := g.DropTables(db)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, drops...)
	}
	for _, t := range tables {
		stmts = append(stmts, g.createTable(t)...)
	}
	if !g.info.ForeignKeysEmbedded {
		for _, t := range tables {
			stmts = append(stmts, g.createForeignKeys(t)...)
		}
	}
	return stmts, nil
}

// DropTables returns the statements dropping all tables of the database,
// referencing tables first.
func (g *DDLGenerator) DropTables(db *schema.Database) ([]string, error) {
	tables, err := g.orderedTables(db)
	if err != nil {
		return nil, err
	}
	var stmts []string
	if !g.info.ForeignKeysEmbedded {
		for i := len(tables) - 1; i >= 0; i-- {
			for _, fk := range tables[i].ForeignKeys {
				stmts = append(stmts, g.dropForeignKey(tables[i], fk))
			}
		}
	}
	for i := len(tables) - 1; i >= 0; i-- {
		stmts = append(stmts, g.DropTable(tables[i]))
	}
	return stmts, nil
}

// orderedTables sorts the tables by foreign key dependency. Cycles are only
// an error when foreign keys must be created along with the tables.
func (g *DDLGenerator) orderedTables(db *schema.Database) ([]*schema.Table, error) {
	tables, err := db.SortTables(g.CaseSensitive)
	var oerr *schema.OrderingError
	if errors.As(err, &oerr) && !g.info.ForeignKeysEmbedded {
		return db.Tables, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to order tables: %w", err)
	}
	return tables, nil
}

// Change returns the statements for a single change. before and after are
// the changed table as it is before and after the change is applied; for
// table additions before is nil, for table removals after is nil.
func (g *DDLGenerator) Change(c diff.Change, before, after *schema.Table) ([]string, error) {
	switch c := c.(type) {
	case *diff.AddTable:
		return g.CreateTable(after), nil
	case *diff.RemoveTable:
		return []string{g.DropTable(before)}, nil
	case *diff.AddColumn:
		return []string{g.addColumn(after, after.Column(c.Column.Name, g.CaseSensitive), c.Previous, c.Next)}, nil
	case *diff.RemoveColumn:
		if g.dialect.DropColumn != nil {
			return []string{g.dialect.DropColumn(g, before, c.Column)}, nil
		}
		return []string{fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", g.quote(before.Name), g.quote(c.Column))}, nil
	case *diff.ColumnTypeChange, *diff.ColumnSizeChange, *diff.ColumnRequiredChange,
		*diff.ColumnDefaultValueChange, *diff.ColumnAutoIncrementChange:
		cc := c.(diff.ColumnChange)
		from, to := before.Column(cc.ColumnName(), g.CaseSensitive), after.Column(cc.ColumnName(), g.CaseSensitive)
		if !g.info.AlterColumnSupported {
			return nil, g.unsupported(cc, "columns cannot be altered")
		}
		if g.dialect.ModifyColumn != nil {
			return g.dialect.ModifyColumn(g, after, from, to, cc)
		}
		return g.modifyColumn(after, from, to, cc)
	case *diff.AddPrimaryKey:
		if g.dialect.AddPrimaryKey != nil {
			return g.dialect.AddPrimaryKey(g, after, c.Columns)
		}
		return []string{fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s PRIMARY KEY (%s)",
			g.quote(after.Name), g.quote(g.primaryKeyName(after)), g.quoteList(c.Columns))}, nil
	case *diff.RemovePrimaryKey:
		if g.dialect.DropPrimaryKey != nil {
			return g.dialect.DropPrimaryKey(g, before)
		}
		return []string{fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", g.quote(before.Name), g.quote(g.primaryKeyName(before)))}, nil
	case *diff.AddIndex:
		return []string{g.createIndex(after, c.Index)}, nil
	case *diff.RemoveIndex:
		return []string{g.dropIndex(before, c.Index)}, nil
	case *diff.AddForeignKey:
		if g.info.ForeignKeysEmbedded {
			return nil, g.unsupported(c, "foreign keys can only be created along with the table")
		}
		return []string{g.createForeignKey(after, c.ForeignKey)}, nil
	case *diff.RemoveForeignKey:
		if g.info.ForeignKeysEmbedded {
			return nil, g.unsupported(c, "foreign keys can only be dropped along with the table")
		}
		return []string{g.dropForeignKey(before, c.ForeignKey)}, nil
	default:
		return nil, fmt.Errorf("generator: unexpected change %T", c)
	}
}

func (g *DDLGenerator) unsupported(c diff.Change, reason string) error {
	err := &UnsupportedChangeError{Dialect: g.info.Name, Change: diff.Kind(c), Table: c.TableName(), Reason: reason}
	if cc, ok := c.(diff.ColumnChange); ok {
		err.Column = cc.ColumnName()
	}
	return err
}

func (g *DDLGenerator) createTable(table *schema.Table) []string {
	var parts []string

	for _, col := range table.Columns {
		parts = append(parts, g.columnDefinition(table, col))
	}

	if g.info.PrimaryKeyEmbedded && table.HasPrimaryKey() && g.writePrimaryKey(table) {
		parts = append(parts, fmt.Sprintf("CONSTRAINT %s PRIMARY KEY (%s)",
			g.quote(g.primaryKeyName(table)), g.quoteList(table.PrimaryKeyNames())))
	}

	if g.info.ForeignKeysEmbedded {
		for _, fk := range table.ForeignKeys {
			parts = append(parts, fmt.Sprintf("CONSTRAINT %s %s", g.quote(g.foreignKeyName(table, fk)), g.foreignKeyClause(fk)))
		}
	}

	if g.info.IndexesEmbedded {
		for _, idx := range table.Indexes {
			kind := "INDEX"
			if idx.Unique {
				kind = "UNIQUE INDEX"
			}
			parts = append(parts, fmt.Sprintf("%s %s (%s)", kind, g.quote(g.indexName(table, idx)), g.quoteList(idx.ColumnNames())))
		}
	}

	stmts := []string{fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", g.quote(table.Name), strings.Join(parts, ",\n  "))}

	if !g.info.PrimaryKeyEmbedded && table.HasPrimaryKey() {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s PRIMARY KEY (%s)",
			g.quote(table.Name), g.quote(g.primaryKeyName(table)), g.quoteList(table.PrimaryKeyNames())))
	}
	if !g.info.IndexesEmbedded {
		for _, idx := range table.Indexes {
			stmts = append(stmts, g.createIndex(table, idx))
		}
	}
	return stmts
}

// writePrimaryKey reports if the table-level primary key clause is needed.
func (g *DDLGenerator) writePrimaryKey(table *schema.Table) bool {
	if g.dialect.InlinePrimaryKey == nil {
		return true
	}
	return !g.dialect.InlinePrimaryKey(table)
}

func (g *DDLGenerator) createForeignKeys(table *schema.Table) []string {
	var stmts []string
	for _, fk := range table.ForeignKeys {
		stmts = append(stmts, g.createForeignKey(table, fk))
	}
	return stmts
}

func (g *DDLGenerator) createForeignKey(table *schema.Table, fk *schema.ForeignKey) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s %s",
		g.quote(table.Name), g.quote(g.foreignKeyName(table, fk)), g.foreignKeyClause(fk))
}

func (g *DDLGenerator) foreignKeyClause(fk *schema.ForeignKey) string {
	return fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
		g.quoteList(fk.LocalColumns()), g.quote(fk.ForeignTable), g.quoteList(fk.ForeignColumns()))
}

func (g *DDLGenerator) dropForeignKey(table *schema.Table, fk *schema.ForeignKey) string {
	if g.dialect.DropForeignKey != nil {
		return g.dialect.DropForeignKey(g, table, fk)
	}
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", g.quote(table.Name), g.quote(g.foreignKeyName(table, fk)))
}

func (g *DDLGenerator) createIndex(table *schema.Table, idx *schema.Index) string {
	indexType := ""
	if idx.Unique {
		indexType = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
		indexType, g.quote(g.indexName(table, idx)), g.quote(table.Name), g.quoteList(idx.ColumnNames()))
}

func (g *DDLGenerator) dropIndex(table *schema.Table, idx *schema.Index) string {
	if g.dialect.DropIndex != nil {
		return g.dialect.DropIndex(g, table, idx)
	}
	return "DROP INDEX " + g.quote(g.indexName(table, idx))
}

func (g *DDLGenerator) addColumn(table *schema.Table, col *schema.Column, previous, next string) string {
	if g.dialect.AddColumn != nil {
		return g.dialect.AddColumn(g, table, col, previous, next)
	}
	return g.baseAddColumn(table, col)
}

func (g *DDLGenerator) baseAddColumn(table *schema.Table, col *schema.Column) string {
	keyword := "ADD "
	if g.info.ColumnKeywordInAdd {
		keyword = "ADD COLUMN "
	}
	return fmt.Sprintf("ALTER TABLE %s %s%s", g.quote(table.Name), keyword, g.columnDefinition(table, col))
}

// modifyColumn renders column changes with the ANSI ALTER COLUMN forms.
func (g *DDLGenerator) modifyColumn(table *schema.Table, from, to *schema.Column, c diff.ColumnChange) ([]string, error) {
	prefix := fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s ", g.quote(table.Name), g.quote(to.Name))
	switch c.(type) {
	case *diff.ColumnTypeChange, *diff.ColumnSizeChange:
		return []string{prefix + "SET DATA TYPE " + g.sqlType(to)}, nil
	case *diff.ColumnRequiredChange:
		if to.Required {
			return []string{prefix + "SET NOT NULL"}, nil
		}
		return []string{prefix + "DROP NOT NULL"}, nil
	case *diff.ColumnDefaultValueChange:
		if to.HasDefault() {
			return []string{prefix + "SET DEFAULT " + g.formatDefault(to)}, nil
		}
		return []string{prefix + "DROP DEFAULT"}, nil
	case *diff.ColumnAutoIncrementChange:
		if to.AutoIncrement {
			return []string{prefix + "ADD GENERATED BY DEFAULT AS IDENTITY"}, nil
		}
		return []string{prefix + "DROP IDENTITY"}, nil
	}
	return nil, g.unsupported(c, "unknown column change")
}

func (g *DDLGenerator) columnDefinition(table *schema.Table, col *schema.Column) string {
	def := g.quote(col.Name) + " " + g.sqlType(col)

	if value := g.defaultValue(table, col); value != "" {
		def += " DEFAULT " + value
	}

	if col.Required && g.info.NotNullRequired {
		def += " NOT NULL"
	} else if !col.Required && g.info.NullRequired {
		def += " NULL"
	}

	if col.AutoIncrement {
		if clause := g.autoIncrement(table, col); clause != "" {
			def += " " + clause
		}
	}
	return def
}

func (g *DDLGenerator) sqlType(col *schema.Column) string {
	if g.dialect.SQLType != nil {
		return g.dialect.SQLType(g, col)
	}
	return g.baseSQLType(col)
}

// baseSQLType renders the native type with its size. Native types that
// carry a fixed size keep it; a {0} placeholder marks where the size goes.
func (g *DDLGenerator) baseSQLType(col *schema.Column) string {
	native := g.info.NativeType(col.TypeCode())
	size := ""
	if g.info.HasSize(col.TypeCode()) {
		size = col.Size()
		if size == "" {
			size, _ = g.info.DefaultSize(col.TypeCode())
		}
		if size != "" && g.info.HasPrecisionAndScale(col.TypeCode()) {
			size = fmt.Sprintf("%s,%d", size, col.Scale())
		}
	}
	if strings.Contains(native, "{0}") {
		if size == "" {
			return strings.Join(strings.Fields(strings.ReplaceAll(native, "{0}", "")), " ")
		}
		return strings.ReplaceAll(native, "{0}", "("+size+")")
	}
	if size == "" || strings.Contains(native, "(") {
		return native
	}
	return native + "(" + size + ")"
}

func (g *DDLGenerator) defaultValue(table *schema.Table, col *schema.Column) string {
	if g.dialect.DefaultValue != nil {
		return g.dialect.DefaultValue(g, table, col)
	}
	if !col.HasDefault() {
		return ""
	}
	return g.formatDefault(col)
}

// formatDefault quotes the default of text and date/time columns.
func (g *DDLGenerator) formatDefault(col *schema.Column) string {
	value := col.Default()
	if col.IsText() || col.IsDateTime() {
		return "'" + strings.ReplaceAll(value, "'", "''") + "'"
	}
	return value
}

func (g *DDLGenerator) autoIncrement(table *schema.Table, col *schema.Column) string {
	if g.dialect.AutoIncrement != nil {
		return g.dialect.AutoIncrement(g, table, col)
	}
	return "GENERATED BY DEFAULT AS IDENTITY"
}

func (g *DDLGenerator) primaryKeyName(table *schema.Table) string {
	if g.dialect.PrimaryKeyName != nil {
		return g.info.ShortenName(g.dialect.PrimaryKeyName(table))
	}
	return g.info.ShortenName("PK_" + table.Name)
}

func (g *DDLGenerator) foreignKeyName(table *schema.Table, fk *schema.ForeignKey) string {
	if fk.Name != "" {
		return g.info.ShortenName(fk.Name)
	}
	return g.info.ShortenName("FK_" + table.Name + "_" + strings.Join(fk.LocalColumns(), "_"))
}

func (g *DDLGenerator) indexName(table *schema.Table, idx *schema.Index) string {
	if idx.Name != "" {
		return g.info.ShortenName(idx.Name)
	}
	return g.info.ShortenName("IX_" + table.Name + "_" + strings.Join(idx.ColumnNames(), "_"))
}

func (g *DDLGenerator) quote(name string) string {
	if !g.Delimited {
		return name
	}
	return g.info.QuoteStart + name + g.info.QuoteEnd
}

func (g *DDLGenerator) quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = g.quote(name)
	}
	return strings.Join(quoted, ", ")
}
