package generator

import (
	"fmt"
	"strings"

	"github.com/koba/ddlkit/internal/diff"
	"github.com/koba/ddlkit/internal/schema"
)

// Dialect holds the statement forms in which a database deviates from the
// ANSI forms the generator writes by default. A nil hook means the default.
type Dialect struct {
	SQLType          func(g *DDLGenerator, c *schema.Column) string
	DefaultValue     func(g *DDLGenerator, t *schema.Table, c *schema.Column) string
	AutoIncrement    func(g *DDLGenerator, t *schema.Table, c *schema.Column) string
	InlinePrimaryKey func(t *schema.Table) bool
	PrimaryKeyName   func(t *schema.Table) string

	DropTable      func(g *DDLGenerator, t *schema.Table) string
	AddColumn      func(g *DDLGenerator, t *schema.Table, c *schema.Column, previous, next string) string
	DropColumn     func(g *DDLGenerator, t *schema.Table, column string) string
	ModifyColumn   func(g *DDLGenerator, t *schema.Table, from, to *schema.Column, c diff.ColumnChange) ([]string, error)
	AddPrimaryKey  func(g *DDLGenerator, t *schema.Table, columns []string) ([]string, error)
	DropPrimaryKey func(g *DDLGenerator, t *schema.Table) ([]string, error)
	DropIndex      func(g *DDLGenerator, t *schema.Table, idx *schema.Index) string
	DropForeignKey func(g *DDLGenerator, t *schema.Table, fk *schema.ForeignKey) string
}

var dialects = map[string]*Dialect{
	"cloudscape": {
		AutoIncrement: fixedClause("GENERATED ALWAYS AS IDENTITY"),
	},
	"hsqldb": {
		DropTable: func(g *DDLGenerator, t *schema.Table) string {
			return fmt.Sprintf("DROP TABLE %s IF EXISTS", g.quote(t.Name))
		},
		AddColumn: func(g *DDLGenerator, t *schema.Table, c *schema.Column, _, next string) string {
			stmt := g.baseAddColumn(t, c)
			if next != "" {
				stmt += " BEFORE " + g.quote(next)
			}
			return stmt
		},
	},
	"maxdb": sapDB(),
	"mckoi": {
		DropTable: dropTableIfExists,
		DefaultValue: func(g *DDLGenerator, t *schema.Table, c *schema.Column) string {
			if c.AutoIncrement {
				return fmt.Sprintf("UNIQUEKEY('%s')", t.Name)
			}
			return baseDefault(g, c)
		},
		AutoIncrement: fixedClause(""),
	},
	"mssql": {
		AutoIncrement: fixedClause("IDENTITY (1,1)"),
		DropIndex:     dropIndexOn,
		ModifyColumn:  modifyMSSQLColumn,
	},
	"mysql": {
		AutoIncrement: fixedClause("AUTO_INCREMENT"),
		DropTable:     dropTableIfExists,
		AddColumn: func(g *DDLGenerator, t *schema.Table, c *schema.Column, previous, next string) string {
			stmt := g.baseAddColumn(t, c)
			switch {
			case previous != "":
				stmt += " AFTER " + g.quote(previous)
			case next != "":
				stmt += " FIRST"
			}
			return stmt
		},
		ModifyColumn: func(g *DDLGenerator, t *schema.Table, _, to *schema.Column, _ diff.ColumnChange) ([]string, error) {
			return []string{fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s", g.quote(t.Name), g.columnDefinition(t, to))}, nil
		},
		DropPrimaryKey: func(g *DDLGenerator, t *schema.Table) ([]string, error) {
			return []string{fmt.Sprintf("ALTER TABLE %s DROP PRIMARY KEY", g.quote(t.Name))}, nil
		},
		DropIndex: dropIndexOn,
		DropForeignKey: func(g *DDLGenerator, t *schema.Table, fk *schema.ForeignKey) string {
			return fmt.Sprintf("ALTER TABLE %s DROP FOREIGN KEY %s", g.quote(t.Name), g.quote(g.foreignKeyName(t, fk)))
		},
	},
	"oracle": {
		DropTable: func(g *DDLGenerator, t *schema.Table) string {
			return fmt.Sprintf("DROP TABLE %s CASCADE CONSTRAINTS", g.quote(t.Name))
		},
		ModifyColumn: modifyOracleColumn,
	},
	"postgresql": {
		SQLType: func(g *DDLGenerator, c *schema.Column) string {
			if c.AutoIncrement {
				switch c.TypeCode() {
				case schema.TypeTinyInt, schema.TypeSmallInt, schema.TypeInteger:
					return "SERIAL"
				case schema.TypeBigInt:
					return "BIGSERIAL"
				}
			}
			return g.baseSQLType(c)
		},
		AutoIncrement: func(_ *DDLGenerator, _ *schema.Table, c *schema.Column) string {
			switch c.TypeCode() {
			case schema.TypeTinyInt, schema.TypeSmallInt, schema.TypeInteger, schema.TypeBigInt:
				return ""
			}
			return "GENERATED BY DEFAULT AS IDENTITY"
		},
		PrimaryKeyName: func(t *schema.Table) string { return t.Name + "_pkey" },
		DropTable: func(g *DDLGenerator, t *schema.Table) string {
			return fmt.Sprintf("DROP TABLE %s CASCADE", g.quote(t.Name))
		},
		ModifyColumn: func(g *DDLGenerator, t *schema.Table, from, to *schema.Column, c diff.ColumnChange) ([]string, error) {
			switch c.(type) {
			case *diff.ColumnTypeChange, *diff.ColumnSizeChange:
				// SERIAL only exists in CREATE TABLE.
				return []string{fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s", g.quote(t.Name), g.quote(to.Name), g.baseSQLType(to))}, nil
			}
			return g.modifyColumn(t, from, to, c)
		},
	},
	"sapdb": sapDB(),
	"sqlite": {
		SQLType: func(g *DDLGenerator, c *schema.Column) string {
			if c.AutoIncrement && c.PrimaryKey {
				return "INTEGER"
			}
			return g.baseSQLType(c)
		},
		AutoIncrement: func(_ *DDLGenerator, t *schema.Table, c *schema.Column) string {
			if c.PrimaryKey && len(t.PrimaryKeyColumns()) == 1 {
				return "PRIMARY KEY AUTOINCREMENT"
			}
			return ""
		},
		InlinePrimaryKey: func(t *schema.Table) bool {
			pk := t.PrimaryKeyColumns()
			return len(pk) == 1 && pk[0].AutoIncrement
		},
		DropTable: dropTableIfExists,
		AddPrimaryKey: func(g *DDLGenerator, t *schema.Table, _ []string) ([]string, error) {
			return nil, &UnsupportedChangeError{Dialect: g.info.Name, Change: "AddPrimaryKey", Table: t.Name, Reason: "primary keys can only be created along with the table"}
		},
		DropPrimaryKey: func(g *DDLGenerator, t *schema.Table) ([]string, error) {
			return nil, &UnsupportedChangeError{Dialect: g.info.Name, Change: "RemovePrimaryKey", Table: t.Name, Reason: "primary keys can only be dropped along with the table"}
		},
	},
	"sybase": {
		AutoIncrement: fixedClause("IDENTITY"),
		DropIndex: func(g *DDLGenerator, t *schema.Table, idx *schema.Index) string {
			return fmt.Sprintf("DROP INDEX %s.%s", g.quote(t.Name), g.quote(g.indexName(t, idx)))
		},
		ModifyColumn: modifySybaseColumn,
	},
}

func sapDB() *Dialect {
	return &Dialect{
		SQLType: func(g *DDLGenerator, c *schema.Column) string {
			switch c.TypeCode() {
			case schema.TypeBinary, schema.TypeVarBinary:
				return g.info.NativeType(c.TypeCode())
			}
			return g.baseSQLType(c)
		},
		DefaultValue: func(g *DDLGenerator, _ *schema.Table, c *schema.Column) string {
			if c.AutoIncrement {
				return "SERIAL(1)"
			}
			return baseDefault(g, c)
		},
		AutoIncrement: fixedClause(""),
		DropTable: func(g *DDLGenerator, t *schema.Table) string {
			return fmt.Sprintf("DROP TABLE %s CASCADE", g.quote(t.Name))
		},
	}
}

func fixedClause(clause string) func(*DDLGenerator, *schema.Table, *schema.Column) string {
	return func(*DDLGenerator, *schema.Table, *schema.Column) string { return clause }
}

func baseDefault(g *DDLGenerator, c *schema.Column) string {
	if !c.HasDefault() {
		return ""
	}
	return g.formatDefault(c)
}

func dropTableIfExists(g *DDLGenerator, t *schema.Table) string {
	return "DROP TABLE IF EXISTS " + g.quote(t.Name)
}

func dropIndexOn(g *DDLGenerator, t *schema.Table, idx *schema.Index) string {
	return fmt.Sprintf("DROP INDEX %s ON %s", g.quote(g.indexName(t, idx)), g.quote(t.Name))
}

// nullability renders the NOT NULL or NULL suffix used where a column is
// redefined as a whole.
func nullability(c *schema.Column) string {
	if c.Required {
		return " NOT NULL"
	}
	return " NULL"
}

func modifyMSSQLColumn(g *DDLGenerator, t *schema.Table, _, to *schema.Column, c diff.ColumnChange) ([]string, error) {
	table := g.quote(t.Name)
	switch c.(type) {
	case *diff.ColumnTypeChange, *diff.ColumnSizeChange, *diff.ColumnRequiredChange:
		return []string{fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s%s", table, g.quote(to.Name), g.sqlType(to), nullability(to))}, nil
	case *diff.ColumnDefaultValueChange:
		if to.HasDefault() {
			return []string{fmt.Sprintf("ALTER TABLE %s ADD DEFAULT %s FOR %s", table, g.formatDefault(to), g.quote(to.Name))}, nil
		}
		return nil, g.unsupported(c, "default constraints are dropped by name")
	}
	return nil, g.unsupported(c, "identity columns cannot be altered")
}

func modifySybaseColumn(g *DDLGenerator, t *schema.Table, _, to *schema.Column, c diff.ColumnChange) ([]string, error) {
	table := g.quote(t.Name)
	switch c.(type) {
	case *diff.ColumnTypeChange, *diff.ColumnSizeChange, *diff.ColumnRequiredChange:
		return []string{fmt.Sprintf("ALTER TABLE %s MODIFY %s %s%s", table, g.quote(to.Name), g.sqlType(to), nullability(to))}, nil
	case *diff.ColumnDefaultValueChange:
		value := "NULL"
		if to.HasDefault() {
			value = g.formatDefault(to)
		}
		return []string{fmt.Sprintf("ALTER TABLE %s REPLACE %s DEFAULT %s", table, g.quote(to.Name), value)}, nil
	}
	return nil, g.unsupported(c, "identity columns cannot be altered")
}

func modifyOracleColumn(g *DDLGenerator, t *schema.Table, _, to *schema.Column, c diff.ColumnChange) ([]string, error) {
	var clause string
	switch c.(type) {
	case *diff.ColumnTypeChange, *diff.ColumnSizeChange:
		clause = g.sqlType(to)
	case *diff.ColumnRequiredChange:
		clause = strings.TrimSpace(nullability(to))
	case *diff.ColumnDefaultValueChange:
		clause = "DEFAULT NULL"
		if to.HasDefault() {
			clause = "DEFAULT " + g.formatDefault(to)
		}
	default:
		return nil, g.unsupported(c, "identity columns cannot be altered")
	}
	return []string{fmt.Sprintf("ALTER TABLE %s MODIFY (%s %s)", g.quote(t.Name), g.quote(to.Name), clause)}, nil
}
