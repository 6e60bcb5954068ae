package generator

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/koba/ddlkit/internal/diff"
	"github.com/koba/ddlkit/internal/schema"
)

// DMLGenerator generates DML statements for data diffs
type DMLGenerator struct {
	ddl *DDLGenerator
}

// NewDMLGenerator creates a new DML generator sharing the quoting rules of
// the DDL generator.
func NewDMLGenerator(ddl *DDLGenerator) *DMLGenerator {
	return &DMLGenerator{ddl: ddl}
}

// Generate generates DML for a data diff: deletes, then inserts, then
// updates. Columns are written in table order.
func (g *DMLGenerator) Generate(dataDiff *diff.DataDiff) []string {
	var statements []string
	table := dataDiff.Table

	for _, row := range dataDiff.RowsDeleted {
		statements = append(statements, g.generateDelete(table, row))
	}

	for _, row := range dataDiff.RowsAdded {
		statements = append(statements, g.generateInsert(table, row))
	}

	for _, mod := range dataDiff.RowsModified {
		if stmt := g.generateUpdate(table, mod.OldRow, mod.NewRow); stmt != "" {
			statements = append(statements, stmt)
		}
	}

	return statements
}

// Select returns a query reading the rows of a table, its columns in table
// order and sorted by primary key. A positive limit caps the row count.
func (g *DMLGenerator) Select(table *schema.Table, limit int) string {
	names := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		names[i] = c.Name
	}
	query := fmt.Sprintf("SELECT %s FROM %s", g.ddl.quoteList(names), g.ddl.quote(table.Name))
	if pk := table.PrimaryKeyNames(); len(pk) > 0 {
		query += " ORDER BY " + g.ddl.quoteList(pk)
	}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return query
}

// GenerateAll generates DML for the diffs of several tables. Deletes run
// in reverse order, inserts and updates in the given order, which should be
// referenced tables first.
func (g *DMLGenerator) GenerateAll(diffs []*diff.DataDiff) []string {
	var statements []string
	for i := len(diffs) - 1; i >= 0; i-- {
		for _, row := range diffs[i].RowsDeleted {
			statements = append(statements, g.generateDelete(diffs[i].Table, row))
		}
	}
	for _, d := range diffs {
		statements = append(statements, g.Generate(&diff.DataDiff{Table: d.Table, RowsAdded: d.RowsAdded, RowsModified: d.RowsModified})...)
	}
	return statements
}

func (g *DMLGenerator) generateInsert(table *schema.Table, row schema.Row) string {
	var columns []string
	var values []string

	for _, col := range table.Columns {
		val, ok := row[col.Name]
		if !ok {
			continue
		}
		columns = append(columns, g.ddl.quote(col.Name))
		values = append(values, formatValue(val))
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		g.ddl.quote(table.Name),
		strings.Join(columns, ", "),
		strings.Join(values, ", "),
	)
}

func (g *DMLGenerator) generateDelete(table *schema.Table, row schema.Row) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s",
		g.ddl.quote(table.Name),
		g.buildWhereClause(table, row),
	)
}

func (g *DMLGenerator) generateUpdate(table *schema.Table, oldRow, newRow schema.Row) string {
	var setClauses []string

	for _, col := range table.Columns {
		newVal, ok := newRow[col.Name]
		if !ok {
			continue
		}
		oldVal, exists := oldRow[col.Name]
		if !exists || !valuesEqual(oldVal, newVal) {
			setClauses = append(setClauses,
				fmt.Sprintf("%s = %s", g.ddl.quote(col.Name), formatValue(newVal)),
			)
		}
	}

	if len(setClauses) == 0 {
		return ""
	}

	return fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		g.ddl.quote(table.Name),
		strings.Join(setClauses, ", "),
		g.buildWhereClause(table, oldRow),
	)
}

// buildWhereClause matches a row by its primary key, or by all of its
// values if the table has none.
func (g *DMLGenerator) buildWhereClause(table *schema.Table, row schema.Row) string {
	keys := table.PrimaryKeyNames()
	if len(keys) == 0 {
		for _, col := range table.Columns {
			keys = append(keys, col.Name)
		}
	}

	var conditions []string
	for _, col := range keys {
		val, ok := row[col]
		if !ok {
			continue
		}
		if val == nil {
			conditions = append(conditions, fmt.Sprintf("%s IS NULL", g.ddl.quote(col)))
		} else {
			conditions = append(conditions, fmt.Sprintf("%s = %s", g.ddl.quote(col), formatValue(val)))
		}
	}

	return strings.Join(conditions, " AND ")
}

func formatValue(val any) string {
	if val == nil {
		return "NULL"
	}

	switch v := val.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case []byte:
		return "X'" + hex.EncodeToString(v) + "'"
	case time.Time:
		return "'" + v.Format("2006-01-02 15:04:05") + "'"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%v", v)
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	default:
		return "'" + strings.ReplaceAll(fmt.Sprintf("%v", v), "'", "''") + "'"
	}
}

func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}
