// Package rowmap maps result set columns to the columns of a model table
// and iterates query results as schema rows.
package rowmap

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/koba/ddlkit/internal/schema"
)

// Field maps one result column.
type Field struct {
	// Column is the name reported by the result set.
	Column string
	// Property is the model column name rows are keyed by. It is Column
	// when the table has no matching column.
	Property string
	// Key is the name the value is exported under: the column's field
	// name if the model sets one, else derived from Property.
	Key string
	// Model is the matching table column, if any.
	Model *schema.Column
}

// Mapping is built once per result set.
type Mapping struct {
	Table  *schema.Table
	Fields []Field
}

// New maps the result columns against table, which may be nil.
func New(table *schema.Table, columns []string, caseSensitive bool) *Mapping {
	m := &Mapping{Table: table, Fields: make([]Field, len(columns))}
	for i, name := range columns {
		f := Field{Column: name, Property: name}
		if table != nil {
			if c := table.Column(name, caseSensitive); c != nil {
				f.Property = c.Name
				f.Model = c
			}
		}
		f.Key = KeyFor(f.Property)
		if f.Model != nil && f.Model.FieldName != "" {
			f.Key = f.Model.FieldName
		}
		m.Fields[i] = f
	}
	return m
}

// ForTable maps the columns of table as declared.
func ForTable(table *schema.Table) *Mapping {
	names := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		names[i] = c.Name
	}
	return New(table, names, true)
}

// KeyFor derives the export key of a column name: customer_id and
// CUSTOMER_ID both become customerId.
func KeyFor(column string) string {
	if strings.ToUpper(column) == column {
		column = strings.ToLower(column)
	}
	return inflect.CamelizeDownFirst(column)
}

// Record returns row keyed by export key.
func (m *Mapping) Record(row schema.Row) map[string]any {
	rec := make(map[string]any, len(m.Fields))
	for _, f := range m.Fields {
		if v, ok := row[f.Property]; ok {
			rec[f.Key] = v
		}
	}
	return rec
}

// Row is the inverse of Record. Unknown keys are dropped.
func (m *Mapping) Row(rec map[string]any) schema.Row {
	row := make(schema.Row, len(m.Fields))
	for _, f := range m.Fields {
		if v, ok := rec[f.Key]; ok {
			row[f.Property] = v
		}
	}
	return row
}

func (m *Mapping) value(f Field, raw any) any {
	b, ok := raw.([]byte)
	if !ok {
		return raw
	}
	if f.Model != nil && f.Model.IsBinary() {
		return append([]byte(nil), b...)
	}
	return string(b)
}

// Each calls fn for every row of rows, keyed by property. Binary model
// columns keep their bytes, other byte values become strings. The rows are
// closed when Each returns, whether fn failed or not.
func Each(rows *sql.Rows, table *schema.Table, caseSensitive bool, fn func(schema.Row) error) error {
	if rows == nil {
		return nil
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to get columns: %w", err)
	}
	m := New(table, columns, caseSensitive)

	dest := make([]any, len(columns))
	for i := range dest {
		dest[i] = new(any)
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(schema.Row, len(columns))
		for i, f := range m.Fields {
			row[f.Property] = m.value(f, *(dest[i].(*any)))
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Collect reads all rows into a slice.
func Collect(rows *sql.Rows, table *schema.Table, caseSensitive bool) ([]schema.Row, error) {
	var data []schema.Row
	err := Each(rows, table, caseSensitive, func(row schema.Row) error {
		data = append(data, row)
		return nil
	})
	return data, err
}
