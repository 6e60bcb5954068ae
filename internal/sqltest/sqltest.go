// Package sqltest helps tests describe the result sets a mocked database
// returns.
package sqltest

import (
	"database/sql/driver"
	"regexp"
	"strings"
	"unicode"

	"github.com/DATA-DOG/go-sqlmock"
)

// Rows converts a table drawn in the style of the mysql and psql clients to
// mocked rows. Cells are returned as strings, except empty cells and the
// nil and NULL keywords, which are returned as NULL. Write '' for an empty
// string.
//
//	 table_name | table_type | remarks
//	------------+------------+---------
//	 users      | BASE TABLE | NULL
//	 posts      | BASE TABLE | ''
func Rows(table string) *sqlmock.Rows {
	var (
		nc    int
		rows  *sqlmock.Rows
		lines = strings.Split(table, "\n")
	)
	for _, line := range lines {
		line = strings.TrimFunc(line, unicode.IsSpace)
		if line == "" || strings.IndexAny(line, "+-") == 0 {
			continue
		}
		cells := strings.Split(strings.Trim(line, "|"), "|")
		for i, c := range cells {
			cells[i] = strings.TrimSpace(c)
		}
		if rows == nil {
			nc = len(cells)
			rows = sqlmock.NewRows(cells)
			continue
		}
		values := make([]driver.Value, nc)
		for i, c := range cells {
			if i >= nc {
				break
			}
			switch c {
			case "", "nil", "NULL":
			case "''":
				values[i] = ""
			default:
				values[i] = c
			}
		}
		rows.AddRow(values...)
	}
	return rows
}

// Escape quotes the regular expression metacharacters of a query and
// folds it onto one line, matching the query as the reader sends it.
func Escape(query string) string {
	lines := strings.Split(query, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return "^" + regexp.QuoteMeta(strings.TrimSpace(strings.Join(lines, " "))) + "$"
}
