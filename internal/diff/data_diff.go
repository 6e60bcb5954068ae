package diff

import (
	"encoding/json"
	"fmt"

	"github.com/koba/ddlkit/internal/schema"
)

// DataDiff represents data differences for a table
type DataDiff struct {
	Table        *schema.Table
	RowsAdded    []schema.Row
	RowsDeleted  []schema.Row
	RowsModified []RowModification
}

// RowModification represents a modified row
type RowModification struct {
	OldRow schema.Row
	NewRow schema.Row
}

// Empty reports if the diff holds no row changes.
func (d *DataDiff) Empty() bool {
	return len(d.RowsAdded) == 0 && len(d.RowsDeleted) == 0 && len(d.RowsModified) == 0
}

// CompareData compares the rows of a table captured at two points in
// time. Rows are matched by primary key; without one, rows are matched
// by their full content. It returns nil if the rows are the same.
func CompareData(table *schema.Table, oldData, newData []schema.Row) *DataDiff {
	diff := &DataDiff{Table: table}

	keyColumns := table.PrimaryKeyNames()
	if len(keyColumns) == 0 {
		for _, c := range table.Columns {
			keyColumns = append(keyColumns, c.Name)
		}
	}

	oldRows := make(map[string]schema.Row, len(oldData))
	for _, row := range oldData {
		oldRows[rowKey(row, keyColumns)] = row
	}
	newKeys := make(map[string]bool, len(newData))

	for _, newRow := range newData {
		key := rowKey(newRow, keyColumns)
		newKeys[key] = true
		if oldRow, exists := oldRows[key]; exists {
			if !rowsEqual(oldRow, newRow) {
				diff.RowsModified = append(diff.RowsModified, RowModification{
					OldRow: oldRow,
					NewRow: newRow,
				})
			}
		} else {
			diff.RowsAdded = append(diff.RowsAdded, newRow)
		}
	}

	for _, oldRow := range oldData {
		if !newKeys[rowKey(oldRow, keyColumns)] {
			diff.RowsDeleted = append(diff.RowsDeleted, oldRow)
		}
	}

	if diff.Empty() {
		return nil
	}
	return diff
}

// rowKey generates a unique key for a row based on the key columns
func rowKey(row schema.Row, keyColumns []string) string {
	keyParts := make([]any, len(keyColumns))
	for i, col := range keyColumns {
		keyParts[i] = row[col]
	}

	keyJSON, err := json.Marshal(keyParts)
	if err != nil {
		return fmt.Sprintf("%v", keyParts)
	}
	return string(keyJSON)
}

// rowsEqual checks if two rows are equal
func rowsEqual(a, b schema.Row) bool {
	if len(a) != len(b) {
		return false
	}
	for key, valA := range a {
		valB, exists := b[key]
		if !exists {
			return false
		}
		// JSON encoding smooths over numeric type differences after a round trip.
		jsonA, _ := json.Marshal(valA)
		jsonB, _ := json.Marshal(valB)
		if string(jsonA) != string(jsonB) {
			return false
		}
	}
	return true
}
