package reader

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the Go type a metadata value is converted to.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
)

// Descriptor names one column of a metadata result set. Values missing
// from the result set, or NULL, are replaced by Default; a nil Default
// leaves the value out of the row.
type Descriptor struct {
	Name    string
	Kind    Kind
	Default any
}

// Default descriptor lists. Readers copy them, so dialect setups may reorder
// or extend the lists of one reader without affecting others.
var (
	TableDescriptors = []Descriptor{
		{Name: "TABLE_NAME", Kind: KindString},
		{Name: "TABLE_TYPE", Kind: KindString, Default: "UNKNOWN"},
		{Name: "TABLE_CAT", Kind: KindString},
		{Name: "TABLE_SCHEM", Kind: KindString},
		{Name: "REMARKS", Kind: KindString},
	}

	// COLUMN_DEF comes first: some drivers stream LONG columns and fail
	// if they are read after later columns.
	ColumnDescriptors = []Descriptor{
		{Name: "COLUMN_DEF", Kind: KindString},
		{Name: "COLUMN_NAME", Kind: KindString},
		{Name: "TYPE_NAME", Kind: KindString},
		{Name: "DATA_TYPE", Kind: KindInt},
		{Name: "NUM_PREC_RADIX", Kind: KindInt, Default: 10},
		{Name: "DECIMAL_DIGITS", Kind: KindInt, Default: 0},
		{Name: "COLUMN_SIZE", Kind: KindString},
		{Name: "IS_NULLABLE", Kind: KindString, Default: "YES"},
		{Name: "IS_AUTOINCREMENT", Kind: KindString, Default: "NO"},
		{Name: "REMARKS", Kind: KindString},
	}

	PrimaryKeyDescriptors = []Descriptor{
		{Name: "COLUMN_NAME", Kind: KindString},
	}

	ForeignKeyDescriptors = []Descriptor{
		{Name: "PKTABLE_NAME", Kind: KindString},
		{Name: "KEY_SEQ", Kind: KindInt, Default: 0},
		{Name: "FK_NAME", Kind: KindString},
		{Name: "PKCOLUMN_NAME", Kind: KindString},
		{Name: "FKCOLUMN_NAME", Kind: KindString},
	}

	IndexDescriptors = []Descriptor{
		{Name: "INDEX_NAME", Kind: KindString},
		{Name: "NON_UNIQUE", Kind: KindBool, Default: true},
		{Name: "ORDINAL_POSITION", Kind: KindInt, Default: 0},
		{Name: "COLUMN_NAME", Kind: KindString},
	}
)

// values holds one metadata row keyed by descriptor name.
type values map[string]any

func (v values) str(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v values) num(name string) int {
	i, _ := v[name].(int)
	return i
}

func (v values) flag(name string) bool {
	b, _ := v[name].(bool)
	return b
}

func (v values) has(name string) bool {
	_, ok := v[name]
	return ok
}

// scanner reads the rows of one result set through a descriptor list.
type scanner struct {
	rows  *sql.Rows
	descs []Descriptor
	pos   map[string]int
	dest  []any
}

func newScanner(rows *sql.Rows, descs []Descriptor) (*scanner, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	s := &scanner{rows: rows, descs: descs, pos: make(map[string]int, len(cols)), dest: make([]any, len(cols))}
	for i, c := range cols {
		s.pos[strings.ToUpper(c)] = i
		s.dest[i] = new(any)
	}
	return s, nil
}

// each calls f for every row, converting the described columns.
func (s *scanner) each(f func(values) error) error {
	for s.rows.Next() {
		if err := s.rows.Scan(s.dest...); err != nil {
			return err
		}
		row := make(values, len(s.descs))
		for _, d := range s.descs {
			var raw any
			if i, ok := s.pos[d.Name]; ok {
				raw = *(s.dest[i].(*any))
			}
			if raw == nil {
				if d.Default != nil {
					row[d.Name] = d.Default
				}
				continue
			}
			v, err := convert(raw, d.Kind)
			if err != nil {
				return fmt.Errorf("column %s: %w", d.Name, err)
			}
			row[d.Name] = v
		}
		if err := f(row); err != nil {
			return err
		}
	}
	return s.rows.Err()
}

func convert(raw any, kind Kind) (any, error) {
	switch kind {
	case KindInt:
		switch v := raw.(type) {
		case int64:
			return int(v), nil
		case int32:
			return int(v), nil
		case int:
			return v, nil
		case float64:
			return int(v), nil
		case bool:
			if v {
				return 1, nil
			}
			return 0, nil
		case []byte:
			return strconv.Atoi(strings.TrimSpace(string(v)))
		case string:
			return strconv.Atoi(strings.TrimSpace(v))
		}
	case KindBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case int64:
			return v != 0, nil
		case int:
			return v != 0, nil
		case []byte:
			return parseBool(string(v))
		case string:
			return parseBool(v)
		}
	default:
		switch v := raw.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		default:
			return fmt.Sprint(v), nil
		}
	}
	return nil, fmt.Errorf("cannot convert %T", raw)
}

func parseBool(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1", "T", "TRUE", "Y", "YES":
		return true, nil
	case "0", "F", "FALSE", "N", "NO":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
