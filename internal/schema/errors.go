package schema

import (
	"fmt"
	"strings"
)

// UnknownTypeError is returned when a column is given a type code or
// a type name that is not part of the type table.
type UnknownTypeError struct {
	Column string
	Code   int
	Name   string
}

func (e *UnknownTypeError) Error() string {
	var b strings.Builder
	b.WriteString("schema: unknown type ")
	if e.Name != "" {
		fmt.Fprintf(&b, "%q", e.Name)
	} else {
		fmt.Fprintf(&b, "code %d", e.Code)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " for column %q", e.Column)
	}
	return b.String()
}

// OrderingError is returned when the foreign keys between tables form
// a cycle, and a topological order cannot be computed.
type OrderingError struct {
	// Tables holds the members of the cycle, in dependency order.
	Tables []string
}

func (e *OrderingError) Error() string {
	quoted := make([]string, len(e.Tables))
	for i, t := range e.Tables {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return fmt.Sprintf("schema: cyclic foreign-key dependency between tables %s", strings.Join(quoted, ", "))
}

// DuplicateError is returned when an element is added to a container
// that already holds an element with the same name.
type DuplicateError struct {
	Kind  string
	Table string
	Name  string
}

func (e *DuplicateError) Error() string {
	if e.Table == "" || e.Kind == "table" {
		return fmt.Sprintf("schema: duplicate %s %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("schema: duplicate %s %q in table %q", e.Kind, e.Name, e.Table)
}
