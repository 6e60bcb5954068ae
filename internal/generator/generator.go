package generator

import (
	"fmt"
	"strings"

	"github.com/koba/ddlkit/internal/diff"
	"github.com/koba/ddlkit/internal/schema"
)

// UnsupportedChangeError is returned for changes the dialect has no
// statement for.
type UnsupportedChangeError struct {
	Dialect string
	Change  string
	Table   string
	Column  string
	Reason  string
}

func (e *UnsupportedChangeError) Error() string {
	target := e.Table
	if e.Column != "" {
		target += "." + e.Column
	}
	return fmt.Sprintf("generator: %s on %s is not supported by %s: %s", e.Change, target, e.Dialect, e.Reason)
}

// GenerateSQL generates the migration statements for the changes, which
// must have been computed against current. The changes are applied to a
// copy of current as they are rendered, so every statement sees the model
// as the database will be at that point.
func GenerateSQL(g *DDLGenerator, current *schema.Database, changes []diff.Change) ([]string, error) {
	work := current.Clone()
	var stmts []string
	for i, c := range changes {
		var before *schema.Table
		if t := work.Table(c.TableName(), g.CaseSensitive); t != nil {
			before = t.Clone()
		}
		if err := diff.Apply(work, c, g.CaseSensitive); err != nil {
			return nil, fmt.Errorf("change %d of %d: %w", i+1, len(changes), err)
		}
		after := work.Table(c.TableName(), g.CaseSensitive)
		s, err := g.Change(c, before, after)
		if err != nil {
			return nil, fmt.Errorf("change %d of %d: %w", i+1, len(changes), err)
		}
		stmts = append(stmts, s...)
	}
	return stmts, nil
}

// Script joins the statements into a script, each statement terminated by
// the dialect's delimiter.
func (g *DDLGenerator) Script(stmts []string) string {
	var b strings.Builder
	for i, s := range stmts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s)
		b.WriteString(g.info.Delimiter)
		b.WriteString("\n")
	}
	return b.String()
}
