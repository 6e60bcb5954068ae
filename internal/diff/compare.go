package diff

import (
	"errors"

	"github.com/koba/ddlkit/internal/schema"
)

// phases of a change list, in execution order.
const (
	phaseRemoveForeignKey = iota
	phaseRemoveIndex
	phaseRemovePrimaryKey
	phaseRemoveTable
	phaseAddTable
	phaseColumn
	phaseAddPrimaryKey
	phaseAddIndex
	phaseAddForeignKey
	phaseCount
)

type plan [phaseCount][]Change

func (p *plan) add(phase int, c Change) { p[phase] = append(p[phase], c) }

func (p *plan) changes() []Change {
	var all []Change
	for _, phase := range p {
		all = append(all, phase...)
	}
	return all
}

// Compare computes the changes that turn current into desired. The result
// is ordered so that it can be applied, or executed, front to back:
// constraints are dropped before the tables and columns they depend on, and
// created after them. Neither model is modified.
func Compare(current, desired *schema.Database, caseSensitive bool) []Change {
	var p plan
	// Removals follow the order of the current model.
	for _, cur := range current.Tables {
		des := desired.Table(cur.Name, caseSensitive)
		if des == nil {
			for _, fk := range cur.ForeignKeys {
				p.add(phaseRemoveForeignKey, &RemoveForeignKey{Table: cur.Name, ForeignKey: fk.Clone()})
			}
			p.add(phaseRemoveTable, &RemoveTable{Table: cur.Name})
			continue
		}
		removedFKs, _ := matchForeignKeys(cur, des, caseSensitive)
		for _, fk := range removedFKs {
			p.add(phaseRemoveForeignKey, &RemoveForeignKey{Table: cur.Name, ForeignKey: fk.Clone()})
		}
		removedIdx, _ := matchIndexes(cur, des, caseSensitive)
		for _, idx := range removedIdx {
			p.add(phaseRemoveIndex, &RemoveIndex{Table: cur.Name, Index: idx.Clone()})
		}
		if pk := cur.PrimaryKeyNames(); len(pk) > 0 && !schema.EqualNameLists(pk, des.PrimaryKeyNames(), caseSensitive) {
			p.add(phaseRemovePrimaryKey, &RemovePrimaryKey{Table: cur.Name, Columns: pk})
		}
	}

	// Additions and modifications follow the order of the desired model.
	var added []*schema.Table
	for _, des := range desired.Tables {
		cur := current.Table(des.Name, caseSensitive)
		if cur == nil {
			added = append(added, des)
			continue
		}
		compareColumns(&p, cur, des, caseSensitive)
		if pk := des.PrimaryKeyNames(); len(pk) > 0 && !schema.EqualNameLists(cur.PrimaryKeyNames(), pk, caseSensitive) {
			p.add(phaseAddPrimaryKey, &AddPrimaryKey{Table: des.Name, Columns: pk})
		}
		_, addedIdx := matchIndexes(cur, des, caseSensitive)
		for _, idx := range addedIdx {
			p.add(phaseAddIndex, &AddIndex{Table: des.Name, Index: idx.Clone()})
		}
	}
	deferred := addTables(&p, added, caseSensitive)
	for _, des := range desired.Tables {
		cur := current.Table(des.Name, caseSensitive)
		if cur == nil {
			for _, fk := range des.ForeignKeys {
				if deferred[fk] {
					p.add(phaseAddForeignKey, &AddForeignKey{Table: des.Name, ForeignKey: fk.Clone()})
				}
			}
			continue
		}
		_, addedFKs := matchForeignKeys(cur, des, caseSensitive)
		for _, fk := range addedFKs {
			p.add(phaseAddForeignKey, &AddForeignKey{Table: des.Name, ForeignKey: fk.Clone()})
		}
	}
	return p.changes()
}

// addTables adds the new tables in foreign key order. Keys that reference
// tables outside the new set, or that close a cycle among new tables, are
// returned to be created after all tables exist.
func addTables(p *plan, added []*schema.Table, caseSensitive bool) map[*schema.ForeignKey]bool {
	deferred := make(map[*schema.ForeignKey]bool)
	isNew := func(name string) bool {
		for _, t := range added {
			if schema.EqualNames(t.Name, name, caseSensitive) {
				return true
			}
		}
		return false
	}
	for _, t := range added {
		for _, fk := range t.ForeignKeys {
			if !isNew(fk.ForeignTable) {
				deferred[fk] = true
			}
		}
	}
	// Tables holding only the keys created along with them.
	var (
		embedded = make([]*schema.Table, len(added))
		build    = func() {
			for i, t := range added {
				e := t.Clone()
				e.ForeignKeys = nil
				for _, fk := range t.ForeignKeys {
					if !deferred[fk] {
						e.ForeignKeys = append(e.ForeignKeys, fk.Clone())
					}
				}
				embedded[i] = e
			}
		}
	)
	build()
	sorted, err := schema.SortTables(embedded, caseSensitive)
	for err != nil {
		var oerr *schema.OrderingError
		if !errors.As(err, &oerr) {
			break
		}
		member := func(name string) bool {
			for _, m := range oerr.Tables {
				if schema.EqualNames(m, name, caseSensitive) {
					return true
				}
			}
			return false
		}
		for _, t := range added {
			if !member(t.Name) {
				continue
			}
			for _, fk := range t.ForeignKeys {
				if member(fk.ForeignTable) && !schema.EqualNames(fk.ForeignTable, t.Name, caseSensitive) {
					deferred[fk] = true
				}
			}
		}
		build()
		sorted, err = schema.SortTables(embedded, caseSensitive)
	}
	for _, t := range sorted {
		p.add(phaseAddTable, &AddTable{Table: t})
	}
	return deferred
}

func compareColumns(p *plan, cur, des *schema.Table, caseSensitive bool) {
	for _, c := range cur.Columns {
		if des.Column(c.Name, caseSensitive) == nil {
			p.add(phaseColumn, &RemoveColumn{Table: des.Name, Column: c.Name})
		}
	}
	for i, d := range des.Columns {
		c := cur.Column(d.Name, caseSensitive)
		if c == nil {
			add := &AddColumn{Table: des.Name, Column: d.Clone()}
			add.Column.PrimaryKey = false
			if i > 0 {
				add.Previous = des.Columns[i-1].Name
			}
			if i < len(des.Columns)-1 {
				add.Next = des.Columns[i+1].Name
			}
			p.add(phaseColumn, add)
			continue
		}
		if c.TypeCode() != d.TypeCode() {
			p.add(phaseColumn, &ColumnTypeChange{Table: des.Name, Column: d.Name, From: c.TypeCode(), To: d.TypeCode()})
		}
		if !schema.SameSize(c, d) {
			p.add(phaseColumn, &ColumnSizeChange{
				Table:     des.Name,
				Column:    d.Name,
				FromSize:  c.Size(),
				FromScale: c.Scale(),
				Size:      d.Size(),
				Scale:     d.Scale(),
			})
		}
		if c.Required != d.Required {
			p.add(phaseColumn, &ColumnRequiredChange{Table: des.Name, Column: d.Name})
		}
		if !schema.SameDefault(c, d) {
			ch := &ColumnDefaultValueChange{Table: des.Name, Column: d.Name}
			if d.DefaultValue != nil {
				v := *d.DefaultValue
				ch.Default = &v
			}
			p.add(phaseColumn, ch)
		}
		if c.AutoIncrement != d.AutoIncrement {
			p.add(phaseColumn, &ColumnAutoIncrementChange{Table: des.Name, Column: d.Name})
		}
	}
}

// matchIndexes pairs indexes of the same kind covering the same ordered
// columns, preferring pairs that also share the name. It returns the
// unmatched indexes of each side.
func matchIndexes(cur, des *schema.Table, caseSensitive bool) (removed, added []*schema.Index) {
	curUsed := make([]bool, len(cur.Indexes))
	desUsed := make([]bool, len(des.Indexes))
	pair := func(sameName bool) {
		for i, d := range des.Indexes {
			if desUsed[i] {
				continue
			}
			for j, c := range cur.Indexes {
				if curUsed[j] || !c.Equal(d, caseSensitive) {
					continue
				}
				if sameName && !schema.EqualNames(c.Name, d.Name, caseSensitive) {
					continue
				}
				curUsed[j], desUsed[i] = true, true
				break
			}
		}
	}
	pair(true)
	pair(false)
	for j, c := range cur.Indexes {
		if !curUsed[j] {
			removed = append(removed, c)
		}
	}
	for i, d := range des.Indexes {
		if !desUsed[i] {
			added = append(added, d)
		}
	}
	return removed, added
}

// matchForeignKeys pairs keys referencing the same table with the same
// ordered column pairs. It returns the unmatched keys of each side.
func matchForeignKeys(cur, des *schema.Table, caseSensitive bool) (removed, added []*schema.ForeignKey) {
	curUsed := make([]bool, len(cur.ForeignKeys))
	for _, d := range des.ForeignKeys {
		found := false
		for j, c := range cur.ForeignKeys {
			if !curUsed[j] && c.Equal(d, caseSensitive) {
				curUsed[j], found = true, true
				break
			}
		}
		if !found {
			added = append(added, d)
		}
	}
	for j, c := range cur.ForeignKeys {
		if !curUsed[j] {
			removed = append(removed, c)
		}
	}
	return removed, added
}
