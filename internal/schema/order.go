package schema

// SortTables returns the tables of the database in foreign-key-safe
// insertion order.
func (d *Database) SortTables(caseSensitive bool) ([]*Table, error) {
	return SortTables(d.Tables, caseSensitive)
}

// SortTables orders tables so that every table comes after the tables its
// foreign keys reference. Self references and references to tables outside
// the given set are ignored. Ties keep the declaration order. A cycle
// yields an OrderingError listing its members.
func SortTables(tables []*Table, caseSensitive bool) ([]*Table, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	var (
		state  = make([]int, len(tables))
		sorted = make([]*Table, 0, len(tables))
		stack  []int
		index  = func(name string) int {
			for i, t := range tables {
				if EqualNames(t.Name, name, caseSensitive) {
					return i
				}
			}
			return -1
		}
	)
	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			var members []string
			for j := len(stack) - 1; j >= 0; j-- {
				members = append([]string{tables[stack[j]].Name}, members...)
				if stack[j] == i {
					break
				}
			}
			return &OrderingError{Tables: members}
		}
		state[i] = visiting
		stack = append(stack, i)
		for _, fk := range tables[i].ForeignKeys {
			j := index(fk.ForeignTable)
			if j < 0 || j == i {
				continue
			}
			if err := visit(j); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = done
		sorted = append(sorted, tables[i])
		return nil
	}
	for i := range tables {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}
