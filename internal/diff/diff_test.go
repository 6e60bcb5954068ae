package diff

import (
	"bytes"
	"errors"
	"testing"

	"github.com/koba/ddlkit/internal/schema"
	"github.com/stretchr/testify/require"
)

type colOpt func(*schema.Column)

func pk(c *schema.Column)      { c.PrimaryKey, c.Required = true, true }
func notNull(c *schema.Column) { c.Required = true }
func autoInc(c *schema.Column) { c.AutoIncrement = true }
func def(v string) colOpt      { return func(c *schema.Column) { c.SetDefault(v) } }
func size(s string) colOpt     { return func(c *schema.Column) { _ = c.SetSize(s) } }

func fk(to string, pairs ...string) *schema.ForeignKey {
	f := &schema.ForeignKey{ForeignTable: to}
	for i := 0; i+1 < len(pairs); i += 2 {
		f.References = append(f.References, &schema.Reference{Local: pairs[i], Foreign: pairs[i+1], Sequence: i/2 + 1})
	}
	return f
}

func index(name string, unique bool, cols ...string) *schema.Index {
	idx := &schema.Index{Name: name, Unique: unique}
	for i, c := range cols {
		idx.Columns = append(idx.Columns, &schema.IndexColumn{Name: c, OrdinalPosition: i + 1})
	}
	return idx
}

func col(t *testing.T, name, typ string, opts ...colOpt) *schema.Column {
	t.Helper()
	c, err := schema.NewColumn(name, typ)
	require.NoError(t, err)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func table(name string, cols ...*schema.Column) *schema.Table {
	return &schema.Table{Name: name, Type: "TABLE", Columns: cols}
}

func db(tables ...*schema.Table) *schema.Database {
	return &schema.Database{Name: "test", Tables: tables}
}

// shop builds a small model with keys, indexes and foreign keys.
func shop(t *testing.T) *schema.Database {
	customers := table("customers",
		col(t, "id", "INTEGER", pk, autoInc),
		col(t, "name", "VARCHAR", size("100"), notNull),
		col(t, "email", "VARCHAR", size("254")),
	)
	customers.Indexes = []*schema.Index{index("ix_customers_email", true, "email")}
	orders := table("orders",
		col(t, "id", "INTEGER", pk, autoInc),
		col(t, "customer_id", "INTEGER", notNull),
		col(t, "total", "DECIMAL", size("10,2"), def("0")),
	)
	orders.ForeignKeys = []*schema.ForeignKey{fk("customers", "customer_id", "id")}
	orders.Indexes = []*schema.Index{index("ix_orders_customer", false, "customer_id")}
	return db(customers, orders)
}

func kinds(changes []Change) []string {
	var k []string
	for _, c := range changes {
		k = append(k, Kind(c))
	}
	return k
}

func TestCompare_Identical(t *testing.T) {
	m := shop(t)
	require.Empty(t, Compare(m, m.Clone(), false))
	require.Empty(t, Compare(m, m.Clone(), true))

	renamed := m.Clone()
	renamed.Tables[0].Indexes[0].Name = "other_name"
	renamed.Tables[1].ForeignKeys[0].Name = "fk_whatever"
	require.Empty(t, Compare(m, renamed, false), "index and foreign key names are not significant")
}

func TestCompare_AddColumn(t *testing.T) {
	current := db(table("t1", col(t, "id", "INTEGER", pk), col(t, "name", "VARCHAR", size("50"))))
	desired := db(table("t1", col(t, "id", "INTEGER", pk), col(t, "name", "VARCHAR", size("50")), col(t, "email", "VARCHAR", size("254"), notNull)))

	changes := Compare(current, desired, false)
	require.Len(t, changes, 1)
	add, ok := changes[0].(*AddColumn)
	require.True(t, ok)
	require.Equal(t, "t1", add.TableName())
	require.Equal(t, "email", add.ColumnName())
	require.Equal(t, "name", add.Previous)
	require.Empty(t, add.Next)
	require.True(t, add.Column.Required)
}

func TestCompare_AddTablesInDependencyOrder(t *testing.T) {
	t2 := table("t2", col(t, "id", "INTEGER", pk), col(t, "t1_id", "INTEGER"))
	t2.ForeignKeys = []*schema.ForeignKey{fk("t1", "t1_id", "id")}
	t1 := table("t1", col(t, "id", "INTEGER", pk))

	changes := Compare(db(), db(t2, t1), false)
	require.Equal(t, []string{"AddTable", "AddTable"}, kinds(changes))
	require.Equal(t, "t1", changes[0].TableName())
	require.Equal(t, "t2", changes[1].TableName())
	require.Len(t, changes[1].(*AddTable).Table.ForeignKeys, 1, "keys between new tables are created with the table")
}

func TestCompare_DeferredForeignKey(t *testing.T) {
	t1 := table("t1", col(t, "id", "INTEGER", pk))
	t2 := table("t2", col(t, "id", "INTEGER", pk), col(t, "t1_id", "INTEGER"))
	t2.ForeignKeys = []*schema.ForeignKey{fk("t1", "t1_id", "id")}

	changes := Compare(db(t1), db(t1.Clone(), t2), false)
	require.Equal(t, []string{"AddTable", "AddForeignKey"}, kinds(changes))
	require.Empty(t, changes[0].(*AddTable).Table.ForeignKeys)
	require.Equal(t, "t1", changes[1].(*AddForeignKey).ForeignKey.ForeignTable)
	require.Len(t, t2.ForeignKeys, 1, "desired model is not modified")
}

func TestCompare_CycleAmongNewTables(t *testing.T) {
	a := table("a", col(t, "id", "INTEGER", pk), col(t, "b_id", "INTEGER"))
	a.ForeignKeys = []*schema.ForeignKey{fk("b", "b_id", "id")}
	b := table("b", col(t, "id", "INTEGER", pk), col(t, "a_id", "INTEGER"), col(t, "parent", "INTEGER"))
	b.ForeignKeys = []*schema.ForeignKey{fk("a", "a_id", "id"), fk("b", "parent", "id")}

	desired := db(a, b)
	changes := Compare(db(), desired, false)
	require.Equal(t, []string{"AddTable", "AddTable", "AddForeignKey", "AddForeignKey"}, kinds(changes))
	require.Equal(t, "a", changes[0].TableName())
	require.Equal(t, "b", changes[1].TableName())
	require.Len(t, changes[1].(*AddTable).Table.ForeignKeys, 1, "self reference stays embedded")

	applied := db()
	require.NoError(t, ApplyAll(applied, changes, false))
	require.True(t, applied.Equal(desired, false))
}

func TestCompare_Phases(t *testing.T) {
	current := shop(t)
	current.Tables = append(current.Tables, table("legacy", col(t, "id", "INTEGER", pk)))
	current.Tables[2].ForeignKeys = []*schema.ForeignKey{fk("customers", "id", "id")}

	desired := shop(t)
	customers, orders := desired.Tables[0], desired.Tables[1]
	customers.Indexes = []*schema.Index{index("ix_customers_email", false, "email")}
	customers.Columns = append(customers.Columns, col(t, "phone", "VARCHAR", size("20")))
	orders.Columns[2].DefaultValue = nil
	orders.ForeignKeys = nil
	lines := table("lines", col(t, "order_id", "INTEGER", pk), col(t, "no", "INTEGER", pk))
	lines.ForeignKeys = []*schema.ForeignKey{fk("orders", "order_id", "id")}
	desired.Tables = append(desired.Tables, lines)

	changes := Compare(current, desired, false)
	require.Equal(t, []string{
		"RemoveForeignKey", // orders -> customers
		"RemoveForeignKey", // legacy -> customers
		"RemoveIndex",
		"RemoveTable",
		"AddTable",
		"AddColumn",
		"ColumnDefaultValueChange",
		"AddIndex",
		"AddForeignKey",
	}, kinds(changes))
	require.Equal(t, "orders", changes[0].TableName())
	require.Equal(t, "legacy", changes[1].TableName())
	require.Equal(t, "lines", changes[4].TableName())
	require.Equal(t, "lines", changes[8].TableName())

	applied := current.Clone()
	require.NoError(t, ApplyAll(applied, changes, false))
	require.True(t, applied.Equal(desired, false))
}

func TestCompare_ApplyYieldsDesired(t *testing.T) {
	current := shop(t)
	desired := shop(t)
	customers, orders := desired.Tables[0], desired.Tables[1]
	customers.Columns[1].Required = false
	_ = customers.Columns[1].SetSize("200")
	customers.Columns[2].SetDefault("n/a")
	customers.Columns = append([]*schema.Column{col(t, "tenant", "INTEGER", pk)}, customers.Columns...)
	orders.Columns[0].AutoIncrement = false
	require.NoError(t, orders.Columns[1].SetTypeCode(schema.TypeBigInt))
	orders.Columns = orders.Columns[:2]
	orders.Indexes = []*schema.Index{index("ix_orders_customer", false, "customer_id", "id")}
	orders.ForeignKeys[0].References = append(orders.ForeignKeys[0].References, &schema.Reference{Local: "id", Foreign: "tenant"})

	changes := Compare(current, desired, false)
	require.NotEmpty(t, changes)
	applied := current.Clone()
	require.NoError(t, ApplyAll(applied, changes, false))
	require.True(t, applied.Equal(desired, false))
	require.True(t, current.Equal(shop(t), false), "compare does not modify its inputs")
	require.Empty(t, Compare(applied, desired, false))

	require.Contains(t, kinds(changes), "RemovePrimaryKey")
	require.Contains(t, kinds(changes), "AddPrimaryKey")
	require.Contains(t, kinds(changes), "ColumnTypeChange")
	require.Contains(t, kinds(changes), "ColumnSizeChange")
	require.Contains(t, kinds(changes), "ColumnRequiredChange")
	require.Contains(t, kinds(changes), "ColumnAutoIncrementChange")
	require.Contains(t, kinds(changes), "RemoveColumn")
}

func TestCompare_ColumnOrderIgnored(t *testing.T) {
	current := db(table("t", col(t, "id", "INTEGER", pk), col(t, "a", "INTEGER"), col(t, "b", "VARCHAR", size("10"))))
	desired := db(table("t", col(t, "id", "INTEGER", pk), col(t, "b", "VARCHAR", size("10")), col(t, "a", "INTEGER")))

	changes := Compare(current, desired, true)
	require.Empty(t, changes)
	applied := current.Clone()
	require.NoError(t, ApplyAll(applied, changes, true))
	require.True(t, applied.Equal(desired, true))
}

func TestCompare_SizeOnlyForSizedTypes(t *testing.T) {
	current := db(table("t", col(t, "n", "INTEGER", size("32"))))
	desired := db(table("t", col(t, "n", "INTEGER")))
	require.Empty(t, Compare(current, desired, false))

	current = db(table("t", col(t, "n", "INTEGER")))
	desired = db(table("t", col(t, "n", "VARCHAR", size("10"))))
	require.Equal(t, []string{"ColumnTypeChange", "ColumnSizeChange"}, kinds(Compare(current, desired, false)))
}

func TestCompare_IndexMatching(t *testing.T) {
	tbl := func(idx *schema.Index) *schema.Database {
		x := table("t", col(t, "a", "INTEGER"), col(t, "b", "INTEGER"))
		x.Indexes = []*schema.Index{idx}
		return db(x)
	}
	require.Empty(t, Compare(tbl(index("i1", false, "a", "b")), tbl(index("i2", false, "a", "b")), false))
	require.Equal(t, []string{"RemoveIndex", "AddIndex"},
		kinds(Compare(tbl(index("i1", false, "a", "b")), tbl(index("i1", false, "b", "a")), false)))
	require.Equal(t, []string{"RemoveIndex", "AddIndex"},
		kinds(Compare(tbl(index("i1", false, "a")), tbl(index("i1", true, "a")), false)))
}

func TestCompare_CaseSensitivity(t *testing.T) {
	current := db(table("T", col(t, "ID", "INTEGER")))
	desired := db(table("t", col(t, "id", "INTEGER")))
	require.Empty(t, Compare(current, desired, false))
	require.Equal(t, []string{"RemoveTable", "AddTable"}, kinds(Compare(current, desired, true)))
}

func TestApply_RequiredToggle(t *testing.T) {
	m := shop(t)
	c := &ColumnRequiredChange{Table: "customers", Column: "email"}
	require.NoError(t, Apply(m, c, false))
	require.True(t, m.Tables[0].Columns[2].Required)
	require.NoError(t, Apply(m, c, false))
	require.False(t, m.Tables[0].Columns[2].Required)
	require.True(t, m.Equal(shop(t), false))
}

func TestApply_AddColumnPosition(t *testing.T) {
	m := db(table("t", col(t, "a", "INTEGER"), col(t, "c", "INTEGER")))
	require.NoError(t, Apply(m, &AddColumn{Table: "t", Column: col(t, "b", "INTEGER"), Previous: "a", Next: "c"}, false))
	require.NoError(t, Apply(m, &AddColumn{Table: "t", Column: col(t, "first", "INTEGER"), Next: "a"}, false))
	require.NoError(t, Apply(m, &AddColumn{Table: "t", Column: col(t, "last", "INTEGER"), Previous: "gone"}, false))
	var names []string
	for _, c := range m.Tables[0].Columns {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"first", "a", "b", "c", "last"}, names)
}

func TestApply_TargetNotFound(t *testing.T) {
	m := shop(t)
	err := Apply(m, &RemoveColumn{Table: "customers", Column: "phone"}, false)
	var nerr *TargetNotFoundError
	require.True(t, errors.As(err, &nerr))
	require.Equal(t, "RemoveColumn", nerr.Change)
	require.Equal(t, "column", nerr.Target)
	require.Equal(t, `diff: cannot apply RemoveColumn: column "phone" not found in table "customers"`, err.Error())

	err = Apply(m, &AddIndex{Table: "nope", Index: index("i", false, "a")}, false)
	require.EqualError(t, err, `diff: cannot apply AddIndex: table "nope" not found`)

	err = Apply(m, &RemoveForeignKey{Table: "orders", ForeignKey: fk("nope", "x", "y")}, false)
	require.True(t, errors.As(err, &nerr))
	require.Equal(t, "foreign key", nerr.Target)

	changes := []Change{
		&ColumnRequiredChange{Table: "customers", Column: "email"},
		&RemoveTable{Table: "missing"},
		&RemoveTable{Table: "orders"},
	}
	err = ApplyAll(m, changes, false)
	require.True(t, errors.As(err, &nerr))
	require.Equal(t, "missing", nerr.Name)
	require.True(t, m.Tables[0].Columns[2].Required, "changes before the failure stay applied")
	require.NotNil(t, m.Table("orders", false), "changes after the failure are not applied")
}

func TestDisplay(t *testing.T) {
	var buf bytes.Buffer
	Display(&buf, nil)
	require.Equal(t, "No differences found.\n", buf.String())

	buf.Reset()
	Display(&buf, []Change{
		&AddColumn{Table: "t", Column: col(t, "c", "VARCHAR", size("10")), Previous: "b"},
		&ColumnTypeChange{Table: "t", Column: "c", From: schema.TypeInteger, To: schema.TypeBigInt},
		&ColumnDefaultValueChange{Table: "t", Column: "c"},
	})
	require.Equal(t, `=== 3 changes ===

  1. add column t.c VARCHAR(10) after b
  2. change type of t.c from INTEGER to BIGINT
  3. remove default of t.c
`, buf.String())
}

func TestCompareData(t *testing.T) {
	tbl := shop(t).Tables[0]
	oldRows := []schema.Row{
		{"id": 1, "name": "a", "email": "a@x"},
		{"id": 2, "name": "b", "email": nil},
	}
	newRows := []schema.Row{
		{"id": 2, "name": "b", "email": "b@x"},
		{"id": 3, "name": "c", "email": nil},
	}
	d := CompareData(tbl, oldRows, newRows)
	require.NotNil(t, d)
	require.Equal(t, []schema.Row{newRows[1]}, d.RowsAdded)
	require.Equal(t, []schema.Row{oldRows[0]}, d.RowsDeleted)
	require.Len(t, d.RowsModified, 1)
	require.Equal(t, "b@x", d.RowsModified[0].NewRow["email"])

	require.Nil(t, CompareData(tbl, oldRows, oldRows))

	keyless := table("k", col(t, "v", "INTEGER"))
	d = CompareData(keyless, []schema.Row{{"v": 1}}, []schema.Row{{"v": 1.0}, {"v": 2}})
	require.Equal(t, []schema.Row{{"v": 2}}, d.RowsAdded)
	require.Empty(t, d.RowsDeleted)
}
