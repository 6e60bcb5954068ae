package generator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/koba/ddlkit/internal/diff"
	"github.com/koba/ddlkit/internal/platform"
	"github.com/koba/ddlkit/internal/schema"
	"github.com/stretchr/testify/require"
)

type colOpt func(*schema.Column)

func pk(c *schema.Column)      { c.PrimaryKey, c.Required = true, true }
func notNull(c *schema.Column) { c.Required = true }
func autoInc(c *schema.Column) { c.AutoIncrement = true }
func def(v string) colOpt      { return func(c *schema.Column) { c.SetDefault(v) } }
func size(s string) colOpt     { return func(c *schema.Column) { _ = c.SetSize(s) } }

func col(t *testing.T, name, typ string, opts ...colOpt) *schema.Column {
	t.Helper()
	c, err := schema.NewColumn(name, typ)
	require.NoError(t, err)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func shop(t *testing.T) *schema.Database {
	customers := &schema.Table{Name: "customers", Columns: []*schema.Column{
		col(t, "id", "INTEGER", pk, autoInc),
		col(t, "name", "VARCHAR", size("100"), notNull),
		col(t, "email", "VARCHAR", size("254")),
	}}
	customers.Indexes = []*schema.Index{{
		Name: "ix_customers_email", Unique: true,
		Columns: []*schema.IndexColumn{{Name: "email", OrdinalPosition: 1}},
	}}
	orders := &schema.Table{Name: "orders", Columns: []*schema.Column{
		col(t, "id", "INTEGER", pk, autoInc),
		col(t, "customer_id", "INTEGER", notNull),
		col(t, "total", "DECIMAL", size("10,2"), def("0")),
	}}
	orders.Indexes = []*schema.Index{{
		Name:    "ix_orders_customer",
		Columns: []*schema.IndexColumn{{Name: "customer_id", OrdinalPosition: 1}},
	}}
	orders.ForeignKeys = []*schema.ForeignKey{{
		ForeignTable: "customers",
		References:   []*schema.Reference{{Local: "customer_id", Foreign: "id", Sequence: 1}},
	}}
	// Declared out of dependency order on purpose.
	return &schema.Database{Name: "shop", Tables: []*schema.Table{orders, customers}}
}

func generator(t *testing.T, dialect string) *DDLGenerator {
	t.Helper()
	g, err := NewDDLGenerator(dialect)
	require.NoError(t, err)
	return g
}

func TestCreateTables_PostgreSQL(t *testing.T) {
	stmts, err := generator(t, "postgres").CreateTables(shop(t), false)
	require.NoError(t, err)
	require.Equal(t, []string{
		"CREATE TABLE \"customers\" (\n" +
			"  \"id\" SERIAL NOT NULL,\n" +
			"  \"name\" VARCHAR(100) NOT NULL,\n" +
			"  \"email\" VARCHAR(254),\n" +
			"  CONSTRAINT \"customers_pkey\" PRIMARY KEY (\"id\")\n" +
			")",
		`CREATE UNIQUE INDEX "ix_customers_email" ON "customers" ("email")`,
		"CREATE TABLE \"orders\" (\n" +
			"  \"id\" SERIAL NOT NULL,\n" +
			"  \"customer_id\" INTEGER NOT NULL,\n" +
			"  \"total\" DECIMAL(10,2) DEFAULT 0,\n" +
			"  CONSTRAINT \"orders_pkey\" PRIMARY KEY (\"id\")\n" +
			")",
		`CREATE INDEX "ix_orders_customer" ON "orders" ("customer_id")`,
		`ALTER TABLE "orders" ADD CONSTRAINT "FK_orders_customer_id" FOREIGN KEY ("customer_id") REFERENCES "customers" ("id")`,
	}, stmts)
}

func TestCreateTables_SQLite(t *testing.T) {
	stmts, err := generator(t, "sqlite3").CreateTables(shop(t), true)
	require.NoError(t, err)
	require.Equal(t, []string{
		`DROP TABLE IF EXISTS "orders"`,
		`DROP TABLE IF EXISTS "customers"`,
		"CREATE TABLE \"customers\" (\n" +
			"  \"id\" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,\n" +
			"  \"name\" VARCHAR(100) NOT NULL,\n" +
			"  \"email\" VARCHAR(254)\n" +
			")",
		`CREATE UNIQUE INDEX "ix_customers_email" ON "customers" ("email")`,
		"CREATE TABLE \"orders\" (\n" +
			"  \"id\" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,\n" +
			"  \"customer_id\" INTEGER NOT NULL,\n" +
			"  \"total\" DECIMAL(10,2) DEFAULT 0,\n" +
			"  CONSTRAINT \"FK_orders_customer_id\" FOREIGN KEY (\"customer_id\") REFERENCES \"customers\" (\"id\")\n" +
			")",
		`CREATE INDEX "ix_orders_customer" ON "orders" ("customer_id")`,
	}, stmts)
}

func TestCreateTables_Cycle(t *testing.T) {
	m := shop(t)
	m.Tables[1].ForeignKeys = []*schema.ForeignKey{{
		ForeignTable: "orders",
		References:   []*schema.Reference{{Local: "id", Foreign: "id", Sequence: 1}},
	}}

	stmts, err := generator(t, "postgresql").CreateTables(m, false)
	require.NoError(t, err, "keys are added after the tables")
	require.Len(t, stmts, 6)

	_, err = generator(t, "sqlite").CreateTables(m, false)
	var oerr *schema.OrderingError
	require.True(t, errors.As(err, &oerr))
}

func TestDropTables_MySQL(t *testing.T) {
	stmts, err := generator(t, "mysql").DropTables(shop(t))
	require.NoError(t, err)
	require.Equal(t, []string{
		"ALTER TABLE `orders` DROP FOREIGN KEY `FK_orders_customer_id`",
		"DROP TABLE IF EXISTS `orders`",
		"DROP TABLE IF EXISTS `customers`",
	}, stmts)
}

func TestGenerateSQL_MySQL(t *testing.T) {
	current := shop(t)
	desired := current.Clone()
	customers := desired.Table("customers", false)
	require.NoError(t, customers.AddColumn(col(t, "phone", "VARCHAR", size("20"))))
	desired.Table("orders", false).Column("total", false).SetDefault("1")
	desired.Table("orders", false).Indexes = nil

	g := generator(t, "mysql")
	stmts, err := GenerateSQL(g, current, diff.Compare(current, desired, false))
	require.NoError(t, err)
	require.Equal(t, []string{
		"DROP INDEX `ix_orders_customer` ON `orders`",
		"ALTER TABLE `orders` MODIFY COLUMN `total` DECIMAL(10,2) DEFAULT 1 NULL",
		"ALTER TABLE `customers` ADD COLUMN `phone` VARCHAR(20) NULL AFTER `email`",
	}, stmts)
	require.Equal(t, 3, len(current.Table("customers", false).Columns), "the current model is left untouched")
}

func TestGenerateSQL_ColumnChanges(t *testing.T) {
	current := shop(t)
	desired := current.Clone()
	name := desired.Table("customers", false).Column("name", false)
	require.NoError(t, name.SetSize("200"))
	name.Required = false
	email := desired.Table("customers", false).Column("email", false)
	email.SetDefault("n/a")

	changes := diff.Compare(current, desired, false)

	stmts, err := GenerateSQL(generator(t, "postgresql"), current, changes)
	require.NoError(t, err)
	require.Equal(t, []string{
		`ALTER TABLE "customers" ALTER COLUMN "name" TYPE VARCHAR(200)`,
		`ALTER TABLE "customers" ALTER COLUMN "name" DROP NOT NULL`,
		`ALTER TABLE "customers" ALTER COLUMN "email" SET DEFAULT 'n/a'`,
	}, stmts)

	stmts, err = GenerateSQL(generator(t, "oracle"), current, changes)
	require.NoError(t, err)
	require.Equal(t, []string{
		`ALTER TABLE "customers" MODIFY ("name" VARCHAR2(200))`,
		`ALTER TABLE "customers" MODIFY ("name" NULL)`,
		`ALTER TABLE "customers" MODIFY ("email" DEFAULT 'n/a')`,
	}, stmts)

	_, err = GenerateSQL(generator(t, "sqlite"), current, changes)
	var uerr *UnsupportedChangeError
	require.True(t, errors.As(err, &uerr))
	require.Equal(t, "customers", uerr.Table)
	require.Equal(t, "name", uerr.Column)
	require.Equal(t, "ColumnSizeChange", uerr.Change)
}

func TestGenerateSQL_NewTables(t *testing.T) {
	desired := shop(t)
	stmts, err := GenerateSQL(generator(t, "mssql"), &schema.Database{Name: "shop"}, diff.Compare(&schema.Database{}, desired, false))
	require.NoError(t, err)
	require.Len(t, stmts, 5)
	require.Contains(t, stmts[0], "CREATE TABLE [customers]")
	require.Contains(t, stmts[0], "[id] INTEGER NOT NULL IDENTITY (1,1)")
	require.Contains(t, stmts[2], "CREATE TABLE [orders]")
	require.Equal(t, "ALTER TABLE [orders] ADD CONSTRAINT [FK_orders_customer_id] FOREIGN KEY ([customer_id]) REFERENCES [customers] ([id])", stmts[4])
}

func items(t *testing.T) *schema.Table {
	tbl := &schema.Table{Name: "items", Columns: []*schema.Column{
		col(t, "id", "INTEGER", pk, autoInc),
		col(t, "data", "VARBINARY", size("16")),
		col(t, "code", "VARCHAR", size("10"), notNull),
	}}
	tbl.Indexes = []*schema.Index{{
		Name:    "ix_items_code",
		Columns: []*schema.IndexColumn{{Name: "code", OrdinalPosition: 1}},
	}}
	return tbl
}

type alteration struct {
	change diff.Change
	edit   func(t *testing.T, tbl *schema.Table)
	want   string
}

func addNote(want string) alteration {
	return alteration{
		change: &diff.AddColumn{Table: "items", Column: &schema.Column{Name: "note"}, Previous: "id", Next: "data"},
		edit: func(t *testing.T, tbl *schema.Table) {
			require.NoError(t, tbl.InsertColumn(1, col(t, "note", "VARCHAR", size("20"))))
		},
		want: want,
	}
}

func resize(column, to, want string) alteration {
	return alteration{
		change: &diff.ColumnSizeChange{Table: "items", Column: column, Size: to},
		edit: func(t *testing.T, tbl *schema.Table) {
			require.NoError(t, tbl.Column(column, true).SetSize(to))
		},
		want: want,
	}
}

func dropIndex(want string) alteration {
	return alteration{
		change: &diff.RemoveIndex{Table: "items", Index: &schema.Index{
			Name:    "ix_items_code",
			Columns: []*schema.IndexColumn{{Name: "code", OrdinalPosition: 1}},
		}},
		edit:   func(_ *testing.T, tbl *schema.Table) { tbl.Indexes = nil },
		want:   want,
	}
}

func TestDialects(t *testing.T) {
	sapdb := struct {
		create []string
		drop   string
		alter  []alteration
	}{
		create: []string{
			"CREATE TABLE \"items\" (\n" +
				"  \"id\" INTEGER DEFAULT SERIAL(1) NOT NULL,\n" +
				"  \"data\" LONG BYTE,\n" +
				"  \"code\" VARCHAR(10) NOT NULL,\n" +
				"  CONSTRAINT \"PK_items\" PRIMARY KEY (\"id\")\n" +
				")",
			`CREATE INDEX "ix_items_code" ON "items" ("code")`,
		},
		drop: `DROP TABLE "items" CASCADE`,
		alter: []alteration{
			resize("data", "32", `ALTER TABLE "items" ALTER COLUMN "data" SET DATA TYPE LONG BYTE`),
		},
	}
	tests := []struct {
		dialect string
		create  []string
		drop    string
		alter   []alteration
	}{
		{
			dialect: "hsqldb",
			create: []string{
				"CREATE TABLE \"items\" (\n" +
					"  \"id\" INTEGER NOT NULL GENERATED BY DEFAULT AS IDENTITY,\n" +
					"  \"data\" VARBINARY(16),\n" +
					"  \"code\" VARCHAR(10) NOT NULL,\n" +
					"  CONSTRAINT \"PK_items\" PRIMARY KEY (\"id\")\n" +
					")",
				`CREATE INDEX "ix_items_code" ON "items" ("code")`,
			},
			drop: `DROP TABLE "items" IF EXISTS`,
			alter: []alteration{
				addNote(`ALTER TABLE "items" ADD COLUMN "note" VARCHAR(20) BEFORE "data"`),
			},
		},
		{
			dialect: "mckoi",
			create: []string{
				"CREATE TABLE \"items\" (\n" +
					"  \"id\" INTEGER DEFAULT UNIQUEKEY('items') NOT NULL,\n" +
					"  \"data\" VARBINARY(16),\n" +
					"  \"code\" VARCHAR(10) NOT NULL,\n" +
					"  CONSTRAINT \"PK_items\" PRIMARY KEY (\"id\")\n" +
					")",
				`CREATE INDEX "ix_items_code" ON "items" ("code")`,
			},
			drop: `DROP TABLE IF EXISTS "items"`,
			alter: []alteration{
				addNote(`ALTER TABLE "items" ADD COLUMN "note" VARCHAR(20)`),
			},
		},
		{dialect: "sapdb", create: sapdb.create, drop: sapdb.drop, alter: sapdb.alter},
		{dialect: "maxdb", create: sapdb.create, drop: sapdb.drop, alter: sapdb.alter},
		{
			dialect: "sybase",
			create: []string{
				"CREATE TABLE \"items\" (\n" +
					"  \"id\" INTEGER NOT NULL IDENTITY,\n" +
					"  \"data\" VARBINARY(16) NULL,\n" +
					"  \"code\" VARCHAR(10) NOT NULL,\n" +
					"  CONSTRAINT \"PK_items\" PRIMARY KEY (\"id\")\n" +
					")",
				`CREATE INDEX "ix_items_code" ON "items" ("code")`,
			},
			drop: `DROP TABLE "items"`,
			alter: []alteration{
				dropIndex(`DROP INDEX "items"."ix_items_code"`),
				resize("code", "20", `ALTER TABLE "items" MODIFY "code" VARCHAR(20) NOT NULL`),
			},
		},
		{
			dialect: "cloudscape",
			create: []string{
				"CREATE TABLE \"items\" (\n" +
					"  \"id\" INTEGER NOT NULL GENERATED ALWAYS AS IDENTITY,\n" +
					"  \"data\" VARCHAR (16) FOR BIT DATA,\n" +
					"  \"code\" VARCHAR(10) NOT NULL,\n" +
					"  CONSTRAINT \"PK_items\" PRIMARY KEY (\"id\")\n" +
					")",
				`CREATE INDEX "ix_items_code" ON "items" ("code")`,
			},
			drop: `DROP TABLE "items"`,
			alter: []alteration{
				dropIndex(`DROP INDEX "ix_items_code"`),
				resize("code", "20", `ALTER TABLE "items" ALTER COLUMN "code" SET DATA TYPE VARCHAR(20)`),
			},
		},
		{
			dialect: "mssql",
			create: []string{
				"CREATE TABLE [items] (\n" +
					"  [id] INTEGER NOT NULL IDENTITY (1,1),\n" +
					"  [data] VARBINARY(16),\n" +
					"  [code] VARCHAR(10) NOT NULL,\n" +
					"  CONSTRAINT [PK_items] PRIMARY KEY ([id])\n" +
					")",
				"CREATE INDEX [ix_items_code] ON [items] ([code])",
			},
			drop: "DROP TABLE [items]",
			alter: []alteration{
				dropIndex("DROP INDEX [ix_items_code] ON [items]"),
				resize("code", "20", "ALTER TABLE [items] ALTER COLUMN [code] VARCHAR(20) NOT NULL"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			g := generator(t, tt.dialect)
			require.Equal(t, tt.create, g.CreateTable(items(t)))
			require.Equal(t, tt.drop, g.DropTable(items(t)))
			for _, a := range tt.alter {
				before := items(t)
				after := before.Clone()
				a.edit(t, after)
				stmts, err := g.Change(a.change, before, after)
				require.NoError(t, err)
				require.Equal(t, []string{a.want}, stmts)
			}
		})
	}
}

func TestSapDB_BinaryWithoutSize(t *testing.T) {
	tbl := &schema.Table{Name: "blobs", Columns: []*schema.Column{
		col(t, "data", "VARBINARY", size("16")),
		col(t, "bin", "BINARY", size("8")),
	}}
	for _, dialect := range []string{"sapdb", "maxdb"} {
		g := generator(t, dialect)
		require.Equal(t, []string{"CREATE TABLE \"blobs\" (\n  \"data\" LONG BYTE,\n  \"bin\" LONG BYTE\n)"}, g.CreateTable(tbl))
		require.Equal(t, "LONG BYTE", g.sqlType(tbl.Columns[1]))
		require.Equal(t, "VARCHAR(254)", g.sqlType(col(t, "s", "VARCHAR")), "other types keep their size")
	}
}

func TestCreateTables_Deterministic(t *testing.T) {
	for _, dialect := range platform.Names() {
		g := generator(t, dialect)
		first, err := g.CreateTables(shop(t), true)
		require.NoError(t, err, dialect)
		second, err := g.CreateTables(shop(t), true)
		require.NoError(t, err, dialect)
		require.Equal(t, g.Script(first), g.Script(second), dialect)
		require.Equal(t, g.CreateTable(items(t)), g.CreateTable(items(t)), dialect)
	}
}

func TestConstraintNamesShortened(t *testing.T) {
	g := generator(t, "oracle")
	tbl := &schema.Table{Name: "customer_shipping_addresses_archive", Columns: []*schema.Column{col(t, "id", "INTEGER", pk)}}
	require.Equal(t, "PK_customer_shi_resses_archive", g.primaryKeyName(tbl))

	short := &schema.Table{Name: "customers"}
	require.Equal(t, "PK_customers", g.primaryKeyName(short))
}

func TestScript(t *testing.T) {
	g := generator(t, "generic")
	require.Equal(t, "CREATE TABLE a;\n\nDROP TABLE b;\n", g.Script([]string{"CREATE TABLE a", "DROP TABLE b"}))
	require.Empty(t, g.Script(nil))
}

func TestDMLGenerator(t *testing.T) {
	orders := shop(t).Table("orders", false)
	d := diff.CompareData(orders,
		[]schema.Row{
			{"id": 1, "customer_id": 1, "total": 1},
			{"id": 2, "customer_id": 1, "total": 5},
		},
		[]schema.Row{
			{"id": 1, "customer_id": 1, "total": 2},
			{"id": 3, "customer_id": 1, "total": "9.50"},
		})
	require.NotNil(t, d)

	stmts := NewDMLGenerator(generator(t, "postgresql")).Generate(d)
	require.Equal(t, []string{
		`DELETE FROM "orders" WHERE "id" = 2`,
		`INSERT INTO "orders" ("id", "customer_id", "total") VALUES (3, 1, '9.50')`,
		`UPDATE "orders" SET "total" = 2 WHERE "id" = 1`,
	}, stmts)
}

func TestDMLGenerator_Select(t *testing.T) {
	orders := shop(t).Table("orders", false)
	g := NewDMLGenerator(generator(t, "mysql"))
	require.Equal(t, "SELECT `id`, `customer_id`, `total` FROM `orders` ORDER BY `id` LIMIT 10", g.Select(orders, 10))
	require.Equal(t, "SELECT `id`, `customer_id`, `total` FROM `orders` ORDER BY `id`", g.Select(orders, 0))
}

func TestFormatValue(t *testing.T) {
	require.Equal(t, "NULL", formatValue(nil))
	require.Equal(t, "'it''s'", formatValue("it's"))
	require.Equal(t, "X'0aff'", formatValue([]byte{0x0a, 0xff}))
	require.Equal(t, "1.5", formatValue(1.5))
	require.Equal(t, "42", formatValue(json.Number("42")))
	require.Equal(t, "TRUE", formatValue(true))
}
