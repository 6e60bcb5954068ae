package reader

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/koba/ddlkit/internal/diff"
	"github.com/koba/ddlkit/internal/generator"
	"github.com/koba/ddlkit/internal/schema"
	"github.com/koba/ddlkit/internal/sqltest"
)

func mockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func mysqlReader(t *testing.T) *Reader {
	t.Helper()
	r, err := ForPlatform("mariadb")
	require.NoError(t, err)
	return r
}

func TestRead_MySQL(t *testing.T) {
	db, m := mockDB(t)
	m.ExpectQuery(sqltest.Escape(mysqlTablesQuery)).
		WithArgs("shop", "%").
		WillReturnRows(sqltest.Rows(`
 TABLE_NAME | TABLE_TYPE | TABLE_CAT | TABLE_SCHEM | REMARKS
------------+------------+-----------+-------------+----------
 customers  | TABLE      | def       | shop        | ''
 orders     | TABLE      | def       | shop        | NULL
 v_totals   | VIEW       | def       | shop        | NULL
`))

	m.ExpectQuery(sqltest.Escape(mysqlColumnsQuery)).
		WithArgs("shop", "customers").
		WillReturnRows(sqltest.Rows(`
 COLUMN_DEF | COLUMN_NAME | TYPE_NAME | COLUMN_SIZE | DECIMAL_DIGITS | IS_NULLABLE | IS_AUTOINCREMENT | REMARKS
------------+-------------+-----------+-------------+----------------+-------------+------------------+---------
 NULL       | id          | INT       | 10          | 0              | NO          | YES              | ''
 NULL       | name        | VARCHAR   | 100         | NULL           | NO          | NO               | ''
 n/a        | email       | VARCHAR   | NULL        | NULL           | YES         | NO               | contact
`))
	m.ExpectQuery(sqltest.Escape(mysqlForeignKeysQuery)).
		WillReturnRows(sqltest.Rows(`
 PKTABLE_NAME | KEY_SEQ | FK_NAME | PKCOLUMN_NAME | FKCOLUMN_NAME
--------------+---------+---------+---------------+---------------
`))
	m.ExpectQuery(sqltest.Escape(mysqlIndexesQuery)).
		WillReturnRows(sqltest.Rows(`
 INDEX_NAME | NON_UNIQUE | ORDINAL_POSITION | COLUMN_NAME
------------+------------+------------------+-------------
 PRIMARY    | 0          | 1                | id
 ix_email   | 0          | 1                | email
`))
	m.ExpectQuery(sqltest.Escape(mysqlPrimaryKeysQuery)).
		WillReturnRows(sqltest.Rows(`
 COLUMN_NAME | KEY_SEQ
-------------+---------
 id          | 1
`))

	m.ExpectQuery(sqltest.Escape(mysqlColumnsQuery)).
		WithArgs("shop", "orders").
		WillReturnRows(sqltest.Rows(`
 COLUMN_DEF | COLUMN_NAME | TYPE_NAME | COLUMN_SIZE | DECIMAL_DIGITS | IS_NULLABLE | IS_AUTOINCREMENT
------------+-------------+-----------+-------------+----------------+-------------+-----------------
 NULL       | id          | INT       | 10          | 0              | NO          | YES
 NULL       | customer_id | INT       | 10          | 0              | NO          | NO
 0.00       | total       | DECIMAL   | 10          | 2              | YES         | NO
 NULL       | shape       | GEOMETRY  | NULL        | NULL           | YES         | NO
`))
	m.ExpectQuery(sqltest.Escape(mysqlForeignKeysQuery)).
		WillReturnRows(sqltest.Rows(`
 PKTABLE_NAME | KEY_SEQ | FK_NAME            | PKCOLUMN_NAME | FKCOLUMN_NAME
--------------+---------+--------------------+---------------+---------------
 customers    | 1       | fk_orders_customer | id            | customer_id
`))
	m.ExpectQuery(sqltest.Escape(mysqlIndexesQuery)).
		WillReturnRows(sqltest.Rows(`
 INDEX_NAME         | NON_UNIQUE | ORDINAL_POSITION | COLUMN_NAME
--------------------+------------+------------------+-------------
 PRIMARY            | 0          | 1                | id
 fk_orders_customer | 1          | 1                | customer_id
 ix_total           | 1          | 1                | total
`))
	m.ExpectQuery(sqltest.Escape(mysqlPrimaryKeysQuery)).
		WillReturnRows(sqltest.Rows(`
 COLUMN_NAME | KEY_SEQ
-------------+---------
 id          | 1
`))

	model, err := mysqlReader(t).Read(context.Background(), db, Options{Name: "shop", Schema: "shop"})
	require.NoError(t, err)
	require.NoError(t, m.ExpectationsWereMet())

	require.Equal(t, "shop", model.Name)
	require.Len(t, model.Tables, 2, "views are not read")

	customers := model.Tables[0]
	require.Equal(t, "customers", customers.Name)
	require.Equal(t, "def", customers.Catalog)
	require.Equal(t, []string{"id"}, customers.PrimaryKeyNames())
	id := customers.Column("id", true)
	require.Equal(t, schema.TypeInteger, id.TypeCode())
	require.True(t, id.AutoIncrement)
	require.True(t, id.Required)
	email := customers.Column("email", true)
	require.Equal(t, "254", email.Size(), "default size")
	require.Equal(t, "n/a", email.Default())
	require.Equal(t, "contact", email.Description)
	require.False(t, email.Required)
	require.Len(t, customers.Indexes, 1, "the primary key index is removed")
	require.Equal(t, "ix_email", customers.Indexes[0].Name)
	require.True(t, customers.Indexes[0].Unique)

	orders := model.Tables[1]
	total := orders.Column("total", true)
	require.Equal(t, schema.TypeDecimal, total.TypeCode())
	require.Equal(t, "10", total.Size())
	require.Equal(t, 2, total.Scale())
	require.Equal(t, "0.00", total.Default())
	require.Equal(t, schema.TypeOther, orders.Column("shape", true).TypeCode())
	require.Len(t, orders.ForeignKeys, 1)
	require.Equal(t, "customers", orders.ForeignKeys[0].ForeignTable)
	require.Equal(t, []string{"customer_id"}, orders.ForeignKeys[0].LocalColumns())
	require.Len(t, orders.Indexes, 1, "the foreign key index is removed")
	require.Equal(t, "ix_total", orders.Indexes[0].Name)
}

func TestRead_SkipsFailingTable(t *testing.T) {
	db, m := mockDB(t)
	m.ExpectQuery(sqltest.Escape(mysqlTablesQuery)).
		WillReturnRows(sqltest.Rows(`
 TABLE_NAME | TABLE_TYPE
------------+-----------
 broken     | TABLE
 fine       | TABLE
`))
	m.ExpectQuery(sqltest.Escape(mysqlColumnsQuery)).
		WithArgs(nil, "broken").
		WillReturnError(errors.New("access denied"))
	m.ExpectQuery(sqltest.Escape(mysqlColumnsQuery)).
		WithArgs(nil, "fine").
		WillReturnRows(sqltest.Rows(`
 COLUMN_NAME | TYPE_NAME | IS_NULLABLE
-------------+-----------+------------
 id          | BIGINT    | NO
`))
	m.ExpectQuery(sqltest.Escape(mysqlForeignKeysQuery)).WillReturnRows(sqlmock.NewRows([]string{"FK_NAME"}))
	m.ExpectQuery(sqltest.Escape(mysqlIndexesQuery)).WillReturnRows(sqlmock.NewRows([]string{"INDEX_NAME"}))
	m.ExpectQuery(sqltest.Escape(mysqlPrimaryKeysQuery)).WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME"}))

	model, err := mysqlReader(t).Read(context.Background(), db, Options{})
	require.NoError(t, err)
	require.NoError(t, m.ExpectationsWereMet())
	require.Len(t, model.Tables, 1)
	require.Equal(t, "fine", model.Tables[0].Name)
	require.Equal(t, "64", model.Tables[0].Columns[0].Size())
}

func TestRead_TablesError(t *testing.T) {
	db, m := mockDB(t)
	m.ExpectQuery(sqltest.Escape(mysqlTablesQuery)).WillReturnError(errors.New("connection reset"))

	_, err := mysqlReader(t).Read(context.Background(), db, Options{})
	var rerr *ReadError
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, "tables", rerr.Op)
	require.EqualError(t, err, "reader: failed to read tables: connection reset")
}

func TestReader_CustomDescriptors(t *testing.T) {
	db, m := mockDB(t)
	r := mysqlReader(t)
	r.TableColumns = append(r.TableColumns, Descriptor{Name: "ENGINE", Kind: KindString, Default: "InnoDB"})
	r.DefaultTableTypes = []string{"TABLE", "VIEW"}
	require.Len(t, TableDescriptors, 5, "package defaults are not modified")

	m.ExpectQuery(sqltest.Escape(mysqlTablesQuery)).
		WillReturnRows(sqltest.Rows(`
 TABLE_NAME | TABLE_TYPE
------------+-----------
 v1         | VIEW
`))
	m.ExpectQuery(sqltest.Escape(mysqlColumnsQuery)).WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME"}))
	m.ExpectQuery(sqltest.Escape(mysqlForeignKeysQuery)).WillReturnRows(sqlmock.NewRows([]string{"FK_NAME"}))
	m.ExpectQuery(sqltest.Escape(mysqlIndexesQuery)).WillReturnRows(sqlmock.NewRows([]string{"INDEX_NAME"}))
	m.ExpectQuery(sqltest.Escape(mysqlPrimaryKeysQuery)).WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME"}))

	model, err := r.Read(context.Background(), db, Options{})
	require.NoError(t, err)
	require.Len(t, model.Tables, 1)
	require.Equal(t, "VIEW", model.Tables[0].Type)
}

func TestReadForeignKey_Unnamed(t *testing.T) {
	r := &Reader{}
	tbl := &schema.Table{Name: "t"}
	var fk *schema.ForeignKey
	for _, v := range []values{
		{"PKTABLE_NAME": "a", "KEY_SEQ": 1, "PKCOLUMN_NAME": "x", "FKCOLUMN_NAME": "ax"},
		{"PKTABLE_NAME": "a", "KEY_SEQ": 2, "PKCOLUMN_NAME": "y", "FKCOLUMN_NAME": "ay"},
		{"PKTABLE_NAME": "b", "KEY_SEQ": 1, "PKCOLUMN_NAME": "id", "FKCOLUMN_NAME": "b_id"},
	} {
		fk = r.readForeignKey(tbl, fk, v)
	}
	require.Len(t, tbl.ForeignKeys, 2)
	require.Equal(t, []string{"ax", "ay"}, tbl.ForeignKeys[0].LocalColumns())
	require.Equal(t, []string{"x", "y"}, tbl.ForeignKeys[0].ForeignColumns())
	require.Equal(t, "b", tbl.ForeignKeys[1].ForeignTable)
}

func TestRemoveSystemIndexes(t *testing.T) {
	id, _ := schema.NewColumn("id", "INTEGER")
	id.PrimaryKey = true
	ref, _ := schema.NewColumn("ref", "INTEGER")
	idx := func(name string, unique bool, cols ...string) *schema.Index {
		i := &schema.Index{Name: name, Unique: unique}
		for _, c := range cols {
			i.Columns = append(i.Columns, &schema.IndexColumn{Name: c})
		}
		return i
	}
	tbl := &schema.Table{
		Name:    "t",
		Columns: []*schema.Column{id, ref},
		ForeignKeys: []*schema.ForeignKey{{
			ForeignTable: "o",
			References:   []*schema.Reference{{Local: "ref", Foreign: "id"}},
		}},
		Indexes: []*schema.Index{
			idx("a", false, "id"),
			idx("b", true, "id"),
			idx("c", true, "id"),
			idx("d", false, "ref"),
			idx("e", false, "ref"),
		},
	}
	removeSystemIndexes(tbl)
	var names []string
	for _, i := range tbl.Indexes {
		names = append(names, i.Name)
	}
	require.Equal(t, []string{"a", "c", "e"}, names)
}

func TestSplitInlineSize(t *testing.T) {
	for in, want := range map[string][2]string{
		"VARCHAR(254)":        {"VARCHAR", "254"},
		"DECIMAL(10, 2)":      {"DECIMAL", "10,2"},
		"INTEGER":             {"INTEGER", ""},
		" CHAR (4) ":          {"CHAR", "4"},
		"TIMESTAMP(6) WITH X": {"TIMESTAMP(6) WITH X", ""},
	} {
		name, size := splitInlineSize(in)
		require.Equal(t, want, [2]string{name, size}, in)
	}
}

func TestNormalizeDefault(t *testing.T) {
	for in, want := range map[string]string{
		"0":                        "0",
		"((0))":                    "0",
		"(a) + (b)":                "(a) + (b)",
		"'abc'":                    "abc",
		"'it''s'":                  "it's",
		"'n/a'::character varying": "n/a",
		"CURRENT_TIMESTAMP":        "CURRENT_TIMESTAMP",
		"'a' || 'b'":               "'a' || 'b'",
		"now()":                    "now()",
	} {
		require.Equal(t, want, normalizeDefault(in), in)
	}
}

// TestRoundTrip_SQLite renders a model, creates it in an in-memory
// database and reads it back.
func TestRoundTrip_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	column := func(name, typ string, f func(*schema.Column)) *schema.Column {
		c, err := schema.NewColumn(name, typ)
		require.NoError(t, err)
		if f != nil {
			f(c)
		}
		return c
	}
	model := &schema.Database{Name: "shop", Tables: []*schema.Table{
		{
			Name: "customers",
			Columns: []*schema.Column{
				column("id", "INTEGER", func(c *schema.Column) { c.PrimaryKey, c.Required, c.AutoIncrement = true, true, true }),
				column("name", "VARCHAR", func(c *schema.Column) { _ = c.SetSize("100"); c.Required = true }),
				column("email", "VARCHAR", func(c *schema.Column) { _ = c.SetSize("254"); c.SetDefault("n/a") }),
			},
			Indexes: []*schema.Index{{Name: "ix_customers_email", Unique: true, Columns: []*schema.IndexColumn{{Name: "email", OrdinalPosition: 1}}}},
		},
		{
			Name: "orders",
			Columns: []*schema.Column{
				column("id", "INTEGER", func(c *schema.Column) { c.PrimaryKey, c.Required, c.AutoIncrement = true, true, true }),
				column("customer_id", "INTEGER", func(c *schema.Column) { c.Required = true }),
				column("total", "DECIMAL", func(c *schema.Column) { _ = c.SetSize("10,2"); c.SetDefault("0") }),
			},
			Indexes: []*schema.Index{{Name: "ix_orders_total", Columns: []*schema.IndexColumn{{Name: "total", OrdinalPosition: 1}}}},
			ForeignKeys: []*schema.ForeignKey{{
				Name:         "fk_orders_customer",
				ForeignTable: "customers",
				References:   []*schema.Reference{{Local: "customer_id", Foreign: "id", Sequence: 1}},
			}},
		},
	}}

	g, err := generator.NewDDLGenerator("sqlite")
	require.NoError(t, err)
	stmts, err := g.CreateTables(model, false)
	require.NoError(t, err)
	for _, stmt := range stmts {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err, stmt)
	}

	r, err := ForPlatform("sqlite")
	require.NoError(t, err)
	read, err := r.Read(ctx, db, Options{Name: "shop"})
	require.NoError(t, err)

	require.Empty(t, diff.Compare(read, model, false))
	require.True(t, read.Equal(model, false))
	require.True(t, read.Table("customers", false).Column("id", false).AutoIncrement)
}
