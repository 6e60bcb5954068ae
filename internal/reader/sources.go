package reader

import (
	"context"
	"database/sql"
)

// Querier is the part of *sql.DB, *sql.Conn and *sql.Tx the reader uses.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Source runs the metadata queries of one database family. Result set
// columns carry the standard metadata names (TABLE_NAME, COLUMN_DEF,
// TYPE_NAME, KEY_SEQ, ...), matched case-insensitively. A source that has
// no query for a scan returns nil rows.
type Source interface {
	Tables(ctx context.Context, q Querier, schemaName, pattern string) (*sql.Rows, error)
	Columns(ctx context.Context, q Querier, schemaName, table string) (*sql.Rows, error)
	PrimaryKeys(ctx context.Context, q Querier, schemaName, table string) (*sql.Rows, error)
	ForeignKeys(ctx context.Context, q Querier, schemaName, table string) (*sql.Rows, error)
	Indexes(ctx context.Context, q Querier, schemaName, table string) (*sql.Rows, error)
}

// nullable turns an empty schema name into NULL, so the queries fall back
// to the connection's current schema.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// MySQL queries.
const (
	mysqlTablesQuery = "SELECT TABLE_NAME, CASE TABLE_TYPE WHEN 'BASE TABLE' THEN 'TABLE' ELSE TABLE_TYPE END AS TABLE_TYPE, " +
		"TABLE_CATALOG AS TABLE_CAT, TABLE_SCHEMA AS TABLE_SCHEM, TABLE_COMMENT AS REMARKS " +
		"FROM information_schema.TABLES WHERE TABLE_SCHEMA = COALESCE(?, DATABASE()) AND TABLE_NAME LIKE ? ORDER BY TABLE_NAME"

	mysqlColumnsQuery = "SELECT COLUMN_DEFAULT AS COLUMN_DEF, COLUMN_NAME, UPPER(DATA_TYPE) AS TYPE_NAME, " +
		"CAST(COALESCE(CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION) AS CHAR) AS COLUMN_SIZE, NUMERIC_SCALE AS DECIMAL_DIGITS, " +
		"IS_NULLABLE, IF(EXTRA LIKE '%auto_increment%', 'YES', 'NO') AS IS_AUTOINCREMENT, COLUMN_COMMENT AS REMARKS " +
		"FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = COALESCE(?, DATABASE()) AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION"

	mysqlPrimaryKeysQuery = "SELECT COLUMN_NAME, ORDINAL_POSITION AS KEY_SEQ FROM information_schema.KEY_COLUMN_USAGE " +
		"WHERE TABLE_SCHEMA = COALESCE(?, DATABASE()) AND TABLE_NAME = ? AND CONSTRAINT_NAME = 'PRIMARY' ORDER BY ORDINAL_POSITION"

	mysqlForeignKeysQuery = "SELECT REFERENCED_TABLE_NAME AS PKTABLE_NAME, ORDINAL_POSITION AS KEY_SEQ, CONSTRAINT_NAME AS FK_NAME, " +
		"REFERENCED_COLUMN_NAME AS PKCOLUMN_NAME, COLUMN_NAME AS FKCOLUMN_NAME FROM information_schema.KEY_COLUMN_USAGE " +
		"WHERE TABLE_SCHEMA = COALESCE(?, DATABASE()) AND TABLE_NAME = ? AND REFERENCED_TABLE_NAME IS NOT NULL ORDER BY CONSTRAINT_NAME, ORDINAL_POSITION"

	mysqlIndexesQuery = "SELECT INDEX_NAME, NON_UNIQUE, SEQ_IN_INDEX AS ORDINAL_POSITION, COLUMN_NAME FROM information_schema.STATISTICS " +
		"WHERE TABLE_SCHEMA = COALESCE(?, DATABASE()) AND TABLE_NAME = ? ORDER BY INDEX_NAME, SEQ_IN_INDEX"
)

type mysqlSource struct{}

func (mysqlSource) Tables(ctx context.Context, q Querier, schemaName, pattern string) (*sql.Rows, error) {
	return q.QueryContext(ctx, mysqlTablesQuery, nullable(schemaName), pattern)
}

func (mysqlSource) Columns(ctx context.Context, q Querier, schemaName, table string) (*sql.Rows, error) {
	return q.QueryContext(ctx, mysqlColumnsQuery, nullable(schemaName), table)
}

func (mysqlSource) PrimaryKeys(ctx context.Context, q Querier, schemaName, table string) (*sql.Rows, error) {
	return q.QueryContext(ctx, mysqlPrimaryKeysQuery, nullable(schemaName), table)
}

func (mysqlSource) ForeignKeys(ctx context.Context, q Querier, schemaName, table string) (*sql.Rows, error) {
	return q.QueryContext(ctx, mysqlForeignKeysQuery, nullable(schemaName), table)
}

func (mysqlSource) Indexes(ctx context.Context, q Querier, schemaName, table string) (*sql.Rows, error) {
	return q.QueryContext(ctx, mysqlIndexesQuery, nullable(schemaName), table)
}

// PostgreSQL queries. Serial defaults are reported as auto-increment
// instead of as a default value.
const (
	postgresTablesQuery = "SELECT table_name, CASE table_type WHEN 'BASE TABLE' THEN 'TABLE' ELSE table_type END AS table_type, " +
		"table_catalog AS table_cat, table_schema AS table_schem, " +
		"obj_description(format('%I.%I', table_schema, table_name)::regclass, 'pg_class') AS remarks " +
		"FROM information_schema.tables WHERE table_schema = COALESCE($1, current_schema()) AND table_name LIKE $2 ORDER BY table_name"

	postgresColumnsQuery = "SELECT CASE WHEN column_default LIKE 'nextval(%' THEN NULL ELSE column_default END AS column_def, " +
		"column_name, upper(data_type) AS type_name, COALESCE(character_maximum_length, numeric_precision)::text AS column_size, " +
		"numeric_scale AS decimal_digits, is_nullable, " +
		"CASE WHEN column_default LIKE 'nextval(%' OR is_identity = 'YES' THEN 'YES' ELSE 'NO' END AS is_autoincrement " +
		"FROM information_schema.columns WHERE table_schema = COALESCE($1, current_schema()) AND table_name = $2 ORDER BY ordinal_position"

	postgresPrimaryKeysQuery = "SELECT kcu.column_name, kcu.ordinal_position AS key_seq " +
		"FROM information_schema.table_constraints tc JOIN information_schema.key_column_usage kcu " +
		"ON kcu.constraint_schema = tc.constraint_schema AND kcu.constraint_name = tc.constraint_name AND kcu.table_name = tc.table_name " +
		"WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = COALESCE($1, current_schema()) AND tc.table_name = $2 " +
		"ORDER BY kcu.ordinal_position"

	postgresForeignKeysQuery = "SELECT pk.table_name AS pktable_name, fk.ordinal_position AS key_seq, fk.constraint_name AS fk_name, " +
		"pk.column_name AS pkcolumn_name, fk.column_name AS fkcolumn_name " +
		"FROM information_schema.referential_constraints rc " +
		"JOIN information_schema.key_column_usage fk ON fk.constraint_schema = rc.constraint_schema AND fk.constraint_name = rc.constraint_name " +
		"JOIN information_schema.key_column_usage pk ON pk.constraint_schema = rc.unique_constraint_schema " +
		"AND pk.constraint_name = rc.unique_constraint_name AND pk.ordinal_position = fk.position_in_unique_constraint " +
		"WHERE fk.table_schema = COALESCE($1, current_schema()) AND fk.table_name = $2 ORDER BY fk.constraint_name, fk.ordinal_position"

	postgresIndexesQuery = "SELECT i.relname AS index_name, NOT ix.indisunique AS non_unique, k.n AS ordinal_position, a.attname AS column_name " +
		"FROM pg_index ix JOIN pg_class t ON t.oid = ix.indrelid JOIN pg_class i ON i.oid = ix.indexrelid " +
		"JOIN pg_namespace ns ON ns.oid = t.relnamespace " +
		"CROSS JOIN LATERAL unnest(ix.indkey::int2[]) WITH ORDINALITY AS k(attnum, n) " +
		"JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum " +
		"WHERE ns.nspname = COALESCE($1, current_schema()) AND t.relname = $2 ORDER BY i.relname, k.n"
)

type postgresSource struct{}

func (postgresSource) Tables(ctx context.Context, q Querier, schemaName, pattern string) (*sql.Rows, error) {
	return q.QueryContext(ctx, postgresTablesQuery, nullable(schemaName), pattern)
}

func (postgresSource) Columns(ctx context.Context, q Querier, schemaName, table string) (*sql.Rows, error) {
	return q.QueryContext(ctx, postgresColumnsQuery, nullable(schemaName), table)
}

func (postgresSource) PrimaryKeys(ctx context.Context, q Querier, schemaName, table string) (*sql.Rows, error) {
	return q.QueryContext(ctx, postgresPrimaryKeysQuery, nullable(schemaName), table)
}

func (postgresSource) ForeignKeys(ctx context.Context, q Querier, schemaName, table string) (*sql.Rows, error) {
	return q.QueryContext(ctx, postgresForeignKeysQuery, nullable(schemaName), table)
}

func (postgresSource) Indexes(ctx context.Context, q Querier, schemaName, table string) (*sql.Rows, error) {
	return q.QueryContext(ctx, postgresIndexesQuery, nullable(schemaName), table)
}

// SQLite queries. SQLite has one schema per connection; the schema name is
// ignored. Foreign keys are unnamed.
const (
	sqliteTablesQuery = "SELECT name AS TABLE_NAME, 'TABLE' AS TABLE_TYPE, NULL AS TABLE_CAT, NULL AS TABLE_SCHEM, NULL AS REMARKS " +
		"FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name LIKE ? ORDER BY name"

	sqliteColumnsQuery = "SELECT dflt_value AS COLUMN_DEF, name AS COLUMN_NAME, type AS TYPE_NAME, " +
		"CASE WHEN \"notnull\" = 1 THEN 'NO' ELSE 'YES' END AS IS_NULLABLE, " +
		"CASE WHEN pk = 1 AND upper(type) = 'INTEGER' AND " +
		"(SELECT upper(sql) FROM sqlite_master WHERE type = 'table' AND name = ?) LIKE '%AUTOINCREMENT%' " +
		"THEN 'YES' ELSE 'NO' END AS IS_AUTOINCREMENT " +
		"FROM pragma_table_info(?) ORDER BY cid"

	sqlitePrimaryKeysQuery = "SELECT name AS COLUMN_NAME, pk AS KEY_SEQ FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk"

	sqliteForeignKeysQuery = "SELECT \"table\" AS PKTABLE_NAME, seq + 1 AS KEY_SEQ, NULL AS FK_NAME, \"to\" AS PKCOLUMN_NAME, \"from\" AS FKCOLUMN_NAME " +
		"FROM pragma_foreign_key_list(?) ORDER BY id DESC, seq"

	sqliteIndexesQuery = "SELECT il.name AS INDEX_NAME, NOT il.\"unique\" AS NON_UNIQUE, ii.seqno + 1 AS ORDINAL_POSITION, ii.name AS COLUMN_NAME " +
		"FROM pragma_index_list(?) AS il JOIN pragma_index_info(il.name) AS ii WHERE il.origin <> 'pk' ORDER BY il.name, ii.seqno"
)

type sqliteSource struct{}

func (sqliteSource) Tables(ctx context.Context, q Querier, _, pattern string) (*sql.Rows, error) {
	return q.QueryContext(ctx, sqliteTablesQuery, pattern)
}

func (sqliteSource) Columns(ctx context.Context, q Querier, _, table string) (*sql.Rows, error) {
	return q.QueryContext(ctx, sqliteColumnsQuery, table, table)
}

func (sqliteSource) PrimaryKeys(ctx context.Context, q Querier, _, table string) (*sql.Rows, error) {
	return q.QueryContext(ctx, sqlitePrimaryKeysQuery, table)
}

func (sqliteSource) ForeignKeys(ctx context.Context, q Querier, _, table string) (*sql.Rows, error) {
	return q.QueryContext(ctx, sqliteForeignKeysQuery, table)
}

func (sqliteSource) Indexes(ctx context.Context, q Querier, _, table string) (*sql.Rows, error) {
	return q.QueryContext(ctx, sqliteIndexesQuery, table)
}

// Generic information_schema queries for the remaining databases. The
// standard views carry no index information.
const (
	genericTablesQuery = "SELECT TABLE_NAME, CASE TABLE_TYPE WHEN 'BASE TABLE' THEN 'TABLE' ELSE TABLE_TYPE END AS TABLE_TYPE, " +
		"TABLE_CATALOG AS TABLE_CAT, TABLE_SCHEMA AS TABLE_SCHEM " +
		"FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = COALESCE(?, TABLE_SCHEMA) AND TABLE_NAME LIKE ? ORDER BY TABLE_NAME"

	genericColumnsQuery = "SELECT COLUMN_DEFAULT AS COLUMN_DEF, COLUMN_NAME, UPPER(DATA_TYPE) AS TYPE_NAME, " +
		"CAST(COALESCE(CHARACTER_MAXIMUM_LENGTH, NUMERIC_PRECISION) AS VARCHAR(20)) AS COLUMN_SIZE, NUMERIC_SCALE AS DECIMAL_DIGITS, " +
		"IS_NULLABLE FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = COALESCE(?, TABLE_SCHEMA) AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION"

	genericPrimaryKeysQuery = "SELECT KCU.COLUMN_NAME, KCU.ORDINAL_POSITION AS KEY_SEQ " +
		"FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS TC JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE KCU " +
		"ON KCU.CONSTRAINT_SCHEMA = TC.CONSTRAINT_SCHEMA AND KCU.CONSTRAINT_NAME = TC.CONSTRAINT_NAME " +
		"WHERE TC.CONSTRAINT_TYPE = 'PRIMARY KEY' AND TC.TABLE_SCHEMA = COALESCE(?, TC.TABLE_SCHEMA) AND TC.TABLE_NAME = ? " +
		"ORDER BY KCU.ORDINAL_POSITION"

	genericForeignKeysQuery = "SELECT PK.TABLE_NAME AS PKTABLE_NAME, FK.ORDINAL_POSITION AS KEY_SEQ, FK.CONSTRAINT_NAME AS FK_NAME, " +
		"PK.COLUMN_NAME AS PKCOLUMN_NAME, FK.COLUMN_NAME AS FKCOLUMN_NAME " +
		"FROM INFORMATION_SCHEMA.REFERENTIAL_CONSTRAINTS RC " +
		"JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE FK ON FK.CONSTRAINT_SCHEMA = RC.CONSTRAINT_SCHEMA AND FK.CONSTRAINT_NAME = RC.CONSTRAINT_NAME " +
		"JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE PK ON PK.CONSTRAINT_SCHEMA = RC.UNIQUE_CONSTRAINT_SCHEMA " +
		"AND PK.CONSTRAINT_NAME = RC.UNIQUE_CONSTRAINT_NAME AND PK.ORDINAL_POSITION = FK.ORDINAL_POSITION " +
		"WHERE FK.TABLE_SCHEMA = COALESCE(?, FK.TABLE_SCHEMA) AND FK.TABLE_NAME = ? ORDER BY FK.CONSTRAINT_NAME, FK.ORDINAL_POSITION"
)

type genericSource struct{}

func (genericSource) Tables(ctx context.Context, q Querier, schemaName, pattern string) (*sql.Rows, error) {
	return q.QueryContext(ctx, genericTablesQuery, nullable(schemaName), pattern)
}

func (genericSource) Columns(ctx context.Context, q Querier, schemaName, table string) (*sql.Rows, error) {
	return q.QueryContext(ctx, genericColumnsQuery, nullable(schemaName), table)
}

func (genericSource) PrimaryKeys(ctx context.Context, q Querier, schemaName, table string) (*sql.Rows, error) {
	return q.QueryContext(ctx, genericPrimaryKeysQuery, nullable(schemaName), table)
}

func (genericSource) ForeignKeys(ctx context.Context, q Querier, schemaName, table string) (*sql.Rows, error) {
	return q.QueryContext(ctx, genericForeignKeysQuery, nullable(schemaName), table)
}

func (genericSource) Indexes(context.Context, Querier, string, string) (*sql.Rows, error) {
	return nil, nil
}
