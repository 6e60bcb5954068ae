package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/koba/ddlkit/internal/database"
	"github.com/koba/ddlkit/internal/generator"
	"github.com/koba/ddlkit/internal/schemafile"
)

const libraryV1 = `
name = "library"

table "authors" {
  column "id" {
    type        = "INTEGER"
    primary_key = true
  }
  column "name" {
    type     = "VARCHAR"
    size     = 100
    required = true
  }
}

table "books" {
  column "id" {
    type        = "INTEGER"
    primary_key = true
  }
  column "author_id" {
    type     = "INTEGER"
    required = true
  }
  column "title" {
    type     = "VARCHAR"
    size     = 200
    required = true
  }
  foreign_key "fk_books_author" {
    table       = "authors"
    columns     = ["author_id"]
    ref_columns = ["id"]
  }
}
`

const isbnTable = `
  column "isbn" {
    type = "VARCHAR"
    size = 13
  }
  index "ix_books_isbn" {
    columns = ["isbn"]
  }
}
`

// libraryV2 adds an indexed isbn column to books.
var libraryV2 = libraryV1[:len(libraryV1)-len("}\n")] + isbnTable

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clearDBEnv(t *testing.T) {
	for _, k := range []string{"DB_TYPE", "DB_DRIVER", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "DB_PATH", "DB_DSN", "DB_SCHEMA"} {
		t.Setenv(k, "")
	}
}

func TestCreateAndDropSQL(t *testing.T) {
	dir := t.TempDir()
	v1 := writeFile(t, dir, "library.hcl", libraryV1)

	out, err := run(t, "create-sql", "--dialect", "mysql", v1)
	require.NoError(t, err)
	require.Contains(t, out, "CREATE TABLE `authors`")
	require.Contains(t, out, "ALTER TABLE `books` ADD CONSTRAINT `fk_books_author` FOREIGN KEY (`author_id`) REFERENCES `authors` (`id`);")

	out, err = run(t, "drop-sql", "--dialect", "mysql", v1)
	require.NoError(t, err)
	require.Contains(t, out, "DROP TABLE IF EXISTS `books`")

	_, err = run(t, "create-sql", v1)
	require.EqualError(t, err, "no SQL dialect known for the sources, use --dialect")
}

func TestOrderAndDialects(t *testing.T) {
	dir := t.TempDir()
	v1 := writeFile(t, dir, "library.hcl", libraryV1)

	out, err := run(t, "order", v1)
	require.NoError(t, err)
	require.Equal(t, "authors\nbooks\n", out)

	out, err = run(t, "dialects")
	require.NoError(t, err)
	require.Contains(t, out, "postgresql")
	require.Contains(t, out, "sqlite")
}

func TestDiff_Files(t *testing.T) {
	dir := t.TempDir()
	v1 := writeFile(t, dir, "v1.hcl", libraryV1)
	v2 := writeFile(t, dir, "v2.hcl", libraryV2)

	out, err := run(t, "diff", v1, v2)
	require.NoError(t, err)
	require.Contains(t, out, "=== 2 changes ===")

	out, err = run(t, "diff", v1, v1)
	require.NoError(t, err)
	require.Equal(t, "No differences found.\n", out)

	_, err = run(t, "diff", filepath.Join(dir, "missing.db"), v1)
	require.ErrorContains(t, err, "snapshot file does not exist")
}

func TestLiveWorkflow_SQLite(t *testing.T) {
	clearDBEnv(t)
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "library.sqlite")
	v1 := writeFile(t, dir, "v1.hcl", libraryV1)
	v2 := writeFile(t, dir, "v2.hcl", libraryV2)
	live := []string{"--db-type", "sqlite", "--db-path", dbPath}

	model, err := schemafile.ReadFiles(v1)
	require.NoError(t, err)
	g, err := generator.NewDDLGenerator("sqlite")
	require.NoError(t, err)
	create, err := g.CreateTables(model, false)
	require.NoError(t, err)
	db, err := database.Open(ctx, database.Config{Type: "sqlite", Path: dbPath})
	require.NoError(t, err)
	_, err = database.Exec(ctx, db, create, false)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO authors (id, name) VALUES (1, 'Le Guin')`)
	require.NoError(t, err)

	out, err := run(t, append([]string{"diff", "live", v1}, live...)...)
	require.NoError(t, err)
	require.Equal(t, "No differences found.\n", out)

	out, err = run(t, append([]string{"snapshot", "before", "--data", "--output-dir", dir}, live...)...)
	require.NoError(t, err)
	require.Contains(t, out, "Snapshot created successfully")

	out, err = run(t, append([]string{"migrate", "live", v2, "--execute"}, live...)...)
	require.NoError(t, err)
	require.Equal(t, "2 statements executed, 0 failed\n", out)

	out, err = run(t, append([]string{"diff", "live", v2}, live...)...)
	require.NoError(t, err)
	require.Equal(t, "No differences found.\n", out)

	_, err = db.ExecContext(ctx, `INSERT INTO authors (id, name) VALUES (2, 'Lem')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = run(t, append([]string{"snapshot", "after", "--data", "--output-dir", dir}, live...)...)
	require.NoError(t, err)

	before, after := filepath.Join(dir, "before.db"), filepath.Join(dir, "after.db")
	out, err = run(t, "diff", before, after)
	require.NoError(t, err)
	require.Contains(t, out, "authors: 1 added, 0 deleted, 0 modified")

	out, err = run(t, "migrate", before, after)
	require.NoError(t, err)
	require.Contains(t, out, "(sqlite)")
	require.Contains(t, out, `ALTER TABLE "books" ADD COLUMN "isbn" VARCHAR(13);`)
	require.Contains(t, out, `INSERT INTO "authors" ("id", "name") VALUES (2, 'Lem');`)

	out, err = run(t, append([]string{"read"}, live...)...)
	require.NoError(t, err)
	require.Contains(t, out, `table "books" {`)
	require.Contains(t, out, `column "isbn" {`)

	// id columns are nullable keys on SQLite; a written schema must read back as is.
	written := filepath.Join(dir, "written.hcl")
	_, err = run(t, append([]string{"read", "-o", written}, live...)...)
	require.NoError(t, err)
	out, err = run(t, append([]string{"migrate", "live", written}, live...)...)
	require.NoError(t, err)
	require.NotContains(t, out, "ALTER")
	out, err = run(t, append([]string{"diff", "live", written}, live...)...)
	require.NoError(t, err)
	require.Equal(t, "No differences found.\n", out)
}
