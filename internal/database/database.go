// Package database connects to live databases: it reads their models and
// rows and executes generated statements.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/koba/ddlkit/internal/generator"
	"github.com/koba/ddlkit/internal/reader"
	"github.com/koba/ddlkit/internal/rowmap"
	"github.com/koba/ddlkit/internal/schema"
)

// Database is an open connection together with the dialect it speaks.
type Database struct {
	DB     *sql.DB
	Config Config

	reader *reader.Reader
	dml    *generator.DMLGenerator
}

// Connect opens the configured database.
func Connect(ctx context.Context, config Config) (*Database, error) {
	db, err := Open(ctx, config)
	if err != nil {
		return nil, err
	}
	d, err := New(db, config)
	if err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// New wraps an open handle.
func New(db *sql.DB, config Config) (*Database, error) {
	r, err := reader.ForPlatform(config.Type)
	if err != nil {
		return nil, err
	}
	ddl, err := generator.NewDDLGenerator(config.Type)
	if err != nil {
		return nil, err
	}
	return &Database{DB: db, Config: config, reader: r, dml: generator.NewDMLGenerator(ddl)}, nil
}

// Dialect returns the canonical dialect name.
func (d *Database) Dialect() string { return d.reader.Info.Name }

// Close closes the connection.
func (d *Database) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

// ReadModel reads the model of the configured database and schema.
func (d *Database) ReadModel(ctx context.Context) (*schema.Database, error) {
	name := d.Config.Database
	if name == "" {
		name = d.Config.Path
	}
	return d.reader.Read(ctx, d.DB, reader.Options{Name: name, Schema: d.Config.Schema})
}

// TableData reads up to limit rows of a table, all rows if limit is not
// positive. Rows are keyed by the model's column names.
func (d *Database) TableData(ctx context.Context, table *schema.Table, limit int) ([]schema.Row, error) {
	rows, err := d.DB.QueryContext(ctx, d.dml.Select(table, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get table data: %w", err)
	}
	data, err := rowmap.Collect(rows, table, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read table data: %w", err)
	}
	return data, nil
}

// Exec runs statements against the database. See Exec.
func (d *Database) Exec(ctx context.Context, statements []string, continueOnError bool) (ExecResult, error) {
	return Exec(ctx, d.DB, statements, continueOnError)
}
