package snapshot

import (
	"context"
	"database/sql"

	"github.com/koba/ddlkit/internal/generator"
	"github.com/koba/ddlkit/internal/schema"
)

// storageModel describes the tables of a snapshot file.
func storageModel() (*schema.Database, error) {
	type columnDef struct {
		name, typ string
		size      string
		pk, req   bool
		autoInc   bool
	}
	table := func(name string, cols ...columnDef) (*schema.Table, error) {
		t := &schema.Table{Name: name}
		for _, s := range cols {
			c, err := schema.NewColumn(s.name, s.typ)
			if err != nil {
				return nil, err
			}
			if err := c.SetSize(s.size); err != nil {
				return nil, err
			}
			c.PrimaryKey, c.Required, c.AutoIncrement = s.pk, s.req || s.pk, s.autoInc
			if err := t.AddColumn(c); err != nil {
				return nil, err
			}
		}
		return t, nil
	}

	metadata, err := table("metadata",
		columnDef{name: "key", typ: "VARCHAR", size: "64", pk: true},
		columnDef{name: "value", typ: "LONGVARCHAR", req: true},
	)
	if err != nil {
		return nil, err
	}
	schemas, err := table("table_schemas",
		columnDef{name: "position", typ: "INTEGER", pk: true},
		columnDef{name: "table_name", typ: "VARCHAR", req: true},
		columnDef{name: "schema_json", typ: "LONGVARCHAR", req: true},
	)
	if err != nil {
		return nil, err
	}
	data, err := table("table_data",
		columnDef{name: "id", typ: "INTEGER", pk: true, autoInc: true},
		columnDef{name: "table_name", typ: "VARCHAR", req: true},
		columnDef{name: "row_json", typ: "LONGVARCHAR", req: true},
	)
	if err != nil {
		return nil, err
	}
	data.Indexes = []*schema.Index{{
		Name:    "idx_table_data_table_name",
		Columns: []*schema.IndexColumn{{Name: "table_name", OrdinalPosition: 1}},
	}}

	return &schema.Database{Name: "snapshot", Tables: []*schema.Table{metadata, schemas, data}}, nil
}

// initializeSchema creates the snapshot tables in an empty SQLite file.
func initializeSchema(ctx context.Context, db *sql.DB) error {
	model, err := storageModel()
	if err != nil {
		return err
	}
	g, err := generator.NewDDLGenerator("sqlite")
	if err != nil {
		return err
	}
	stmts, err := g.CreateTables(model, false)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
