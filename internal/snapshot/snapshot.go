// Package snapshot stores database models, and optionally their rows, in
// SQLite files that can later be diffed against other models.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite"

	"github.com/koba/ddlkit/internal/logging"
	"github.com/koba/ddlkit/internal/rowmap"
	"github.com/koba/ddlkit/internal/schema"
)

// Metadata describes where and when a snapshot was taken.
type Metadata struct {
	ID          string
	CreatedAt   time.Time
	Dialect     string
	Database    string
	Fingerprint string
}

// Snapshot represents a database snapshot
type Snapshot struct {
	Metadata Metadata
	Model    *schema.Database
	// Data holds the captured rows by table name. It is nil when no data
	// was captured.
	Data map[string][]schema.Row
}

// Source is a live database a snapshot can be taken of.
type Source interface {
	Dialect() string
	ReadModel(ctx context.Context) (*schema.Database, error)
	TableData(ctx context.Context, table *schema.Table, limit int) ([]schema.Row, error)
}

// Options select what a snapshot captures.
type Options struct {
	// Tables restricts the snapshot to the named tables.
	Tables []string
	// Data captures table rows as well.
	Data bool
	// Limit caps the rows captured per table when positive.
	Limit int
}

// Capture reads a snapshot from a live database.
func Capture(ctx context.Context, src Source, opts Options) (*Snapshot, error) {
	model, err := src.ReadModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	if len(opts.Tables) > 0 {
		if model, err = selectTables(model, opts.Tables); err != nil {
			return nil, err
		}
	}

	fingerprint, err := Fingerprint(model)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Metadata: Metadata{
			ID:          uuid.NewString(),
			CreatedAt:   time.Now().UTC().Truncate(time.Second),
			Dialect:     src.Dialect(),
			Database:    model.Name,
			Fingerprint: fingerprint,
		},
		Model: model,
	}
	if !opts.Data {
		return snap, nil
	}

	snap.Data = make(map[string][]schema.Row, len(model.Tables))
	for _, t := range dataOrder(ctx, model) {
		rows, err := src.TableData(ctx, t, opts.Limit)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot table %s: %w", t.Name, err)
		}
		snap.Data[t.Name] = rows
		logging.FromContext(ctx).Debug("table captured", "table", t.Name, "rows", len(rows))
	}
	return snap, nil
}

func selectTables(model *schema.Database, names []string) (*schema.Database, error) {
	selected := &schema.Database{Name: model.Name, Catalog: model.Catalog, Schema: model.Schema}
	for _, name := range names {
		t := model.Table(name, false)
		if t == nil {
			return nil, fmt.Errorf("table %q not found in %s", name, model.Name)
		}
		if err := selected.AddTable(t); err != nil {
			return nil, err
		}
	}
	return selected, nil
}

// dataOrder returns the tables referenced tables first. Cyclic models keep
// their declaration order.
func dataOrder(ctx context.Context, model *schema.Database) []*schema.Table {
	tables, err := model.SortTables(false)
	if err != nil {
		logging.FromContext(ctx).Warn("tables captured in declaration order", "error", err.Error())
		return model.Tables
	}
	return tables
}

// Fingerprint returns the hex BLAKE3 hash of the model's JSON form. Equal
// fingerprints mean identical models, including names and order.
func Fingerprint(model *schema.Database) (string, error) {
	data, err := json.Marshal(model)
	if err != nil {
		return "", fmt.Errorf("failed to marshal model: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Create captures a snapshot and saves it to outputPath.
func Create(ctx context.Context, src Source, outputPath string, opts Options) (*Snapshot, error) {
	snap, err := Capture(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	if err := Save(ctx, snap, outputPath); err != nil {
		return nil, err
	}
	return snap, nil
}

// Save writes the snapshot to a new SQLite file, replacing any existing one.
func Save(ctx context.Context, snap *Snapshot, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if _, err := os.Stat(outputPath); err == nil {
		if err := os.Remove(outputPath); err != nil {
			return fmt.Errorf("failed to remove existing snapshot: %w", err)
		}
	}

	db, err := sql.Open("sqlite", outputPath)
	if err != nil {
		return fmt.Errorf("failed to create snapshot database: %w", err)
	}
	defer db.Close()

	if err := initializeSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to initialize snapshot schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := writeMetadata(ctx, tx, snap); err != nil {
		return err
	}
	for i, t := range snap.Model.Tables {
		if err := writeTable(ctx, tx, i, t, snap.Data); err != nil {
			return fmt.Errorf("failed to snapshot table %s: %w", t.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func writeMetadata(ctx context.Context, tx *sql.Tx, snap *Snapshot) error {
	metadata := map[string]string{
		"id":          snap.Metadata.ID,
		"created_at":  snap.Metadata.CreatedAt.Format(time.RFC3339),
		"dialect":     snap.Metadata.Dialect,
		"database":    snap.Metadata.Database,
		"catalog":     snap.Model.Catalog,
		"schema":      snap.Model.Schema,
		"fingerprint": snap.Metadata.Fingerprint,
		"data":        fmt.Sprint(snap.Data != nil),
	}
	for key, value := range metadata {
		if _, err := tx.ExecContext(ctx, `INSERT INTO "metadata" ("key", "value") VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("failed to insert metadata: %w", err)
		}
	}
	return nil
}

func writeTable(ctx context.Context, tx *sql.Tx, position int, t *schema.Table, data map[string][]schema.Row) error {
	schemaJSON, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO "table_schemas" ("position", "table_name", "schema_json") VALUES (?, ?, ?)`,
		position, t.Name, string(schemaJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert schema: %w", err)
	}

	rows := data[t.Name]
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO "table_data" ("table_name", "row_json") VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	m := rowmap.ForTable(t)
	for _, row := range rows {
		rowJSON, err := json.Marshal(m.Record(row))
		if err != nil {
			return fmt.Errorf("failed to marshal row: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, t.Name, string(rowJSON)); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}
	return nil
}

// Load loads a snapshot from a SQLite file
func Load(ctx context.Context, snapshotPath string) (*Snapshot, error) {
	if _, err := os.Stat(snapshotPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("snapshot file does not exist: %s", snapshotPath)
	}

	db, err := sql.Open("sqlite", snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	defer db.Close()

	metadata, err := readMetadata(ctx, db)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Model: &schema.Database{
		Name:    metadata["database"],
		Catalog: metadata["catalog"],
		Schema:  metadata["schema"],
	}}
	snap.Metadata = Metadata{
		ID:          metadata["id"],
		Dialect:     metadata["dialect"],
		Database:    metadata["database"],
		Fingerprint: metadata["fingerprint"],
	}
	if s := metadata["created_at"]; s != "" {
		if snap.Metadata.CreatedAt, err = time.Parse(time.RFC3339, s); err != nil {
			return nil, fmt.Errorf("invalid snapshot creation time %q: %w", s, err)
		}
	}

	if err := readTables(ctx, db, snap.Model); err != nil {
		return nil, err
	}
	if metadata["data"] == "true" {
		snap.Data = make(map[string][]schema.Row, len(snap.Model.Tables))
		for _, t := range snap.Model.Tables {
			rows, err := readData(ctx, db, t)
			if err != nil {
				return nil, err
			}
			snap.Data[t.Name] = rows
		}
	}
	return snap, nil
}

func readMetadata(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT "key", "value" FROM "metadata"`)
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		metadata[key] = value
	}
	return metadata, rows.Err()
}

func readTables(ctx context.Context, db *sql.DB, model *schema.Database) error {
	rows, err := db.QueryContext(ctx, `SELECT "schema_json" FROM "table_schemas" ORDER BY "position"`)
	if err != nil {
		return fmt.Errorf("failed to query table schemas: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var schemaJSON string
		if err := rows.Scan(&schemaJSON); err != nil {
			return fmt.Errorf("failed to scan table schema: %w", err)
		}
		t := &schema.Table{}
		if err := json.Unmarshal([]byte(schemaJSON), t); err != nil {
			return fmt.Errorf("failed to unmarshal schema: %w", err)
		}
		if err := model.AddTable(t); err != nil {
			return err
		}
	}
	return rows.Err()
}

// readData decodes numbers as json.Number so that integer keys survive the
// round trip unchanged. Binary columns are stored base64 encoded.
func readData(ctx context.Context, db *sql.DB, t *schema.Table) ([]schema.Row, error) {
	rows, err := db.QueryContext(ctx, `SELECT "row_json" FROM "table_data" WHERE "table_name" = ? ORDER BY "id"`, t.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to query table data: %w", err)
	}
	defer rows.Close()

	m := rowmap.ForTable(t)
	var data []schema.Row
	for rows.Next() {
		var rowJSON string
		if err := rows.Scan(&rowJSON); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		dec := json.NewDecoder(strings.NewReader(rowJSON))
		dec.UseNumber()
		var rec map[string]any
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal row of %s: %w", t.Name, err)
		}
		row := m.Row(rec)
		for _, c := range t.Columns {
			if s, ok := row[c.Name].(string); ok && c.IsBinary() {
				if row[c.Name], err = base64.StdEncoding.DecodeString(s); err != nil {
					return nil, fmt.Errorf("failed to decode %s.%s: %w", t.Name, c.Name, err)
				}
			}
		}
		data = append(data, row)
	}
	return data, rows.Err()
}

// Same reports if two snapshots hold the same model.
func Same(a, b *Snapshot) bool {
	return a.Metadata.Fingerprint != "" && a.Metadata.Fingerprint == b.Metadata.Fingerprint
}
