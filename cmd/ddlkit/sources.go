package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/koba/ddlkit/internal/database"
	"github.com/koba/ddlkit/internal/generator"
	"github.com/koba/ddlkit/internal/logging"
	"github.com/koba/ddlkit/internal/schema"
	"github.com/koba/ddlkit/internal/schemafile"
	"github.com/koba/ddlkit/internal/snapshot"
)

// liveSource names the configured database as a model source.
const liveSource = "live"

// source is a model loaded from a database, a snapshot or schema files.
type source struct {
	name    string
	model   *schema.Database
	dialect string
	// snap is set for snapshot sources.
	snap *snapshot.Snapshot
}

func (o *options) config() (database.Config, error) {
	config := database.ConfigFromEnv()
	if o.dbType != "" {
		config.Type = o.dbType
	}
	if o.dbDSN != "" {
		config.DSN = o.dbDSN
	}
	if o.dbPath != "" {
		config.Path = o.dbPath
	}
	if err := config.Complete(); err != nil {
		return database.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return config, nil
}

func (o *options) connect(ctx context.Context) (*database.Database, error) {
	config, err := o.config()
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// load reads a model from "live", a snapshot file (.db) or one or more
// schema files separated by commas.
func (o *options) load(ctx context.Context, arg string) (*source, error) {
	log := logging.FromContext(ctx)
	switch {
	case arg == liveSource:
		db, err := o.connect(ctx)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		log.Info("reading database", "dialect", db.Dialect())
		model, err := db.ReadModel(ctx)
		if err != nil {
			return nil, err
		}
		return &source{name: liveSource, model: model, dialect: db.Dialect()}, nil

	case strings.EqualFold(filepath.Ext(arg), ".db"):
		log.Info("loading snapshot", "path", arg)
		snap, err := snapshot.Load(ctx, arg)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
		return &source{name: filepath.Base(arg), model: snap.Model, dialect: snap.Metadata.Dialect, snap: snap}, nil

	default:
		paths := strings.Split(arg, ",")
		log.Info("reading schema files", "files", paths)
		model, err := schemafile.ReadFiles(paths...)
		if err != nil {
			return nil, err
		}
		return &source{name: filepath.Base(paths[0]), model: model}, nil
	}
}

// generator returns a DDL generator for the --dialect flag, or else the
// dialect of the first source that has one.
func (o *options) generator(sources ...*source) (*generator.DDLGenerator, error) {
	dialect := o.dialect
	for _, s := range sources {
		if dialect != "" {
			break
		}
		dialect = s.dialect
	}
	if dialect == "" {
		return nil, fmt.Errorf("no SQL dialect known for the sources, use --dialect")
	}
	g, err := generator.NewDDLGenerator(dialect)
	if err != nil {
		return nil, err
	}
	g.CaseSensitive = o.caseSensitive
	return g, nil
}
