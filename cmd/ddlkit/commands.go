package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/koba/ddlkit/internal/diff"
	"github.com/koba/ddlkit/internal/generator"
	"github.com/koba/ddlkit/internal/logging"
	"github.com/koba/ddlkit/internal/platform"
	"github.com/koba/ddlkit/internal/schema"
	"github.com/koba/ddlkit/internal/schemafile"
	"github.com/koba/ddlkit/internal/snapshot"
)

func newReadCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read the schema of the configured database",
		Long:  `Read the schema of the configured database and write it as HCL.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := opts.load(cmd.Context(), liveSource)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(schemafile.MarshalHCL(src.model))
				return err
			}
			if err := schemafile.WriteFile(output, src.model); err != nil {
				return err
			}
			logging.FromContext(cmd.Context()).Info("schema written", "path", output, "tables", len(src.model.Tables))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the schema to a file instead of stdout")
	return cmd
}

func newCreateSQLCmd(opts *options) *cobra.Command {
	var dropFirst bool
	cmd := &cobra.Command{
		Use:   "create-sql <schema file>...",
		Short: "Generate the SQL creating a schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := schemafile.ReadFiles(args...)
			if err != nil {
				return err
			}
			g, err := opts.generator()
			if err != nil {
				return err
			}
			stmts, err := g.CreateTables(model, dropFirst)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), g.Script(stmts))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dropFirst, "drop-first", false, "Drop the tables before creating them")
	return cmd
}

func newDropSQLCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "drop-sql <schema file>...",
		Short: "Generate the SQL dropping a schema",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := schemafile.ReadFiles(args...)
			if err != nil {
				return err
			}
			g, err := opts.generator()
			if err != nil {
				return err
			}
			stmts, err := g.DropTables(model)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), g.Script(stmts))
			return nil
		},
	}
}

func newDiffCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Compare two schemas",
		Long: `Compare two schemas and list the changes turning <from> into <to>.

Each source is "live" (the configured database), a snapshot file (.db) or
schema files (.hcl or .xml, comma separated). Data differences are listed
when both sources are snapshots with data.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := opts.loadPair(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			diff.Display(out, diff.Compare(from.model, to.model, opts.caseSensitive))

			dataDiffs, err := compareData(from, to, opts.caseSensitive)
			if err != nil {
				return err
			}
			if len(dataDiffs) > 0 {
				fmt.Fprintf(out, "\n=== Data changes ===\n\n")
				for _, d := range dataDiffs {
					fmt.Fprintf(out, "%s: %d added, %d deleted, %d modified\n",
						d.Table.Name, len(d.RowsAdded), len(d.RowsDeleted), len(d.RowsModified))
				}
			}
			return nil
		},
	}
}

func newMigrateCmd(opts *options) *cobra.Command {
	var (
		execute         bool
		continueOnError bool
	)
	cmd := &cobra.Command{
		Use:   "migrate <from> <to>",
		Short: "Generate migration SQL",
		Long: `Generate the DDL, and for snapshots with data the DML, migrating <from> to <to>.

With --execute the statements are run against the configured database.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			from, to, err := opts.loadPair(cmd, args)
			if err != nil {
				return err
			}
			g, err := opts.generator(from, to)
			if err != nil {
				return err
			}

			changes := diff.Compare(from.model, to.model, opts.caseSensitive)
			stmts, err := generator.GenerateSQL(g, from.model, changes)
			if err != nil {
				return fmt.Errorf("failed to generate migration: %w", err)
			}
			dataDiffs, err := compareData(from, to, opts.caseSensitive)
			if err != nil {
				return err
			}
			stmts = append(stmts, generator.NewDMLGenerator(g).GenerateAll(dataDiffs)...)

			if execute {
				db, err := opts.connect(ctx)
				if err != nil {
					return err
				}
				defer db.Close()
				result, err := db.Exec(ctx, stmts, continueOnError)
				fmt.Fprintf(cmd.OutOrStdout(), "%d statements executed, %d failed\n", result.Succeeded, result.Failed)
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "-- Migration SQL from %s to %s (%s)\n", from.name, to.name, g.Info().Name)
			fmt.Fprintf(out, "-- Generated at: %s\n\n", time.Now().Format(time.RFC3339))
			fmt.Fprint(out, g.Script(stmts))
			return nil
		},
	}
	cmd.Flags().BoolVar(&execute, "execute", false, "Run the statements against the configured database")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Keep executing after a statement fails")
	return cmd
}

func newSnapshotCmd(opts *options) *cobra.Command {
	var (
		tables    []string
		limit     int
		outputDir string
		withData  bool
	)
	cmd := &cobra.Command{
		Use:   "snapshot [name]",
		Short: "Create a database snapshot",
		Long:  `Create a snapshot of the schema, and optionally the data, of the configured database.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := opts.connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			var filename string
			if len(args) > 0 {
				filename = args[0]
				if !strings.HasSuffix(filename, ".db") {
					filename += ".db"
				}
			} else {
				name := db.Config.Database
				if name == "" {
					name = strings.TrimSuffix(filepath.Base(db.Config.Path), filepath.Ext(db.Config.Path))
				}
				filename = fmt.Sprintf("%s-%s.db", name, time.Now().Format("2006-01-02-15-04-05"))
			}
			outputPath := filepath.Join(outputDir, filename)

			fmt.Fprintf(cmd.OutOrStdout(), "Creating snapshot: %s\n", outputPath)
			snap, err := snapshot.Create(ctx, db, outputPath, snapshot.Options{Tables: tables, Data: withData, Limit: limit})
			if err != nil {
				return fmt.Errorf("failed to create snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot created successfully: %s (%d tables, fingerprint %s)\n",
				outputPath, len(snap.Model.Tables), snap.Metadata.Fingerprint[:12])
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&tables, "tables", nil, "Comma-separated list of tables to snapshot (default: all tables)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of rows per table (default: unlimited)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "./snapshots", "Output directory for snapshots")
	cmd.Flags().BoolVar(&withData, "data", false, "Capture table rows as well")
	return cmd
}

func newOrderCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "order <source>",
		Short: "Print the tables in foreign-key-safe insertion order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := opts.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tables, err := src.model.SortTables(opts.caseSensitive)
			if err != nil {
				return err
			}
			for _, t := range tables {
				fmt.Fprintln(cmd.OutOrStdout(), t.Name)
			}
			return nil
		},
	}
}

func newDialectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the supported SQL dialects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range platform.Names() {
				info := platform.MustLookup(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s max identifier length %d\n", name, info.MaxIdentifierLength)
			}
			return nil
		},
	}
}

func (o *options) loadPair(cmd *cobra.Command, args []string) (*source, *source, error) {
	from, err := o.load(cmd.Context(), args[0])
	if err != nil {
		return nil, nil, err
	}
	to, err := o.load(cmd.Context(), args[1])
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// compareData diffs the rows of tables present in both sources, in the
// target's insertion order. It returns nothing unless both sources are
// snapshots holding data.
func compareData(from, to *source, caseSensitive bool) ([]*diff.DataDiff, error) {
	if from.snap == nil || to.snap == nil || from.snap.Data == nil || to.snap.Data == nil {
		return nil, nil
	}
	tables, err := to.model.SortTables(caseSensitive)
	if err != nil {
		var cycle *schema.OrderingError
		if !errors.As(err, &cycle) {
			return nil, err
		}
		tables = to.model.Tables
	}

	var diffs []*diff.DataDiff
	for _, t := range tables {
		old := from.model.Table(t.Name, caseSensitive)
		if old == nil {
			continue
		}
		if d := diff.CompareData(t, from.snap.Data[old.Name], to.snap.Data[t.Name]); d != nil {
			diffs = append(diffs, d)
		}
	}
	return diffs, nil
}
