package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/koba/ddlkit/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the persistent flags.
type options struct {
	logLevel      string
	logFormat     string
	dialect       string
	caseSensitive bool
	dbType        string
	dbDSN         string
	dbPath        string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "ddlkit",
		Short: "Database schema reader, differ and migration generator",
		Long: `ddlkit reads database schemas from live databases, schema files (HCL or XML)
and snapshots, compares them, and generates the DDL to migrate one into the other
for many SQL dialects.

Live databases are configured with DB_TYPE, DB_HOST, DB_PORT, DB_NAME, DB_USER,
DB_PASSWORD, DB_PATH, DB_DSN, DB_DRIVER and DB_SCHEMA.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initLogging(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (default from "+logging.EnvLevel+", else info)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: text or json (default from "+logging.EnvFormat+", else text)")
	flags.StringVar(&opts.dialect, "dialect", "", "SQL dialect of generated statements (default: the dialect of the sources)")
	flags.BoolVar(&opts.caseSensitive, "case-sensitive", false, "Compare table and column names case-sensitively")
	flags.StringVar(&opts.dbType, "db-type", "", "Override DB_TYPE")
	flags.StringVar(&opts.dbDSN, "db-dsn", "", "Override DB_DSN")
	flags.StringVar(&opts.dbPath, "db-path", "", "Override DB_PATH")

	root.AddCommand(
		newReadCmd(opts),
		newCreateSQLCmd(opts),
		newDropSQLCmd(opts),
		newDiffCmd(opts),
		newMigrateCmd(opts),
		newSnapshotCmd(opts),
		newOrderCmd(opts),
		newDialectsCmd(),
	)
	return root
}

func (o *options) initLogging(cmd *cobra.Command) error {
	level, format, err := logging.FromEnv()
	if err != nil {
		return err
	}
	if o.logLevel != "" {
		if level, err = logging.ParseLevel(o.logLevel); err != nil {
			return err
		}
	}
	if o.logFormat != "" {
		if format, err = logging.ParseFormat(o.logFormat); err != nil {
			return err
		}
	}
	logging.Init(cmd.ErrOrStderr(), level, format)
	cmd.SetContext(logging.WithCommand(cmd.Context(), cmd.Name()))
	return nil
}
