package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/koba/ddlkit/internal/platform"
)

// Config holds database connection configuration
type Config struct {
	Type     string // dialect name, e.g. "mysql", "postgres" or "sqlite"
	Driver   string // database/sql driver; empty selects the dialect's default
	Host     string
	Port     string
	Database string
	User     string
	Password string
	Path     string // SQLite database file
	DSN      string // used as is when set
	Schema   string
}

// LoadConfigFromEnv loads database configuration from environment variables
func LoadConfigFromEnv() (Config, error) {
	config := ConfigFromEnv()
	if err := config.Complete(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// ConfigFromEnv reads the environment variables without validating them.
func ConfigFromEnv() Config {
	return Config{
		Type:     os.Getenv("DB_TYPE"),
		Driver:   os.Getenv("DB_DRIVER"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		Database: os.Getenv("DB_NAME"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Path:     os.Getenv("DB_PATH"),
		DSN:      os.Getenv("DB_DSN"),
		Schema:   os.Getenv("DB_SCHEMA"),
	}
}

// Complete validates the configuration and fills in default ports and
// host.
func (c *Config) Complete() error {
	if c.Type == "" {
		return fmt.Errorf("DB_TYPE environment variable is required")
	}
	dialect, err := c.Dialect()
	if err != nil {
		return err
	}
	if c.DSN != "" {
		return nil
	}

	switch dialect {
	case "sqlite":
		if c.Path == "" {
			return fmt.Errorf("DB_PATH environment variable is required for %s", c.Type)
		}
		return nil
	case "mysql":
		if c.Port == "" {
			c.Port = "3306"
		}
	case "postgresql":
		if c.Port == "" {
			c.Port = "5432"
		}
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Database == "" {
		return fmt.Errorf("DB_NAME environment variable is required")
	}
	return nil
}

// Dialect returns the canonical dialect name of the configured type.
func (c Config) Dialect() (string, error) {
	info, err := platform.Lookup(c.Type)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

// DriverName returns the database/sql driver used for the configuration.
func (c Config) DriverName() (string, error) {
	dialect, err := c.Dialect()
	if err != nil {
		return "", err
	}
	switch dialect {
	case "mysql":
		if c.Driver == "" {
			return "mysql", nil
		}
	case "postgresql":
		switch strings.ToLower(c.Driver) {
		case "", "postgres", "pq":
			return "postgres", nil
		case "pgx":
			return "pgx", nil
		}
	case "sqlite":
		if c.Driver == "" {
			return sqliteDriver, nil
		}
	}
	if c.Driver != "" {
		return c.Driver, nil
	}
	return "", fmt.Errorf("no driver available for database type %q", c.Type)
}

// DataSourceName returns the DSN passed to the driver.
func (c Config) DataSourceName() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	dialect, err := c.Dialect()
	if err != nil {
		return "", err
	}
	switch dialect {
	case "mysql":
		return mysqlDSN(c), nil
	case "postgresql":
		return postgresDSN(c), nil
	case "sqlite":
		return sqliteDSN(c), nil
	}
	return "", fmt.Errorf("cannot build a data source name for %q, set DB_DSN", c.Type)
}

// Open opens and pings the configured database.
func Open(ctx context.Context, config Config) (*sql.DB, error) {
	driver, err := config.DriverName()
	if err != nil {
		return nil, err
	}
	dsn, err := config.DataSourceName()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", config.Type, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", config.Type, err)
	}
	return db, nil
}
