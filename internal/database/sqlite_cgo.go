//go:build cgo_sqlite

// Build with -tags cgo_sqlite (and CGO_ENABLED=1) to use mattn/go-sqlite3.

package database

import (
	_ "github.com/mattn/go-sqlite3" // CGO SQLite driver
)

const (
	sqliteDriver  = "sqlite3"
	sqlitePragmas = "_foreign_keys=1"
)
