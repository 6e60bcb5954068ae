//go:build !cgo_sqlite

package database

import (
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const (
	sqliteDriver  = "sqlite"
	sqlitePragmas = "_pragma=foreign_keys(1)"
)
