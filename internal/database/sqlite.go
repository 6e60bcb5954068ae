package database

import "strings"

// sqliteDSN enables foreign key enforcement, which SQLite leaves off per
// connection.
func sqliteDSN(c Config) string {
	sep := "?"
	if strings.Contains(c.Path, "?") {
		sep = "&"
	}
	return c.Path + sep + sqlitePragmas
}
