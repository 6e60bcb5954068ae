package platform

import (
	"fmt"
	"sort"
	"strings"
)

// UnknownDialectError is returned by Lookup for names that are neither
// a registered dialect nor one of its aliases.
type UnknownDialectError struct {
	Name string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("platform: unknown dialect %q (known: %s)", e.Name, strings.Join(Names(), ", "))
}

var (
	dialects = map[string]*Info{}
	aliases  = map[string]string{
		"postgres":   "postgresql",
		"pg":         "postgresql",
		"pgx":        "postgresql",
		"sqlserver":  "mssql",
		"sqlite3":    "sqlite",
		"mariadb":    "mysql",
		"ansi":       "generic",
		"interbase6": "interbase",
		"sapdb7":     "sapdb",
	}
)

func init() {
	for _, i := range []*Info{
		newAxion(),
		newCloudscape(),
		newDB2(),
		newDerby("derby"),
		newFirebird(),
		newGeneric(),
		newHSQLDB(),
		newInterbase("interbase"),
		newMaxDB(),
		newMcKoi(),
		newMSSQL(),
		newMySQL(),
		newOracle(),
		newPostgreSQL(),
		newSapDB("sapdb"),
		newSQLite(),
		newSybase(),
	} {
		dialects[i.Name] = i
	}
}

// Lookup returns the descriptor of the named dialect. Names are matched
// case-insensitively and may be aliases.
func Lookup(name string) (*Info, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	i, ok := dialects[key]
	if !ok {
		return nil, &UnknownDialectError{Name: name}
	}
	return i, nil
}

// MustLookup is like Lookup but panics on unknown names.
func MustLookup(name string) *Info {
	i, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return i
}

// Names returns the canonical names of all registered dialects, sorted.
func Names() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Canonical returns the canonical name for a dialect name or alias.
func Canonical(name string) (string, error) {
	i, err := Lookup(name)
	if err != nil {
		return "", err
	}
	return i.Name, nil
}
