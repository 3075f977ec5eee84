package database

import (
	"strconv"
	"strings"
)

// Dialect rewrites portable queries written with '?' placeholders.
type Dialect string

const (
	Postgres Dialect = DriverPostgres
	SQLite   Dialect = DriverSQLite
)

// Rebind converts '?' placeholders to '$n' for Postgres. Queries must not
// contain literal question marks.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0

	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}

		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}

	return b.String()
}
