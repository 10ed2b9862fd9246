package driver

import (
	"strings"
	"time"
)

// Dialect identifies the SQL flavor of a database.
type Dialect int

const (
	// DialectPostgres speaks PostgreSQL ($1 placeholders, TIMESTAMPTZ).
	DialectPostgres Dialect = iota

	// DialectSQLite speaks SQLite (?1 placeholders, timestamps as TEXT).
	DialectSQLite
)

// TimeLayout is the fixed-width UTC layout used for SQLite timestamps.
// Fixed width keeps lexical order equal to chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectPostgres:
		return "postgres"
	case DialectSQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// Rebind rewrites $N placeholders for the dialect. Queries are written
// with PostgreSQL placeholders; SQLite receives ?N, which keeps the numbering
// so a parameter may be referenced more than once.
func (d Dialect) Rebind(query string) string {
	if d != DialectSQLite || !strings.Contains(query, "$") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query))
	inString := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		if c == '\'' {
			inString = !inString
		}
		if c == '$' && !inString && i+1 < len(query) && query[i+1] >= '0' && query[i+1] <= '9' {
			b.WriteByte('?')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Time converts t to the value bound for a timestamp column.
func (d Dialect) Time(t time.Time) any {
	if d == DialectSQLite {
		return t.UTC().Format(TimeLayout)
	}
	return t.UTC()
}

// timestampType is the column type used for timestamps.
func (d Dialect) timestampType() string {
	if d == DialectSQLite {
		return "TEXT"
	}
	return "TIMESTAMPTZ"
}
