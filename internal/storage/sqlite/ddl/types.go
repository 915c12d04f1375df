// Package ddl contains SQLite-specific helpers for generating DDL.
//
// SQLite supports dynamic typing, so the mapping picks the canonical type
// affinities:
//   - integer   -> INTEGER
//   - boolean   -> INTEGER (0/1)
//   - real      -> REAL
//   - timestamp -> TIMESTAMP (NUMERIC affinity; the driver stores text)
//   - text      -> TEXT
package ddl

import (
	"strings"

	"taxipipe/internal/schema"
)

// MapType maps an inferred column type into a SQLite column type.
func MapType(t schema.Type) string {
	switch t {
	case schema.TypeInteger, schema.TypeBoolean:
		return "INTEGER"
	case schema.TypeReal:
		return "REAL"
	case schema.TypeTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// Quote quotes an identifier with double quotes, doubling embedded quotes.
func Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
