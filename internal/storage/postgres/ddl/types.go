// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import (
	"github.com/lib/pq"

	"taxipipe/internal/schema"
)

// MapType maps an inferred column type onto a Postgres SQL type.
//
//	integer   -> BIGINT
//	real      -> DOUBLE PRECISION
//	boolean   -> BOOLEAN
//	timestamp -> TIMESTAMP
//	text      -> TEXT
func MapType(t schema.Type) string {
	switch t {
	case schema.TypeInteger:
		return "BIGINT"
	case schema.TypeReal:
		return "DOUBLE PRECISION"
	case schema.TypeBoolean:
		return "BOOLEAN"
	case schema.TypeTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// Quote quotes one identifier part with double quotes.
func Quote(ident string) string { return pq.QuoteIdentifier(ident) }
