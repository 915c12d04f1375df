// Package ddl contains MSSQL-specific helpers for generating DDL.
package ddl

import (
	"strings"

	"taxipipe/internal/schema"
)

// MapType maps an inferred column type into a SQL Server column type.
// Text falls back to NVARCHAR(MAX).
func MapType(t schema.Type) string {
	switch t {
	case schema.TypeInteger:
		return "BIGINT"
	case schema.TypeReal:
		return "FLOAT"
	case schema.TypeBoolean:
		return "BIT"
	case schema.TypeTimestamp:
		return "DATETIME2"
	default:
		return "NVARCHAR(MAX)"
	}
}

// Quote quotes a SQL Server identifier using [brackets], escaping ].
func Quote(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }
