// Package ddl contains MySQL-specific helpers for generating DDL.
package ddl

import (
	"strings"

	gddl "taxipipe/internal/ddl"
	"taxipipe/internal/schema"
)

// MapType maps an inferred column type into a MySQL column type. Timestamps
// keep microseconds.
func MapType(t schema.Type) string {
	switch t {
	case schema.TypeInteger:
		return "BIGINT"
	case schema.TypeReal:
		return "DOUBLE"
	case schema.TypeBoolean:
		return "BOOLEAN"
	case schema.TypeTimestamp:
		return "DATETIME(6)"
	default:
		return "TEXT"
	}
}

// Quote quotes an identifier with backticks, doubling embedded backticks.
func Quote(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// QuoteTable quotes a possibly database-qualified table name.
func QuoteTable(name string) string { return gddl.QuoteFQN(name, Quote) }

// FromSchema converts an inferred table into a MySQL table definition.
func FromSchema(t schema.Table) gddl.TableDef {
	def := gddl.TableDef{FQN: t.Name, Columns: make([]gddl.ColumnDef, len(t.Columns))}
	for i, c := range t.Columns {
		def.Columns[i] = gddl.ColumnDef{Name: c.Name, SQLType: MapType(c.Type), Nullable: true}
	}
	return def
}

// BuildReplaceTableSQL returns DROP TABLE IF EXISTS + CREATE TABLE for t.
func BuildReplaceTableSQL(t schema.Table) ([]string, error) {
	return gddl.BuildReplaceTableSQL(FromSchema(t), Quote)
}
