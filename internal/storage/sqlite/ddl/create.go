package ddl

import (
	"taxipipe/internal/ddl"
	"taxipipe/internal/schema"
)

// FromSchema converts an inferred table into a SQLite table definition.
func FromSchema(t schema.Table) ddl.TableDef {
	def := ddl.TableDef{FQN: t.Name, Columns: make([]ddl.ColumnDef, len(t.Columns))}
	for i, c := range t.Columns {
		def.Columns[i] = ddl.ColumnDef{Name: c.Name, SQLType: MapType(c.Type), Nullable: true}
	}
	return def
}

// BuildReplaceTableSQL returns DROP TABLE IF EXISTS + CREATE TABLE for t.
// A dotted name is read as schema.table ("main.trips").
func BuildReplaceTableSQL(t schema.Table) ([]string, error) {
	return ddl.BuildReplaceTableSQL(FromSchema(t), Quote)
}

// QuoteTable quotes a possibly schema-qualified table name.
func QuoteTable(name string) string { return ddl.QuoteFQN(name, Quote) }
