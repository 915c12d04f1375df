// Package ddl provides MSSQL-specific helpers for generating the statements
// that replace a destination table.
//
// The builder uses SQL Server-style identifier quoting ([schema].[table],
// [col]) and DROP TABLE IF EXISTS, available since SQL Server 2016.
package ddl

import (
	gddl "taxipipe/internal/ddl"
	"taxipipe/internal/schema"
)

// FromSchema converts an inferred table into a SQL Server table definition.
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

// QuoteTable quotes a possibly schema-qualified name like "dbo.trips" to
// "[dbo].[trips]".
func QuoteTable(name string) string { return gddl.QuoteFQN(name, Quote) }
