package ddl

import (
	"taxipipe/internal/ddl"
	"taxipipe/internal/schema"
)

// FromSchema converts an inferred table into a Postgres table definition.
// Every column is nullable: empty CSV cells load as NULL.
func FromSchema(t schema.Table) ddl.TableDef {
	def := ddl.TableDef{FQN: t.Name, Columns: make([]ddl.ColumnDef, len(t.Columns))}
	for i, c := range t.Columns {
		def.Columns[i] = ddl.ColumnDef{Name: c.Name, SQLType: MapType(c.Type), Nullable: true}
	}
	return def
}

// BuildReplaceTableSQL returns DROP TABLE IF EXISTS + CREATE TABLE for t.
func BuildReplaceTableSQL(t schema.Table) ([]string, error) {
	return ddl.BuildReplaceTableSQL(FromSchema(t), Quote)
}
