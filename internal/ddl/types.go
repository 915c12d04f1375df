package ddl

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - SQLType: target SQL type (e.g., TEXT, BIGINT, TIMESTAMP)
//   - Nullable: whether NULL is allowed
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef holds the table name and an ordered list of columns. A dotted
// name ("schema.table") is split and each part is quoted by the renderer.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// QuoteFunc quotes a single identifier part for one SQL dialect.
type QuoteFunc func(ident string) string
