// Package schema holds the storage-agnostic table model shared by the prober,
// the transformer and the backend DDL builders.
package schema

import "fmt"

// Type is the logical column type inferred from a CSV column.
type Type string

const (
	TypeInteger   Type = "integer"
	TypeReal      Type = "real"
	TypeBoolean   Type = "boolean"
	TypeTimestamp Type = "timestamp"
	TypeText      Type = "text"
)

// Column is one destination column. Name is the raw CSV header value.
type Column struct {
	Name string
	Type Type
}

// Table is the ordered column set every batch must conform to.
type Table struct {
	Name    string
	Columns []Column
}

// ColumnNames returns the column names in table order.
func (t Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of the named column or -1.
func (t Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Validate reports structural problems that would produce invalid DDL.
func (t Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("schema: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("schema: table %s has no columns", t.Name)
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for i, c := range t.Columns {
		if c.Name == "" {
			return fmt.Errorf("schema: column %d of %s has an empty name", i, t.Name)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("schema: duplicate column %q in %s", c.Name, t.Name)
		}
		seen[c.Name] = struct{}{}
		switch c.Type {
		case TypeInteger, TypeReal, TypeBoolean, TypeTimestamp, TypeText:
		default:
			return fmt.Errorf("schema: column %q has unknown type %q", c.Name, c.Type)
		}
	}
	return nil
}
