// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render the DROP/CREATE pair that replaces a destination table.
//
// The package does not know any dialect. Backends (internal/storage/*/ddl)
// map logical types to SQL types and pass their identifier quoting function.
package ddl

import (
	"fmt"
	"strings"
)

// QuoteFQN quotes every dotted part of name with q.
func QuoteFQN(name string, q QuoteFunc) string {
	if q == nil {
		return name
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = q(p)
	}
	return strings.Join(parts, ".")
}

// BuildCreateTableSQL renders a CREATE TABLE statement from a TableDef.
//
// Rules:
//
//   - t.FQN must be non-empty.
//   - Each column must have a non-empty Name and SQLType.
//   - A column is rendered as <Name> <SQLType> [NOT NULL].
//
// The resulting statement has the form:
//
//	CREATE TABLE <FQN> (
//	  <col1-def>,
//	  <col2-def>
//	);
func BuildCreateTableSQL(t TableDef, q QuoteFunc) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", c.Name)
		}

		var sb strings.Builder
		if q != nil {
			sb.WriteString(q(c.Name))
		} else {
			sb.WriteString(c.Name)
		}
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		cols = append(cols, sb.String())
	}

	return fmt.Sprintf(
		"CREATE TABLE %s (\n  %s\n);",
		QuoteFQN(fqn, q),
		strings.Join(cols, ",\n  "),
	), nil
}

// BuildDropTableSQL renders DROP TABLE IF EXISTS for the given name.
func BuildDropTableSQL(fqn string, q QuoteFunc) (string, error) {
	fqn = strings.TrimSpace(fqn)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	return "DROP TABLE IF EXISTS " + QuoteFQN(fqn, q) + ";", nil
}

// BuildReplaceTableSQL returns the DROP and CREATE statements, in order, that
// replace any existing table named t.FQN with an empty one.
func BuildReplaceTableSQL(t TableDef, q QuoteFunc) ([]string, error) {
	drop, err := BuildDropTableSQL(t.FQN, q)
	if err != nil {
		return nil, err
	}
	create, err := BuildCreateTableSQL(t, q)
	if err != nil {
		return nil, err
	}
	return []string{drop, create}, nil
}
