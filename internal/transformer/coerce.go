package transformer

import (
	"fmt"

	"taxipipe/internal/schema"
)

// Plan converts the text cells of a row to the Go types a driver expects
// for each column of a table. It is compiled once per run.
type Plan struct {
	names []string
	types []schema.Type
}

// Compile builds a Plan for t.
func Compile(t schema.Table) (*Plan, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	p := &Plan{
		names: t.ColumnNames(),
		types: make([]schema.Type, len(t.Columns)),
	}
	for i, c := range t.Columns {
		p.types[i] = c.Type
	}
	return p, nil
}

// Width is the number of columns the plan expects.
func (p *Plan) Width() int { return len(p.types) }

// CellError reports a cell that does not fit its column type.
type CellError struct {
	Line   int
	Column string
	Type   schema.Type
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	msg := fmt.Sprintf("line %d column %q: %q is not a valid %s", e.Line, e.Column, e.Value, e.Type)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CellError) Unwrap() error { return e.Err }

// Apply converts r in place. Cells must be string or nil; nil stays nil.
// line is only used in errors.
func (p *Plan) Apply(r *Row, line int) error {
	if len(r.V) != len(p.types) {
		return fmt.Errorf("line %d: expected %d fields, saw %d", line, len(p.types), len(r.V))
	}
	for i, typ := range p.types {
		s, ok := r.V[i].(string)
		if !ok {
			continue
		}
		switch typ {
		case schema.TypeText:
		case schema.TypeInteger:
			v, ok := ParseInt(s)
			if !ok {
				return &CellError{Line: line, Column: p.names[i], Type: typ, Value: s}
			}
			r.V[i] = v
		case schema.TypeReal:
			v, ok := ParseReal(s)
			if !ok {
				return &CellError{Line: line, Column: p.names[i], Type: typ, Value: s}
			}
			r.V[i] = v
		case schema.TypeBoolean:
			v, ok := ParseBool(s)
			if !ok {
				return &CellError{Line: line, Column: p.names[i], Type: typ, Value: s}
			}
			r.V[i] = v
		case schema.TypeTimestamp:
			v, err := ParseTimestamp(s)
			if err != nil {
				return &CellError{Line: line, Column: p.names[i], Type: typ, Value: s, Err: err}
			}
			r.V[i] = v
		default:
			return fmt.Errorf("column %q: unknown type %q", p.names[i], typ)
		}
	}
	return nil
}
