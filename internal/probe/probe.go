// Package probe reads a CSV source once, end to end, and derives the row
// count and the destination table schema.
//
// The file is streamed in batches so memory stays bounded by one batch no
// matter how large the input is.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"taxipipe/internal/datasource"
	"taxipipe/internal/logging"
	"taxipipe/internal/parser/csv"
	"taxipipe/internal/schema"
	"taxipipe/internal/transformer"
)

// Suffixes used to find the designated timestamp columns when none are
// named explicitly (lpep_pickup_datetime, tpep_dropoff_datetime, ...).
const (
	PickupSuffix  = "pickup_datetime"
	DropoffSuffix = "dropoff_datetime"
)

const defaultChunk = 10000

// Options control one probe run.
type Options struct {
	// Table is the destination table name carried into the schema.
	Table string
	// PickupColumn and DropoffColumn name the timestamp columns. Empty
	// means: the single header column ending in the matching suffix.
	PickupColumn  string
	DropoffColumn string
	// ChunkSize is the read batch size.
	ChunkSize int
}

// ColumnStats summarises one column.
type ColumnStats struct {
	Name     string
	Type     schema.Type
	NonEmpty int64
}

// Result is what a probe learns about the file.
type Result struct {
	Rows    int64
	Schema  schema.Table
	Columns []ColumnStats
	// Timestamps holds the indexes of the designated timestamp columns.
	Timestamps []int
}

// Error reports why the input cannot be loaded.
type Error struct {
	Line int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("probe: ")
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// column tracks which types every non-empty cell seen so far still fits.
type column struct {
	nonEmpty int64
	canInt   bool
	canReal  bool
	canBool  bool
	stamp    bool
}

func (c *column) observe(s string) {
	c.nonEmpty++
	if c.canInt {
		if _, ok := transformer.ParseInt(s); !ok {
			c.canInt = false
		}
	}
	if c.canReal && !c.canInt {
		if _, ok := transformer.ParseReal(s); !ok {
			c.canReal = false
		}
	}
	if c.canBool {
		if _, ok := transformer.ParseBool(s); !ok {
			c.canBool = false
		}
	}
}

func (c *column) typ() schema.Type {
	switch {
	case c.stamp:
		return schema.TypeTimestamp
	case c.nonEmpty == 0:
		return schema.TypeText
	case c.canInt:
		return schema.TypeInteger
	case c.canReal:
		return schema.TypeReal
	case c.canBool:
		return schema.TypeBoolean
	default:
		return schema.TypeText
	}
}

// ProbeFile reads src completely and infers the schema.
//
// Per column, over all non-empty cells: integer if every cell is a 64-bit
// integer, else real if every cell is a float, else boolean if every cell
// is true/false, else text. Columns with no values are text. The two
// designated columns are timestamp and every non-empty value must parse.
func ProbeFile(ctx context.Context, src datasource.Source, opts Options) (Result, error) {
	log := logging.FromContext(ctx)
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaultChunk
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return Result{}, &Error{Msg: "open source", Err: err}
	}
	r, err := csv.NewReader(rc, opts.ChunkSize)
	if err != nil {
		return Result{}, &Error{Msg: "read header", Err: err}
	}
	defer r.Close()

	header := r.Header()
	stamps, err := TimestampColumns(header, opts.PickupColumn, opts.DropoffColumn)
	if err != nil {
		return Result{}, err
	}

	cols := make([]column, len(header))
	for i := range cols {
		cols[i] = column{canInt: true, canReal: true, canBool: true}
	}
	for _, i := range stamps {
		cols[i].stamp = true
	}

	for {
		b, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var me *csv.MalformedError
			if errors.As(err, &me) {
				return Result{}, &Error{Line: me.Line, Msg: "malformed csv", Err: me.Err}
			}
			return Result{}, err
		}
		for ri, row := range b.Rows {
			for i, v := range row.V {
				s, ok := v.(string)
				if !ok {
					continue
				}
				if cols[i].stamp {
					if _, err := transformer.ParseTimestamp(s); err != nil {
						b.Free()
						return Result{}, &Error{
							Line: b.FirstLine + ri,
							Msg:  fmt.Sprintf("column %q", header[i]),
							Err:  err,
						}
					}
					cols[i].nonEmpty++
					continue
				}
				cols[i].observe(s)
			}
		}
		b.Free()
	}

	res := Result{
		Rows:       r.Rows(),
		Schema:     schema.Table{Name: opts.Table, Columns: make([]schema.Column, len(header))},
		Columns:    make([]ColumnStats, len(header)),
		Timestamps: stamps,
	}
	for i, name := range header {
		typ := cols[i].typ()
		res.Schema.Columns[i] = schema.Column{Name: name, Type: typ}
		res.Columns[i] = ColumnStats{Name: name, Type: typ, NonEmpty: cols[i].nonEmpty}
	}
	log.Debugw("probe finished", "rows", res.Rows, "columns", len(header))
	return res, nil
}

// TimestampColumns resolves the pickup and dropoff columns to header
// indexes, in that order.
func TimestampColumns(header []string, pickup, dropoff string) ([]int, error) {
	p, err := resolve(header, pickup, PickupSuffix)
	if err != nil {
		return nil, err
	}
	d, err := resolve(header, dropoff, DropoffSuffix)
	if err != nil {
		return nil, err
	}
	if p == d {
		return nil, &Error{Msg: fmt.Sprintf("pickup and dropoff both resolve to column %q", header[p])}
	}
	return []int{p, d}, nil
}

func resolve(header []string, explicit, suffix string) (int, error) {
	if explicit != "" {
		for i, h := range header {
			if h == explicit {
				return i, nil
			}
		}
		return -1, &Error{Msg: fmt.Sprintf("timestamp column %q not in header", explicit)}
	}
	found := -1
	for i, h := range header {
		if strings.HasSuffix(strings.ToLower(h), suffix) {
			if found >= 0 {
				return -1, &Error{Msg: fmt.Sprintf("several columns end in %q: %q and %q", suffix, header[found], h)}
			}
			found = i
		}
	}
	if found < 0 {
		return -1, &Error{Msg: fmt.Sprintf("no column ending in %q", suffix)}
	}
	return found, nil
}
