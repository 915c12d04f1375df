// Package csv reads a delimited file as a header followed by a lazy,
// forward-only sequence of row batches.
//
// Rows come from the transformer row pool with every cell either a string
// or nil (empty cell). Every data row must have exactly as many fields as
// the header; a ragged row stops the stream with a *MalformedError.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"taxipipe/internal/transformer"
)

// MalformedError locates a structural problem in the input.
type MalformedError struct {
	Line int
	Err  error
}

func (e *MalformedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("csv line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("csv: %v", e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// ErrNoHeader is returned for an input without a single line.
var ErrNoHeader = errors.New("empty input, no header line")

// Batch is up to chunk consecutive data rows.
type Batch struct {
	// Index is 1-based.
	Index int
	// FirstLine is the file line of Rows[0] (the header is line 1).
	FirstLine int
	Rows      []*transformer.Row

	values [][]any
}

// Len returns the number of rows.
func (b *Batch) Len() int { return len(b.Rows) }

// Values exposes the rows as the [][]any the storage drivers take.
func (b *Batch) Values() [][]any {
	if len(b.values) != len(b.Rows) {
		b.values = make([][]any, len(b.Rows))
		for i, r := range b.Rows {
			b.values[i] = r.V
		}
	}
	return b.values
}

// Free returns every row to the pool.
func (b *Batch) Free() {
	for _, r := range b.Rows {
		r.Free()
	}
	b.Rows = nil
	b.values = nil
}

// Reader yields batches of at most chunk rows. It is not safe for
// concurrent use and cannot be rewound.
type Reader struct {
	src    io.ReadCloser
	cr     *csv.Reader
	header []string
	chunk  int
	line   int // line of the last record read
	index  int
	rows   int64
	done   bool
}

// NewReader reads the header from src. The Reader owns src and closes it
// in Close.
func NewReader(src io.ReadCloser, chunk int) (*Reader, error) {
	if chunk <= 0 {
		return nil, fmt.Errorf("csv: chunk size must be positive, got %d", chunk)
	}
	cr := csv.NewReader(src)
	// 0 pins every record to the header's width.
	cr.FieldsPerRecord = 0
	cr.ReuseRecord = true

	r := &Reader{src: src, cr: cr, chunk: chunk}
	hdr, err := cr.Read()
	if errors.Is(err, io.EOF) {
		src.Close()
		return nil, &MalformedError{Err: ErrNoHeader}
	}
	if err != nil {
		src.Close()
		return nil, &MalformedError{Line: 1, Err: fmt.Errorf("read header: %w", err)}
	}
	r.line = 1
	r.header = append([]string(nil), hdr...)
	return r, nil
}

// Header returns the column names in file order.
func (r *Reader) Header() []string { return r.header }

// Rows is the number of data rows returned so far.
func (r *Reader) Rows() int64 { return r.rows }

// Next returns the next batch, or io.EOF once the input is exhausted.
// The caller must Free every returned batch.
func (r *Reader) Next(ctx context.Context) (*Batch, error) {
	if r.done {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := &Batch{Index: r.index + 1, Rows: make([]*transformer.Row, 0, r.chunk)}
	width := len(r.header)
	for len(b.Rows) < r.chunk {
		rec, err := r.cr.Read()
		if errors.Is(err, io.EOF) {
			r.done = true
			break
		}
		if err != nil {
			b.Free()
			r.done = true
			line := r.line + 1
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &MalformedError{Line: line, Err: err}
		}
		// Quoted fields may span lines, so ask the reader where the record began.
		r.line, _ = r.cr.FieldPos(0)
		if len(b.Rows) == 0 {
			b.FirstLine = r.line
		}

		row := transformer.GetRow(width)
		for i, cell := range rec {
			if cell != "" {
				row.V[i] = cell
			}
		}
		b.Rows = append(b.Rows, row)
	}

	if len(b.Rows) == 0 {
		return nil, io.EOF
	}
	r.index++
	r.rows += int64(len(b.Rows))
	return b, nil
}

// Close releases the underlying source.
func (r *Reader) Close() error { return r.src.Close() }
