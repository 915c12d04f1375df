// Package transformer turns raw CSV cells into driver-ready values.
// This file defines the pooled Row shared by the CSV reader, the coercion
// plan and the loader so a 10,000-row batch does not allocate per row.
package transformer

import "sync"

// Row is a pooled positional row.
//
// Contract:
//   - The owner writes into r.V[0:colCount] (no re-slice growth).
//   - Once the row has been appended, the batch owner calls r.Free().
//   - Do not retain references to r or r.V after Free.
type Row struct {
	V []any
}

var rowPool sync.Pool

// GetRow returns a pooled Row of length colCount with every cell nil.
func GetRow(colCount int) *Row {
	if v := rowPool.Get(); v != nil {
		r := v.(*Row)
		if cap(r.V) < colCount {
			r.V = make([]any, colCount)
		}
		r.V = r.V[:colCount]
		clear(r.V)
		return r
	}
	return &Row{V: make([]any, colCount)}
}

// Free returns the Row to the pool.
func (r *Row) Free() {
	clear(r.V)
	rowPool.Put(r)
}
