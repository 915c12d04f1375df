// Package storage contains storage-agnostic contracts and utilities.
// This file implements the batch loader that pulls row batches from a
// forward-only source and invokes a provided bulk-insert function (CopyFn)
// once per batch.
//
// Logging: on every successful flush, a concise timing line is emitted at
// debug level with running totals and rows/sec for that batch.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"taxipipe/internal/logging"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations insert
// the provided rows (aligned to 'columns' order) and return the number of
// rows reported as inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// Batch is one unit of work handed to the loader.
type Batch interface {
	// Values returns the rows aligned to the loader's columns.
	Values() [][]any
	// Len is the number of rows in the batch.
	Len() int
	// Free releases pooled rows; the batch must not be used afterwards.
	Free()
}

// BatchSource yields batches in order and returns io.EOF once exhausted.
// It is finite and cannot be restarted.
type BatchSource interface {
	Next(ctx context.Context) (Batch, error)
}

// BatchStat describes one successfully appended batch.
type BatchStat struct {
	Index    int           // 1-based
	Rows     int64         // rows in this batch
	Total    int64         // cumulative rows after this batch
	Took     time.Duration // time spent in copyFn
	Elapsed  time.Duration // since LoadBatches started
	RowsPerS float64
}

// LoadBatches drains src and calls copyFn for each non-empty batch, strictly
// one after the other. onFlush (optional) observes every successful batch.
//
// It returns the total number of rows reported by copyFn. The first source or
// copy error stops the loop; batches appended before it stay committed and
// are included in the returned total.
func LoadBatches(
	ctx context.Context,
	columns []string,
	src BatchSource,
	copyFn CopyFn,
	onFlush func(BatchStat),
) (int64, error) {
	if src == nil {
		return 0, fmt.Errorf("src must not be nil")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	logger := logging.FromContext(ctx)
	var (
		total   int64
		batches int
		start   = time.Now()
	)

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		b, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			logger.Debugf("loader: source exhausted, batches=%d total_inserted=%d", batches, total)
			return total, nil
		}
		if err != nil {
			return total, fmt.Errorf("read batch %d: %w", batches+1, err)
		}
		if b.Len() == 0 {
			b.Free()
			continue
		}

		t0 := time.Now()
		n, err := copyFn(ctx, columns, b.Values())
		took := time.Since(t0)
		b.Free()
		total += n
		if err != nil {
			logger.Errorf("loader: COPY failed batch=%d inserted=%d total=%d err=%v", batches+1, n, total, err)
			return total, fmt.Errorf("batch %d: %w", batches+1, err)
		}

		batches++
		rps := float64(0)
		if took > 0 {
			rps = float64(n) / took.Seconds()
		}
		stat := BatchStat{
			Index:    batches,
			Rows:     n,
			Total:    total,
			Took:     took,
			Elapsed:  time.Since(start),
			RowsPerS: rps,
		}
		logger.Debugf(
			"batch=%d rps=%.0f inserted=%d total_inserted=%d took=%s elapsed=%s",
			stat.Index,
			stat.RowsPerS,
			stat.Rows,
			stat.Total,
			stat.Took.Truncate(time.Millisecond),
			stat.Elapsed.Truncate(time.Millisecond),
		)
		if onFlush != nil {
			onFlush(stat)
		}
	}
}

// ExpectedBatches returns ceil(rows/chunkSize), the batch count a file of
// rows data rows produces.
func ExpectedBatches(rows int64, chunkSize int) int64 {
	if rows <= 0 || chunkSize <= 0 {
		return 0
	}
	cs := int64(chunkSize)
	return (rows + cs - 1) / cs
}
