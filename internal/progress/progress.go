// Package progress reports batch progress and final throughput of an
// ingestion run. It only observes; nothing it does changes the load.
package progress

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"taxipipe/internal/metrics"
	"taxipipe/internal/storage"
)

// Reporter accumulates run metrics. The zero value is not usable; call New.
type Reporter struct {
	log     *zap.SugaredLogger
	job     string
	batches int64
	start   time.Time
	now     func() time.Time

	inserted int64
	seen     int64
}

// New starts the run clock. batches is the expected batch count, used only
// for the i/total display.
func New(log *zap.SugaredLogger, job string, batches int64) *Reporter {
	r := &Reporter{log: log, job: job, batches: batches, now: time.Now}
	r.start = r.now()
	return r
}

// Batch records one appended batch.
func (r *Reporter) Batch(s storage.BatchStat) {
	r.seen++
	r.inserted = s.Total
	metrics.RecordBatches(r.job, 1)
	metrics.RecordRow(r.job, "inserted", s.Rows)

	rate := float64(0)
	if el := r.now().Sub(r.start).Seconds(); el > 0 {
		rate = float64(s.Total) / el
	}
	r.log.Infof("batch %d/%d rows=%s inserted=%s rate=%s rows/s",
		s.Index, r.batches,
		humanize.Comma(s.Rows), humanize.Comma(s.Total), humanize.Commaf(float64(int64(rate))))
}

// Inserted is the cumulative row count so far.
func (r *Reporter) Inserted() int64 { return r.inserted }

// Elapsed is the wall-clock time since New.
func (r *Reporter) Elapsed() time.Duration { return r.now().Sub(r.start) }

// Summary is the completion line.
func (r *Reporter) Summary() string {
	return fmt.Sprintf("Job Completed - Inserted %d after %.1f seconds", r.inserted, r.Elapsed().Seconds())
}

// Done logs the completion line and returns it.
func (r *Reporter) Done() string {
	msg := r.Summary()
	r.log.Info(msg)
	return msg
}
