// Package metrics records operational metrics of the taxipipe jobs through a
// process-wide Backend.
//
// The default backend is a no-op, so instrumented code never checks whether
// metrics are enabled. Concrete systems (Pushgateway, DogStatsD) live in
// subpackages and are installed once by the binary via SetBackend.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metric names shared by every backend.
const (
	StepTotal    = "taxipipe_step_total"
	StepDuration = "taxipipe_step_duration_seconds"
	RowsTotal    = "taxipipe_rows_total"
	BatchesTotal = "taxipipe_batches_total"
)

// Step names. ingest runs fetch, probe, init_table and load; revenue runs
// read, aggregate and write; streaks records every checkpoint.
const (
	StepFetch     = "fetch"
	StepProbe     = "probe"
	StepInitTable = "init_table"
	StepLoad      = "load"

	StepRead      = "read"
	StepAggregate = "aggregate"
	StepWrite     = "write"

	StepCheckpoint = "checkpoint"
)

// Step outcome label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend receives every metric update. Implementations must be safe for
// concurrent use; streaks records from several goroutines.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered metrics, if the backend buffers at all.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

type holder struct{ Backend }

var current atomic.Pointer[holder]

func init() {
	current.Store(&holder{nopBackend{}})
}

func active() Backend { return current.Load().Backend }

// SetBackend installs b as the process-wide backend. nil is ignored.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	current.Store(&holder{b})
}

// Flush delegates to the current backend.
func Flush() error {
	return active().Flush()
}

// RecordStep counts one execution of step and observes its duration,
// labelled success or failure by err.
func RecordStep(job, step string, err error, d time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	lbls := Labels{"job": job, "step": step, "status": status}

	b := active()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow adds delta to the row counter of job and kind. Kinds in use:
// "probed" and "inserted" (ingest), "events", "late", "invalid" and
// "sessions" (streaks), "revenue_rows" (revenue).
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	active().IncCounter(RowsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches counts appended batches of job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	active().IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}

// Time runs fn and records it as step of job.
func Time(job, step string, fn func() error) error {
	start := time.Now()
	err := fn()
	RecordStep(job, step, err, time.Since(start))
	return err
}
