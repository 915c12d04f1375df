// Package prompush pushes taxipipe metrics to a Prometheus Pushgateway.
//
// ingest and revenue exit when done, so nothing would be around to scrape
// them; the registry is pushed once at the end of a run under the binary's
// job name. streaks pushes on shutdown.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"taxipipe/internal/metrics"
)

// stepBuckets span 10ms to roughly 11 minutes.
var stepBuckets = prometheus.ExponentialBuckets(0.01, 4, 9)

// Backend is a metrics.Backend backed by a private Prometheus registry.
type Backend struct {
	gatewayURL string
	job        string
	reg        *prometheus.Registry

	steps    *prometheus.CounterVec
	stepTime *prometheus.HistogramVec
	rows     *prometheus.CounterVec
	batches  prometheus.Counter
}

// NewBackend returns a Backend pushing to gatewayURL (for example
// http://pushgateway:9091) under job, which defaults to "taxipipe".
func NewBackend(job, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if job == "" {
		job = "taxipipe"
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		job:        job,
		reg:        prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Pipeline step executions by step and status.",
		}, []string{"step", "status"}),
		stepTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metrics.StepDuration,
			Help:    "Pipeline step duration in seconds.",
			Buckets: stepBuckets,
		}, []string{"step", "status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RowsTotal,
			Help: "Rows and records by kind (probed, inserted, events, late, sessions, revenue_rows).",
		}, []string{"kind"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Batches appended to the destination table.",
		}),
	}
	for _, c := range []prometheus.Collector{b.steps, b.stepTime, b.rows, b.batches} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register collector: %w", err)
		}
	}
	return b, nil
}

// IncCounter implements metrics.Backend. Unknown names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		b.steps.WithLabelValues(labels["step"], labels["status"]).Add(delta)
	case metrics.RowsTotal:
		b.rows.WithLabelValues(labels["kind"]).Add(delta)
	case metrics.BatchesTotal:
		b.batches.Add(delta)
	}
}

// ObserveHistogram implements metrics.Backend.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name == metrics.StepDuration {
		b.stepTime.WithLabelValues(labels["step"], labels["status"]).Observe(value)
	}
}

// Flush replaces the job's group on the Pushgateway with the registry.
func (b *Backend) Flush() error {
	if err := push.New(b.gatewayURL, b.job).Gatherer(b.reg).Push(); err != nil {
		return fmt.Errorf("prompush: push to %s: %w", b.gatewayURL, err)
	}
	return nil
}
