// Package setup installs the metrics backend a binary was configured with.
package setup

import (
	"fmt"
	"strings"

	"taxipipe/internal/metrics"
	"taxipipe/internal/metrics/datadog"
	"taxipipe/internal/metrics/prompush"
)

// Backend names accepted in METRICS_BACKEND.
const (
	None        = "none"
	Pushgateway = "pushgateway"
	Datadog     = "datadog"
)

// Config selects and configures one backend.
type Config struct {
	Backend        string
	Job            string
	PushgatewayURL string
	DatadogAddr    string
}

// Install builds the configured backend and makes it the process-wide one.
// An empty or "none" backend keeps the no-op default.
func Install(cfg Config) error {
	b, err := build(cfg)
	if err != nil {
		return err
	}
	if b != nil {
		metrics.SetBackend(b)
	}
	return nil
}

func build(cfg Config) (metrics.Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", None:
		return nil, nil
	case Pushgateway, "prometheus":
		return prompush.NewBackend(cfg.Job, cfg.PushgatewayURL)
	case Datadog:
		return datadog.NewBackend(datadog.Config{
			Addr:       cfg.DatadogAddr,
			GlobalTags: []string{"job:" + cfg.Job},
		})
	default:
		return nil, fmt.Errorf("metrics: unknown backend %q (want none, pushgateway or datadog)", cfg.Backend)
	}
}
