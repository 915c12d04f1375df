// Command revenue computes monthly revenue per pickup zone and service type
// from green and yellow trip Parquet datasets.
//
//	revenue --input_green=data/pq/green/2020/*/ --input_yellow=data/pq/yellow/2020/ \
//	  --output=data/report-2020
//
// Each input is a Parquet file or a directory of part files. The output
// directory is replaced by one part-00000.parquet plus a _SUCCESS marker.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taxipipe/internal/config"
	"taxipipe/internal/logging"
	"taxipipe/internal/metrics"
	"taxipipe/internal/metrics/setup"
	"taxipipe/internal/revenue"
)

// run is swapped in tests.
var run = revenue.Run

func newCommand() *cobra.Command {
	var cfg config.Revenue

	cmd := &cobra.Command{
		Use:           "revenue",
		Short:         "Aggregate monthly taxi revenue from Parquet trips",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := logging.FromContext(ctx)

			cfg = cfg.WithDefaults()
			m := config.MetricsFromEnv(config.NewEnv(""))
			if err := setup.Install(setup.Config{
				Backend: m.Backend, Job: cfg.Job, PushgatewayURL: m.PushgatewayURL, DatadogAddr: m.DatadogAddr,
			}); err != nil {
				return err
			}
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Warnw("metrics flush failed", "err", err)
				}
			}()

			log.Infow("starting revenue", "green", cfg.InputGreen, "yellow", cfg.InputYellow, "output", cfg.Output)
			_, err := run(ctx, cfg)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.InputGreen, "input_green", "", "green trips parquet file or directory")
	f.StringVar(&cfg.InputYellow, "input_yellow", "", "yellow trips parquet file or directory")
	f.StringVar(&cfg.Output, "output", "", "output directory, replaced on every run")
	for _, name := range []string{"input_green", "input_yellow", "output"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func main() {
	log := logging.NewLogger()
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, log)

	if err := newCommand().ExecuteContext(ctx); err != nil {
		log.Errorw("revenue failed", "err", err)
		stop()
		_ = log.Sync()
		os.Exit(1)
	}
}
