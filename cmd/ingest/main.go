// Command ingest downloads a CSV (plain or gzip) and loads it into a
// relational table in batches, replacing the table first.
//
//	ingest --user=root --password=root --host=localhost --port=5432 \
//	  --db=ny_taxi --table_name=green_taxi_trips \
//	  --url=https://github.com/DataTalksClub/nyc-tlc-data/releases/download/green/green_tripdata_2019-01.csv.gz
//
// Ambient settings come from INGEST_* environment variables (INGEST_DB_KIND,
// INGEST_CHUNK_SIZE, INGEST_DOWNLOAD_DIR, INGEST_FOLDER_POLICY, ...).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taxipipe/internal/config"
	"taxipipe/internal/etl"
	"taxipipe/internal/logging"
	"taxipipe/internal/metrics"
	"taxipipe/internal/metrics/setup"
	_ "taxipipe/internal/storage/all"
)

// run is swapped in tests.
var run = etl.Run

func newCommand() *cobra.Command {
	var cfg config.Ingest

	cmd := &cobra.Command{
		Use:           "ingest",
		Short:         "Ingest CSV data into a database table",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := logging.FromContext(ctx)

			cfg = config.ApplyIngestEnv(config.NewEnv("INGEST"), cfg).WithDefaults()
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

			log.Infow("starting ingest", "target", cfg.Redacted(), "table", cfg.TableName, "url", cfg.URL)
			_, err := run(ctx, cfg)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.User, "user", "", "user name for the database")
	f.StringVar(&cfg.Password, "password", "", "password for the database")
	f.StringVar(&cfg.Host, "host", "", "host for the database")
	f.StringVar(&cfg.Port, "port", "", "port for the database")
	f.StringVar(&cfg.DB, "db", "", "database name (file path for sqlite)")
	f.StringVar(&cfg.TableName, "table_name", "", "name of the table to write the results to")
	f.StringVar(&cfg.URL, "url", "", "url of the csv file")
	for _, name := range []string{"user", "password", "host", "port", "db", "table_name", "url"} {
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
		log.Errorw("ingest failed", "err", err)
		stop()
		_ = log.Sync()
		os.Exit(1)
	}
}
