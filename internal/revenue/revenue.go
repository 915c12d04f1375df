// Package revenue aggregates green and yellow taxi trips stored as Parquet
// into monthly revenue per pickup zone and service, written back as a single
// Parquet file.
//
// The two datasets are normalised to a common column set, tagged with their
// service type and loaded into a scratch SQLite database where the grouping
// runs as plain SQL.
package revenue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"taxipipe/internal/config"
	"taxipipe/internal/logging"
	"taxipipe/internal/metrics"
	"taxipipe/internal/storage"
	sqlstore "taxipipe/internal/storage/sqlite"
)

// Result summarises a run.
type Result struct {
	RunID      string
	GreenRows  int64
	YellowRows int64
	OutputRows int
	OutputFile string
	Elapsed    time.Duration
}

// scratchDir is where the temporary SQLite file lives; empty means
// os.TempDir.
var scratchDir = ""

// Run executes one aggregation described by cfg.
func Run(ctx context.Context, cfg config.Revenue) (Result, error) {
	start := time.Now()
	cfg = cfg.WithDefaults()
	res := Result{RunID: uuid.NewString()}

	log := logging.FromContext(ctx).With("run_id", res.RunID, "job", cfg.Job)
	ctx = logging.WithLogger(ctx, log)

	if err := config.Err(config.ValidateRevenue(cfg)); err != nil {
		return res, fmt.Errorf("invalid configuration: %w", err)
	}

	scratch, err := os.MkdirTemp(scratchDir, "revenue-*")
	if err != nil {
		return res, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	db, err := sqlstore.Open(filepath.Join(scratch, "trips.db"))
	if err != nil {
		return res, err
	}
	repo := sqlstore.New(db, sqlstore.Config{Table: tripsData.Name})
	defer repo.Close()

	if err := storage.ReplaceTable(ctx, sqlstore.Kind, repo, tripsData); err != nil {
		return res, fmt.Errorf("create %s: %w", tripsData.Name, err)
	}

	columns := tripsData.ColumnNames()
	emit := func(ctx context.Context, rows [][]any) error {
		if _, err := repo.CopyFrom(ctx, columns, rows); err != nil {
			return fmt.Errorf("stage trips: %w", err)
		}
		return nil
	}

	err = metrics.Time(cfg.Job, metrics.StepRead, func() error {
		var err error
		if res.GreenRows, err = readDataset[GreenTrip](ctx, cfg.InputGreen, ServiceGreen, emit); err != nil {
			return fmt.Errorf("green dataset: %w", err)
		}
		if res.YellowRows, err = readDataset[YellowTrip](ctx, cfg.InputYellow, ServiceYellow, emit); err != nil {
			return fmt.Errorf("yellow dataset: %w", err)
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	log.Infow("trips staged",
		"green", humanize.Comma(res.GreenRows),
		"yellow", humanize.Comma(res.YellowRows))

	var out []MonthlyRevenue
	err = metrics.Time(cfg.Job, metrics.StepAggregate, func() error {
		var err error
		out, err = aggregate(ctx, repo.DB())
		return err
	})
	if err != nil {
		return res, err
	}
	res.OutputRows = len(out)
	metrics.RecordRow(cfg.Job, "revenue_rows", int64(len(out)))

	err = metrics.Time(cfg.Job, metrics.StepWrite, func() error {
		var err error
		res.OutputFile, err = writeOutput(cfg.Output, out)
		return err
	})
	if err != nil {
		return res, err
	}

	res.Elapsed = time.Since(start)
	log.Infow("revenue written",
		"file", res.OutputFile,
		"rows", humanize.Comma(int64(res.OutputRows)),
		"elapsed", res.Elapsed.Round(time.Millisecond).String())
	return res, nil
}
