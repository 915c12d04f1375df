// Package etl runs one CSV-to-table ingestion: fetch, probe, replace the
// table, then append the file in batches while reporting progress.
//
// Stages run strictly in that order on the calling goroutine. The database
// is connected twice, once for the table initializer and once for the
// loader, and each connection is closed before Run returns.
package etl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"taxipipe/internal/config"
	"taxipipe/internal/datasource/fetch"
	"taxipipe/internal/logging"
	"taxipipe/internal/metrics"
	"taxipipe/internal/parser/csv"
	"taxipipe/internal/probe"
	"taxipipe/internal/progress"
	"taxipipe/internal/storage"
	"taxipipe/internal/transformer"
)

// Result summarises a run.
type Result struct {
	RunID string
	// Skipped is set when the legacy folder policy ended the run early.
	Skipped  bool
	Source   fetch.SourceFile
	Rows     int64
	Inserted int64
	Batches  int64
	Elapsed  time.Duration
	Summary  string
}

// Seams for tests.
var (
	fetchFile = func(ctx context.Context, cfg config.Ingest) (fetch.SourceFile, error) {
		return fetch.New(cfg.DownloadDir, cfg.InsecureTLS).Fetch(ctx, cfg.URL)
	}
	probeFile = probe.ProbeFile
	openRepo  = storage.New
	pingRepo  = storage.Probe
)

// Run executes one ingestion described by cfg.
func Run(ctx context.Context, cfg config.Ingest) (Result, error) {
	cfg = cfg.WithDefaults()
	res := Result{RunID: uuid.NewString()}

	log := logging.FromContext(ctx).With("run_id", res.RunID, "job", cfg.Job, "table", cfg.TableName)
	ctx = logging.WithLogger(ctx, log)

	issues := config.ValidateIngest(cfg)
	for _, is := range issues {
		if is.Severity == config.SeverityWarning {
			log.Warnw("config", "path", is.Path, "msg", is.Message)
		}
	}
	if err := config.Err(issues); err != nil {
		return res, fmt.Errorf("invalid configuration: %w", err)
	}

	proceed, err := prepareFolder(cfg)
	if err != nil {
		return res, &TransferError{URL: cfg.URL, Err: err}
	}
	if !proceed {
		log.Warnw("download folder did not exist; created it and stopped without ingesting",
			"dir", cfg.DownloadDir, "folder_policy", cfg.FolderPolicy)
		res.Skipped = true
		return res, nil
	}

	// Fetch.
	err = metrics.Time(cfg.Job, metrics.StepFetch, func() error {
		var err error
		res.Source, err = fetchFile(ctx, cfg)
		return err
	})
	if err != nil {
		return res, &TransferError{URL: cfg.URL, Err: err}
	}
	src := res.Source.Source()

	// Probe.
	var pr probe.Result
	err = metrics.Time(cfg.Job, metrics.StepProbe, func() error {
		var err error
		pr, err = probeFile(ctx, src, probe.Options{
			Table:         cfg.TableName,
			PickupColumn:  cfg.PickupColumn,
			DropoffColumn: cfg.DropoffColumn,
			ChunkSize:     cfg.ChunkSize,
		})
		return err
	})
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, &MalformedInputError{Path: res.Source.Path, Err: err}
	}
	res.Rows = pr.Rows
	metrics.RecordRow(cfg.Job, "probed", pr.Rows)
	log.Infow("probed source file", "rows", pr.Rows, "columns", len(pr.Schema.Columns))

	dsn, err := cfg.DSN()
	if err != nil {
		return res, &ConnectionError{Target: cfg.Redacted(), Err: err}
	}
	scfg := storage.Config{Kind: cfg.Kind, DSN: dsn, Table: cfg.TableName}

	// Pre-flight connectivity check; only logged.
	if err := pingRepo(ctx, scfg); err != nil {
		log.Errorf("Connection Failed - %v", err)
	} else {
		log.Info("Connected")
	}

	// Table initializer.
	err = metrics.Time(cfg.Job, metrics.StepInitTable, func() error {
		return initTable(ctx, cfg, scfg, pr)
	})
	if err != nil {
		return res, err
	}

	// Chunked load.
	err = metrics.Time(cfg.Job, metrics.StepLoad, func() error {
		return load(ctx, cfg, scfg, res.Source, pr, &res)
	})
	if err != nil {
		return res, err
	}
	return res, nil
}

// prepareFolder applies the folder policy and reports whether to go on.
func prepareFolder(cfg config.Ingest) (bool, error) {
	info, err := os.Stat(cfg.DownloadDir)
	switch {
	case err == nil && !info.IsDir():
		return false, fmt.Errorf("download path %s is not a directory", cfg.DownloadDir)
	case err == nil:
		return true, nil
	case !errors.Is(err, os.ErrNotExist):
		return false, err
	}
	if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
		return false, fmt.Errorf("create download folder: %w", err)
	}
	return cfg.FolderPolicy != config.FolderPolicyLegacy, nil
}

func initTable(ctx context.Context, cfg config.Ingest, scfg storage.Config, pr probe.Result) error {
	repo, err := openRepo(ctx, scfg)
	if err != nil {
		return &ConnectionError{Target: cfg.Redacted(), Err: err}
	}
	defer repo.Close()

	if err := storage.ReplaceTable(ctx, scfg.Kind, repo, pr.Schema); err != nil {
		return &WriteError{Table: cfg.TableName, Err: err}
	}
	logging.FromContext(ctx).Infow("table replaced", "columns", len(pr.Schema.Columns))
	return nil
}

func load(ctx context.Context, cfg config.Ingest, scfg storage.Config, sf fetch.SourceFile, pr probe.Result, res *Result) error {
	log := logging.FromContext(ctx)

	plan, err := transformer.Compile(pr.Schema)
	if err != nil {
		return &MalformedInputError{Path: sf.Path, Err: err}
	}

	repo, err := openRepo(ctx, scfg)
	if err != nil {
		return &ConnectionError{Target: cfg.Redacted(), Err: err}
	}
	closed := false
	closeRepo := func() {
		if !closed {
			closed = true
			repo.Close()
			log.Info("Connection closed")
		}
	}
	defer closeRepo()

	rc, err := sf.Source().Open(ctx)
	if err != nil {
		return &MalformedInputError{Path: sf.Path, Err: err}
	}
	r, err := csv.NewReader(rc, cfg.ChunkSize)
	if err != nil {
		return &MalformedInputError{Path: sf.Path, Err: err}
	}
	defer r.Close()

	expected := storage.ExpectedBatches(pr.Rows, cfg.ChunkSize)
	rep := progress.New(log, cfg.Job, expected)

	inserted, err := storage.LoadBatches(ctx, pr.Schema.ColumnNames(), &coercingSource{r: r, plan: plan}, repo.CopyFrom,
		func(s storage.BatchStat) {
			res.Batches = int64(s.Index)
			rep.Batch(s)
		})
	res.Inserted = inserted
	res.Elapsed = rep.Elapsed()
	if err != nil {
		var me *csv.MalformedError
		var ce *transformer.CellError
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.As(err, &me), errors.As(err, &ce):
			return &MalformedInputError{Path: sf.Path, Err: err}
		default:
			return &WriteError{Table: cfg.TableName, Inserted: inserted, Err: err}
		}
	}
	// The connection is released before the completion line is logged.
	closeRepo()
	res.Summary = rep.Done()
	return nil
}

// coercingSource converts each batch to driver types on its way to the
// loader.
type coercingSource struct {
	r    *csv.Reader
	plan *transformer.Plan
}

func (s *coercingSource) Next(ctx context.Context) (storage.Batch, error) {
	b, err := s.r.Next(ctx)
	if err != nil {
		return nil, err
	}
	for i, row := range b.Rows {
		if err := s.plan.Apply(row, b.FirstLine+i); err != nil {
			b.Free()
			return nil, err
		}
	}
	return b, nil
}
