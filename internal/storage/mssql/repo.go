// Package mssql is the SQL Server backend. Batches are appended with the
// TDS bulk-copy protocol of go-mssqldb, one bulk operation per CopyFrom
// call, inside a transaction so a failed batch leaves nothing behind.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	msddl "taxipipe/internal/storage/mssql/ddl"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN   string
	Table string
}

// Repository appends trip rows to one SQL Server table.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository parses the DSN, connects and pings. The returned func closes
// the pool.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	p, err := msdsn.Parse(cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mssql: parse dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mssql: open %s: %w", p.Host, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("mssql: ping %s: %w", p.Host, err)
	}
	return &Repository{db: db, cfg: cfg}, func() { _ = db.Close() }, nil
}

// Ping checks connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CopyFrom bulk-inserts rows into the configured table and returns the row
// count the server reports.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (n int64, err error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mssql: begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// The table was recreated for this run and has no other writers.
	opts := mssql.BulkOptions{Tablock: true, RowsPerBatch: len(rows)}
	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(msddl.QuoteTable(r.cfg.Table), opts, columns...))
	if err != nil {
		return 0, fmt.Errorf("mssql: prepare bulk copy into %s: %w", r.cfg.Table, err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("mssql: row %d has %d values for %d columns", i, len(row), len(columns))
		}
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			return 0, fmt.Errorf("mssql: bulk row %d: %w", i, err)
		}
	}
	// An Exec without arguments flushes the bulk operation.
	res, err := stmt.ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("mssql: flush bulk copy: %w", err)
	}
	if n, err = res.RowsAffected(); err != nil {
		return 0, fmt.Errorf("mssql: rows affected: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("mssql: commit: %w", err)
	}
	return n, nil
}

// Exec runs one DDL statement. Blank statements are skipped.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	if strings.TrimSpace(sqlText) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("mssql: exec: %w", err)
	}
	return nil
}
