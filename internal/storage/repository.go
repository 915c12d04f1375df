// Package storage contains the storage-agnostic repository contract, the
// backend factory and the batch loader used by the ingestion pipeline.
//
// Backends (postgres, mysql, mssql, sqlite) register themselves from init()
// through Register and RegisterDDL; callers obtain a Repository via New and
// never import a backend package directly.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is the database collaborator of the pipeline.
type Repository interface {
	// Ping checks connectivity.
	Ping(ctx context.Context) error
	// Exec runs a statement that returns no rows (DDL).
	Exec(ctx context.Context, sql string) error
	// CopyFrom appends rows, aligned to columns, to the configured table.
	// Each call is atomic: either every row is committed or none is.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	// Close releases the connection pool.
	Close()
}

// Config is the backend-neutral repository configuration.
type Config struct {
	// Kind selects the backend ("postgres", "mysql", "mssql", "sqlite").
	Kind string
	// DSN is the driver-native connection string.
	DSN string
	// Table is the destination table; dotted names are schema-qualified.
	Table string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	f, ok := factories[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported kind %q (registered: %v)", cfg.Kind, ListKinds())
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered backend kinds in sorted order.
func ListKinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Probe opens a short-lived repository, pings it and closes it again.
func Probe(ctx context.Context, cfg Config) error {
	repo, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()
	return repo.Ping(ctx)
}
