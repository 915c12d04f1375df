package storage

import (
	"context"
	"fmt"
	"sync"

	"taxipipe/internal/schema"
)

// DDLBuilder renders the ordered statements that replace a destination table
// with an empty one shaped like t (typically DROP TABLE IF EXISTS + CREATE).
//
// Backends register their implementation for a storage kind at init time.
type DDLBuilder func(t schema.Table) ([]string, error)

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBuilder{}
)

// RegisterDDL registers (or replaces) a DDLBuilder for the given storage kind.
func RegisterDDL(kind string, fn DDLBuilder) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// ReplaceTableSQL returns the statements the kind's builder renders for t.
func ReplaceTableSQL(kind string, t schema.Table) ([]string, error) {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no DDL builder registered for storage kind %q", kind)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return fn(t)
}

// ReplaceTable drops any existing table named t.Name and creates it from the
// schema through repo.Exec. No rows are written.
func ReplaceTable(ctx context.Context, kind string, repo Repository, t schema.Table) error {
	stmts, err := ReplaceTableSQL(kind, t)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if err := repo.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply DDL: %w", err)
		}
	}
	return nil
}
