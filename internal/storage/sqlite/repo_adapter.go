package sqlite

import (
	"context"

	"taxipipe/internal/storage"
	sqliteddl "taxipipe/internal/storage/sqlite/ddl"
)

// Kind is the storage kind this package registers.
const Kind = "sqlite"

// *Repository closes its own database, so the factory needs no wrapper.
var _ storage.Repository = (*Repository)(nil)

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, _, err := NewRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return r, nil
	})
	storage.RegisterDDL(Kind, sqliteddl.BuildReplaceTableSQL)
}
