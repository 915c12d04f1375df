// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories and DDL builders with the storage
// package.
//
// Importing this package makes the following storage kinds available:
//
//   - "postgres" (taxipipe/internal/storage/postgres)
//   - "mysql"    (taxipipe/internal/storage/mysql)
//   - "mssql"    (taxipipe/internal/storage/mssql)
//   - "sqlite"   (taxipipe/internal/storage/sqlite)
//
// Typical usage (in a cmd/ main package):
//
//	import _ "taxipipe/internal/storage/all"
//
//	repo, err := storage.New(ctx, storage.Config{Kind: "postgres", DSN: dsn, Table: table})
//	if err != nil { ... }
//	defer repo.Close()
//	if err := storage.ReplaceTable(ctx, "postgres", repo, tbl); err != nil { ... }
package all

import (
	_ "taxipipe/internal/storage/mssql"
	_ "taxipipe/internal/storage/mysql"
	_ "taxipipe/internal/storage/postgres"
	_ "taxipipe/internal/storage/sqlite"
)
