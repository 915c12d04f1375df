// Package sqlite implements a SQLite-backed storage.Repository.
package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:taxi.db?cache=shared"
	//   "taxi.db" (interpreted by the driver)
	DSN string

	// Table is the target table name for inserts, e.g. "yellow_taxi_trips".
	Table string
}
