package etl

import (
	// Registers the sqlite backend used by the end-to-end tests.
	_ "taxipipe/internal/storage/sqlite"
)
