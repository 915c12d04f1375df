// Package datasource defines the byte-source contract shared by the local
// file reader and the fetcher.
package datasource

import (
	"context"
	"io"
)

// Source opens a fresh reader over the same bytes on every call.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
