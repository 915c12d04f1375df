// Package file implements a local filesystem-backed data source.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Local is a filesystem data source that opens files from the local disk.
// Files ending in .gz are decompressed transparently and a leading byte
// order mark is removed, so callers always read plain UTF-8 text.
type Local struct{ path string }

// NewLocal returns a new Local data source bound to the provided filesystem
// path. Every Open returns an independent reader positioned at the start.
func NewLocal(path string) *Local { return &Local{path: path} }

// Path returns the bound filesystem path.
func (l *Local) Path() string { return l.path }

// Compressed reports whether Open will gunzip the file.
func (l *Local) Compressed() bool { return strings.HasSuffix(strings.ToLower(l.path), ".gz") }

// Open opens the configured path for reading and returns an io.ReadCloser.
//
// Behavior:
//   - If the context is already canceled, Open returns the context error
//     without touching the filesystem.
//   - Filesystem errors are wrapped with the path while still permitting
//     errors.Is checks (e.g., errors.Is(err, os.ErrNotExist)).
//   - A .gz file whose header is not gzip fails here rather than mid-read.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}

	var r io.Reader = f
	closers := []io.Closer{f}
	if l.Compressed() {
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gunzip %s: %w", l.path, err)
		}
		r = zr
		closers = append([]io.Closer{zr}, closers...)
	}

	// BOMOverride strips a UTF-8 BOM (and decodes UTF-16 when one is
	// present); other input passes through the UTF-8 decoder.
	r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	return &readCloser{Reader: r, closers: closers}, nil
}

// readCloser closes every layer, innermost first.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var first error
	for _, c := range rc.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
