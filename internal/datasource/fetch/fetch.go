// Package fetch retrieves the source CSV into the local download folder.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/xxh3"

	"taxipipe/internal/datasource/file"
	"taxipipe/internal/datasource/httpds"
	"taxipipe/internal/logging"
)

const (
	plainName      = "output.csv"
	compressedName = "output.csv.gz"
)

// SourceFile is the fetched file on local disk.
type SourceFile struct {
	Path       string
	Compressed bool
	Size       int64
	// Digest is the xxh3 hash of the bytes as stored on disk.
	Digest uint64
}

// Source returns a reader factory over the file.
func (s SourceFile) Source() *file.Local { return file.NewLocal(s.Path) }

// LocalName picks the on-disk name from the URL: output.csv.gz for a
// .csv.gz path, output.csv otherwise. Query strings are ignored.
func LocalName(rawURL string) (name string, compressed bool) {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	if strings.HasSuffix(strings.ToLower(p), ".csv.gz") {
		return compressedName, true
	}
	return plainName, false
}

// Fetcher downloads into Dir. http(s) URLs go through Client; file:// URLs
// are copied from disk.
type Fetcher struct {
	Dir    string
	Client *httpds.Client
}

// New returns a Fetcher with a single-attempt HTTP client.
func New(dir string, insecureTLS bool) *Fetcher {
	return &Fetcher{
		Dir:    dir,
		Client: httpds.NewClient(httpds.Config{InsecureSkipVerify: insecureTLS}),
	}
}

// Fetch retrieves rawURL into the download folder, replacing any previous
// file of the same name. The write goes to a temporary file first so a
// failed transfer never leaves a truncated output.csv behind.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (SourceFile, error) {
	log := logging.FromContext(ctx)

	u, err := url.Parse(rawURL)
	if err != nil {
		return SourceFile{}, fmt.Errorf("parse url: %w", err)
	}
	name, compressed := LocalName(rawURL)
	dst := filepath.Join(f.Dir, name)

	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return SourceFile{}, fmt.Errorf("create %s: %w", f.Dir, err)
	}
	tmp, err := os.CreateTemp(f.Dir, "."+name+".*")
	if err != nil {
		return SourceFile{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	h := xxh3.New()
	w := io.MultiWriter(tmp, h)

	var n int64
	switch u.Scheme {
	case "http", "https":
		n, err = f.Client.Download(ctx, rawURL, w)
	case "file":
		n, err = copyLocal(ctx, u, w)
	default:
		err = fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return SourceFile{}, err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return SourceFile{}, fmt.Errorf("rename to %s: %w", dst, err)
	}

	sf := SourceFile{Path: dst, Compressed: compressed, Size: n, Digest: h.Sum64()}
	log.Infow("fetched source file",
		"url", rawURL, "path", dst, "size", humanize.Bytes(uint64(n)), "xxh3", fmt.Sprintf("%016x", sf.Digest))
	return sf, nil
}

func copyLocal(ctx context.Context, u *url.URL, w io.Writer) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p := u.Path
	if u.Host != "" && u.Host != "localhost" {
		p = "//" + u.Host + p
	}
	src, err := os.Open(filepath.FromSlash(p))
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", p, err)
	}
	defer src.Close()
	return io.Copy(w, src)
}
