package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"taxipipe/internal/schema"
)

// fakeRepo is a minimal Repository implementation for tests.
type fakeRepo struct {
	mu      sync.Mutex
	pingErr error
	execErr error
	closed  bool
	execs   []string
}

func (f *fakeRepo) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeRepo) Exec(ctx context.Context, sql string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.execErr != nil {
		return f.execErr
	}
	f.execs = append(f.execs, sql)
	return nil
}

func (f *fakeRepo) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	return int64(len(rows)), nil
}

func (f *fakeRepo) Close() { f.closed = true }

// TestRegisterAndNew_Success verifies that registering a backend enables New()
// to return the corresponding repository.
func TestRegisterAndNew_Success(t *testing.T) {
	t.Parallel()

	kind := "fake-new"
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		return &fakeRepo{}, nil
	})

	repo, err := New(context.Background(), Config{Kind: kind})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if repo == nil {
		t.Fatalf("New returned nil repo")
	}

	found := false
	for _, k := range ListKinds() {
		if k == kind {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("registered kind %q not present in ListKinds: %v", kind, ListKinds())
	}
}

// TestNew_Unsupported verifies that unsupported kinds return a helpful error.
func TestNew_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Kind: "does-not-exist"})
	if err == nil || !strings.Contains(err.Error(), `unsupported kind "does-not-exist"`) {
		t.Fatalf("error = %v, want unsupported kind", err)
	}
}

// TestProbe pings through the factory and always closes the repository.
func TestProbe(t *testing.T) {
	t.Parallel()

	okRepo := &fakeRepo{}
	Register("fake-probe-ok", func(ctx context.Context, cfg Config) (Repository, error) { return okRepo, nil })
	if err := Probe(context.Background(), Config{Kind: "fake-probe-ok"}); err != nil {
		t.Fatalf("Probe error: %v", err)
	}
	if !okRepo.closed {
		t.Fatalf("Probe did not close the repository")
	}

	pingErr := errors.New("connection refused")
	badRepo := &fakeRepo{pingErr: pingErr}
	Register("fake-probe-bad", func(ctx context.Context, cfg Config) (Repository, error) { return badRepo, nil })
	if err := Probe(context.Background(), Config{Kind: "fake-probe-bad"}); !errors.Is(err, pingErr) {
		t.Fatalf("Probe error = %v, want %v", err, pingErr)
	}
	if !badRepo.closed {
		t.Fatalf("Probe did not close the repository after a failed ping")
	}

	openErr := errors.New("dial tcp: refused")
	Register("fake-probe-open", func(ctx context.Context, cfg Config) (Repository, error) { return nil, openErr })
	if err := Probe(context.Background(), Config{Kind: "fake-probe-open"}); !errors.Is(err, openErr) {
		t.Fatalf("Probe error = %v, want %v", err, openErr)
	}
}

func TestReplaceTable(t *testing.T) {
	t.Parallel()

	RegisterDDL("fake-ddl", func(tbl schema.Table) ([]string, error) {
		return []string{"DROP " + tbl.Name, "CREATE " + tbl.Name}, nil
	})
	tbl := schema.Table{Name: "trips", Columns: []schema.Column{{Name: "a", Type: schema.TypeText}}}

	repo := &fakeRepo{}
	if err := ReplaceTable(context.Background(), "fake-ddl", repo, tbl); err != nil {
		t.Fatalf("ReplaceTable error: %v", err)
	}
	if got := strings.Join(repo.execs, "|"); got != "DROP trips|CREATE trips" {
		t.Fatalf("execs = %q, want drop then create", got)
	}

	if err := ReplaceTable(context.Background(), "no-such-kind", repo, tbl); err == nil {
		t.Fatalf("want error for unregistered kind")
	}
	if err := ReplaceTable(context.Background(), "fake-ddl", repo, schema.Table{Name: "empty"}); err == nil {
		t.Fatalf("want error for invalid schema")
	}

	execErr := errors.New("permission denied")
	if err := ReplaceTable(context.Background(), "fake-ddl", &fakeRepo{execErr: execErr}, tbl); !errors.Is(err, execErr) {
		t.Fatalf("error = %v, want %v", err, execErr)
	}
}
