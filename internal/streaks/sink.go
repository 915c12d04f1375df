package streaks

import (
	"context"
	"fmt"

	"taxipipe/internal/schema"
	"taxipipe/internal/storage"
)

// streakTable is the schema of the sink table named name.
func streakTable(name string) schema.Table {
	return schema.Table{
		Name: name,
		Columns: []schema.Column{
			{Name: "session_start", Type: schema.TypeTimestamp},
			{Name: "session_end", Type: schema.TypeTimestamp},
			{Name: "PULocationID", Type: schema.TypeInteger},
			{Name: "DOLocationID", Type: schema.TypeInteger},
			{Name: "streak_count", Type: schema.TypeInteger},
		},
	}
}

// Sink appends closed sessions to the streaks table.
type Sink struct {
	repo    storage.Repository
	columns []string
}

// OpenSink connects to the backend of kind, replaces table and returns a Sink
// writing to it.
func OpenSink(ctx context.Context, kind, dsn, table string) (*Sink, error) {
	repo, err := storage.New(ctx, storage.Config{Kind: kind, DSN: dsn, Table: table})
	if err != nil {
		return nil, fmt.Errorf("connect sink: %w", err)
	}
	t := streakTable(table)
	if err := storage.ReplaceTable(ctx, kind, repo, t); err != nil {
		repo.Close()
		return nil, fmt.Errorf("create %s: %w", table, err)
	}
	return &Sink{repo: repo, columns: t.ColumnNames()}, nil
}

// Write appends sessions in one atomic call and returns the rows written.
func (s *Sink) Write(ctx context.Context, sessions []Session) (int64, error) {
	if len(sessions) == 0 {
		return 0, nil
	}
	rows := make([][]any, len(sessions))
	for i, ss := range sessions {
		rows[i] = []any{ss.Start.UTC(), ss.End.UTC(), ss.Key.PU, ss.Key.DO, ss.Count}
	}
	n, err := s.repo.CopyFrom(ctx, s.columns, rows)
	if err != nil {
		return n, fmt.Errorf("write %d sessions: %w", len(sessions), err)
	}
	return n, nil
}

// Close releases the sink connection.
func (s *Sink) Close() {
	s.repo.Close()
}
