package streaks

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqlstore "taxipipe/internal/storage/sqlite"
)

type streakRow struct {
	Start, End time.Time
	PU, DO     int64
	Count      int64
}

func readStreaks(t *testing.T, path, table string) []streakRow {
	t.Helper()
	db, err := sqlstore.Open(path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT session_start, session_end, "PULocationID", "DOLocationID", streak_count FROM ` +
		table + ` ORDER BY session_end, "PULocationID", "DOLocationID"`)
	require.NoError(t, err)
	defer rows.Close()

	var out []streakRow
	for rows.Next() {
		var r streakRow
		require.NoError(t, rows.Scan(&r.Start, &r.End, &r.PU, &r.DO, &r.Count))
		r.Start, r.End = r.Start.UTC(), r.End.UTC()
		out = append(out, r)
	}
	require.NoError(t, rows.Err())
	return out
}

// countStreaks returns the row count of table, or -1 while it cannot be read.
func countStreaks(path, table string) int {
	db, err := sqlstore.Open(path)
	if err != nil {
		return -1
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		return -1
	}
	return n
}

func TestSink_ReplacesAndAppends(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "streaks.db")

	db, err := sqlstore.Open(path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE location_streaks (stale INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	sink, err := OpenSink(ctx, sqlstore.Kind, path, "location_streaks")
	require.NoError(t, err)
	defer sink.Close()

	n, err := sink.Write(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	k := Key{PU: 74, DO: 75}
	n, err = sink.Write(ctx, []Session{
		{Key: k, Start: at(0, 0), End: at(9, 0), Count: 2},
		{Key: k, Start: at(20, 0), End: at(25, 0), Count: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.Equal(t, []streakRow{
		{Start: at(0, 0), End: at(9, 0), PU: 74, DO: 75, Count: 2},
		{Start: at(20, 0), End: at(25, 0), PU: 74, DO: 75, Count: 1},
	}, readStreaks(t, path, "location_streaks"))
}

func TestOpenSink_UnknownKind(t *testing.T) {
	t.Parallel()
	_, err := OpenSink(context.Background(), "oracle", "x", "location_streaks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect sink")
}
