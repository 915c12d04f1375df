package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxipipe/internal/config"
	"taxipipe/internal/streaks"
)

// Not parallel: swaps run and sets env.
func TestCommand_FlagsEnvAndDefaults(t *testing.T) {
	t.Setenv("STREAKS_TOPIC", "yellow-trips")
	t.Setenv("STREAKS_BROKERS", "a:9092, b:9092")
	t.Setenv("METRICS_BACKEND", "none")

	orig := run
	defer func() { run = orig }()
	var got config.Streaks
	run = func(_ context.Context, cfg config.Streaks) (streaks.Result, error) {
		got = cfg
		return streaks.Result{}, nil
	}

	cmd := newCommand()
	cmd.SetArgs([]string{"--brokers=k:9092", "--gap=2m"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Equal(t, []string{"k:9092"}, got.Brokers, "flag wins over env")
	assert.Equal(t, "yellow-trips", got.Topic)
	assert.Equal(t, 2*time.Minute, got.Gap)
	assert.Equal(t, config.DefaultStreaksTable, got.Table)
	assert.Equal(t, config.DefaultStreaksDSN, got.DSN)
	assert.Equal(t, 10*time.Second, got.CheckpointInterval)
}
