package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-spacecombat/pkg/config"
	"github.com/opd-ai/go-spacecombat/pkg/input"
	"github.com/opd-ai/go-spacecombat/pkg/logging"
	"github.com/opd-ai/go-spacecombat/pkg/snapshot"
)

func readSnapshot(t *testing.T, path string) snapshot.Snapshot {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var s snapshot.Snapshot
	require.NoError(t, json.Unmarshal(data, &s))
	return s
}

func TestRun_RecordThenReplay(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "run.trace")
	firstDump := filepath.Join(dir, "first.json")
	secondDump := filepath.Join(dir, "second.json")
	configPath := filepath.Join(dir, "spacesim.yaml")
	logger := logging.NewNopLogger()

	require.NoError(t, os.WriteFile(configPath, []byte("spawn:\n  enemies: 0\n  asteroids: 2\n"), 0o644))
	t.Setenv("SPACECOMBAT_ENEMY_DIFFICULTY", "1.5")

	err := run(context.Background(), []string{
		"--seed=11", "--test-mode", "--ticks=300", "--config=" + configPath,
		"--record=" + tracePath, "--dump=" + firstDump,
	}, logger)
	require.NoError(t, err)

	f, err := os.Open(tracePath)
	require.NoError(t, err)
	trace, err := input.DecodeTrace(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, uint64(11), trace.Seed)
	assert.True(t, trace.TestMode)
	assert.LessOrEqual(t, trace.Len(), 300)
	require.NotNil(t, trace.Config)
	assert.Equal(t, 2, trace.Config.Spawn.Asteroids)
	assert.Equal(t, 1.5, trace.Config.Enemy.Difficulty)

	// replay without the file or env override that shaped the recording
	t.Setenv("SPACECOMBAT_ENEMY_DIFFICULTY", "")
	err = run(context.Background(), []string{"--replay=" + tracePath, "--dump=" + secondDump}, logger)
	require.NoError(t, err)

	first := readSnapshot(t, firstDump)
	assert.Len(t, first.Asteroids, 2)
	assert.Empty(t, first.Enemies)
	assert.Equal(t, first, readSnapshot(t, secondDump))
	assert.Equal(t, uint64(trace.Len()), first.Frame)
}

func TestRun_BinaryDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "final.msgpack")
	require.NoError(t, run(context.Background(), []string{"--test-mode", "--ticks=10", "--dump=" + path}, logging.NewNopLogger()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var s snapshot.Snapshot
	require.NoError(t, s.UnmarshalBinary(data))
	assert.Equal(t, uint64(10), s.Frame)
	assert.Equal(t, config.TestModeConfig().World.Width, s.World.Width)
}

func TestRun_WriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, run(context.Background(), []string{"--seed=5", "--write-config=" + path}, logging.NewNopLogger()))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), cfg.Seed)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "final.json")

	require.NoError(t, run(ctx, []string{"--ticks=100", "--dump=" + path}, logging.NewNopLogger()))
	assert.Zero(t, readSnapshot(t, path).Frame)
}

func TestRun_Errors(t *testing.T) {
	logger := logging.NewNopLogger()

	assert.ErrorIs(t, run(context.Background(), []string{"--help"}, logger), pflag.ErrHelp)
	assert.Error(t, run(context.Background(), []string{"--ticks=-1"}, logger))
	assert.Error(t, run(context.Background(), []string{"--replay=/nonexistent/run.trace"}, logger))

	t.Setenv("SPACECOMBAT_SHIP_MASS", "0")
	assert.ErrorIs(t, run(context.Background(), nil, logger), config.ErrInvalidConfig)
}

func TestAutopilot_Deterministic(t *testing.T) {
	a, b := autopilot(3), autopilot(3)
	fired := 0
	for i := 0; i < 600; i++ {
		fa := a(i)
		require.Equal(t, fa, b(i))
		assert.False(t, fa.Quit)
		if fa.Fire {
			fired++
		}
	}
	assert.Positive(t, fired)
}
