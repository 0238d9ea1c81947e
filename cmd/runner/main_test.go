package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/season-runner/internal/config"
	"github.com/vovakirdan/season-runner/internal/runner"
	"github.com/vovakirdan/season-runner/internal/storage"
)

func setFlag[T any](t *testing.T, flag *T, v T) {
	t.Helper()
	old := *flag
	*flag = v
	t.Cleanup(func() { *flag = old })
}

func writeConfig(t *testing.T, cfg config.Config) string {
	t.Helper()
	data, err := config.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "runner.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestSimulateReturnsConfigError(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seasons.Palettes[1].BGM.Volume = 0.4
	setFlag(t, &flagConfig, writeConfig(t, cfg))
	setFlag(t, &flagDifficulty, "")
	setFlag(t, &flagDBPath, filepath.Join(t.TempDir(), "runs.db"))

	err := runSimulate(nil, nil)
	require.Error(t, err)
	assert.True(t, runner.IsConfigError(err))

	var cerr config.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, config.CodeBGMVolume, cerr.Code)
}

func TestCommandsReturnStorageErrors(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	setFlag(t, &flagDBPath, filepath.Join(blocker, "runs.db"))

	err := runScores(nil, nil)
	require.Error(t, err)
	assert.False(t, runner.IsConfigError(err))

	assert.Error(t, runSettings(settingsCmd, nil))
}

func TestSimulateSavesRunAndReleasesStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	setFlag(t, &flagConfig, writeConfig(t, config.DefaultConfig()))
	setFlag(t, &flagDifficulty, "")
	setFlag(t, &flagDBPath, dbPath)
	setFlag(t, &flagSeed, int64(7))
	setFlag(t, &flagDuration, 5.0)
	setFlag(t, &flagNoSave, false)
	setFlag(t, &flagLogLevel, "error")

	require.NoError(t, runSimulate(nil, nil))

	store, err := storage.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, int64(7), runs[0].Seed)
}
