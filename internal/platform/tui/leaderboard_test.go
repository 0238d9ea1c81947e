package tui

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/season-runner/internal/storage"
)

func TestLeaderboardShowsBestRuns(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	for _, s := range []float64{120, 900, 40, 300, 610, 75, 20} {
		_, err := store.SaveRun(storage.RunRecord{Score: s, SeasonName: "winter", Seed: 11})
		require.NoError(t, err)
	}

	m := NewLeaderboardModel(store, 100, 30)
	require.Len(t, m.runs, storage.LeaderboardSize)
	assert.Equal(t, 900.0, m.runs[0].Score)

	view := m.View()
	assert.Contains(t, view, "BEST RUNS")
	assert.Contains(t, view, "900")
	assert.Contains(t, view, "winter")
	assert.NotContains(t, view, "No runs recorded")
}

func TestLeaderboardEmpty(t *testing.T) {
	m := NewLeaderboardModel(nil, 80, 24)
	assert.Contains(t, m.View(), "No runs recorded yet")

	next, cmd := m.Update(keyMsg("q"))
	assert.NotNil(t, cmd)
	assert.Empty(t, next.View())
}
