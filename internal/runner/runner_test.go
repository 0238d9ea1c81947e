package runner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vovakirdan/season-runner/internal/audio"
	"github.com/vovakirdan/season-runner/internal/config"
	"github.com/vovakirdan/season-runner/internal/track"
	"gopkg.in/yaml.v3"
)

func embeddedConfig(t *testing.T) config.Config {
	t.Helper()
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(config.DefaultYAML(), &cfg))
	return cfg
}

// scriptedPlayer reports whatever the test sets.
type scriptedPlayer struct {
	score, progress float64
}

func (p *scriptedPlayer) Score() float64    { return p.score }
func (p *scriptedPlayer) Progress() float64 { return p.progress }

func eventsOf[T Event](events []Event) []T {
	var out []T
	for _, e := range events {
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestRunnerStartGeneratesLookahead(t *testing.T) {
	r, err := New(Options{Config: embeddedConfig(t), Seed: 1})
	require.NoError(t, err)

	events := r.Start()
	assert.Len(t, eventsOf[SegmentAppended](events), 10)
	assert.Empty(t, r.Start(), "second start is a no-op")

	ch, err := r.Bank().Get("bgm_default")
	require.NoError(t, err)
	assert.True(t, ch.IsPlaying())
	assert.Equal(t, "clear_day", r.Scene().Environment().Skybox)
}

func TestRunnerKeepsLookaheadAndChain(t *testing.T) {
	r, err := New(Options{Config: embeddedConfig(t), Seed: 77})
	require.NoError(t, err)

	for i := 0; i < 3000; i++ {
		r.Step(1.0 / 30)

		progress := r.Player().Progress()
		ahead := 0
		for _, seg := range r.Segments() {
			if seg.Start >= progress {
				ahead++
			}
		}
		require.GreaterOrEqual(t, ahead, 10, "tick %d", i)
	}

	segs := r.Segments()
	for i := 1; i < len(segs); i++ {
		assert.True(t, segs[i].Entry.ApproxEqual(segs[i-1].Exit, 1e-9))
	}
	assert.LessOrEqual(t, len(segs), 10+2+1, "passed segments are released")
}

func TestRunnerProgressesThroughSeasons(t *testing.T) {
	r, err := New(Options{Config: embeddedConfig(t), Seed: 5})
	require.NoError(t, err)

	var all []Event
	for i := 0; i < 20000 && r.Player().Score() < 3200; i++ {
		all = append(all, r.Step(0.1)...)
	}
	for i := 0; i < 50; i++ {
		all = append(all, r.Step(0.1)...)
	}

	changes := eventsOf[SeasonChanged](all)
	require.Len(t, changes, 3)
	assert.Equal(t, []string{"summer", "autumn", "winter"},
		[]string{changes[0].Name, changes[1].Name, changes[2].Name})
	assert.Len(t, eventsOf[CrossfadeStarted](all), 3)
	assert.Len(t, eventsOf[CrossfadeFinished](all), 3)
	assert.Empty(t, eventsOf[AudioDegraded](all))

	idx, pal := r.Season()
	assert.Equal(t, 3, idx)
	assert.Equal(t, "winter", pal.Name)
	assert.Equal(t, "snowfall", r.Scene().Environment().Skybox)

	playing := r.Bank().Playing()
	require.Len(t, playing, 1)
	assert.Equal(t, "bgm_winter", playing[0].Name())

	newest := r.Segments()[len(r.Segments())-1]
	assert.Equal(t, 3, newest.Palette)
}

func TestRunnerIsDeterministic(t *testing.T) {
	run := func() (Summary, []string) {
		r, err := New(Options{Config: embeddedConfig(t), Seed: 2024})
		require.NoError(t, err)
		var trace []string
		for i := 0; i < 1500; i++ {
			for _, e := range eventsOf[SegmentAppended](r.Step(1.0 / 20)) {
				trace = append(trace, e.Segment.Variant)
				for _, sp := range e.Segment.Anchors {
					trace = append(trace, sp.Occupancy().String()+sp.Variant())
				}
			}
		}
		return r.Finish(), trace
	}

	s1, t1 := run()
	s2, t2 := run()
	assert.Equal(t, s1, s2)
	assert.Equal(t, t1, t2)
	assert.Greater(t, s1.Stats.Collected, 0)
}

func TestRunnerPause(t *testing.T) {
	r, err := New(Options{Config: embeddedConfig(t), Seed: 1})
	require.NoError(t, err)
	r.Step(0.5)

	progress := r.Player().Progress()
	cooldowns := r.Cooldowns()
	ticks := r.Ticks()

	r.SetPaused(true)
	assert.True(t, r.Paused())
	for i := 0; i < 10; i++ {
		assert.Nil(t, r.Step(0.5))
	}
	assert.Equal(t, progress, r.Player().Progress())
	assert.Equal(t, cooldowns, r.Cooldowns())
	assert.Equal(t, ticks, r.Ticks())

	r.SetPaused(false)
	r.Step(0.5)
	assert.Greater(t, r.Player().Progress(), progress)
}

func TestRunnerScoreJumpAppliesHighestSeason(t *testing.T) {
	player := &scriptedPlayer{}
	r, err := New(Options{Config: embeddedConfig(t), Seed: 1, Player: player})
	require.NoError(t, err)
	r.Start()

	player.score = 1600
	events := r.Step(0.1)

	changes := eventsOf[SeasonChanged](events)
	require.Len(t, changes, 1)
	assert.Equal(t, 2, changes[0].To)
	started := eventsOf[CrossfadeStarted](events)
	require.Len(t, started, 1)
	assert.Equal(t, CrossfadeStarted{From: "bgm_default", To: "bgm_autumn"}, started[0])
	assert.Equal(t, []bool{true, true, false}, r.SeasonState().Crossed)
}

func TestRunnerMissingChannelDegrades(t *testing.T) {
	player := &scriptedPlayer{}
	bank := audio.NewBank(audio.NewSilentChannel("bgm_default", 1))
	r, err := New(Options{Config: embeddedConfig(t), Seed: 1, Player: player, Bank: bank})
	require.NoError(t, err)
	r.Start()

	player.score = 600
	events := r.Step(0.1)

	require.Len(t, eventsOf[SeasonChanged](events), 1)
	degraded := eventsOf[AudioDegraded](events)
	require.Len(t, degraded, 1)
	assert.Equal(t, "bgm_summer", degraded[0].Channel)
	assert.True(t, errors.Is(degraded[0].Err, audio.ErrUnknownChannel))
	assert.Equal(t, "sunny", r.Scene().Environment().Skybox)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := embeddedConfig(t)
	cfg.Seasons.Palettes[0].Obstacles = nil
	_, err := New(Options{Config: cfg})
	assert.True(t, IsConfigError(err))
}

func TestNewRejectsUnequalMusicVolumes(t *testing.T) {
	cfg := embeddedConfig(t)
	cfg.Seasons.Palettes[1].BGM.Volume = 0.4
	_, err := New(Options{Config: cfg})
	require.Error(t, err)
	assert.True(t, IsConfigError(err))

	var cerr config.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, config.CodeBGMVolume, cerr.Code)
}

func TestRunnerCrossfadeEndsAtConfiguredVolume(t *testing.T) {
	cfg := embeddedConfig(t)
	for i := range cfg.Seasons.Palettes {
		cfg.Seasons.Palettes[i].BGM.Volume = 0.4
	}
	player := &scriptedPlayer{}
	r, err := New(Options{Config: cfg, Seed: 1, Player: player})
	require.NoError(t, err)
	r.Start()

	player.score = 600
	var finished []CrossfadeFinished
	for i := 0; i < 100 && len(finished) == 0; i++ {
		finished = eventsOf[CrossfadeFinished](r.Step(0.1))
	}
	require.Len(t, finished, 1)

	summer, err := r.Bank().Get("bgm_summer")
	require.NoError(t, err)
	assert.True(t, summer.IsPlaying())
	assert.InDelta(t, cfg.Seasons.Palettes[1].BGM.Volume, summer.Volume(), 1e-9)
}

func TestSimPlayerCollect(t *testing.T) {
	p := NewSimPlayer(config.DefaultConfig().Player)

	coin := &track.SpawnPoint{}
	require.NoError(t, coin.Occupy(track.Collectible, "coin", false))
	gem := &track.SpawnPoint{}
	require.NoError(t, gem.Occupy(track.Collectible, "gem", true))
	magnet := &track.SpawnPoint{}
	require.NoError(t, magnet.Occupy(track.PowerUp, "magnet", false))
	rock := &track.SpawnPoint{}
	require.NoError(t, rock.Occupy(track.Obstacle, "rock", false))

	assert.Equal(t, 10, p.Collect(coin))
	assert.Equal(t, 50, p.Collect(gem))
	assert.Equal(t, 0, p.Collect(magnet))
	assert.Equal(t, 0, p.Collect(rock))

	assert.Equal(t, 60.0, p.Score())
	assert.Equal(t, 2, p.Collected(track.Collectible))
	assert.Equal(t, 1, p.Collected(track.PowerUp))
	assert.Equal(t, 1, p.Rares())
}

func TestSimPlayerAdvance(t *testing.T) {
	cfg := config.DefaultConfig().Player
	cfg.Difficulty.Enabled = false
	p := NewSimPlayer(cfg)

	p.Advance(2)
	assert.InDelta(t, 24, p.Progress(), 1e-9)
	assert.InDelta(t, 24, p.Score(), 1e-9)
	assert.InDelta(t, 2, p.Elapsed(), 1e-9)

	p.Advance(-1)
	assert.InDelta(t, 24, p.Progress(), 1e-9)
}

func TestSummaryRecord(t *testing.T) {
	r, err := New(Options{Config: embeddedConfig(t), Seed: 31})
	require.NoError(t, err)
	for i := 0; i < 600; i++ {
		r.Step(1.0 / 30)
	}

	sum := r.Finish()
	rec := sum.Record()
	assert.Equal(t, int64(31), rec.Seed)
	assert.Equal(t, sum.Score, rec.Score)
	assert.Equal(t, sum.Distance, rec.Distance)
	assert.Equal(t, sum.Name, rec.SeasonName)
	assert.Equal(t, sum.Stats.Segments, rec.Segments)
	assert.Equal(t, sum.Stats.Collected, rec.Collected)
	assert.InDelta(t, 20.0, rec.Duration, 1e-6)
	assert.Equal(t, r.Score(), sum.Score)
	assert.Equal(t, r.Progress(), sum.Distance)
}
