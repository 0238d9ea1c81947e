package season

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vovakirdan/season-runner/internal/audio"
	"github.com/vovakirdan/season-runner/internal/config"
	"github.com/vovakirdan/season-runner/internal/track"
)

type fakeBuilder struct {
	set []*track.Palette
}

func (b *fakeBuilder) SetPalette(p *track.Palette) { b.set = append(b.set, p) }

type fakeEnv struct {
	applied []track.Environment
}

func (e *fakeEnv) SetEnvironment(env track.Environment) { e.applied = append(e.applied, env) }

type fixture struct {
	ctrl     *Controller
	builder  *fakeBuilder
	env      *fakeEnv
	bank     *audio.Bank
	fader    *audio.Crossfader
	channels []*audio.SilentChannel
	palettes []*track.Palette
}

var seasonNames = []string{"default", "summer", "autumn", "winter"}

func newFixture(t *testing.T, thresholds []float64) *fixture {
	t.Helper()
	f := &fixture{builder: &fakeBuilder{}, env: &fakeEnv{}, bank: audio.NewBank()}
	for i, name := range seasonNames {
		f.palettes = append(f.palettes, &track.Palette{
			Index:       i,
			Name:        name,
			Obstacles:   []string{"rock"},
			Environment: track.Environment{Skybox: name + "_sky"},
			BGM:         track.BGM{Channel: "bgm_" + name, Volume: 0.8},
		})
		ch := audio.NewSilentChannel("bgm_"+name, 0.8)
		f.channels = append(f.channels, ch)
		f.bank.Add(ch)
	}
	f.fader = audio.NewCrossfader(f.bank, nil)

	ctrl, err := NewController(
		Options{Thresholds: thresholds, Palettes: f.palettes, FadeDuration: 1},
		Deps{Builder: f.builder, Environment: f.env, Bank: f.bank, Crossfader: f.fader},
	)
	require.NoError(t, err)
	f.ctrl = ctrl
	return f
}

func (f *fixture) finishFade(t *testing.T) {
	t.Helper()
	for i := 0; i < 1000 && f.fader.Active(); i++ {
		f.fader.Tick(0.1)
	}
	require.False(t, f.fader.Active())
}

func TestStartPlaysDefaultSeason(t *testing.T) {
	f := newFixture(t, []float64{100, 200, 300})
	require.NoError(t, f.ctrl.Start())

	assert.True(t, f.channels[0].IsPlaying())
	assert.Same(t, f.channels[0], f.ctrl.ActiveChannel())
	assert.Equal(t, []track.Environment{{Skybox: "default_sky"}}, f.env.applied)
	assert.Equal(t, 0, f.ctrl.Current())
}

func TestUpdateSingleThreshold(t *testing.T) {
	f := newFixture(t, []float64{100, 200, 300})
	require.NoError(t, f.ctrl.Start())

	_, changed := f.ctrl.Update(99)
	assert.False(t, changed)

	tr, changed := f.ctrl.Update(100)
	require.True(t, changed)
	assert.Equal(t, 0, tr.From)
	assert.Equal(t, 1, tr.To)
	assert.Equal(t, []int{0}, tr.Crossed)
	assert.Same(t, f.palettes[1], tr.Palette)
	assert.Equal(t, []*track.Palette{f.palettes[1]}, f.builder.set)
	assert.Equal(t, "summer_sky", f.env.applied[len(f.env.applied)-1].Skybox)

	require.NotNil(t, tr.Job)
	assert.Same(t, f.channels[0], tr.Job.From)
	assert.Same(t, f.channels[1], tr.Job.To)
	assert.True(t, f.fader.Active())

	// Re-checking the same score does not re-trigger.
	_, changed = f.ctrl.Update(150)
	assert.False(t, changed)

	f.finishFade(t)
	assert.False(t, f.channels[0].IsPlaying())
	assert.True(t, f.channels[1].IsPlaying())
}

func TestUpdateMultiThresholdJump(t *testing.T) {
	f := newFixture(t, []float64{100, 200, 300})
	require.NoError(t, f.ctrl.Start())

	tr, changed := f.ctrl.Update(250)
	require.True(t, changed)

	assert.Equal(t, []int{0, 1}, tr.Crossed)
	assert.Equal(t, 2, tr.To)
	assert.Equal(t, []bool{true, true, false}, f.ctrl.State().Crossed)
	assert.Len(t, f.builder.set, 1, "one palette swap")
	assert.Len(t, f.env.applied, 2, "start plus one environment swap")
	require.NotNil(t, tr.Job)
	assert.Same(t, f.channels[2], tr.Job.To, "one crossfade straight to the highest season")

	f.finishFade(t)
	assert.Equal(t, []audio.Channel{f.channels[2]}, f.bank.Playing())

	// The skipped season is never applied later.
	_, changed = f.ctrl.Update(260)
	assert.False(t, changed)
}

func TestWinterIsAbsorbing(t *testing.T) {
	f := newFixture(t, []float64{100, 200, 300})
	tr, changed := f.ctrl.Update(1e9)
	require.True(t, changed)
	assert.Equal(t, 3, tr.To)

	_, changed = f.ctrl.Update(2e9)
	assert.False(t, changed)
	assert.Equal(t, 3, f.ctrl.Current())
}

func TestForwardOnly(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for run := 0; run < 50; run++ {
		f := newFixture(t, []float64{100, 200, 300})
		flips := make([]int, 3)
		prevCrossed := make([]bool, 3)
		score, prev := 0.0, 0

		for i := 0; i < 100; i++ {
			score += rng.Float64() * 20
			f.ctrl.Update(score)
			st := f.ctrl.State()

			require.GreaterOrEqual(t, st.Current, prev)
			prev = st.Current
			for k := range st.Crossed {
				if st.Crossed[k] != prevCrossed[k] {
					require.True(t, st.Crossed[k], "flags never clear")
					flips[k]++
				}
			}
			prevCrossed = st.Crossed
			f.fader.Tick(0.1)
		}
		assert.Equal(t, []int{1, 1, 1}, flips)
	}
}

func TestTransitionDuringFadeFinalizesPrevious(t *testing.T) {
	f := newFixture(t, []float64{100, 200, 300})
	require.NoError(t, f.ctrl.Start())

	f.ctrl.Update(100)
	f.fader.Tick(0.4)
	tr, _ := f.ctrl.Update(200)

	require.NotNil(t, tr.Job)
	assert.Same(t, f.channels[1], tr.Job.From, "the in-flight target becomes the source")
	assert.False(t, f.channels[0].IsPlaying())
	assert.InDelta(t, 0.8, f.channels[0].Volume(), 1e-9)

	f.finishFade(t)
	assert.Equal(t, []audio.Channel{f.channels[2]}, f.bank.Playing())
}

func TestMissingChannelDegrades(t *testing.T) {
	f := newFixture(t, []float64{100, 200, 300})
	f.palettes[1].BGM.Channel = "does_not_exist"
	require.NoError(t, f.ctrl.Start())

	tr, changed := f.ctrl.Update(120)
	require.True(t, changed)
	assert.True(t, errors.Is(tr.AudioErr, audio.ErrUnknownChannel))
	assert.Nil(t, tr.Job)
	assert.Equal(t, "summer_sky", f.env.applied[len(f.env.applied)-1].Skybox, "environment still swaps")
	assert.Same(t, f.palettes[1], f.builder.set[0])
	assert.True(t, f.channels[0].IsPlaying(), "old music keeps playing")
}

func TestSameChannelStopsOthers(t *testing.T) {
	f := newFixture(t, []float64{100, 200, 300})
	f.palettes[1].BGM.Channel = "bgm_default"
	require.NoError(t, f.ctrl.Start())
	require.NoError(t, f.channels[3].Play())

	tr, changed := f.ctrl.Update(100)
	require.True(t, changed)
	require.NotNil(t, tr.Job)
	assert.Equal(t, audio.PhaseDone, tr.Job.Phase)
	assert.False(t, f.fader.Active(), "no crossfade job")
	assert.Equal(t, []audio.Channel{f.channels[0]}, f.bank.Playing())
}

func TestFallsBackToPollingAndDefault(t *testing.T) {
	f := newFixture(t, []float64{100, 200, 300})

	// Nothing tracked, something else playing: polling finds it.
	require.NoError(t, f.channels[3].Play())
	tr, _ := f.ctrl.Update(100)
	assert.Same(t, f.channels[3], tr.Job.From)
	f.finishFade(t)

	// Nothing playing at all: the default channel is the source.
	g := newFixture(t, []float64{100, 200, 300})
	tr, _ = g.ctrl.Update(100)
	assert.Same(t, g.channels[0], tr.Job.From)
}

func TestNewControllerRejectsBadConfig(t *testing.T) {
	pals := make([]*track.Palette, 4)
	for i := range pals {
		pals[i] = &track.Palette{Index: i}
	}

	_, err := NewController(Options{Thresholds: []float64{100, 100, 300}, Palettes: pals}, Deps{})
	assert.True(t, errors.Is(err, config.ErrConfiguration))

	_, err = NewController(Options{Thresholds: []float64{100, 200, 300}, Palettes: pals[:3]}, Deps{})
	assert.True(t, errors.Is(err, config.ErrConfiguration))

	_, err = NewController(Options{Thresholds: nil, Palettes: pals[:1]}, Deps{})
	assert.NoError(t, err)
}
