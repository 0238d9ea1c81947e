package audio

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vovakirdan/season-runner/internal/config"
)

func TestBank(t *testing.T) {
	a := NewSilentChannel("a", 1)
	b := NewSilentChannel("b", 1)
	bank := NewBank(a, b, NewSilentChannel("a", 0.2))

	require.Len(t, bank.Channels(), 2, "duplicate names are ignored")
	got, err := bank.Get("b")
	require.NoError(t, err)
	assert.Same(t, b, got)

	_, err = bank.Get("zzz")
	assert.True(t, errors.Is(err, ErrUnknownChannel))

	_, ok := bank.FirstPlaying()
	assert.False(t, ok)

	require.NoError(t, b.Play())
	require.NoError(t, a.Play())
	first, ok := bank.FirstPlaying()
	require.True(t, ok)
	assert.Same(t, a, first, "registration order wins")

	bank.StopAllExcept(b)
	assert.Equal(t, []Channel{b}, bank.Playing())
}

func TestSilentChannelClampsVolume(t *testing.T) {
	c := NewSilentChannel("x", 3)
	assert.Equal(t, 1.0, c.Volume())
	c.SetVolume(-1)
	assert.Equal(t, 0.0, c.Volume())
}

func TestNewSeasonBankSilent(t *testing.T) {
	seasons := config.DefaultConfig().Seasons
	bank := NewSeasonBank(seasons, nil, 0.5)

	require.Len(t, bank.Channels(), len(seasons.Palettes))
	ch, err := bank.Get("bgm_winter")
	require.NoError(t, err)
	assert.InDelta(t, 0.4, ch.Volume(), 1e-9)
	assert.IsType(t, &SilentChannel{}, ch)
}

func TestBeepChannelOffline(t *testing.T) {
	out := NewOutput(8000)
	ch := out.NewChannel("tone", NewMelody(out.SampleRate(), 120, []float64{440}), 0.5)

	assert.False(t, ch.IsPlaying())
	assert.InDelta(t, math.Log2(0.5), ch.gain.Volume, 1e-12)

	buf := make([][2]float64, 2000)
	out.Stream(buf)
	assert.True(t, silent(buf), "nothing plays before Play")

	require.NoError(t, ch.Play())
	assert.True(t, ch.IsPlaying())
	out.Stream(buf)
	assert.False(t, silent(buf))

	ch.SetVolume(0)
	assert.True(t, ch.gain.Silent)
	out.Stream(buf)
	assert.True(t, silent(buf))

	ch.SetVolume(1)
	ch.Stop()
	assert.False(t, ch.IsPlaying())
	out.Stream(buf)
	assert.True(t, silent(buf))

	out.Close()
	assert.True(t, errors.Is(ch.Play(), ErrOutputClosed))
}

func TestNewSeasonBankWithOutput(t *testing.T) {
	out := NewOutput(8000)
	bank := NewSeasonBank(config.DefaultConfig().Seasons, out, 1)

	ch, err := bank.Get("bgm_default")
	require.NoError(t, err)
	assert.IsType(t, &BeepChannel{}, ch)
	assert.InDelta(t, 0.8, ch.Volume(), 1e-9)
}

func TestMelodyRests(t *testing.T) {
	m := NewMelody(1000, 60, []float64{0, 220})
	// 500 samples per note at 60 bpm eighth notes.
	buf := make([][2]float64, 500)
	m.Stream(buf)
	assert.True(t, silent(buf))
	m.Stream(buf)
	assert.False(t, silent(buf))
}

func silent(buf [][2]float64) bool {
	for _, s := range buf {
		if s[0] != 0 || s[1] != 0 {
			return false
		}
	}
	return true
}
