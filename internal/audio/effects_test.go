package audio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectsPickupIsOneShot(t *testing.T) {
	out := NewOutput(8000)
	fx := out.NewEffects(0.5)
	assert.Equal(t, 0.5, fx.Volume())

	require.NoError(t, fx.Pickup(false))
	assert.Equal(t, 1, fx.Played())

	buf := make([][2]float64, 1000)
	out.Stream(buf)
	assert.False(t, silent(buf))

	out.Stream(buf)
	assert.True(t, silent(buf), "chime ends on its own")
}

func TestEffectsMutedAtZeroVolume(t *testing.T) {
	out := NewOutput(8000)
	fx := out.NewEffects(-1)
	assert.Zero(t, fx.Volume())

	require.NoError(t, fx.Pickup(true))
	assert.Zero(t, fx.Played())

	buf := make([][2]float64, 1000)
	out.Stream(buf)
	assert.True(t, silent(buf))
}

func TestEffectsAfterClose(t *testing.T) {
	out := NewOutput(8000)
	fx := out.NewEffects(1)
	out.Close()

	assert.True(t, errors.Is(fx.Pickup(false), ErrOutputClosed))
	assert.Zero(t, fx.Played())
}
