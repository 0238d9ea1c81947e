package audio

import "github.com/vovakirdan/season-runner/internal/core"

// SilentChannel is an in-memory Channel that produces no sound. It stands
// in for real channels when no output device is available.
type SilentChannel struct {
	name    string
	playing bool
	volume  float64

	// PlayErr, when set, is returned by Play and the channel stays stopped.
	PlayErr error
}

// NewSilentChannel creates a stopped channel at the given volume.
func NewSilentChannel(name string, volume float64) *SilentChannel {
	return &SilentChannel{name: name, volume: core.ClampF(volume, 0, 1)}
}

func (c *SilentChannel) Name() string { return c.name }

func (c *SilentChannel) Play() error {
	if c.PlayErr != nil {
		return c.PlayErr
	}
	c.playing = true
	return nil
}

func (c *SilentChannel) Stop() { c.playing = false }

func (c *SilentChannel) IsPlaying() bool { return c.playing }

func (c *SilentChannel) Volume() float64 { return c.volume }

func (c *SilentChannel) SetVolume(v float64) { c.volume = core.ClampF(v, 0, 1) }
