package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/vovakirdan/season-runner/internal/core"
)

// ErrOutputClosed is returned by Play after the output has been closed.
var ErrOutputClosed = errors.New("audio output closed")

// Output owns the mixer every BeepChannel feeds. Until Open succeeds it is
// offline: channels work and the mixer can be streamed by hand, but nothing
// reaches a device.
type Output struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	mixer  *beep.Mixer
	live   bool
	closed bool
}

// NewOutput creates an offline output at the given sample rate.
func NewOutput(sampleRate int) *Output {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return &Output{
		rate:  beep.SampleRate(sampleRate),
		mixer: &beep.Mixer{},
	}
}

// SampleRate returns the output's sample rate.
func (o *Output) SampleRate() beep.SampleRate {
	return o.rate
}

// Open initializes the speaker and starts playing the mixer.
func (o *Output) Open(bufferMillis int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.live {
		return nil
	}
	if bufferMillis <= 0 {
		bufferMillis = 100
	}
	if err := speaker.Init(o.rate, o.rate.N(time.Duration(bufferMillis)*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: init speaker: %w", err)
	}
	speaker.Play(o.mixer)
	o.live = true
	return nil
}

// Close silences every channel and releases the speaker.
func (o *Output) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.closed = true
	if !o.live {
		o.mixer.Clear()
		return
	}
	speaker.Lock()
	o.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	o.live = false
}

// Stream pulls samples from the mixer. It is meant for offline use.
func (o *Output) Stream(samples [][2]float64) int {
	var n int
	o.withLock(func() {
		n, _ = o.mixer.Stream(samples)
	})
	return n
}

// withLock runs fn while holding the speaker lock when the output is live.
func (o *Output) withLock(fn func()) {
	o.mu.Lock()
	live := o.live
	o.mu.Unlock()

	if live {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}

// BeepChannel is a Channel that loops a streamer through the output mixer.
type BeepChannel struct {
	name   string
	out    *Output
	ctrl   *beep.Ctrl
	gain   *effects.Volume
	volume float64
	added  bool
}

// NewChannel creates a stopped channel looping src at the given volume.
func (o *Output) NewChannel(name string, src beep.Streamer, volume float64) *BeepChannel {
	gain := &effects.Volume{Streamer: src, Base: 2}
	c := &BeepChannel{
		name: name,
		out:  o,
		gain: gain,
		ctrl: &beep.Ctrl{Streamer: gain, Paused: true},
	}
	c.applyVolume(core.ClampF(volume, 0, 1))
	return c
}

func (c *BeepChannel) Name() string { return c.name }

// Play unpauses the channel, adding it to the mixer on first use.
func (c *BeepChannel) Play() error {
	c.out.mu.Lock()
	closed := c.out.closed
	c.out.mu.Unlock()
	if closed {
		return fmt.Errorf("channel %s: %w", c.name, ErrOutputClosed)
	}

	c.out.withLock(func() {
		if !c.added {
			c.out.mixer.Add(c.ctrl)
			c.added = true
		}
		c.ctrl.Paused = false
	})
	return nil
}

func (c *BeepChannel) Stop() {
	c.out.withLock(func() {
		c.ctrl.Paused = true
	})
}

func (c *BeepChannel) IsPlaying() bool {
	playing := false
	c.out.withLock(func() {
		playing = c.added && !c.ctrl.Paused
	})
	return playing
}

func (c *BeepChannel) Volume() float64 { return c.volume }

func (c *BeepChannel) SetVolume(v float64) {
	v = core.ClampF(v, 0, 1)
	c.out.withLock(func() {
		c.applyVolume(v)
	})
}

// applyVolume maps a linear volume onto the base-2 gain.
// math.Log2(0) is -Inf, so zero is handled by silencing.
func (c *BeepChannel) applyVolume(v float64) {
	c.volume = v
	if v <= 0 {
		c.gain.Volume = 0
		c.gain.Silent = true
		return
	}
	c.gain.Volume = math.Log2(v)
	c.gain.Silent = false
}
