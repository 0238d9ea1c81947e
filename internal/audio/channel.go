// Package audio provides the background-music channels of each season and
// the crossfader that hands volume from one channel to another.
package audio

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/vovakirdan/season-runner/internal/config"
	"github.com/vovakirdan/season-runner/internal/core"
)

// ErrUnknownChannel is returned when a channel name is not in the bank.
var ErrUnknownChannel = errors.New("unknown audio channel")

// Channel is one looping music track. Volume is in [0, 1].
type Channel interface {
	Name() string
	Play() error
	Stop()
	IsPlaying() bool
	Volume() float64
	SetVolume(v float64)
}

// Bank is the ordered set of channels available to a run.
type Bank struct {
	channels []Channel
	byName   map[string]Channel
}

// NewBank creates a bank. Later channels with a duplicate name are ignored.
func NewBank(channels ...Channel) *Bank {
	b := &Bank{byName: make(map[string]Channel, len(channels))}
	for _, ch := range channels {
		b.Add(ch)
	}
	return b
}

// Add registers a channel. It returns false if the name is taken.
func (b *Bank) Add(ch Channel) bool {
	if ch == nil {
		return false
	}
	if _, ok := b.byName[ch.Name()]; ok {
		return false
	}
	b.channels = append(b.channels, ch)
	b.byName[ch.Name()] = ch
	return true
}

// Get returns the named channel.
func (b *Bank) Get(name string) (Channel, error) {
	ch, ok := b.byName[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownChannel)
	}
	return ch, nil
}

// Channels returns all channels in registration order.
func (b *Bank) Channels() []Channel {
	return b.channels
}

// FirstPlaying returns the first channel that is playing, if any.
func (b *Bank) FirstPlaying() (Channel, bool) {
	return lo.Find(b.channels, func(ch Channel) bool { return ch.IsPlaying() })
}

// Playing returns every channel that is playing.
func (b *Bank) Playing() []Channel {
	return lo.Filter(b.channels, func(ch Channel, _ int) bool { return ch.IsPlaying() })
}

// StopAllExcept stops every playing channel not listed in keep.
func (b *Bank) StopAllExcept(keep ...Channel) {
	for _, ch := range b.channels {
		if ch.IsPlaying() && !lo.Contains(keep, ch) {
			ch.Stop()
		}
	}
}

// NewSeasonBank creates one channel per palette's BGM. With a nil output the
// channels are silent. Each channel's volume is its configured volume scaled
// by bgmScale, the player's music volume preference.
func NewSeasonBank(seasons config.SeasonsConfig, out *Output, bgmScale float64) *Bank {
	bank := NewBank()
	for _, p := range seasons.Palettes {
		vol := core.ClampF(p.BGM.Volume*bgmScale, 0, 1)
		if out == nil {
			bank.Add(NewSilentChannel(p.BGM.Channel, vol))
			continue
		}
		bank.Add(out.NewChannel(p.BGM.Channel, NewMelody(out.SampleRate(), p.BGM.BPM, p.BGM.Notes), vol))
	}
	return bank
}
