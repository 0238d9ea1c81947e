package audio

import (
	"fmt"
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/vovakirdan/season-runner/internal/core"
)

// Pickup chimes, two eighth notes each.
var (
	pickupNotes     = []float64{784, 1047}
	rarePickupNotes = []float64{1047, 1568}
)

const pickupBPM = 480

// Effects plays one-shot sounds through the output mixer next to the music.
type Effects struct {
	out    *Output
	volume float64
	played int
}

// NewEffects creates an effect player at the given volume in [0, 1].
func (o *Output) NewEffects(volume float64) *Effects {
	return &Effects{out: o, volume: core.ClampF(volume, 0, 1)}
}

// Volume returns the effect volume.
func (e *Effects) Volume() float64 { return e.volume }

// Played returns how many sounds were started.
func (e *Effects) Played() int { return e.played }

// Pickup plays the chime for a collected item. Rare items get a higher
// chime. At zero volume nothing is played.
func (e *Effects) Pickup(rare bool) error {
	e.out.mu.Lock()
	closed := e.out.closed
	e.out.mu.Unlock()
	if closed {
		return fmt.Errorf("pickup sound: %w", ErrOutputClosed)
	}
	if e.volume <= 0 {
		return nil
	}

	notes := pickupNotes
	if rare {
		notes = rarePickupNotes
	}
	rate := e.out.SampleRate()
	src := NewMelody(rate, pickupBPM, notes)
	n := len(notes) * int(float64(rate)*60/pickupBPM/2)
	sound := &effects.Volume{Streamer: beep.Take(n, src), Base: 2, Volume: math.Log2(e.volume)}

	e.out.withLock(func() {
		e.out.mixer.Add(sound)
	})
	e.played++
	return nil
}
