package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// melody loops a note sequence as eighth notes. A zero frequency is a rest.
// Each note is a sine with a soft octave overtone under a short
// attack/release envelope.
type melody struct {
	rate      beep.SampleRate
	notes     []float64
	noteLen   int // Samples per note
	attackLen int
	pos       int
	phase     float64
	overtone  float64
}

// NewMelody creates an endless streamer playing notes at bpm.
func NewMelody(rate beep.SampleRate, bpm float64, notes []float64) beep.Streamer {
	if bpm <= 0 {
		bpm = 120
	}
	if len(notes) == 0 {
		notes = []float64{0}
	}
	noteLen := int(float64(rate) * 60 / bpm / 2)
	if noteLen < 1 {
		noteLen = 1
	}
	return &melody{
		rate:      rate,
		notes:     notes,
		noteLen:   noteLen,
		attackLen: max(noteLen/20, 1),
	}
}

func (m *melody) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		idx := (m.pos / m.noteLen) % len(m.notes)
		inNote := m.pos % m.noteLen
		if inNote == 0 {
			m.phase, m.overtone = 0, 0
		}

		freq := m.notes[idx]
		val := 0.0
		if freq > 0 {
			env := 1.0
			if inNote < m.attackLen {
				env = float64(inNote) / float64(m.attackLen)
			}
			if release := m.noteLen - inNote; release < m.noteLen/4 {
				env *= float64(release) / float64(m.noteLen/4)
			}
			val = env * (0.25*math.Sin(2*math.Pi*m.phase) + 0.08*math.Sin(2*math.Pi*m.overtone))

			m.phase += freq / float64(m.rate)
			m.phase -= math.Floor(m.phase) // Keep in [0, 1)
			m.overtone += 2 * freq / float64(m.rate)
			m.overtone -= math.Floor(m.overtone)
		}

		samples[i][0] = val
		samples[i][1] = val
		m.pos++
	}
	return len(samples), true
}

func (m *melody) Err() error { return nil }
