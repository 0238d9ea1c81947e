// Package season implements the forward-only season state machine that
// swaps palettes, environment and music as the score crosses thresholds.
package season

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/season-runner/internal/audio"
	"github.com/vovakirdan/season-runner/internal/config"
	"github.com/vovakirdan/season-runner/internal/track"
)

// Environment applies a season's ambient look.
type Environment interface {
	SetEnvironment(env track.Environment)
}

// PaletteSink receives the palette for future segments.
type PaletteSink interface {
	SetPalette(p *track.Palette)
}

// State is the season progression of one track. Crossed flags are one-shot.
type State struct {
	Current    int
	Thresholds []float64
	Crossed    []bool
}

// Transition describes a season change applied by Update.
type Transition struct {
	From     int
	To       int
	Palette  *track.Palette
	Crossed  []int               // Threshold indices crossed this update, ascending
	Job      *audio.CrossfadeJob // Nil when no channel could be resolved
	AudioErr error               // Set when the music could not follow
}

// Options configures a Controller.
type Options struct {
	Thresholds   []float64
	Palettes     []*track.Palette
	FadeDuration float64
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	Builder     PaletteSink
	Environment Environment
	Bank        *audio.Bank
	Crossfader  *audio.Crossfader
	Logger      *log.Logger
}

// Controller owns the season State of one track.
type Controller struct {
	state    State
	palettes []*track.Palette
	fade     float64
	deps     Deps
	active   audio.Channel // Channel the player hears; nil until known
}

// NewController validates the thresholds against the palettes and returns a
// controller in the default season.
func NewController(opts Options, deps Deps) (*Controller, error) {
	for i := 1; i < len(opts.Thresholds); i++ {
		if opts.Thresholds[i] <= opts.Thresholds[i-1] {
			return nil, config.ConfigurationError{
				Code:    config.CodeThresholdOrder,
				Message: fmt.Sprintf("thresholds must strictly increase, got %v", opts.Thresholds),
			}
		}
	}
	if need := len(opts.Thresholds) + 1; len(opts.Palettes) < need {
		return nil, config.ConfigurationError{
			Code:    config.CodePaletteCount,
			Message: fmt.Sprintf("%d thresholds need %d palettes, got %d", len(opts.Thresholds), need, len(opts.Palettes)),
		}
	}

	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	if deps.Bank == nil {
		deps.Bank = audio.NewBank()
	}
	if deps.Crossfader == nil {
		deps.Crossfader = audio.NewCrossfader(deps.Bank, deps.Logger)
	}

	return &Controller{
		state: State{
			Thresholds: append([]float64(nil), opts.Thresholds...),
			Crossed:    make([]bool, len(opts.Thresholds)),
		},
		palettes: opts.Palettes,
		fade:     opts.FadeDuration,
		deps:     deps,
	}, nil
}

// State returns a copy of the season state.
func (c *Controller) State() State {
	return State{
		Current:    c.state.Current,
		Thresholds: append([]float64(nil), c.state.Thresholds...),
		Crossed:    append([]bool(nil), c.state.Crossed...),
	}
}

// Current returns the active season index.
func (c *Controller) Current() int {
	return c.state.Current
}

// Palette returns the active season's palette.
func (c *Controller) Palette() *track.Palette {
	return c.palettes[c.state.Current]
}

// ActiveChannel returns the channel the controller believes is audible.
func (c *Controller) ActiveChannel() audio.Channel {
	return c.active
}

// Start applies the default season's environment and starts its music.
// A missing or unplayable channel is reported but not fatal.
func (c *Controller) Start() error {
	pal := c.palettes[c.state.Current]
	if c.deps.Environment != nil {
		c.deps.Environment.SetEnvironment(pal.Environment)
	}

	ch, err := c.deps.Bank.Get(pal.BGM.Channel)
	if err != nil {
		c.deps.Logger.Warn("season music unavailable", "season", pal.Name, "err", err)
		return err
	}
	if _, err := c.deps.Crossfader.Start(nil, ch, 0); err != nil {
		c.deps.Logger.Warn("season music unavailable", "season", pal.Name, "err", err)
		return err
	}
	c.active = ch
	return nil
}

// Update checks score against the thresholds. Every newly reached threshold
// is marked crossed; only the highest of them is applied, so a large jump
// produces a single palette, environment and music change.
func (c *Controller) Update(score float64) (Transition, bool) {
	var crossed []int
	for i, th := range c.state.Thresholds {
		if !c.state.Crossed[i] && score >= th {
			c.state.Crossed[i] = true
			crossed = append(crossed, i)
		}
	}
	if len(crossed) == 0 {
		return Transition{}, false
	}

	target := crossed[len(crossed)-1] + 1
	if target <= c.state.Current {
		return Transition{}, false
	}

	tr := Transition{
		From:    c.state.Current,
		To:      target,
		Palette: c.palettes[target],
		Crossed: crossed,
	}
	c.state.Current = target

	if c.deps.Builder != nil {
		c.deps.Builder.SetPalette(tr.Palette)
	}
	if c.deps.Environment != nil {
		c.deps.Environment.SetEnvironment(tr.Palette.Environment)
	}
	c.deps.Logger.Info("season changed",
		"from", c.palettes[tr.From].Name, "to", tr.Palette.Name, "score", score)

	c.switchMusic(&tr)
	return tr, true
}

func (c *Controller) switchMusic(tr *Transition) {
	to, err := c.deps.Bank.Get(tr.Palette.BGM.Channel)
	if err != nil {
		tr.AudioErr = err
		c.deps.Logger.Warn("season music unavailable", "season", tr.Palette.Name, "err", err)
		return
	}

	job, err := c.deps.Crossfader.Start(c.audible(), to, c.fade)
	tr.Job = job
	if err != nil {
		tr.AudioErr = err
		return
	}
	c.active = to
}

// audible resolves the crossfade source: the target of a fade in flight,
// then the tracked channel if it still plays, then the first playing
// channel, then the default season's channel.
func (c *Controller) audible() audio.Channel {
	if job := c.deps.Crossfader.Job(); job != nil {
		return job.To
	}
	if c.active != nil && c.active.IsPlaying() {
		return c.active
	}
	if ch, ok := c.deps.Bank.FirstPlaying(); ok {
		return ch
	}
	if ch, err := c.deps.Bank.Get(c.palettes[0].BGM.Channel); err == nil {
		return ch
	}
	return nil
}
