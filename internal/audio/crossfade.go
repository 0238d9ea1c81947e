package audio

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/season-runner/internal/core"
)

// Phase is the stage of a crossfade.
type Phase int

const (
	PhaseFadeOut Phase = iota
	PhaseFadeIn
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseFadeOut:
		return "fade-out"
	case PhaseFadeIn:
		return "fade-in"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// CrossfadeJob is a resumable handover from one channel to another. The
// two fades run one after the other, each over Duration.
type CrossfadeJob struct {
	From        Channel
	To          Channel
	Elapsed     float64 // Time spent in the current phase
	Duration    float64
	StartVolume float64
	Phase       Phase
	Err         error // Set when To could not be played
}

// Crossfader runs at most one CrossfadeJob at a time.
type Crossfader struct {
	bank   *Bank
	job    *CrossfadeJob
	logger *log.Logger
}

// NewCrossfader creates a crossfader over bank. A nil logger discards output.
func NewCrossfader(bank *Bank, logger *log.Logger) *Crossfader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if bank == nil {
		bank = NewBank()
	}
	return &Crossfader{bank: bank, logger: logger}
}

// Active reports whether a job is in flight.
func (c *Crossfader) Active() bool {
	return c.job != nil
}

// Job returns the job in flight, or nil.
func (c *Crossfader) Job() *CrossfadeJob {
	return c.job
}

// Start begins a crossfade from one channel to another. A job already in
// flight is finalized first. Every other playing channel is stopped.
//
// With a nil from, or from equal to to, to simply plays at its current
// volume. A duration <= 0 completes the handover immediately. In these
// cases the returned job is already done and Active stays false.
func (c *Crossfader) Start(from, to Channel, duration float64) (*CrossfadeJob, error) {
	if to == nil {
		return nil, fmt.Errorf("crossfade target: %w", ErrUnknownChannel)
	}
	c.Finalize()
	c.bank.StopAllExcept(from, to)

	if from == nil || from == to {
		job := &CrossfadeJob{From: from, To: to, Duration: duration, StartVolume: to.Volume(), Phase: PhaseDone}
		if !to.IsPlaying() {
			if err := c.play(job); err != nil {
				return job, err
			}
		}
		return job, nil
	}

	job := &CrossfadeJob{
		From:        from,
		To:          to,
		Duration:    duration,
		StartVolume: from.Volume(),
		Phase:       PhaseFadeOut,
	}
	c.logger.Debug("crossfade started", "from", from.Name(), "to", to.Name(), "duration", duration)

	if duration <= 0 {
		c.job = job
		c.Finalize()
		return job, job.Err
	}
	c.job = job
	return job, nil
}

// Tick advances the job in flight by dt. It returns the job when it
// finished during this tick.
func (c *Crossfader) Tick(dt float64) *CrossfadeJob {
	job := c.job
	if job == nil || dt <= 0 {
		return nil
	}

	job.Elapsed += dt
	t := core.ClampF(job.Elapsed/job.Duration, 0, 1)

	switch job.Phase {
	case PhaseFadeOut:
		job.From.SetVolume(core.Lerp(job.StartVolume, 0, t))
		if t < 1 {
			return nil
		}
		job.From.Stop()
		job.From.SetVolume(job.StartVolume)
		job.To.SetVolume(0)
		if err := c.play(job); err != nil {
			c.job = nil
			return job
		}
		job.Phase = PhaseFadeIn
		job.Elapsed = 0
		return nil

	case PhaseFadeIn:
		job.To.SetVolume(core.Lerp(0, job.StartVolume, t))
		if t < 1 {
			return nil
		}
		job.To.SetVolume(job.StartVolume)
		job.Phase = PhaseDone
		c.job = nil
		c.logger.Debug("crossfade finished", "to", job.To.Name())
		return job
	}

	c.job = nil
	return job
}

// Finalize completes the job in flight at once: From is stopped with its
// volume restored and To plays at the target volume.
func (c *Crossfader) Finalize() *CrossfadeJob {
	job := c.job
	if job == nil {
		return nil
	}
	c.job = nil

	job.From.Stop()
	job.From.SetVolume(job.StartVolume)
	job.To.SetVolume(job.StartVolume)
	if !job.To.IsPlaying() {
		if err := c.play(job); err != nil {
			return job
		}
	}
	job.Phase = PhaseDone
	return job
}

// play starts job.To. On failure the target is stopped and the job is
// marked done with the error recorded.
func (c *Crossfader) play(job *CrossfadeJob) error {
	if err := job.To.Play(); err != nil {
		job.To.Stop()
		job.Phase = PhaseDone
		job.Err = fmt.Errorf("play %s: %w", job.To.Name(), err)
		c.logger.Warn("audio channel unavailable", "channel", job.To.Name(), "err", err)
		return job.Err
	}
	return nil
}
