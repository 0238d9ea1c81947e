// Package runner drives one track: it owns the builder, allocator, season
// controller and crossfader and advances them in a fixed order every tick.
package runner

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/season-runner/internal/audio"
	"github.com/vovakirdan/season-runner/internal/config"
	"github.com/vovakirdan/season-runner/internal/core"
	"github.com/vovakirdan/season-runner/internal/season"
	"github.com/vovakirdan/season-runner/internal/storage"
	"github.com/vovakirdan/season-runner/internal/track"
)

// Options configures a Runner.
type Options struct {
	Config config.Config
	Seed   int64
	Bank   *audio.Bank // Nil uses silent channels
	Player Player      // Nil uses a SimPlayer
	Logger *log.Logger // Nil discards output
}

// Runner is the tick scheduler of one track. It is not safe for concurrent
// use; each session owns its own Runner.
type Runner struct {
	cfg    config.Config
	seed   int64
	logger *log.Logger

	palettes []*track.Palette
	alloc    *track.Allocator
	builder  *track.Builder
	ctrl     *season.Controller
	bank     *audio.Bank
	fader    *audio.Crossfader
	scene    *Scene
	player   Player

	paused  bool
	started bool
	ticks   int
	stats   Stats
}

// Stats counts what the run produced.
type Stats struct {
	Segments     int
	Obstacles    int
	Collectibles int
	Rares        int
	PowerUps     int
	Skipped      int
	Collected    int
}

// New builds a runner from a validated configuration.
func New(opts Options) (*Runner, error) {
	if err := config.Validate(opts.Config); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	palettes, err := track.NewPalettes(opts.Config.Seasons)
	if err != nil {
		return nil, err
	}

	bank := opts.Bank
	if bank == nil {
		bank = audio.NewSeasonBank(opts.Config.Seasons, nil, 1)
	}
	player := opts.Player
	if player == nil {
		player = NewSimPlayer(opts.Config.Player)
	}

	scene := NewScene()
	alloc := track.NewAllocator(track.AllocatorConfigFrom(opts.Config), track.NewRandom(opts.Seed), scene)
	picker := track.NewVariantPicker(opts.Seed, opts.Config.Track.VariantNoiseScale)
	builder := track.NewBuilder(track.BuilderConfigFrom(opts.Config), palettes[0], alloc, picker, scene)
	fader := audio.NewCrossfader(bank, logger)

	ctrl, err := season.NewController(
		season.Options{
			Thresholds:   opts.Config.Seasons.Thresholds,
			Palettes:     palettes,
			FadeDuration: opts.Config.Audio.FadeDuration,
		},
		season.Deps{
			Builder:     builder,
			Environment: scene,
			Bank:        bank,
			Crossfader:  fader,
			Logger:      logger,
		},
	)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:      opts.Config,
		seed:     opts.Seed,
		logger:   logger,
		palettes: palettes,
		alloc:    alloc,
		builder:  builder,
		ctrl:     ctrl,
		bank:     bank,
		fader:    fader,
		scene:    scene,
		player:   player,
	}, nil
}

// Start applies the default season and generates the initial look-ahead.
// Calling it again does nothing.
func (r *Runner) Start() []Event {
	if r.started {
		return nil
	}
	r.started = true

	var events []Event
	if err := r.ctrl.Start(); err != nil {
		events = append(events, AudioDegraded{Channel: r.palettes[0].BGM.Channel, Err: err})
	}
	events = r.extend(events)
	r.logger.Info("run started", "seed", r.seed, "season", r.palettes[0].Name)
	return events
}

// Step advances the run by dt seconds. In order: the player moves and
// collects what it passed, cooldowns tick, the season controller checks the
// score, the track is extended and trimmed, then the crossfade advances.
// A paused runner does nothing.
func (r *Runner) Step(dt float64) []Event {
	if r.paused || dt <= 0 {
		return nil
	}
	var events []Event
	if !r.started {
		events = append(events, r.Start()...)
	}
	r.ticks++

	before := r.player.Progress()
	if a, ok := r.player.(advancer); ok {
		a.Advance(dt)
	}
	events = r.collect(events, before, r.player.Progress())

	// (a) cooldowns
	r.alloc.Tick(dt)

	// (b) seasons
	if tr, ok := r.ctrl.Update(r.player.Score()); ok {
		events = append(events, SeasonChanged{From: tr.From, To: tr.To, Name: tr.Palette.Name, Score: r.player.Score()})
		events = r.audioEvents(events, tr)
	}

	// (c) track
	events = r.extend(events)
	for _, seg := range r.builder.Release(r.player.Progress()) {
		events = append(events, SegmentReleased{Segment: seg})
	}

	// (d) music
	if job := r.fader.Tick(dt); job != nil {
		if job.Err != nil {
			events = append(events, AudioDegraded{Channel: job.To.Name(), Err: job.Err})
		} else {
			events = append(events, CrossfadeFinished{To: job.To.Name()})
		}
	}
	return events
}

func (r *Runner) audioEvents(events []Event, tr season.Transition) []Event {
	if tr.AudioErr != nil {
		return append(events, AudioDegraded{Channel: tr.Palette.BGM.Channel, Err: tr.AudioErr})
	}
	job := tr.Job
	if job == nil || job.From == nil || job.From == job.To {
		return events
	}
	events = append(events, CrossfadeStarted{From: job.From.Name(), To: job.To.Name()})
	if job.Phase == audio.PhaseDone {
		events = append(events, CrossfadeFinished{To: job.To.Name()})
	}
	return events
}

func (r *Runner) extend(events []Event) []Event {
	for _, seg := range r.builder.EnsureLookahead(r.player.Progress()) {
		r.count(seg)
		events = append(events, SegmentAppended{Segment: seg})
	}
	return events
}

func (r *Runner) count(seg *track.Segment) {
	p := seg.Placement
	if p.Skipped {
		r.stats.Skipped++
		return
	}
	if p.Obstacle != nil {
		r.stats.Obstacles++
	}
	if p.Collectible != nil {
		r.stats.Collectibles++
		if p.Collectible.Rare() {
			r.stats.Rares++
		}
	}
	if p.PowerUp != nil {
		r.stats.PowerUps++
	}
}

// collect hands every content anchor whose track distance lies in
// (from, to] to the player.
func (r *Runner) collect(events []Event, from, to float64) []Event {
	c, ok := r.player.(collector)
	if !ok || to <= from {
		return events
	}
	for _, seg := range r.builder.Segments() {
		if seg.End() <= from || seg.Start > to {
			continue
		}
		for _, sp := range seg.Anchors {
			kind := sp.Occupancy()
			if kind != track.Collectible && kind != track.PowerUp {
				continue
			}
			d := AnchorDistance(seg, sp)
			if d <= from || d > to {
				continue
			}
			points := c.Collect(sp)
			r.stats.Collected++
			events = append(events, ItemCollected{Kind: kind, Variant: sp.Variant(), Rare: sp.Rare(), Points: points})
		}
	}
	return events
}

// AnchorDistance approximates an anchor's distance along the track by its
// forward offset within the segment.
func AnchorDistance(seg *track.Segment, sp *track.SpawnPoint) float64 {
	return seg.Start + core.ClampF(sp.Local.Z, 0, seg.Length)
}

// SetPaused pauses or resumes the run. Paused steps advance nothing.
func (r *Runner) SetPaused(paused bool) {
	r.paused = paused
}

// Paused reports whether the run is paused.
func (r *Runner) Paused() bool { return r.paused }

// Seed returns the run's seed.
func (r *Runner) Seed() int64 { return r.seed }

// Ticks returns the number of unpaused steps taken.
func (r *Runner) Ticks() int { return r.ticks }

// Player returns the scoring collaborator.
func (r *Runner) Player() Player { return r.player }

// Progress returns the player's distance along the track.
func (r *Runner) Progress() float64 { return r.player.Progress() }

// Score returns the player's score.
func (r *Runner) Score() float64 { return r.player.Score() }

// Segments returns the rolling window of generated segments, oldest first.
func (r *Runner) Segments() []*track.Segment { return r.builder.Segments() }

// Season returns the active season index and palette.
func (r *Runner) Season() (int, *track.Palette) {
	return r.ctrl.Current(), r.ctrl.Palette()
}

// SeasonState returns a copy of the season progression.
func (r *Runner) SeasonState() season.State { return r.ctrl.State() }

// Palettes returns every season palette.
func (r *Runner) Palettes() []*track.Palette { return r.palettes }

// Scene returns the in-memory world.
func (r *Runner) Scene() *Scene { return r.scene }

// Bank returns the music channels.
func (r *Runner) Bank() *audio.Bank { return r.bank }

// Crossfader returns the music crossfader.
func (r *Runner) Crossfader() *audio.Crossfader { return r.fader }

// Cooldowns returns the remaining rare and power-up cooldowns.
func (r *Runner) Cooldowns() track.Cooldowns { return r.alloc.Cooldowns() }

// Stats returns counters for the run so far.
func (r *Runner) Stats() Stats {
	s := r.stats
	s.Segments = r.builder.Generated()
	return s
}

// Finish completes any crossfade in flight and returns the run summary.
func (r *Runner) Finish() Summary {
	if job := r.fader.Finalize(); job != nil && job.Err != nil {
		r.logger.Warn("audio channel unavailable", "channel", job.To.Name(), "err", job.Err)
	}
	idx, pal := r.Season()
	sum := Summary{
		Seed:     r.seed,
		Score:    r.player.Score(),
		Distance: r.player.Progress(),
		Season:   idx,
		Name:     pal.Name,
		Stats:    r.Stats(),
	}
	if sp, ok := r.player.(*SimPlayer); ok {
		sum.Elapsed = sp.Elapsed()
	}
	return sum
}

// Summary is the outcome of a run.
type Summary struct {
	Seed     int64
	Score    float64
	Distance float64
	Season   int
	Name     string
	Elapsed  float64
	Stats    Stats
}

// Record converts the summary into a row for the run history.
func (s Summary) Record() storage.RunRecord {
	return storage.RunRecord{
		Seed:         s.Seed,
		Score:        s.Score,
		Distance:     s.Distance,
		Season:       s.Season,
		SeasonName:   s.Name,
		Segments:     s.Stats.Segments,
		Obstacles:    s.Stats.Obstacles,
		Collectibles: s.Stats.Collectibles,
		Rares:        s.Stats.Rares,
		PowerUps:     s.Stats.PowerUps,
		Collected:    s.Stats.Collected,
		Duration:     s.Elapsed,
	}
}

// IsConfigError reports whether err came from configuration validation.
func IsConfigError(err error) bool {
	return errors.Is(err, config.ErrConfiguration)
}
