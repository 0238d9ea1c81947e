package runner

import (
	"github.com/vovakirdan/season-runner/internal/config"
	"github.com/vovakirdan/season-runner/internal/track"
)

// Scorer exposes the cumulative score. It never decreases while the run
// is not paused.
type Scorer interface {
	Score() float64
}

// Progressor exposes the player's distance along the track.
type Progressor interface {
	Progress() float64
}

// Player is the scoring collaborator the runner reads every tick.
type Player interface {
	Scorer
	Progressor
}

// advancer is implemented by players the runner moves itself.
type advancer interface {
	Advance(dt float64)
}

// collector is implemented by players that pick up content they pass.
type collector interface {
	Collect(sp *track.SpawnPoint) int
}

// SimPlayer runs down the track at a difficulty-scaled speed, scoring for
// distance and for every collectible it passes.
type SimPlayer struct {
	cfg        config.PlayerConfig
	difficulty *config.DifficultyManager

	distance float64
	score    float64
	elapsed  float64
	counts   map[track.Occupancy]int
	rares    int
}

// NewSimPlayer creates a simulated player.
func NewSimPlayer(cfg config.PlayerConfig) *SimPlayer {
	if cfg.CollectibleValue <= 0 {
		cfg.CollectibleValue = 10
	}
	if cfg.RareMultiplier <= 0 {
		cfg.RareMultiplier = 1
	}
	return &SimPlayer{
		cfg:        cfg,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		counts:     make(map[track.Occupancy]int),
	}
}

// Speed returns the current speed in units per second.
func (p *SimPlayer) Speed() float64 {
	return p.difficulty.Speed(p.cfg.BaseSpeed, p.score, p.elapsed)
}

// Advance moves the player forward by dt seconds.
func (p *SimPlayer) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	step := p.Speed() * dt
	p.distance += step
	p.score += step * p.cfg.ScorePerUnit
	p.elapsed += dt
}

// Collect picks up the content on sp and returns the points earned.
// Obstacles are dodged and earn nothing.
func (p *SimPlayer) Collect(sp *track.SpawnPoint) int {
	kind := sp.Occupancy()
	if kind != track.Collectible && kind != track.PowerUp {
		return 0
	}
	p.counts[kind]++
	if kind == track.PowerUp {
		return 0
	}

	points := p.cfg.CollectibleValue
	if sp.Rare() {
		points *= p.cfg.RareMultiplier
		p.rares++
	}
	p.score += float64(points)
	return points
}

func (p *SimPlayer) Score() float64    { return p.score }
func (p *SimPlayer) Progress() float64 { return p.distance }

// Elapsed returns the simulated seconds run.
func (p *SimPlayer) Elapsed() float64 { return p.elapsed }

// Collected returns how many items of kind were picked up.
func (p *SimPlayer) Collected(kind track.Occupancy) int { return p.counts[kind] }

// Rares returns how many rare collectibles were picked up.
func (p *SimPlayer) Rares() int { return p.rares }
