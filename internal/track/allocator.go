package track

import (
	"fmt"

	"github.com/vovakirdan/season-runner/internal/config"
)

// AllocatorConfig holds the placement probabilities and cooldowns.
type AllocatorConfig struct {
	RareChance         float64
	RareCooldown       float64
	PowerupChance      float64
	PowerupCooldown    float64
	DefaultCollectible string
	Powerups           []string
	CounterWrap        int // Rolling counter resets when it reaches this value
}

// AllocatorConfigFrom extracts allocator settings from a run configuration.
func AllocatorConfigFrom(cfg config.Config) AllocatorConfig {
	return AllocatorConfig{
		RareChance:         cfg.Content.RareCollectableChance,
		RareCooldown:       cfg.Content.RareCollectableCooldown,
		PowerupChance:      cfg.Content.PowerupChance,
		PowerupCooldown:    cfg.Content.PowerupCooldownDuration,
		DefaultCollectible: cfg.Content.DefaultCollectible,
		Powerups:           cfg.Content.Powerups,
		CounterWrap:        cfg.Track.LookaheadSegments,
	}
}

// Cooldowns holds the remaining time before a rare collectible or power-up
// may be placed again. Zero means ready.
type Cooldowns struct {
	Rare    float64
	Powerup float64
}

// Placement records what a Populate call put on a segment.
type Placement struct {
	Skipped     bool // Fewer than two anchors; nothing placed
	Obstacle    *SpawnPoint
	Collectible *SpawnPoint
	PowerUp     *SpawnPoint
}

// Count returns the number of items placed.
func (p Placement) Count() int {
	n := 0
	for _, sp := range []*SpawnPoint{p.Obstacle, p.Collectible, p.PowerUp} {
		if sp != nil {
			n++
		}
	}
	return n
}

// Allocator decides what occupies each anchor of a segment.
type Allocator struct {
	cfg       AllocatorConfig
	rng       Random
	world     World
	cooldowns Cooldowns
	counter   int
}

// NewAllocator creates an allocator. A nil world discards instantiation.
func NewAllocator(cfg AllocatorConfig, rng Random, world World) *Allocator {
	if world == nil {
		world = nopWorld{}
	}
	return &Allocator{
		cfg:   cfg,
		rng:   rng,
		world: world,
	}
}

// Tick advances both cooldowns by dt seconds.
func (a *Allocator) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	a.cooldowns.Rare = max(a.cooldowns.Rare-dt, 0)
	a.cooldowns.Powerup = max(a.cooldowns.Powerup-dt, 0)
}

// Cooldowns returns the remaining cooldown times.
func (a *Allocator) Cooldowns() Cooldowns {
	return a.cooldowns
}

// Counter returns the rolling obstacle counter. It is bookkeeping only.
func (a *Allocator) Counter() int {
	return a.counter
}

// Populate places content on seg's obstacle-capable anchors using pal's
// obstacle group and rare collectible. Steps run in a fixed order:
// obstacle, collectible (rare when allowed), then a power-up on the one
// anchor left over. An anchor that is already occupied keeps its content
// and is left out of the returned Placement.
//
// Populate panics if pal has no obstacles; palettes are validated on load.
func (a *Allocator) Populate(seg *Segment, pal *Palette) Placement {
	if len(pal.Obstacles) == 0 {
		panic(fmt.Sprintf("track: palette %q has an empty obstacle group", pal.Name))
	}
	pool := CollectAnchors(seg)
	if len(pool) < 2 {
		return Placement{Skipped: true}
	}

	var p Placement

	// Obstacle
	sp, pool := a.take(pool)
	variant := pal.Obstacles[a.rng.Intn(len(pal.Obstacles))]
	if a.place(seg, sp, Obstacle, variant, false) {
		p.Obstacle = sp
	}

	// Collectible
	sp, pool = a.take(pool)
	rare := false
	variant = a.cfg.DefaultCollectible
	if pal.RareCollectible != "" && a.cooldowns.Rare <= 0 && a.rng.Float64() < a.cfg.RareChance {
		rare = true
		variant = pal.RareCollectible
	}
	if a.place(seg, sp, Collectible, variant, rare) {
		p.Collectible = sp
		if rare {
			a.cooldowns.Rare = a.cfg.RareCooldown
		}
	}

	// Power-up
	if len(pool) == 1 && len(a.cfg.Powerups) > 0 && a.cooldowns.Powerup <= 0 &&
		a.rng.Float64() < a.cfg.PowerupChance {
		variant = a.cfg.Powerups[a.rng.Intn(len(a.cfg.Powerups))]
		if a.place(seg, pool[0], PowerUp, variant, false) {
			a.cooldowns.Powerup = a.cfg.PowerupCooldown
			p.PowerUp = pool[0]
		}
	}

	a.counter++
	if a.cfg.CounterWrap > 0 && a.counter >= a.cfg.CounterWrap {
		a.counter = 0
	}

	seg.Placement = p
	return p
}

// take removes a uniformly chosen anchor from pool.
func (a *Allocator) take(pool []*SpawnPoint) (*SpawnPoint, []*SpawnPoint) {
	i := a.rng.Intn(len(pool))
	sp := pool[i]
	rest := make([]*SpawnPoint, 0, len(pool)-1)
	rest = append(rest, pool[:i]...)
	rest = append(rest, pool[i+1:]...)
	return sp, rest
}

// place occupies sp and instantiates its content. It reports false when sp
// was already taken.
func (a *Allocator) place(seg *Segment, sp *SpawnPoint, kind Occupancy, variant string, rare bool) bool {
	if err := sp.Occupy(kind, variant, rare); err != nil {
		return false
	}
	sp.handle = a.world.InstantiateContent(kind, variant, sp.World, seg.Handle)
	return true
}
