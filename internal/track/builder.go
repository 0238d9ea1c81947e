package track

import (
	"github.com/vovakirdan/season-runner/internal/config"
	"github.com/vovakirdan/season-runner/internal/core"
)

// BuilderConfig controls the rolling window of segments.
type BuilderConfig struct {
	Lookahead    int // Segments kept at or beyond the player
	InitialEmpty int // Leading segments that receive no content
	KeepBehind   int // Passed segments kept before release
	Start        core.Transform
}

// BuilderConfigFrom extracts builder settings from a run configuration.
func BuilderConfigFrom(cfg config.Config) BuilderConfig {
	return BuilderConfig{
		Lookahead:    cfg.Track.LookaheadSegments,
		InitialEmpty: cfg.Track.InitialSegmentsWithoutObstacles,
		KeepBehind:   cfg.Track.KeepBehind,
		Start:        core.Transform{Position: cfg.Track.StartPoint.Vec(), Rotation: core.IdentityQuat()},
	}
}

// Builder keeps enough track generated ahead of the player. Each segment's
// entry is the previous segment's exit.
type Builder struct {
	cfg     BuilderConfig
	world   World
	alloc   *Allocator
	picker  *VariantPicker
	palette *Palette

	cursor   core.Transform // Entry of the next segment
	distance float64        // Track distance of the next segment's start
	segments []*Segment     // Rolling window, oldest first
	nextID   int
}

// NewBuilder creates a builder starting at cfg.Start with the given palette.
// A nil world discards instantiation.
func NewBuilder(cfg BuilderConfig, palette *Palette, alloc *Allocator, picker *VariantPicker, world World) *Builder {
	if world == nil {
		world = nopWorld{}
	}
	if cfg.Start.Rotation == (core.Quat{}) {
		cfg.Start.Rotation = core.IdentityQuat()
	}
	return &Builder{
		cfg:      cfg,
		world:    world,
		alloc:    alloc,
		picker:   picker,
		palette:  palette,
		cursor:   cfg.Start,
		segments: make([]*Segment, 0, cfg.Lookahead+cfg.KeepBehind+1),
	}
}

// SetPalette changes the palette used by future appends. Segments already
// generated keep their content.
func (b *Builder) SetPalette(p *Palette) {
	b.palette = p
}

// Palette returns the active palette.
func (b *Builder) Palette() *Palette {
	return b.palette
}

// Segments returns the rolling window, oldest first.
func (b *Builder) Segments() []*Segment {
	return b.segments
}

// Generated returns how many segments have been appended in total.
func (b *Builder) Generated() int {
	return b.nextID
}

// Ahead returns the number of segments starting at or beyond progress.
func (b *Builder) Ahead(progress float64) int {
	n := 0
	for i := len(b.segments) - 1; i >= 0 && b.segments[i].Start >= progress; i-- {
		n++
	}
	return n
}

// EnsureLookahead appends segments until at least Lookahead segments start
// at or beyond progress. It returns the appended segments.
func (b *Builder) EnsureLookahead(progress float64) []*Segment {
	var added []*Segment
	for ahead := b.Ahead(progress); ahead < b.cfg.Lookahead; {
		seg := b.append()
		added = append(added, seg)
		if seg.Start >= progress {
			ahead++
		}
	}
	return added
}

func (b *Builder) append() *Segment {
	pal := b.palette
	variant := pal.Segments[b.picker.Pick(b.nextID, len(pal.Segments))]

	entry := b.cursor
	seg := &Segment{
		ID:      b.nextID,
		Palette: pal.Index,
		Variant: variant.Name,
		Entry:   entry,
		Exit:    entry.Compose(variant.Exit),
		Start:   b.distance,
		Length:  variant.Length(),
		Anchors: make([]*SpawnPoint, 0, len(variant.Anchors)),
	}
	for _, a := range variant.Anchors {
		seg.Anchors = append(seg.Anchors, &SpawnPoint{
			Name:  a.Name,
			Tag:   a.Tag,
			Local: a.Position,
			World: core.Transform{Position: entry.Apply(a.Position), Rotation: entry.Rotation},
		})
	}
	seg.Handle = b.world.InstantiateSegment(variant, pal, entry)

	if seg.ID < b.cfg.InitialEmpty {
		seg.Placement = Placement{Skipped: true}
	} else if b.alloc != nil {
		b.alloc.Populate(seg, pal)
	}

	b.nextID++
	b.cursor = seg.Exit
	b.distance = seg.End()
	b.segments = append(b.segments, seg)
	return seg
}

// Release drops segments that ended more than KeepBehind segments behind
// progress and returns them. Worlds implementing SegmentReleaser are told
// about each released handle.
func (b *Builder) Release(progress float64) []*Segment {
	// Index of the first segment not yet fully passed.
	passed := 0
	for passed < len(b.segments) && b.segments[passed].End() <= progress {
		passed++
	}
	drop := passed - b.cfg.KeepBehind
	if drop <= 0 {
		return nil
	}

	released := make([]*Segment, drop)
	copy(released, b.segments[:drop])
	b.segments = append(b.segments[:0], b.segments[drop:]...)

	if r, ok := b.world.(SegmentReleaser); ok {
		for _, seg := range released {
			r.ReleaseSegment(seg.Handle)
		}
	}
	return released
}
