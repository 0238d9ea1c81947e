package track

import "github.com/vovakirdan/season-runner/internal/core"

// World is the collaborator that turns generated segments and content into
// scene objects. The track never manages the visual lifetime of handles.
type World interface {
	InstantiateSegment(variant SegmentVariant, palette *Palette, at core.Transform) Handle
	InstantiateContent(kind Occupancy, variant string, at core.Transform, parent Handle) Handle
}

// SegmentReleaser is implemented by worlds that want to know when a segment
// has dropped out of the rolling window behind the player.
type SegmentReleaser interface {
	ReleaseSegment(h Handle)
}

type nopWorld struct{}

func (nopWorld) InstantiateSegment(SegmentVariant, *Palette, core.Transform) Handle { return 0 }

func (nopWorld) InstantiateContent(Occupancy, string, core.Transform, Handle) Handle { return 0 }
