package runner

import "github.com/vovakirdan/season-runner/internal/track"

// Event is something observable that happened during a Step.
type Event interface {
	runnerEvent()
}

// SegmentAppended is emitted for every segment added ahead of the player.
type SegmentAppended struct {
	Segment *track.Segment
}

func (SegmentAppended) runnerEvent() {}

// SegmentReleased is emitted when a segment drops out behind the player.
type SegmentReleased struct {
	Segment *track.Segment
}

func (SegmentReleased) runnerEvent() {}

// SeasonChanged is emitted when a threshold crossing switches seasons.
type SeasonChanged struct {
	From, To int
	Name     string
	Score    float64
}

func (SeasonChanged) runnerEvent() {}

// CrossfadeStarted is emitted when music begins handing over.
type CrossfadeStarted struct {
	From, To string
}

func (CrossfadeStarted) runnerEvent() {}

// CrossfadeFinished is emitted when the new channel reaches full volume.
type CrossfadeFinished struct {
	To string
}

func (CrossfadeFinished) runnerEvent() {}

// AudioDegraded is emitted when a season's music could not be played.
// The season change itself still applies.
type AudioDegraded struct {
	Channel string
	Err     error
}

func (AudioDegraded) runnerEvent() {}

// ItemCollected is emitted when the simulated player picks up content.
type ItemCollected struct {
	Kind    track.Occupancy
	Variant string
	Rare    bool
	Points  int
}

func (ItemCollected) runnerEvent() {}
