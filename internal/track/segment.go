// Package track generates the runner's track one segment at a time and
// populates each segment's anchors with obstacles, collectibles and power-ups.
package track

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/vovakirdan/season-runner/internal/core"
)

// TagObstacle marks anchors that can receive content.
const TagObstacle = "obstacle"

// ErrAnchorOccupied is returned when content is placed on an anchor that
// already holds an item.
var ErrAnchorOccupied = errors.New("anchor already occupied")

// Occupancy is what an anchor holds. It doubles as the content kind handed
// to the world collaborator.
type Occupancy int

const (
	Empty Occupancy = iota
	Obstacle
	Collectible
	PowerUp
)

func (o Occupancy) String() string {
	switch o {
	case Empty:
		return "empty"
	case Obstacle:
		return "obstacle"
	case Collectible:
		return "collectible"
	case PowerUp:
		return "powerup"
	default:
		return fmt.Sprintf("occupancy(%d)", int(o))
	}
}

// Handle identifies an object instantiated by the world collaborator.
type Handle uint64

// SpawnPoint is a named anchor on a segment. It holds at most one item.
type SpawnPoint struct {
	Name  string
	Tag   string
	Local core.Vec3      // Position in the segment's frame
	World core.Transform // Placement in world space

	occupancy Occupancy
	variant   string
	rare      bool
	handle    Handle
}

// Occupancy returns what the anchor holds.
func (sp *SpawnPoint) Occupancy() Occupancy { return sp.occupancy }

// Variant returns the placed content variant, empty when unoccupied.
func (sp *SpawnPoint) Variant() string { return sp.variant }

// Rare reports whether the placed collectible is the season's rare variant.
func (sp *SpawnPoint) Rare() bool { return sp.rare }

// Handle returns the world handle of the placed content.
func (sp *SpawnPoint) Handle() Handle { return sp.handle }

// Occupy places an item on the anchor.
func (sp *SpawnPoint) Occupy(kind Occupancy, variant string, rare bool) error {
	if kind == Empty {
		return fmt.Errorf("anchor %s: cannot place empty content", sp.Name)
	}
	if sp.occupancy != Empty {
		return fmt.Errorf("anchor %s holds %s: %w", sp.Name, sp.occupancy, ErrAnchorOccupied)
	}
	sp.occupancy = kind
	sp.variant = variant
	sp.rare = rare
	return nil
}

// Segment is one generated unit of track.
type Segment struct {
	ID      int    // Monotonic, never reused
	Palette int    // Index of the palette it was built from
	Variant string // Segment variant name
	Entry   core.Transform
	Exit    core.Transform
	Start   float64 // Distance along the track where the segment begins
	Length  float64
	Anchors []*SpawnPoint
	Handle  Handle

	Placement Placement
}

// End returns the track distance where the segment ends.
func (s *Segment) End() float64 {
	return s.Start + s.Length
}

// Contains reports whether track distance d lies on the segment.
func (s *Segment) Contains(d float64) bool {
	return d >= s.Start && d < s.End()
}

// CollectAnchors returns every obstacle-capable anchor of the segment in
// declaration order.
func CollectAnchors(seg *Segment) []*SpawnPoint {
	if seg == nil {
		return nil
	}
	return lo.Filter(seg.Anchors, func(sp *SpawnPoint, _ int) bool {
		return sp.Tag == TagObstacle
	})
}
