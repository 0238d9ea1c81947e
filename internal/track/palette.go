package track

import (
	"github.com/vovakirdan/season-runner/internal/config"
	"github.com/vovakirdan/season-runner/internal/core"
)

// AnchorSpec is an anchor in a segment variant's local frame.
type AnchorSpec struct {
	Name     string
	Tag      string
	Position core.Vec3
}

// SegmentVariant is one geometry option of a palette. The entry sits at
// the local origin; Exit is where the next segment attaches.
type SegmentVariant struct {
	Name    string
	Exit    core.Transform
	Anchors []AnchorSpec
}

// Length is the straight-line distance from entry to exit.
func (v SegmentVariant) Length() float64 {
	return v.Exit.Position.Len()
}

// Environment is the ambient look applied when a season starts.
type Environment struct {
	Skybox  string
	Ambient string
	Fog     float64
}

// BGM references a palette's music channel.
type BGM struct {
	Channel string
	Volume  float64
}

// Palette is the immutable bundle of season-specific content.
type Palette struct {
	Index           int
	Name            string
	Color           core.Color
	Segments        []SegmentVariant
	Obstacles       []string
	RareCollectible string
	Environment     Environment
	BGM             BGM
}

// NewPalettes builds one palette per season. Threshold ordering, palette
// count and empty obstacle groups are rejected with a config.ConfigurationError.
func NewPalettes(cfg config.SeasonsConfig) ([]*Palette, error) {
	if err := config.ValidateSeasons(cfg); err != nil {
		return nil, err
	}

	palettes := make([]*Palette, len(cfg.Palettes))
	for i, pc := range cfg.Palettes {
		p := &Palette{
			Index:           i,
			Name:            pc.Name,
			Color:           core.ColorByName(pc.Color),
			Obstacles:       append([]string(nil), pc.Obstacles...),
			RareCollectible: pc.RareCollectible,
			Environment: Environment{
				Skybox:  pc.Environment.Skybox,
				Ambient: pc.Environment.Ambient,
				Fog:     pc.Environment.Fog,
			},
			BGM: BGM{Channel: pc.BGM.Channel, Volume: pc.BGM.Volume},
		}
		for _, sc := range pc.Segments {
			v := SegmentVariant{
				Name: sc.Name,
				Exit: core.NewTransform(sc.Exit.Vec(), sc.ExitYaw),
			}
			for _, a := range sc.Anchors {
				v.Anchors = append(v.Anchors, AnchorSpec{Name: a.Name, Tag: a.Tag, Position: a.Position.Vec()})
			}
			p.Segments = append(p.Segments, v)
		}
		palettes[i] = p
	}
	return palettes, nil
}
