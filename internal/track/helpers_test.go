package track

import (
	"fmt"

	"github.com/vovakirdan/season-runner/internal/config"
	"github.com/vovakirdan/season-runner/internal/core"
	"gopkg.in/yaml.v3"
)

// scriptedRandom returns queued values, falling back to zero when empty.
type scriptedRandom struct {
	ints   []int
	floats []float64
}

func (r *scriptedRandom) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRandom) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

type contentCall struct {
	kind    Occupancy
	variant string
	parent  Handle
}

type recordingWorld struct {
	next     Handle
	segments []core.Transform
	content  []contentCall
	released []Handle
}

func (w *recordingWorld) InstantiateSegment(_ SegmentVariant, _ *Palette, at core.Transform) Handle {
	w.next++
	w.segments = append(w.segments, at)
	return w.next
}

func (w *recordingWorld) InstantiateContent(kind Occupancy, variant string, _ core.Transform, parent Handle) Handle {
	w.next++
	w.content = append(w.content, contentCall{kind: kind, variant: variant, parent: parent})
	return w.next
}

func (w *recordingWorld) ReleaseSegment(h Handle) {
	w.released = append(w.released, h)
}

// segmentWithAnchors builds a standalone segment with n obstacle anchors and
// one decor anchor.
func segmentWithAnchors(n int) *Segment {
	seg := &Segment{ID: 7, Handle: 99}
	for i := 0; i < n; i++ {
		seg.Anchors = append(seg.Anchors, &SpawnPoint{
			Name:  fmt.Sprintf("a%d", i),
			Tag:   TagObstacle,
			Local: core.V3(float64(i), 0, 0),
			World: core.NewTransform(core.V3(float64(i), 0, 0), 0),
		})
	}
	seg.Anchors = append(seg.Anchors, &SpawnPoint{Name: "decor", Tag: "decor"})
	return seg
}

func testPalette() *Palette {
	return &Palette{
		Index:           1,
		Name:            "summer",
		Obstacles:       []string{"sandcastle", "parasol"},
		RareCollectible: "seashell",
		Segments: []SegmentVariant{{
			Name: "straight",
			Exit: core.NewTransform(core.V3(0, 0, 10), 0),
			Anchors: []AnchorSpec{
				{Name: "l", Tag: TagObstacle, Position: core.V3(-2, 0, 5)},
				{Name: "m", Tag: TagObstacle, Position: core.V3(0, 0, 5)},
				{Name: "r", Tag: TagObstacle, Position: core.V3(2, 0, 5)},
			},
		}},
	}
}

func testAllocatorConfig() AllocatorConfig {
	return AllocatorConfig{
		RareChance:         0.1,
		RareCooldown:       10,
		PowerupChance:      0.3,
		PowerupCooldown:    3,
		DefaultCollectible: "coin",
		Powerups:           []string{"magnet", "shield"},
		CounterWrap:        10,
	}
}

// embeddedConfig parses the shipped defaults, which have several segment
// shapes per season.
func embeddedConfig() config.Config {
	var cfg config.Config
	if err := yaml.Unmarshal(config.DefaultYAML(), &cfg); err != nil {
		panic(err)
	}
	return cfg
}

func embeddedPalettes() []*Palette {
	pals, err := NewPalettes(embeddedConfig().Seasons)
	if err != nil {
		panic(err)
	}
	return pals
}
