package track

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/vovakirdan/season-runner/internal/core"
)

// VariantPicker chooses which segment variant of a palette comes next.
// It samples 1-D Perlin noise along the segment sequence so consecutive
// segments drift between shapes instead of flickering.
type VariantPicker struct {
	noise *perlin.Perlin
	scale float64
}

// NewVariantPicker creates a picker for the given seed. scale is the noise
// step between consecutive segments; <= 0 uses 0.35.
func NewVariantPicker(seed int64, scale float64) *VariantPicker {
	if scale <= 0 {
		scale = 0.35
	}
	// alpha=2, beta=2, n=3 gives smooth noise
	return &VariantPicker{
		noise: perlin.NewPerlin(2, 2, 3, seed),
		scale: scale,
	}
}

// Pick returns an index into a list of n variants for the seq-th segment.
func (vp *VariantPicker) Pick(seq, n int) int {
	if n <= 1 {
		return 0
	}
	// For these parameters Noise1D mostly stays within [-0.5, 0.5].
	// The offset avoids the zero at integer lattice points.
	v := vp.noise.Noise1D(float64(seq)*vp.scale + 0.5)
	t := core.ClampF(v+0.5, 0, 1)
	return core.Clamp(int(math.Floor(t*float64(n))), 0, n-1)
}
