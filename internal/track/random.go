package track

import "math/rand"

// Random is the source of randomness for content allocation. Tests inject
// scripted implementations.
type Random interface {
	Intn(n int) int
	Float64() float64
}

// NewRandom returns a seeded Random backed by math/rand.
func NewRandom(seed int64) Random {
	return rand.New(rand.NewSource(seed))
}
