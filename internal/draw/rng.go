package draw

import "math/rand/v2"

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// IntN returns a non-negative random int in [0, n).
	IntN(n int) int

	// Float64 returns a random float in [0, 1).
	Float64() float64
}

// stdRNG delegates to the auto-seeded math/rand/v2 source.
type stdRNG struct{}

func (stdRNG) IntN(n int) int   { return rand.IntN(n) }
func (stdRNG) Float64() float64 { return rand.Float64() }

// NewRNG returns a non-reproducible RNG.
func NewRNG() RNG {
	return stdRNG{}
}

// NewSeededRNG returns a reproducible RNG for the given seed.
func NewSeededRNG(seed uint64) RNG {
	return rand.New(rand.NewPCG(seed, 0))
}
