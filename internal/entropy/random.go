// Package entropy provides the single seeded random source shared by the model,
// the spawner and every agent. All stochastic decisions draw from one Source so
// a run is fully reproducible from its seed.
package entropy

import (
	"math/rand"
)

// Source wraps a seeded math/rand generator with the draws the simulation needs.
type Source struct {
	rng  *rand.Rand
	seed int64
}

// New creates a Source seeded with seed.
func New(seed int64) *Source {
	return &Source{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() int64 {
	return s.seed
}

// Float returns a uniform float64 in [0, 1).
func (s *Source) Float() float64 {
	return s.rng.Float64()
}

// Int63 returns a non-negative int64, used to derive seeds for sub-generators.
func (s *Source) Int63() int64 {
	return s.rng.Int63()
}

// Intn returns a uniform int in [0, n). Panics if n <= 0, like rand.Intn.
func (s *Source) Intn(n int) int {
	return s.rng.Intn(n)
}

// IntRange returns a uniform int in [lo, hi], both ends inclusive.
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Shuffle permutes n elements using swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

// WeightedIndex draws an index with probability proportional to its weight.
// Weights need not sum to 1. Non-positive weights are never chosen. Returns -1
// when no weight is positive.
func (s *Source) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}

	r := s.rng.Float64() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if r < w {
			return i
		}
		r -= w
		last = i
	}
	// Float rounding can leave r just above the final weight.
	return last
}

// Pick returns a uniformly chosen element of items. The zero value and false
// are returned for an empty slice.
func Pick[T any](s *Source, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[s.rng.Intn(len(items))], true
}
