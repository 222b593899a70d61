// Package rng provides the deterministic random source shared by dice.
package rng

import (
	"math/rand"
	"sort"
	"time"
)

// Source produces uniform floats in [0, 1).
type Source interface {
	Float64() float64
}

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every draw, enabling save/restore.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// New creates a new deterministic RNG from a seed.
func New(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// NewTimeSeeded creates an RNG seeded from the wall clock.
func NewTimeSeeded() *RNG {
	return New(time.Now().UnixNano())
}

// Float64 returns a uniform float in [0, 1).
func (r *RNG) Float64() float64 {
	r.pos++
	return r.src.Float64()
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// Restore creates an RNG and advances it to the given position.
// This reproduces the exact stream for save/load.
func Restore(seed int64, position int64) *RNG {
	r := New(seed)
	r.Reset(seed, position)
	return r
}

// Reset reseeds r in place and advances it to position. Dice holding r
// keep drawing from it.
func (r *RNG) Reset(seed int64, position int64) {
	r.seed = seed
	r.src = rand.New(rand.NewSource(seed))
	for i := int64(0); i < position; i++ {
		r.src.Float64()
	}
	r.pos = position
}

// Pick draws one index from a cumulative distribution. cdf must be
// non-decreasing with a positive final value.
func Pick(src Source, cdf []float64) int {
	target := src.Float64() * cdf[len(cdf)-1]
	i := sort.SearchFloat64s(cdf, target)
	// SearchFloat64s returns the first index with cdf[i] >= target; a draw
	// landing exactly on a boundary belongs to the next bucket.
	for i < len(cdf)-1 && cdf[i] <= target {
		i++
	}
	return i
}
