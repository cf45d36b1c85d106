package encoder

import (
	"math/rand/v2"
	"sync"
)

// RandSource yields uniform values in [0, 1).
//
// *rand.Rand from math/rand/v2 satisfies it. Implementations need not be safe
// for concurrent use; the Encoder serializes calls.
type RandSource interface {
	Float64() float64
}

// NewRandSource returns the default deterministic jitter source for seed.
func NewRandSource(seed int64) RandSource {
	return rand.New(rand.NewPCG(uint64(seed), 0)) //nolint:gosec
}

// SharedRandSource wraps a RandSource with its own lock so that it can be
// handed to several encoders that may encode concurrently.
type SharedRandSource struct {
	mu  sync.Mutex
	src RandSource
}

// NewSharedRandSource wraps src.
func NewSharedRandSource(src RandSource) *SharedRandSource {
	return &SharedRandSource{src: src}
}

// Float64 implements RandSource.
func (s *SharedRandSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.src.Float64()
}

// uniform maps u in [0, 1) onto [-halfWidth, halfWidth).
func uniform(u, halfWidth float64) float64 {
	return (2*u - 1) * halfWidth
}
