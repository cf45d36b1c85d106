package ranges

import (
	"iter"
	"maps"
	"slices"

	"github.com/arloliu/ttfs/internal/hash"
)

// DegenerateEpsilon is the smallest span (max - min) a feature range must have
// to be encoded. Narrower ranges, including inverted ones, never produce spikes.
const DegenerateEpsilon = 1e-9

// Range holds the observed bounds of one numeric feature.
type Range struct {
	Min float64
	Max float64
}

// Span returns Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// IsDegenerate reports whether the range is too narrow to normalize against.
// A NaN bound also counts as degenerate.
func (r Range) IsDegenerate() bool {
	return !(r.Span() >= DegenerateEpsilon)
}

// Registry is an immutable mapping from feature name to Range.
//
// Names are kept in lexicographic ascending order; that order is the feature
// index order used by the channel topology.
//
// A Registry is safe for concurrent use.
type Registry struct {
	ranges      map[string]Range
	names       []string
	fingerprint uint64
}

// New creates a Registry holding a copy of m.
func New(m map[string]Range) *Registry {
	cp := make(map[string]Range, len(m))
	maps.Copy(cp, m)

	names := slices.Sorted(maps.Keys(cp))

	fp := hash.NewFingerprint()
	for _, name := range names {
		r := cp[name]
		fp.Add(name, r.Min, r.Max)
	}

	return &Registry{
		ranges:      cp,
		names:       names,
		fingerprint: fp.Sum64(),
	}
}

// Len returns the number of registered features.
func (r *Registry) Len() int {
	return len(r.names)
}

// Names returns the feature names in lexicographic ascending order.
// The returned slice is a copy.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Get returns the range registered for name.
func (r *Registry) Get(name string) (Range, bool) {
	rng, ok := r.ranges[name]
	return rng, ok
}

// IsDegenerate reports whether name is registered with a degenerate range.
// Unknown names report false.
func (r *Registry) IsDegenerate(name string) bool {
	rng, ok := r.ranges[name]
	return ok && rng.IsDegenerate()
}

// Degenerate returns the sorted names of all features with degenerate ranges.
func (r *Registry) Degenerate() []string {
	var out []string
	for _, name := range r.names {
		if r.ranges[name].IsDegenerate() {
			out = append(out, name)
		}
	}

	return out
}

// All iterates the registry in feature index order.
func (r *Registry) All() iter.Seq2[string, Range] {
	return func(yield func(string, Range) bool) {
		for _, name := range r.names {
			if !yield(name, r.ranges[name]) {
				return
			}
		}
	}
}

// Map returns a copy of the underlying mapping.
func (r *Registry) Map() map[string]Range {
	return maps.Clone(r.ranges)
}

// Fingerprint returns an xxHash64 over the sorted names and their bounds.
// Two registries with equal fingerprints describe the same channel layout and scaling.
func (r *Registry) Fingerprint() uint64 {
	return r.fingerprint
}
