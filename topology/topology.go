// Package topology maps (feature index, ring index) pairs to flat channel ids.
//
// Features are indexed by lexicographic order of their names. The channel of
// feature f on ring r is
//
//	channel = r*FeatureCount + f
//
// so all features of ring 0 come first, then ring 1, and so on. Consumers that
// map channel ids back to features must reproduce this layout exactly.
package topology

import (
	"fmt"
	"slices"
)

// Topology is an immutable channel layout. It is safe for concurrent use.
type Topology struct {
	features []string
	index    map[string]int
	rings    int
}

// New builds a topology over the given feature names and ring count.
// Names are sorted; duplicates are rejected.
func New(features []string, rings int) (*Topology, error) {
	if rings < 1 {
		return nil, fmt.Errorf("ring count must be positive, got %d", rings)
	}

	sorted := slices.Clone(features)
	slices.Sort(sorted)

	index := make(map[string]int, len(sorted))
	for i, name := range sorted {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate feature %q", name)
		}
		index[name] = i
	}

	return &Topology{features: sorted, index: index, rings: rings}, nil
}

// FeatureCount returns the number of features.
func (t *Topology) FeatureCount() int {
	return len(t.features)
}

// RingCount returns the number of delay rings per feature.
func (t *Topology) RingCount() int {
	return t.rings
}

// NumChannels returns RingCount * FeatureCount.
func (t *Topology) NumChannels() int {
	return t.rings * len(t.features)
}

// Features returns a copy of the sorted feature names.
func (t *Topology) Features() []string {
	return slices.Clone(t.features)
}

// Feature returns the name at feature index i.
func (t *Topology) Feature(i int) (string, bool) {
	if i < 0 || i >= len(t.features) {
		return "", false
	}

	return t.features[i], true
}

// FeatureIndex returns the feature index of name.
func (t *Topology) FeatureIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Channel returns the channel id of feature index f on ring r.
// It does not range-check its arguments.
func (t *Topology) Channel(f, r int) int {
	return r*len(t.features) + f
}

// Split inverts Channel. ok is false when ch is outside [0, NumChannels).
func (t *Topology) Split(ch int) (f, r int, ok bool) {
	n := len(t.features)
	if n == 0 || ch < 0 || ch >= t.rings*n {
		return 0, 0, false
	}

	return ch % n, ch / n, true
}

// Channels returns the channel ids of feature index f, ordered by ring.
func (t *Topology) Channels(f int) []int {
	if f < 0 || f >= len(t.features) {
		return nil
	}

	out := make([]int, t.rings)
	for r := range t.rings {
		out[r] = t.Channel(f, r)
	}

	return out
}

// Describe returns the feature name and ring of ch.
func (t *Topology) Describe(ch int) (feature string, ring int, ok bool) {
	f, r, ok := t.Split(ch)
	if !ok {
		return "", 0, false
	}

	return t.features[f], r, true
}
