// Package spike defines the timed events produced by the TTFS encoder.
package spike

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// Spike is one event on one input channel, Delay milliseconds after the record
// presentation starts.
type Spike struct {
	Channel int
	Delay   float64
}

// MarshalJSON encodes the spike as a [channel, delay] pair.
func (s Spike) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{float64(s.Channel), s.Delay})
}

// UnmarshalJSON decodes a [channel, delay] pair.
func (s *Spike) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("spike: expected [channel, delay], got %d elements", len(pair))
	}
	if pair[0] < 0 || pair[0] != math.Trunc(pair[0]) {
		return fmt.Errorf("spike: invalid channel %v", pair[0])
	}

	s.Channel = int(pair[0])
	s.Delay = pair[1]

	return nil
}

// Train is the spike list of one record, ordered by ascending delay.
type Train []Spike

// Len returns the number of spikes.
func (t Train) Len() int {
	return len(t)
}

// SortByDelay orders t by ascending delay in place.
// The sort is stable: spikes with equal delays keep their relative order.
func SortByDelay(t Train) {
	slices.SortStableFunc(t, func(a, b Spike) int {
		return cmp.Compare(a.Delay, b.Delay)
	})
}

// IsSorted reports whether t is ordered by ascending delay.
func (t Train) IsSorted() bool {
	return slices.IsSortedFunc(t, func(a, b Spike) int {
		return cmp.Compare(a.Delay, b.Delay)
	})
}

// Channels returns the channel of every spike, in train order.
func (t Train) Channels() []int {
	out := make([]int, len(t))
	for i, s := range t {
		out[i] = s.Channel
	}

	return out
}

// Sparse splits t into parallel channel and delay columns.
func (t Train) Sparse() (channels []int32, delays []float32) {
	channels = make([]int32, len(t))
	delays = make([]float32, len(t))
	for i, s := range t {
		channels[i] = int32(s.Channel) //nolint:gosec
		delays[i] = float32(s.Delay)
	}

	return channels, delays
}

// Float32Pairs flattens t into a row-major N×2 float32 matrix of
// (channel, delay) rows.
func (t Train) Float32Pairs() []float32 {
	out := make([]float32, 0, 2*len(t))
	for _, s := range t {
		out = append(out, float32(s.Channel), float32(s.Delay))
	}

	return out
}

// Dense returns one slot per channel holding that channel's earliest spike time.
// Silent channels hold NaN. Spikes on channels outside [0, numNeurons) are ignored.
func (t Train) Dense(numNeurons int) []float32 {
	out := make([]float32, numNeurons)
	for i := range out {
		out[i] = float32(math.NaN())
	}

	for _, s := range t {
		if s.Channel < 0 || s.Channel >= numNeurons {
			continue
		}
		d := float32(s.Delay)
		if cur := out[s.Channel]; math.IsNaN(float64(cur)) || d < cur {
			out[s.Channel] = d
		}
	}

	return out
}

// Clone returns a copy of t.
func (t Train) Clone() Train {
	return slices.Clone(t)
}
