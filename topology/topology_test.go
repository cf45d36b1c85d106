package topology

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("sorts features", func(t *testing.T) {
		topo, err := New([]string{"y", "x", "Z"}, 6)
		require.NoError(t, err)
		require.Equal(t, []string{"Z", "x", "y"}, topo.Features())
		require.Equal(t, 3, topo.FeatureCount())
		require.Equal(t, 6, topo.RingCount())
		require.Equal(t, 18, topo.NumChannels())
	})

	t.Run("does not alias input", func(t *testing.T) {
		in := []string{"b", "a"}
		topo, err := New(in, 1)
		require.NoError(t, err)
		require.Equal(t, []string{"b", "a"}, in)

		out := topo.Features()
		out[0] = "mutated"
		require.Equal(t, []string{"a", "b"}, topo.Features())
	})

	t.Run("rejects bad ring count", func(t *testing.T) {
		_, err := New([]string{"a"}, 0)
		require.Error(t, err)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := New([]string{"a", "b", "a"}, 2)
		require.ErrorContains(t, err, `duplicate feature "a"`)
	})

	t.Run("empty", func(t *testing.T) {
		topo, err := New(nil, 4)
		require.NoError(t, err)
		require.Zero(t, topo.NumChannels())
		_, _, ok := topo.Split(0)
		require.False(t, ok)
	})
}

func TestChannelLayout(t *testing.T) {
	topo, err := New([]string{"c", "a", "b"}, 4)
	require.NoError(t, err)

	// ring-major: every feature of ring 0, then ring 1, ...
	require.Equal(t, 0, topo.Channel(0, 0))
	require.Equal(t, 2, topo.Channel(2, 0))
	require.Equal(t, 3, topo.Channel(0, 1))
	require.Equal(t, 11, topo.Channel(2, 3))
	require.Equal(t, []int{1, 4, 7, 10}, topo.Channels(1))
	require.Nil(t, topo.Channels(3))
}

func TestRoundTrip(t *testing.T) {
	names := []string{"Flow Duration", "Bwd IAT Mean", "Fwd PSH Flags", "ACK Flag Count", "Idle Max"}
	topo, err := New(names, 6)
	require.NoError(t, err)

	for i, name := range topo.Features() {
		idx, ok := topo.FeatureIndex(name)
		require.True(t, ok)
		require.Equal(t, i, idx)

		got, ok := topo.Feature(idx)
		require.True(t, ok)
		require.Equal(t, name, got)
	}

	seen := make(map[int]struct{}, topo.NumChannels())
	for f := range topo.FeatureCount() {
		for r := range topo.RingCount() {
			ch := topo.Channel(f, r)
			require.GreaterOrEqual(t, ch, 0)
			require.Less(t, ch, topo.NumChannels())

			gf, gr, ok := topo.Split(ch)
			require.True(t, ok)
			require.Equal(t, f, gf)
			require.Equal(t, r, gr)

			_, dup := seen[ch]
			require.False(t, dup, "channel %d assigned twice", ch)
			seen[ch] = struct{}{}
		}
	}
	require.Len(t, seen, topo.NumChannels())
}

func TestSplit_OutOfRange(t *testing.T) {
	topo, err := New([]string{"a", "b"}, 3)
	require.NoError(t, err)

	for _, ch := range []int{-1, 6, 100} {
		_, _, ok := topo.Split(ch)
		require.False(t, ok, "channel %d", ch)
	}

	_, ok := topo.Feature(2)
	require.False(t, ok)
	_, ok = topo.FeatureIndex("c")
	require.False(t, ok)
}

func TestDescribe(t *testing.T) {
	topo, err := New([]string{"x", "y"}, 3)
	require.NoError(t, err)

	name, ring, ok := topo.Describe(5)
	require.True(t, ok)
	require.Equal(t, "y", name)
	require.Equal(t, 2, ring)

	_, _, ok = topo.Describe(6)
	require.False(t, ok)
}
