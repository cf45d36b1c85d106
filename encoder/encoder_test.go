package encoder

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/ttfs/errs"
	"github.com/arloliu/ttfs/ranges"
	"github.com/arloliu/ttfs/spike"
)

// seqSource replays a fixed sequence of draws and counts calls.
type seqSource struct {
	vals  []float64
	calls int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.calls%len(s.vals)]
	s.calls++

	return v
}

func noJitter() Option { return WithJitterFrac(0) }

func delays(train spike.Train) []float64 {
	out := make([]float64, len(train))
	for i, s := range train {
		out[i] = s.Delay
	}

	return out
}

func newTestEncoder(t *testing.T, m map[string]ranges.Range, opts ...Option) *Encoder {
	t.Helper()

	enc, err := New(ranges.New(m), opts...)
	require.NoError(t, err)

	return enc
}

func TestEncode_RingBasesAtMaxValue(t *testing.T) {
	enc := newTestEncoder(t, map[string]ranges.Range{"x": {Min: 0, Max: 10}},
		WithMaxDelay(20), WithRings(6), WithGamma(0.7), noJitter())

	train, err := enc.Encode(Record{"x": 10})
	require.NoError(t, err)
	require.Len(t, train, 6)

	want := []float64{0, 20.0 / 6, 40.0 / 6, 10, 80.0 / 6, 100.0 / 6}
	got := delays(train)
	for i := range want {
		require.InDelta(t, want[i], got[i], 1e-9, "spike %d", i)
	}
	require.Equal(t, []int{0, 1, 2, 3, 4, 5}, train.Channels())
}

func TestEncode_RingEndsAtMinValue(t *testing.T) {
	enc := newTestEncoder(t, map[string]ranges.Range{"x": {Min: 0, Max: 10}},
		WithMaxDelay(20), WithRings(6), WithGamma(0.7), noJitter())

	train, err := enc.Encode(Record{"x": 0})
	require.NoError(t, err)
	require.Len(t, train, 6)

	want := []float64{20.0 / 6, 40.0 / 6, 10, 80.0 / 6, 100.0 / 6, 20}
	got := delays(train)
	for i := range want {
		require.InDelta(t, want[i], got[i], 1e-9, "spike %d", i)
	}
	require.LessOrEqual(t, got[5], 20.0)
}

func TestEncode_DelayCurve(t *testing.T) {
	enc := newTestEncoder(t, map[string]ranges.Range{"x": {Min: 0, Max: 4}},
		WithMaxDelay(10), WithRings(2), WithGamma(0.5), noJitter())

	// norm = 0.25, norm^0.5 = 0.5 -> half a ring width past each base
	train, err := enc.Encode(Record{"x": 1})
	require.NoError(t, err)
	require.Len(t, train, 2)
	require.InDelta(t, 2.5, train[0].Delay, 1e-12)
	require.InDelta(t, 7.5, train[1].Delay, 1e-12)
}

func TestNew_Metadata(t *testing.T) {
	enc := newTestEncoder(t, map[string]ranges.Range{
		"Flow Duration": {Min: 0, Max: 8},
		"Bwd IAT Mean":  {Min: 0, Max: 6},
		"ACK Flag":      {Min: 1, Max: 1},
	}, WithRings(4))

	require.Equal(t, []string{"ACK Flag", "Bwd IAT Mean", "Flow Duration"}, enc.FeatureList())
	require.True(t, slices.IsSorted(enc.FeatureList()))
	require.Equal(t, 4*3, enc.NumNeurons())
	require.InDelta(t, DefaultMaxDelayMS/4, enc.RingWidth(), 1e-12)

	cfg := enc.Config()
	require.Equal(t, 4, cfg.NumRings)
	require.InDelta(t, DefaultGamma, cfg.Gamma, 0)
	require.InDelta(t, DefaultJitterFrac, cfg.JitterFrac, 0)
	require.Equal(t, DefaultSeed, cfg.Seed)
	require.False(t, cfg.SkipZeros)
}

func TestNew_InvalidConfig(t *testing.T) {
	reg := ranges.New(map[string]ranges.Range{"x": {Min: 0, Max: 1}})

	tests := []struct {
		name string
		opt  Option
	}{
		{"zero delay", WithMaxDelay(0)},
		{"negative delay", WithMaxDelay(-5)},
		{"inf delay", WithMaxDelay(math.Inf(1))},
		{"zero rings", WithRings(0)},
		{"zero gamma", WithGamma(0)},
		{"nan gamma", WithGamma(math.NaN())},
		{"negative jitter", WithJitterFrac(-0.1)},
		{"full jitter", WithJitterFrac(1)},
		{"nil rand source", WithRandSource(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(reg, tt.opt)
			require.ErrorIs(t, err, errs.ErrInvalidConfig)
		})
	}

	t.Run("nil registry", func(t *testing.T) {
		_, err := New(nil)
		require.ErrorIs(t, err, errs.ErrInvalidConfig)
	})
}

func TestEncode_Bounds(t *testing.T) {
	m := map[string]ranges.Range{
		"a": {Min: 0, Max: 1},
		"b": {Min: -3, Max: 3},
		"c": {Min: 100, Max: 1000},
		"d": {Min: 0, Max: 1e-3},
	}
	enc := newTestEncoder(t, m, WithJitterFrac(0.2), WithRings(5), WithMaxDelay(15))
	width := enc.RingWidth()
	topo := enc.Topology()

	r := rand.New(rand.NewPCG(7, 7))
	for range 200 {
		rec := Record{
			"a": r.Float64()*3 - 1,
			"b": r.NormFloat64() * 4,
			"c": r.Float64() * 1200,
			"d": r.Float64() * 2e-3,
		}
		train, err := enc.Encode(rec)
		require.NoError(t, err)
		require.Len(t, train, 4*5)
		require.True(t, train.IsSorted())

		for _, s := range train {
			require.GreaterOrEqual(t, s.Delay, 0.0)
			require.LessOrEqual(t, s.Delay, 15.0)

			_, ring, ok := topo.Split(s.Channel)
			require.True(t, ok)
			base := float64(ring) * width
			require.GreaterOrEqual(t, s.Delay, base)
			require.LessOrEqual(t, s.Delay, base+width)
		}
	}
}

func TestEncode_Monotonic(t *testing.T) {
	enc := newTestEncoder(t, map[string]ranges.Range{"x": {Min: -2, Max: 2}, "y": {Min: 0, Max: 1}}, noJitter())
	topo := enc.Topology()
	fx, _ := topo.FeatureIndex("x")

	delayByChannel := func(train spike.Train) map[int]float64 {
		out := make(map[int]float64, len(train))
		for _, s := range train {
			out[s.Channel] = s.Delay
		}

		return out
	}

	values := []float64{-3, -2, -1.5, -0.2, 0, 0.7, 1.9, 2, 5}
	var prev map[int]float64
	for _, v := range values {
		train, err := enc.Encode(Record{"x": v, "y": 0.5})
		require.NoError(t, err)

		cur := delayByChannel(train)
		if prev != nil {
			for _, ch := range topo.Channels(fx) {
				require.LessOrEqual(t, cur[ch], prev[ch], "value %v channel %d", v, ch)
			}
		}
		prev = cur
	}
}

func TestEncode_SaturatesOutOfRange(t *testing.T) {
	enc := newTestEncoder(t, map[string]ranges.Range{"x": {Min: 0, Max: 10}}, noJitter())

	hi, err := enc.Encode(Record{"x": 10})
	require.NoError(t, err)
	above, err := enc.Encode(Record{"x": 1e12})
	require.NoError(t, err)
	require.Equal(t, hi, above)

	lo, err := enc.Encode(Record{"x": 0})
	require.NoError(t, err)
	below, err := enc.Encode(Record{"x": -50})
	require.NoError(t, err)
	require.Equal(t, lo, below)

	inf, err := enc.Encode(Record{"x": math.Inf(1)})
	require.NoError(t, err)
	require.Equal(t, hi, inf)

	nan, err := enc.Encode(Record{"x": math.NaN()})
	require.NoError(t, err)
	require.Equal(t, lo, nan)
}

func TestEncode_DegenerateRange(t *testing.T) {
	enc := newTestEncoder(t, map[string]ranges.Range{
		"const":    {Min: 5, Max: 5},
		"inverted": {Min: 3, Max: 1},
		"tiny":     {Min: 0, Max: 1e-12},
		"x":        {Min: 0, Max: 1},
	})
	require.Equal(t, 4*DefaultNumRings, enc.NumNeurons())

	topo := enc.Topology()
	silent := make(map[int]struct{})
	for _, name := range []string{"const", "inverted", "tiny"} {
		f, ok := topo.FeatureIndex(name)
		require.True(t, ok)
		for _, ch := range topo.Channels(f) {
			silent[ch] = struct{}{}
		}
	}

	for _, v := range []float64{-1, 0, 0.5, 1, 5} {
		train, err := enc.Encode(Record{"const": v, "inverted": v, "tiny": v, "x": 0.5})
		require.NoError(t, err)
		require.Len(t, train, DefaultNumRings)
		for _, s := range train {
			_, isSilent := silent[s.Channel]
			require.False(t, isSilent, "degenerate channel %d fired", s.Channel)
		}
	}

	t.Run("degenerate feature may be absent", func(t *testing.T) {
		train, err := enc.Encode(Record{"x": 0.5})
		require.NoError(t, err)
		require.Len(t, train, DefaultNumRings)
	})
}

func TestEncode_SkipZeros(t *testing.T) {
	m := map[string]ranges.Range{"f": {Min: 0, Max: 10}, "g": {Min: 0, Max: 10}}
	rec := Record{"f": 1e-12, "g": 5}

	t.Run("enabled", func(t *testing.T) {
		enc := newTestEncoder(t, m, WithSkipZeros(true), noJitter())
		fIdx, _ := enc.Topology().FeatureIndex("f")

		train, err := enc.Encode(rec)
		require.NoError(t, err)
		require.Len(t, train, DefaultNumRings)
		for _, s := range train {
			f, _, _ := enc.Topology().Split(s.Channel)
			require.NotEqual(t, fIdx, f)
		}

		below, err := enc.Encode(Record{"f": -4, "g": 5})
		require.NoError(t, err)
		require.Len(t, below, DefaultNumRings)
	})

	t.Run("disabled", func(t *testing.T) {
		enc := newTestEncoder(t, m, noJitter())
		fIdx, _ := enc.Topology().FeatureIndex("f")
		width := enc.RingWidth()

		train, err := enc.Encode(rec)
		require.NoError(t, err)
		require.Len(t, train, 2*DefaultNumRings)

		n := 0
		for _, s := range train {
			f, ring, _ := enc.Topology().Split(s.Channel)
			if f != fIdx {
				continue
			}
			n++
			require.InDelta(t, float64(ring+1)*width, s.Delay, 1e-6)
		}
		require.Equal(t, DefaultNumRings, n)
	})
}

func TestEncode_EmptyRegistry(t *testing.T) {
	enc := newTestEncoder(t, nil)

	require.Zero(t, enc.NumNeurons())
	train, err := enc.Encode(Record{"anything": 1})
	require.NoError(t, err)
	require.Empty(t, train)
}

func TestEncode_MissingFeature(t *testing.T) {
	src := &seqSource{vals: []float64{0.1, 0.9, 0.5}}
	enc := newTestEncoder(t, map[string]ranges.Range{"a": {Min: 0, Max: 1}, "b": {Min: 0, Max: 1}}, WithRandSource(src))

	_, err := enc.Encode(Record{"a": 0.5})
	require.ErrorIs(t, err, errs.ErrMissingFeature)

	var mf *errs.MissingFeatureError
	require.True(t, errors.As(err, &mf))
	require.Equal(t, "b", mf.Feature)
	require.Zero(t, src.calls, "failed record must not consume jitter draws")

	_, err = enc.Encode(Record{"a": 0.5, "b": 0.5})
	require.NoError(t, err)
	require.Equal(t, 2*DefaultNumRings, src.calls)
}

func TestEncode_JitterStub(t *testing.T) {
	// u=1 -> +jitter, u=0 -> -jitter, u=0.5 -> 0
	src := &seqSource{vals: []float64{0.75, 0.25}}
	enc := newTestEncoder(t, map[string]ranges.Range{"x": {Min: 0, Max: 1}},
		WithMaxDelay(10), WithRings(2), WithGamma(1), WithJitterFrac(0.1), WithRandSource(src))

	train, err := enc.Encode(Record{"x": 0.5})
	require.NoError(t, err)
	require.Len(t, train, 2)

	// width 5, offset 2.5; ring 0: +0.25, ring 1: -0.25
	require.InDelta(t, 2.75, train[0].Delay, 1e-12)
	require.InDelta(t, 7.25, train[1].Delay, 1e-12)
}

func TestEncode_JitterClippedToRing(t *testing.T) {
	src := &seqSource{vals: []float64{0.999999, 0.0}}
	enc := newTestEncoder(t, map[string]ranges.Range{"x": {Min: 0, Max: 1}},
		WithMaxDelay(10), WithRings(2), WithGamma(1), WithJitterFrac(0.9), WithRandSource(src))

	// width 5, jitter half-width 4.5
	late, err := enc.Encode(Record{"x": 0})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, late.Channels())
	require.InDelta(t, 5.0, late[0].Delay, 1e-12) // 5 + ~4.5 clipped to ring 0 end
	require.InDelta(t, 5.5, late[1].Delay, 1e-12) // 10 - 4.5

	early, err := enc.Encode(Record{"x": 1})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, early.Channels())
	require.InDelta(t, 4.499991, early[0].Delay, 1e-9)
	require.InDelta(t, 5.0, early[1].Delay, 1e-12) // 5 - 4.5 clipped to ring 1 start
}

func TestEncode_StableTies(t *testing.T) {
	enc := newTestEncoder(t, map[string]ranges.Range{"a": {Min: 0, Max: 1}, "b": {Min: 0, Max: 2}, "c": {Min: 0, Max: 4}},
		WithRings(2), noJitter())

	// identical normalized values -> identical delays per ring
	train, err := enc.Encode(Record{"a": 0.5, "b": 1, "c": 2})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5}, train.Channels())
}

func TestEncode_DeterministicSequence(t *testing.T) {
	m := map[string]ranges.Range{"x": {Min: 0, Max: 10}, "y": {Min: -1, Max: 1}}
	recs := []Record{{"x": 1, "y": 0}, {"x": 7, "y": 0.3}, {"x": 4, "y": -0.9}}

	run := func() []spike.Train {
		enc := newTestEncoder(t, m, WithSeed(99), WithJitterFrac(0.05))
		out := make([]spike.Train, 0, len(recs))
		for _, rec := range recs {
			train, err := enc.Encode(rec)
			require.NoError(t, err)
			out = append(out, train)
		}

		return out
	}

	first := run()
	require.Equal(t, first, run())

	// the stream advances: the same record encoded twice differs
	enc := newTestEncoder(t, m, WithSeed(99), WithJitterFrac(0.05))
	a, err := enc.Encode(recs[0])
	require.NoError(t, err)
	b, err := enc.Encode(recs[0])
	require.NoError(t, err)
	require.NotEqual(t, delays(a), delays(b))
}

func TestEncodeVector(t *testing.T) {
	m := map[string]ranges.Range{"b": {Min: 0, Max: 10}, "a": {Min: 0, Max: 1}}
	byName := newTestEncoder(t, m, WithSeed(3))
	byPos := newTestEncoder(t, m, WithSeed(3))

	want, err := byName.Encode(Record{"a": 0.2, "b": 7})
	require.NoError(t, err)
	got, err := byPos.EncodeVector([]float64{0.2, 7})
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = byPos.EncodeVector([]float64{1})
	require.ErrorIs(t, err, errs.ErrVectorLength)
}

func TestEncode_Concurrent(t *testing.T) {
	enc := newTestEncoder(t, map[string]ranges.Range{"x": {Min: 0, Max: 1}, "y": {Min: 0, Max: 1}}, WithJitterFrac(0.1))

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				train, err := enc.Encode(Record{"x": float64(i) / 100, "y": float64(g) / 8})
				if err != nil || len(train) != 2*DefaultNumRings || !train.IsSorted() {
					t.Errorf("unexpected result: %v len=%d", err, len(train))
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSharedRandSource(t *testing.T) {
	shared := NewSharedRandSource(NewRandSource(1))
	m := map[string]ranges.Range{"x": {Min: 0, Max: 1}}

	a := newTestEncoder(t, m, WithRandSource(shared))
	b := newTestEncoder(t, m, WithRandSource(shared))

	ta, err := a.Encode(Record{"x": 0.5})
	require.NoError(t, err)
	tb, err := b.Encode(Record{"x": 0.5})
	require.NoError(t, err)
	require.NotEqual(t, delays(ta), delays(tb))
}

func TestNew_LogsDegenerateFeatures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, err := New(ranges.New(map[string]ranges.Range{"flat": {Min: 1, Max: 1}, "x": {Min: 0, Max: 1}}),
		WithLogger(zap.New(core)))
	require.NoError(t, err)

	require.Equal(t, 1, logs.FilterMessage("ttfs encoder built").Len())
	warn := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warn, 1)
	require.Equal(t, []any{"flat"}, warn[0].ContextMap()["features"])
}
