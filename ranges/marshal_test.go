package ranges

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ttfs/errs"
)

func sampleRegistry() *Registry {
	return New(map[string]Range{
		"Flow Duration": {Min: 0, Max: 8.08},
		"Fwd IAT Mean":  {Min: -1.5, Max: 3},
		"true":          {Min: 1e-7, Max: 1e12},
		"Bwd PSH Flags": {Min: 0, Max: 0},
	})
}

func TestMarshal_RoundTrip(t *testing.T) {
	reg := sampleRegistry()

	for _, kind := range []Kind{KindJSON, KindYAML} {
		t.Run(kind.String(), func(t *testing.T) {
			data, err := Marshal(reg, kind)
			require.NoError(t, err)

			got, err := Parse(data, kind)
			require.NoError(t, err)
			require.Equal(t, reg.Map(), got.Map())
			require.Equal(t, reg.Fingerprint(), got.Fingerprint())
		})
	}
}

func TestMarshal_YAMLLayout(t *testing.T) {
	reg := New(map[string]Range{
		"b": {Min: 0, Max: 2.5},
		"a": {Min: -1, Max: 1},
	})

	data, err := Marshal(reg, KindYAML)
	require.NoError(t, err)
	require.Equal(t, "a: [-1, 1]\nb: [0, 2.5]\n", string(data))
}

func TestMarshal_JSONLayout(t *testing.T) {
	reg := New(map[string]Range{"a": {Min: -1, Max: 1}})

	data, err := Marshal(reg, KindJSON)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"a\": [-1, 1]\n}\n", string(data))

	data, err = Marshal(New(nil), KindJSON)
	require.NoError(t, err)
	require.Equal(t, "{}\n", string(data))
}

func TestMarshal_NonFinite(t *testing.T) {
	reg := New(map[string]Range{"x": {Min: math.Inf(-1), Max: math.Inf(1)}})

	_, err := Marshal(reg, KindJSON)
	require.True(t, errors.Is(err, errs.ErrInvalidFormat))

	data, err := Marshal(reg, KindYAML)
	require.NoError(t, err)

	got, err := Parse(data, KindYAML)
	require.NoError(t, err)
	rng, _ := got.Get("x")
	require.True(t, math.IsInf(rng.Min, -1))
	require.True(t, math.IsInf(rng.Max, 1))
}

func TestMarshal_UnknownKind(t *testing.T) {
	_, err := Marshal(sampleRegistry(), Kind(9))
	require.ErrorIs(t, err, errs.ErrInvalidFormat)
}
