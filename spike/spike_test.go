package spike

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSortByDelay_Stable(t *testing.T) {
	train := Train{
		{Channel: 4, Delay: 3.0},
		{Channel: 0, Delay: 1.0},
		{Channel: 7, Delay: 3.0},
		{Channel: 2, Delay: 1.0},
		{Channel: 1, Delay: 0.5},
	}
	require.False(t, train.IsSorted())

	SortByDelay(train)

	require.True(t, train.IsSorted())
	require.Equal(t, []int{1, 0, 2, 4, 7}, train.Channels())
}

func TestTrain_Empty(t *testing.T) {
	var train Train

	require.Zero(t, train.Len())
	require.True(t, train.IsSorted())
	require.Empty(t, train.Channels())
	require.Empty(t, train.Float32Pairs())

	ch, d := train.Sparse()
	require.Empty(t, ch)
	require.Empty(t, d)
}

func TestTrain_Sparse(t *testing.T) {
	train := Train{{Channel: 3, Delay: 0.25}, {Channel: 1, Delay: 2.5}}

	ch, d := train.Sparse()
	require.Equal(t, []int32{3, 1}, ch)
	require.Equal(t, []float32{0.25, 2.5}, d)
	require.Equal(t, []float32{3, 0.25, 1, 2.5}, train.Float32Pairs())
}

func TestTrain_Dense(t *testing.T) {
	train := Train{
		{Channel: 2, Delay: 1.5},
		{Channel: 0, Delay: 4},
		{Channel: 2, Delay: 1.0},
		{Channel: 9, Delay: 0.1},
	}

	dense := train.Dense(4)
	require.Len(t, dense, 4)
	require.InDelta(t, 4.0, dense[0], 1e-6)
	require.True(t, math.IsNaN(float64(dense[1])))
	require.InDelta(t, 1.0, dense[2], 1e-6)
	require.True(t, math.IsNaN(float64(dense[3])))
}

func TestSpike_JSON(t *testing.T) {
	train := Train{{Channel: 5, Delay: 3.25}, {Channel: 0, Delay: 0}}

	data, err := json.Marshal(train)
	require.NoError(t, err)
	require.JSONEq(t, `[[5, 3.25], [0, 0]]`, string(data))

	var back Train
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, train, back)
}

func TestSpike_UnmarshalJSONErrors(t *testing.T) {
	for _, doc := range []string{`[1]`, `[1, 2, 3]`, `[-1, 2]`, `[1.5, 2]`, `{"c": 1}`} {
		var s Spike
		require.Error(t, json.Unmarshal([]byte(doc), &s), doc)
	}
}

func TestTrain_Clone(t *testing.T) {
	train := Train{{Channel: 1, Delay: 1}}
	cp := train.Clone()
	cp[0].Delay = 9

	require.InDelta(t, 1.0, train[0].Delay, 0)
}
