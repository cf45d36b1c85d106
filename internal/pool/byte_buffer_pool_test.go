package pool

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type errorWriter struct{}

func (errorWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(4)

	n, err := bb.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	_, _ = bb.Write([]byte{4, 5})
	require.Equal(t, []byte{1, 2, 3, 4, 5}, bb.Bytes())
	require.Equal(t, 5, bb.Len())

	bb.Reset()
	require.Zero(t, bb.Len())
	require.GreaterOrEqual(t, cap(bb.B), 5)
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte("spikes"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(6), n)
	require.Equal(t, "spikes", out.String())

	_, err = bb.WriteTo(errorWriter{})
	require.Error(t, err)
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(64)
		bb.Grow(32)
		require.Equal(t, 64, cap(bb.B))
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(8)
		_, _ = bb.Write([]byte{9, 9, 9})
		bb.Grow(100)
		require.Equal(t, 3+GrowStep, cap(bb.B))
		require.Equal(t, []byte{9, 9, 9}, bb.Bytes())
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		size := 8 * GrowStep
		bb := NewByteBuffer(size)
		bb.B = bb.B[:size]
		bb.Grow(1)
		require.Equal(t, size+size/4, cap(bb.B))
	})

	t.Run("request above growth step", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(3 * GrowStep)
		require.Equal(t, 3*GrowStep, cap(bb.B))
	})
}

func TestByteBufferPool_Reuse(t *testing.T) {
	p := NewByteBufferPool(16, 0)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Zero(t, bb.Len())
	_, _ = bb.Write([]byte("abc"))
	p.Put(bb)

	bb = p.Get()
	require.Zero(t, bb.Len())
	p.Put(nil)
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(16, 32)

	big := NewByteBuffer(64)
	_, _ = big.Write(make([]byte, 64))
	p.Put(big)
	require.Equal(t, 64, big.Len(), "oversized buffers are dropped untouched")

	small := NewByteBuffer(16)
	_, _ = small.Write([]byte{1})
	p.Put(small)
	require.Zero(t, small.Len())
}

func TestDefaultPools(t *testing.T) {
	payload := GetPayloadBuffer()
	require.Zero(t, payload.Len())
	require.GreaterOrEqual(t, cap(payload.B), 0)
	PutPayloadBuffer(payload)
}

func TestDefaultPools_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				bb := GetPayloadBuffer()
				_, _ = bb.Write([]byte("channel column"))
				PutPayloadBuffer(bb)
			}
		}()
	}
	wg.Wait()
}
