package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFloat64Slice(t *testing.T) {
	s, cleanup := GetFloat64Slice(8)
	require.Len(t, s, 8)
	for i := range s {
		s[i] = float64(i) + 0.5
	}
	cleanup()

	s, cleanup = GetFloat64Slice(4)
	defer cleanup()
	require.Len(t, s, 4)
	for _, v := range s {
		require.Zero(t, v)
	}
}

func TestGetFloat64Slice_Grows(t *testing.T) {
	s, cleanup := GetFloat64Slice(2)
	cleanup()

	s, cleanup = GetFloat64Slice(1024)
	defer cleanup()
	require.Len(t, s, 1024)
	require.GreaterOrEqual(t, cap(s), 1024)
}

func TestGetFloat64Slice_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for g := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				s, cleanup := GetFloat64Slice(g + 1)
				for i := range s {
					s[i] = float64(g)
				}
				cleanup()
			}
		}()
	}
	wg.Wait()
}
