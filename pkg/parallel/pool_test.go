package parallel

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelForVisitsEveryIndexExactlyOnce(t *testing.T) {
	p := New(4)
	var mu sync.Mutex
	seen := map[int]int{}

	err := ParallelFor(context.Background(), p, 0, 97, 7, func(i int) error {
		mu.Lock()
		seen[i]++
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 97)
	for i := 0; i < 97; i++ {
		assert.Equal(t, 1, seen[i], "index %d", i)
	}
}

func TestParallelForPropagatesFirstError(t *testing.T) {
	p := New(2)
	sentinel := errors.New("boom")
	err := ParallelFor(context.Background(), p, 0, 10, 1, func(i int) error {
		if i == 5 {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestTiles2DCoversGridWithoutOverlap(t *testing.T) {
	tiles := Tiles2D(37, 21, 16)
	covered := make([][]bool, 21)
	for y := range covered {
		covered[y] = make([]bool, 37)
	}
	for _, tile := range tiles {
		for y := tile.Y0; y < tile.Y1; y++ {
			for x := tile.X0; x < tile.X1; x++ {
				require.False(t, covered[y][x], "pixel (%d,%d) covered twice", x, y)
				covered[y][x] = true
			}
		}
	}
	for y := range covered {
		for x := range covered[y] {
			assert.True(t, covered[y][x], "pixel (%d,%d) never covered", x, y)
		}
	}
}

func TestTiles2DIndicesAreStableScanOrder(t *testing.T) {
	tiles := Tiles2D(33, 33, 16)
	indices := make([]int, len(tiles))
	for i, tile := range tiles {
		indices[i] = tile.Index
	}
	assert.True(t, sort.IntsAreSorted(indices))
}

// TestParallelFor2DIsDeterministicAcrossRuns is the spec's testable
// property 7 (parallel determinism), applied at the scheduler level: a
// computation keyed purely by tile index/pixel coordinates — never by
// completion order — must produce the same accumulated result regardless
// of how goroutines interleave. pkg/renderer's per-tile closure clones the
// sampler and starts each pixel's sample with StartPixelSample at (x, y), so
// the result is a pure function of pixel coordinates; this test exercises the
// same shape directly against the scheduler.
func TestParallelFor2DIsDeterministicAcrossRuns(t *testing.T) {
	const width, height, tileSize = 64, 48, 16

	render := func() []int {
		result := make([]int32, width*height)
		p := New(8)
		err := ParallelFor2D(context.Background(), p, width, height, tileSize, func(tile Tile2D) error {
			for y := tile.Y0; y < tile.Y1; y++ {
				for x := tile.X0; x < tile.X1; x++ {
					atomic.StoreInt32(&result[y*width+x], int32(y*width+x))
				}
			}
			return nil
		})
		require.NoError(t, err)
		out := make([]int, len(result))
		for i, v := range result {
			out[i] = int(v)
		}
		return out
	}

	first := render()
	for run := 0; run < 5; run++ {
		assert.Equal(t, first, render())
	}
}

func TestRunAsyncWaitReturnsResult(t *testing.T) {
	job := RunAsync(func() (int, error) { return 42, nil })
	v, err := job.Wait()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestRunAsyncWaitPropagatesError(t *testing.T) {
	sentinel := errors.New("failed")
	job := RunAsync(func() (int, error) { return 0, sentinel })
	_, err := job.Wait()
	assert.ErrorIs(t, err, sentinel)
}

func TestThreadLocalForEachVisitsEveryGet(t *testing.T) {
	tl := NewThreadLocal(func() int { return 0 })

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := tl.Get()
			*v = i
		}()
	}
	wg.Wait()

	sum := 0
	count := 0
	tl.ForEach(func(v *int) {
		sum += *v
		count++
	})
	assert.Equal(t, 10, count)
	assert.Equal(t, 45, sum)
}
