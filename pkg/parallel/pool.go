// Package parallel implements the renderer's job scheduler: a persistent
// worker pool, parallel-for helpers over 1D ranges and 2D tile grids, a
// fire-and-forget async job, and a per-worker ThreadLocal utility.
//
// The teacher's concurrency (pkg/renderer/worker_pool.go) hand-rolls a
// TaskQueue/ResultQueue/Worker/WorkerPool around bare channels and a
// sync.WaitGroup: a fixed set of goroutines range over a task channel,
// render their tile, and push a result back. Pool keeps that same
// fixed-worker-count, channel-driven shape but generalizes it into a
// reusable scheduler (one pool shared across every parallel-for and async
// job in a Rendering) built on golang.org/x/sync/errgroup and semaphore,
// the modern idiomatic substitute for exactly the fan-out/join pattern
// worker_pool.go hand-rolls.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Pool bounds concurrency at a fixed worker count, mirroring the teacher's
// NewWorkerPool(numWorkers) sizing: NumCPU by default, explicit otherwise.
type Pool struct {
	numWorkers int
	sem        *semaphore.Weighted
}

// New creates a pool with numWorkers concurrent slots. numWorkers <= 0
// defaults to runtime.NumCPU(), matching the teacher's worker pool sizing.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{numWorkers: numWorkers, sem: semaphore.NewWeighted(int64(numWorkers))}
}

// NumWorkers returns the pool's worker count.
func (p *Pool) NumWorkers() int { return p.numWorkers }

// ParallelFor runs fn(i) for every i in [begin, end) across the pool,
// chunkSize values at a time per dispatched job (the teacher's
// TileTask granularity, generalized to an arbitrary 1D range). It blocks
// until every chunk has completed and returns the first error encountered,
// if any.
func ParallelFor(ctx context.Context, p *Pool, begin, end, chunkSize int, fn func(i int) error) error {
	if chunkSize <= 0 {
		chunkSize = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	for start := begin; start < end; start += chunkSize {
		start := start
		stop := start + chunkSize
		if stop > end {
			stop = end
		}
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return err
		}
		g.Go(func() error {
			defer p.sem.Release(1)
			for i := start; i < stop; i++ {
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// Tile2D is one rectangular chunk of a ParallelFor2D dispatch: pixel
// bounds [X0,X1)x[Y0,Y1), plus a stable Index for deterministic ordering
// (the teacher's TileTask.TaskID serves the same purpose).
type Tile2D struct {
	Index  int
	X0, Y0 int
	X1, Y1 int
}

// Tiles2D partitions a width x height grid into tileSize x tileSize tiles
// in row-major scan order (the teacher's default 16x16 image-tile scheme).
func Tiles2D(width, height, tileSize int) []Tile2D {
	if tileSize <= 0 {
		tileSize = 16
	}
	var tiles []Tile2D
	idx := 0
	for y0 := 0; y0 < height; y0 += tileSize {
		y1 := y0 + tileSize
		if y1 > height {
			y1 = height
		}
		for x0 := 0; x0 < width; x0 += tileSize {
			x1 := x0 + tileSize
			if x1 > width {
				x1 = width
			}
			tiles = append(tiles, Tile2D{Index: idx, X0: x0, Y0: y0, X1: x1, Y1: y1})
			idx++
		}
	}
	return tiles
}

// ParallelFor2D dispatches fn once per tile of a width x height grid, one
// goroutine slot per tile, blocking until every tile completes. This is
// the pool's primary entry point from pkg/renderer: each tile thread
// clones the sampler prototype and renders its rectangle independently,
// mirroring the teacher's per-tile RenderBounds call writing into a
// shared, non-overlapping pixel array.
func ParallelFor2D(ctx context.Context, p *Pool, width, height, tileSize int, fn func(t Tile2D) error) error {
	tiles := Tiles2D(width, height, tileSize)
	g, ctx := errgroup.WithContext(ctx)
	for _, tile := range tiles {
		tile := tile
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return err
		}
		g.Go(func() error {
			defer p.sem.Release(1)
			return fn(tile)
		})
	}
	return g.Wait()
}

// AsyncJob is a fire-and-forget computation dispatched via RunAsync; its
// result (or error) is retrieved once, blocking, via Wait. It generalizes
// the teacher's WorkerPool.GetResult()/TileResult round trip into a single
// typed future, used by pkg/renderer to run an entire Rendering phase
// without blocking the caller.
type AsyncJob[T any] struct {
	done   chan struct{}
	result T
	err    error
}

// RunAsync starts fn on a new goroutine (outside the pool's worker cap,
// since a Rendering's top-level job is itself long-running and must not
// consume one of the pool's fixed slots) and returns a handle to its
// eventual result.
func RunAsync[T any](fn func() (T, error)) *AsyncJob[T] {
	job := &AsyncJob[T]{done: make(chan struct{})}
	go func() {
		defer close(job.done)
		job.result, job.err = fn()
	}()
	return job
}

// Wait blocks until the job completes and returns its result and error.
func (j *AsyncJob[T]) Wait() (T, error) {
	<-j.done
	return j.result, j.err
}

// Done reports whether the job has completed, without blocking.
func (j *AsyncJob[T]) Done() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}
