package parallel

import "sync"

// ThreadLocal hands out scratch values built by a constructor and records
// every value it hands out, so they can be merged after a parallel phase.
// Get constructs a fresh T on every call; it does not look up or reuse an
// earlier value for the calling goroutine (Go has no stable
// goroutine-identity key, and ThreadLocal keeps none). A caller gets one
// value per chunk of work by calling Get once per dispatched chunk and
// keeping the pointer for that chunk. It generalizes the per-worker state
// the teacher threads explicitly through Worker.raytracer (one Raytracer
// instance per worker, reused across tasks) into a reusable utility for
// scratch state such as a sampler clone, a BxDF arena, or a progress
// counter later merged across workers.
type ThreadLocal[T any] struct {
	new func() T

	mu     sync.Mutex
	values []*T
}

// NewThreadLocal creates a ThreadLocal whose values are produced by new,
// once per Get call.
func NewThreadLocal[T any](new func() T) *ThreadLocal[T] {
	return &ThreadLocal[T]{new: new}
}

// Get constructs a new value, records it for later iteration via ForEach,
// and returns it. Every call returns a distinct value, so call Get once per
// dispatched chunk, not per element within a chunk.
func (tl *ThreadLocal[T]) Get() *T {
	v := tl.new()
	tl.mu.Lock()
	tl.values = append(tl.values, &v)
	tl.mu.Unlock()
	return &v
}

// ForEach calls fn once per recorded value, in recording order, for
// post-phase merging (e.g. summing per-worker photon contributions or
// progress counters into one result).
func (tl *ThreadLocal[T]) ForEach(fn func(*T)) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	for _, v := range tl.values {
		fn(v)
	}
}
