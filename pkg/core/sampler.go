package core

// Sampler hands out a deterministic per-pixel-per-sample stream of uniform
// [0,1) and unit-square samples. StartPixelSample fixes the stream for one
// (pixel, sampleIndex) pair; every subsequent Next1D/Next2D call advances a
// dimension counter, so two calls in the same pixel/sample never alias.
type Sampler interface {
	// StartPixelSample resets the sampler's internal state for a given
	// pixel and sample index, and the starting dimension (used by samplers
	// that need to resume mid-stream, e.g. a light-transport vertex that
	// consumes a variable number of dimensions before NEE).
	StartPixelSample(pixel [2]int, sampleIndex int, startDimension int)

	// Next1D returns the next uniform sample in [0,1).
	Next1D() float64

	// Next2D returns the next unit-square sample in [0,1)^2.
	Next2D() Vec2

	// SamplesPerPixel returns the configured spp for this sampler.
	SamplesPerPixel() int

	// Clone returns an independent copy of the sampler (same algorithm and
	// configuration, fresh state), for cheap per-tile-thread duplication of
	// a prototype sampler.
	Clone() Sampler
}
