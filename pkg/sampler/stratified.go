package sampler

import (
	"math"
	"math/rand/v2"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Stratified divides each pixel's spp samples into a √spp × √spp jittered
// grid per 2D dimension, which reduces variance for well-behaved integrands
// (area lights, depth of field) relative to Independent at the same sample
// count, at the cost of correlation across dimensions if not permuted.
// jitter controls whether cell positions are randomized (true) or placed at
// cell centers (false, useful for debugging).
type Stratified struct {
	spp         int
	gridSize    int // sqrt(spp), rounded up
	seed        uint64
	jitter      bool

	rng         *rand.Rand
	pixel       [2]int
	sampleIndex int
	dimension   int
}

// NewStratified creates a stratified sampler. spp need not be a perfect
// square; the grid is sized to ceil(sqrt(spp)) and sample indices at or
// beyond gridSize^2 wrap around onto cells already used.
func NewStratified(spp int, seed uint64, jitter bool) *Stratified {
	grid := int(math.Ceil(math.Sqrt(float64(spp))))
	if grid < 1 {
		grid = 1
	}
	return &Stratified{spp: spp, gridSize: grid, seed: seed, jitter: jitter}
}

func (s *Stratified) StartPixelSample(pixel [2]int, sampleIndex int, startDimension int) {
	s.pixel = pixel
	s.sampleIndex = sampleIndex
	s.dimension = startDimension
	h1 := hash64(uint64(pixel[0]), uint64(pixel[1]), uint64(sampleIndex), s.seed)
	h2 := hash64(s.seed, uint64(sampleIndex)^0x2545f4914f6cdd1d, uint64(pixel[0]), uint64(pixel[1]))
	s.rng = rand.New(rand.NewPCG(h1, h2))
}

// stratumFor maps a sample index to its grid cell for the given dimension,
// permuting across dimensions (via a per-dimension hashed offset) so that
// the same sample isn't placed in the same relative cell on every axis.
func (s *Stratified) stratumFor(dim int) (x, y int) {
	permuted := int((uint64(s.sampleIndex) + hash64(uint64(dim), s.seed)) % uint64(s.gridSize*s.gridSize))
	return permuted % s.gridSize, permuted / s.gridSize
}

func (s *Stratified) Next1D() float64 {
	cellX, _ := s.stratumFor(s.dimension)
	s.dimension++
	jitterAmt := 0.5
	if s.jitter {
		jitterAmt = s.rng.Float64()
	}
	return (float64(cellX) + jitterAmt) / float64(s.gridSize)
}

func (s *Stratified) Next2D() core.Vec2 {
	cellX, cellY := s.stratumFor(s.dimension)
	s.dimension++
	jx, jy := 0.5, 0.5
	if s.jitter {
		jx, jy = s.rng.Float64(), s.rng.Float64()
	}
	return core.Vec2{
		X: (float64(cellX) + jx) / float64(s.gridSize),
		Y: (float64(cellY) + jy) / float64(s.gridSize),
	}
}

func (s *Stratified) SamplesPerPixel() int { return s.spp }

func (s *Stratified) Clone() core.Sampler {
	return NewStratified(s.spp, s.seed, s.jitter)
}
