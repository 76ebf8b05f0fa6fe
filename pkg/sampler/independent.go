// Package sampler implements the core.Sampler contract: deterministic,
// per-pixel-per-sample streams of random numbers that integrators draw from
// for every probabilistic decision (BSDF lobe choice, light selection,
// Russian roulette, ...).
package sampler

import (
	"math/rand/v2"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Independent draws every dimension from an independent PCG stream hashed
// from (pixel, sampleIndex, seed), matching the "Independent" sampler the
// spec names — no stratification, just decorrelated per-pixel noise.
// math/rand/v2's PCG generator is used directly: it's a real PCG
// implementation in the standard library, not a hand-rolled substitute.
type Independent struct {
	spp  int
	seed uint64
	rng  *rand.Rand

	pixel       [2]int
	sampleIndex int
}

// NewIndependent creates an independent sampler with the given spp and seed.
func NewIndependent(spp int, seed uint64) *Independent {
	s := &Independent{spp: spp, seed: seed}
	s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return s
}

func (s *Independent) StartPixelSample(pixel [2]int, sampleIndex int, startDimension int) {
	s.pixel = pixel
	s.sampleIndex = sampleIndex
	h1 := hash64(uint64(pixel[0]), uint64(pixel[1]), uint64(sampleIndex), s.seed)
	h2 := hash64(s.seed, uint64(sampleIndex), uint64(pixel[0]), uint64(pixel[1])^0xff51afd7ed558ccd)
	s.rng = rand.New(rand.NewPCG(h1, h2))
	for i := 0; i < startDimension; i++ {
		s.rng.Float64()
	}
}

func (s *Independent) Next1D() float64 {
	return s.rng.Float64()
}

func (s *Independent) Next2D() core.Vec2 {
	return core.Vec2{X: s.rng.Float64(), Y: s.rng.Float64()}
}

func (s *Independent) SamplesPerPixel() int { return s.spp }

func (s *Independent) Clone() core.Sampler {
	return NewIndependent(s.spp, s.seed)
}

// hash64 mixes several integers into one well-distributed 64-bit seed via
// an FNV-style fold followed by the MurmurHash3 fmix64 finalizer, so nearby
// pixels/samples don't produce
// correlated PCG streams.
func hash64(vals ...uint64) uint64 {
	h := uint64(0xcbf29ce484222325)
	for _, v := range vals {
		h ^= v
		h *= 0x100000001b3
		h ^= h >> 33
	}
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}
