package sampler

import (
	"math/rand/v2"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// haltonPrimes supplies the radical-inverse base for each consumed
// dimension; 32 covers a path depth well beyond the spec's default max
// bounce count with room to spare for light/camera sampling dimensions.
var haltonPrimes = [32]uint64{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53,
	59, 61, 67, 71, 73, 79, 83, 89, 97, 101, 103, 107, 109, 113, 127, 131,
}

// Halton is the spec's optional low-discrepancy sampler: each dimension is
// the radical inverse of the global sample index in a distinct prime base,
// shifted by a random per-pixel, per-dimension offset (Cranley-Patterson
// rotation) so adjacent pixels don't share the same low-discrepancy points.
type Halton struct {
	spp  int
	seed uint64

	globalIndex uint64
	dimension   int
	scramble    [2]float64 // first two draws of the per-pixel stream; next1D draws its own offsets and does not read this
	rng         *rand.Rand
}

// NewHalton creates a Halton sampler with the given spp and seed.
func NewHalton(spp int, seed uint64) *Halton {
	return &Halton{spp: spp, seed: seed}
}

func (s *Halton) StartPixelSample(pixel [2]int, sampleIndex int, startDimension int) {
	s.dimension = startDimension
	s.globalIndex = uint64(sampleIndex) + 1
	h := hash64(uint64(pixel[0]), uint64(pixel[1]), s.seed)
	s.rng = rand.New(rand.NewPCG(h, h^0x9e3779b97f4a7c15))
	s.scramble = [2]float64{s.rng.Float64(), s.rng.Float64()}
}

func radicalInverse(index, base uint64) float64 {
	invBase := 1.0 / float64(base)
	inv := invBase
	result := 0.0
	for index > 0 {
		digit := index % base
		result += float64(digit) * inv
		index /= base
		inv *= invBase
	}
	return result
}

func cranleyPatterson(v, offset float64) float64 {
	v += offset
	if v >= 1 {
		v -= 1
	}
	return v
}

func (s *Halton) next1D() float64 {
	base := haltonPrimes[s.dimension%len(haltonPrimes)]
	v := radicalInverse(s.globalIndex, base)
	offset := s.rng.Float64()
	s.dimension++
	return cranleyPatterson(v, offset)
}

func (s *Halton) Next1D() float64 {
	return s.next1D()
}

func (s *Halton) Next2D() core.Vec2 {
	return core.Vec2{X: s.next1D(), Y: s.next1D()}
}

func (s *Halton) SamplesPerPixel() int { return s.spp }

func (s *Halton) Clone() core.Sampler {
	return NewHalton(s.spp, s.seed)
}
