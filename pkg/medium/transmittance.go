package medium

import (
	"math"
	"math/rand/v2"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// SampleTransmittance estimates a ray's transmittance through a medium via
// ratio tracking: at each majorant segment, repeatedly step by an
// exponentially-distributed distance under the segment's majorant and
// multiply in the probability of passing through a null-collision, rather
// than accepting/rejecting (delta tracking) or evaluating a closed-form
// integral that heterogeneous media don't have. Unbiased for any
// SigmaA/SigmaS variation the majorant bounds.
func SampleTransmittance(m core.Medium, ray core.Ray, tMax float64, rng *rand.Rand) core.Spectrum {
	tr := core.WhiteSpectrum
	iter := m.SampleRay(ray, tMax)
	for {
		seg, ok := iter.Next()
		if !ok {
			break
		}
		sigmaMajAvg := core.Average(seg.SigmaMaj)
		if sigmaMajAvg <= 0 {
			continue
		}
		t := seg.TMin
		for {
			u := math.Max(rng.Float64(), 1e-12)
			dt := -math.Log(u) / sigmaMajAvg
			t += dt
			if t >= seg.TMax {
				break
			}
			p := ray.Origin.Add(ray.Direction.Multiply(t))
			ms := m.Sample(p)
			sigmaT := ms.SigmaA.Add(ms.SigmaS)
			tr = tr.MultiplyVec(core.WhiteSpectrum.Subtract(sigmaT.Multiply(1 / sigmaMajAvg)))
			if core.MaxComponent(tr) < 1e-4 {
				// Russian roulette: a vanishingly small remaining
				// transmittance contributes negligibly either way, so stop
				// the walk rather than keep refining it to no effect.
				return core.Spectrum{}
			}
		}
	}
	return tr
}
