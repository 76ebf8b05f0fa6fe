package bxdf

import (
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// ggxLUTSize is the resolution of the directional-albedo table over
// (cosTheta, roughness); the spec calls for 32x32 plus a 32-entry average.
const ggxLUTSize = 32

var (
	ggxLUTOnce     sync.Once
	ggxLUTReady    atomic.Bool
	ggxDirectional [ggxLUTSize][ggxLUTSize]float64 // [roughnessBucket][cosThetaBucket]
	ggxAverage     [ggxLUTSize]float64
)

// InitEnergyCompensation precomputes the directional- and average-albedo
// tables used to correct rough conductor/dielectric lobes for the energy a
// single-scattering microfacet model loses at high roughness. It's
// idempotent and safe to call from multiple goroutines; only the first call
// does the work, matching the spec's "at renderer startup (once)"
// requirement.
func InitEnergyCompensation() {
	ggxLUTOnce.Do(func() {
		rng := rand.New(rand.NewPCG(7, 13))
		const samples = 256
		d := 1.0 / ggxLUTSize
		for j := 0; j < ggxLUTSize; j++ {
			roughness := d/2 + d*float64(j)
			alpha := RoughnessToAlpha(roughness)
			dist := TrowbridgeReitz{AlphaX: alpha, AlphaY: alpha}

			avgSum := 0.0
			for i := 0; i < ggxLUTSize; i++ {
				cosTheta := d/2 + d*float64(i)
				e := directionalAlbedoMC(dist, cosTheta, rng, samples)
				ggxDirectional[j][i] = e
				avgSum += e * cosTheta * d
			}
			ggxAverage[j] = 2 * avgSum
		}
		ggxLUTReady.Store(true)
	})
}

// directionalAlbedoMC estimates rho(cosThetaO) = integral of f*cosThetaI
// over the hemisphere by importance-sampling the VNDF, for a conductor with
// unit (white) Fresnel reflectance — the single-scatter energy loss is a
// geometric property of the distribution, independent of tint.
func directionalAlbedoMC(dist TrowbridgeReitz, cosThetaO float64, rng *rand.Rand, samples int) float64 {
	sinThetaO := math.Sqrt(math.Max(0, 1-cosThetaO*cosThetaO))
	wo := core.Vec3{X: sinThetaO, Y: 0, Z: cosThetaO}

	sum := 0.0
	for s := 0; s < samples; s++ {
		u := core.Vec2{X: rng.Float64(), Y: rng.Float64()}
		wm := dist.SampleWm(wo, u)
		wi := Reflect(wo, wm)
		if wi.Z <= 0 {
			continue
		}
		pdf := dist.PDF(wo, wm) / (4 * wo.AbsDot(wm))
		if pdf <= 0 {
			continue
		}
		g := dist.G(wo, wi)
		dens := dist.D(wm)
		brdf := dens * g / (4 * wo.Z * wi.Z)
		sum += brdf * wi.Z / pdf
	}
	return math.Min(1, sum/float64(samples))
}

// GGXDirectionalAlbedo looks up the precomputed single-scatter directional
// albedo for the given view cosine and roughness, bilinearly interpolated.
// Returns 0 before InitEnergyCompensation has run; GGXAverageAlbedo then
// returns 1, which Conductor and Dielectric treat as disabling the
// compensation term (single-scatter-only behavior).
func GGXDirectionalAlbedo(cosTheta, roughness float64) float64 {
	return bilerp2D(&ggxDirectional, cosTheta, roughness)
}

// GGXAverageAlbedo looks up the precomputed hemispherical average albedo
// for the given roughness, linearly interpolated. Returns 1 before
// InitEnergyCompensation has run.
func GGXAverageAlbedo(roughness float64) float64 {
	if !ggxLUTReady.Load() {
		return 1
	}
	return lerp1D(ggxAverage[:], roughness)
}

func bilerp2D(table *[ggxLUTSize][ggxLUTSize]float64, cosTheta, roughness float64) float64 {
	fc := clamp01(cosTheta) * float64(ggxLUTSize-1)
	fr := clamp01(roughness) * float64(ggxLUTSize-1)
	j0 := int(fr)
	i0 := int(fc)
	j1 := min(j0+1, ggxLUTSize-1)
	i1 := min(i0+1, ggxLUTSize-1)
	tj := fr - float64(j0)
	ti := fc - float64(i0)
	v00 := table[j0][i0]
	v01 := table[j0][i1]
	v10 := table[j1][i0]
	v11 := table[j1][i1]
	v0 := v00 + ti*(v01-v00)
	v1 := v10 + ti*(v11-v10)
	return v0 + tj*(v1-v0)
}

func lerp1D(table []float64, x float64) float64 {
	f := clamp01(x) * float64(len(table)-1)
	i0 := int(f)
	i1 := min(i0+1, len(table)-1)
	t := f - float64(i0)
	return table[i0] + t*(table[i1]-table[i0])
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
