package bxdf

import (
	"math"
	"math/rand/v2"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Layered composes a Top BxDF (typically a dielectric coat) over a Bottom
// BxDF (the base material) separated by a slab of thickness Thickness
// filled with an absorbing/scattering medium of single-scattering Albedo
// and a Henyey-Greenstein phase function with asymmetry G. Transport
// between the two interfaces is simulated by a random walk (Guo et al.,
// "A null-scattering path integral formulation of light transport",
// simplified to a homogeneous interior), so F is a stochastic estimate
// averaged over Samples walks rather than a closed-form value.
type Layered struct {
	Top, Bottom core.BxDF
	Thickness   float64
	Albedo      core.Spectrum
	G           float64 // Henyey-Greenstein asymmetry of the interior medium
	MaxBounces  int
	Samples     int
}

// NewLayered creates a two-interface layered BxDF.
func NewLayered(top, bottom core.BxDF, thickness float64, albedo core.Spectrum, g float64, maxBounces, samples int) *Layered {
	if maxBounces <= 0 {
		maxBounces = 10
	}
	if samples <= 0 {
		samples = 1
	}
	return &Layered{Top: top, Bottom: bottom, Thickness: thickness, Albedo: albedo, G: g, MaxBounces: maxBounces, Samples: samples}
}

func (l *Layered) Flags() core.BxDFFlags {
	f := l.Top.Flags() | l.Bottom.Flags()
	// The layered lobe as a whole is never a pure delta distribution: even
	// a specular top coat mixes with whatever exits after interior bounces.
	return (f &^ core.BxDFSpecular) | core.BxDFGlossy
}

// F stochastically estimates the layered BSDF by averaging independent
// random walks; each walk enters through Top, bounces through the interior
// medium and possibly Bottom, and exits back through Top toward wi.
func (l *Layered) F(wo, wi core.Vec3) core.Spectrum {
	if !core.SameHemisphere(wo, wi) {
		return core.Spectrum{}
	}
	rng := rand.New(rand.NewPCG(hashVec(wo), hashVec(wi)))
	sum := core.Spectrum{}
	n := l.Samples
	for s := 0; s < n; s++ {
		sum = sum.Add(l.estimateF(wo, wi, rng))
	}
	return sum.Multiply(1 / float64(n))
}

func (l *Layered) estimateF(wo, wi core.Vec3, rng *rand.Rand) core.Spectrum {
	// Enter through the top interface toward the interior.
	uc := rng.Float64()
	u := core.Vec2{X: rng.Float64(), Y: rng.Float64()}
	topSample, ok := l.Top.SampleF(wo, uc, u, core.BxDFReflTransAll)
	if !ok || topSample.PDF == 0 {
		return core.Spectrum{}
	}
	// Direct reflection off the top coat without entering the slab.
	if topSample.Flags.HasReflection() && core.SameHemisphere(wo, topSample.Wi) {
		return l.Top.F(wo, wi)
	}

	w := topSample.Wi
	beta := topSample.Value.Multiply(core.AbsCosTheta(w) / topSample.PDF)
	z := l.Thickness

	for bounce := 0; bounce < l.MaxBounces; bounce++ {
		if core.MaxComponent(l.Albedo) > 0 && l.Thickness > 0 {
			dz := -math.Log(1-rng.Float64()) * l.Thickness
			z -= dz * math.Copysign(1, w.Z)
			if z > 0 && z < l.Thickness {
				// Scattering event inside the slab: pick a new direction
				// via isotropic/HG phase and continue the walk.
				beta = beta.Multiply(core.Average(l.Albedo))
				if core.MaxComponent(beta) < 1e-5 {
					break
				}
				w = sampleHG(w, l.G, rng)
				continue
			}
		}
		if z <= 0 {
			// Reached the bottom interface.
			s, ok := l.Bottom.SampleF(w.Negate(), rng.Float64(), core.Vec2{X: rng.Float64(), Y: rng.Float64()}, core.BxDFReflTransAll)
			if !ok || s.PDF == 0 {
				return core.Spectrum{}
			}
			beta = beta.MultiplyVec(s.Value).Multiply(core.AbsCosTheta(s.Wi) / s.PDF)
			w = s.Wi
			z = 0
		} else {
			// Reached back to the top interface from inside.
			if core.SameHemisphere(wo, wi) && bounce > 0 {
				exitF := l.Top.F(w.Negate(), wi)
				if !exitF.IsZero() {
					return beta.MultiplyVec(exitF)
				}
			}
			s, ok := l.Top.SampleF(w.Negate(), rng.Float64(), core.Vec2{X: rng.Float64(), Y: rng.Float64()}, core.BxDFReflTransAll)
			if !ok || s.PDF == 0 || !s.Flags.HasReflection() {
				break
			}
			beta = beta.MultiplyVec(s.Value).Multiply(core.AbsCosTheta(s.Wi) / s.PDF)
			w = s.Wi
			z = l.Thickness
		}
		if core.MaxComponent(beta) < 1e-5 {
			break
		}
	}
	return core.Spectrum{}
}

func (l *Layered) SampleF(wo core.Vec3, uc float64, u core.Vec2, sampleFlags core.BxDFReflTransFlags) (core.BSDFSample, bool) {
	rng := rand.New(rand.NewPCG(hashVec(wo), uint64(uc*1e9)))
	topSample, ok := l.Top.SampleF(wo, uc, u, core.BxDFReflTransAll)
	if !ok || topSample.PDF == 0 {
		return core.BSDFSample{}, false
	}
	if topSample.Flags.HasReflection() && core.SameHemisphere(wo, topSample.Wi) {
		return topSample, true
	}

	w := topSample.Wi
	beta := topSample.Value.Multiply(core.AbsCosTheta(w) / topSample.PDF)
	z := l.Thickness

	for bounce := 0; bounce < l.MaxBounces; bounce++ {
		if core.MaxComponent(beta) < 1e-5 {
			return core.BSDFSample{}, false
		}
		if core.MaxComponent(l.Albedo) > 0 && l.Thickness > 0 {
			dz := -math.Log(1-rng.Float64()) * l.Thickness
			z -= dz * math.Copysign(1, w.Z)
			if z > 0 && z < l.Thickness {
				beta = beta.Multiply(core.Average(l.Albedo))
				w = sampleHG(w, l.G, rng)
				continue
			}
		}
		if z <= 0 {
			s, ok := l.Bottom.SampleF(w.Negate(), rng.Float64(), core.Vec2{X: rng.Float64(), Y: rng.Float64()}, core.BxDFReflTransAll)
			if !ok || s.PDF == 0 {
				return core.BSDFSample{}, false
			}
			beta = beta.MultiplyVec(s.Value).Multiply(core.AbsCosTheta(s.Wi) / s.PDF)
			w = s.Wi
			z = 0
			if !s.Flags.HasReflection() {
				break
			}
		} else {
			s, ok := l.Top.SampleF(w.Negate(), rng.Float64(), core.Vec2{X: rng.Float64(), Y: rng.Float64()}, core.BxDFReflTransAll)
			if !ok || s.PDF == 0 {
				return core.BSDFSample{}, false
			}
			if s.Flags.HasTransmission() {
				beta = beta.MultiplyVec(s.Value).Multiply(core.AbsCosTheta(s.Wi) / s.PDF)
				return core.BSDFSample{
					Value:             beta,
					Wi:                s.Wi,
					PDF:               1,
					Flags:             core.BxDFReflection | core.BxDFGlossy,
					Eta:               1,
					PDFIsProportional: true,
				}, true
			}
			beta = beta.MultiplyVec(s.Value).Multiply(core.AbsCosTheta(s.Wi) / s.PDF)
			w = s.Wi
			z = l.Thickness
		}
	}
	return core.BSDFSample{}, false
}

// PDF is only approximate for a layered lobe (the true density requires
// integrating over every possible random-walk path); BSDFSample.PDFIsProportional
// signals that callers sampling via SampleF should not trust this for MIS
// weighting against other techniques, matching how the walk itself is built.
func (l *Layered) PDF(wo, wi core.Vec3, sampleFlags core.BxDFReflTransFlags) float64 {
	if !core.SameHemisphere(wo, wi) {
		return 0
	}
	return core.CosineHemispherePDF(core.AbsCosTheta(wi))
}

func sampleHG(wo core.Vec3, g float64, rng *rand.Rand) core.Vec3 {
	u := core.Vec2{X: rng.Float64(), Y: rng.Float64()}
	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*u.X
	} else {
		sqrTerm := (1 - g*g) / (1 + g - 2*g*u.X)
		cosTheta = -(1 + g*g - sqrTerm*sqrTerm) / (2 * g)
	}
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y
	sinPhi, cosPhi := math.Sincos(phi)
	frame := core.NewFrame(wo)
	local := core.NewVec3(sinTheta*cosPhi, sinTheta*sinPhi, cosTheta)
	return frame.FromLocal(local)
}

func hashVec(v core.Vec3) uint64 {
	const prime1, prime2, prime3 = 0x9E3779B97F4A7C15, 0xBF58476D1CE4E5B9, 0x94D049BB133111EB
	h := uint64(prime1)
	h ^= math.Float64bits(v.X)
	h *= prime2
	h ^= math.Float64bits(v.Y)
	h *= prime3
	h ^= math.Float64bits(v.Z)
	h ^= h >> 33
	return h | 1
}
