package integrator

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Path implements spec.md §4.10's unidirectional path tracer with
// next-event estimation and MIS, generalized inline to handle a
// participating medium wherever one is present — this single type backs
// both the `path` and `vol_path` registry tokens (see the package doc for
// why no separate volumetric type exists). UseNEE disables next-event
// estimation and the matching MIS weighting for the `naive_path`/
// `naive_vol_path` tokens, sampling only BSDFs/phase functions, per
// spec.md §4.10's "Naive variants ... for reference."
type Path struct {
	MaxDepth           int
	RouletteStartDepth int
	UseNEE             bool
}

// NewPath builds a Path integrator configured for full NEE+MIS transport
// (the `path`/`vol_path` tokens).
func NewPath(cfg core.SamplingConfig) *Path {
	return &Path{MaxDepth: cfg.MaxDepth, RouletteStartDepth: cfg.RouletteStartDepth, UseNEE: true}
}

// NewNaivePath builds a Path integrator with NEE disabled (the
// `naive_path`/`naive_vol_path` tokens): BSDF/phase sampling only.
func NewNaivePath(cfg core.SamplingConfig) *Path {
	return &Path{MaxDepth: cfg.MaxDepth, RouletteStartDepth: cfg.RouletteStartDepth, UseNEE: false}
}

// Li traces one camera path, following spec.md §4.10's eight numbered
// steps per bounce.
func (pt *Path) Li(ray core.Ray, currentMedium core.Medium, scene *core.Scene, sampler core.Sampler, arena *core.Arena) core.Spectrum {
	rng := newMediumRNG(sampler)

	L := core.BlackSpectrum
	beta := core.WhiteSpectrum
	specularBounce := true
	prevBSDFPDF := 1.0
	etaScale := 1.0

	for bounce := 0; ; bounce++ {
		isect, hit := scene.Intersect(ray, core.RayEpsilon, core.TMax)

		tMax := core.TMax
		if hit {
			tMax = isect.T
		}

		// Step: medium transport along this segment, if any.
		if currentMedium != nil {
			event := sampleMediumInteraction(currentMedium, ray, tMax, rng, &beta)
			if event.real {
				if event.absorbed {
					L = L.Add(beta.MultiplyVec(event.ms.Le))
					break
				}
				// Real scattering event: NEE against the phase function,
				// then sample the phase function for the next direction.
				if pt.UseNEE {
					L = L.Add(beta.MultiplyVec(sampleLdMedium(scene, event.p, event.ms.Phase, ray.Direction.Negate(), currentMedium, sampler, rng)))
				}
				wi, pdf, ok := event.ms.Phase.SampleP(ray.Direction.Negate(), sampler.Next2D())
				if !ok || pdf <= 0 {
					break
				}
				beta = beta.Multiply(1 / pdf)
				prevBSDFPDF = pdf
				specularBounce = false
				ray = core.Ray{Origin: event.p, Direction: wi}

				var survived bool
				beta, survived = russianRoulette(beta, etaScale, bounce, pt.RouletteStartDepth, sampler.Next1D())
				if !survived {
					break
				}
				if bounce+1 >= pt.MaxDepth {
					break
				}
				continue
			}
		}

		// Step 1: miss.
		if !hit {
			for _, light := range scene.Lights {
				if light.Type() != core.LightInfinite {
					continue
				}
				le := light.Le(ray)
				if core.Luminance(le) <= 0 {
					continue
				}
				if specularBounce || bounce == 0 || !pt.UseNEE {
					L = L.Add(beta.MultiplyVec(le))
				} else {
					lightPDF := light.PDFLi(ray.Origin, ray.Direction) * scene.LightSampler.PMF(light)
					weight := core.PowerHeuristic(1, prevBSDFPDF, 1, lightPDF)
					L = L.Add(beta.MultiplyVec(le).Multiply(weight))
				}
			}
			break
		}

		// Step 2: hit an emitter.
		if al, ok := isect.Primitive.AreaLight.(areaEmitter); ok {
			le := al.L(isect.Normal, ray.Direction.Negate())
			if core.Luminance(le) > 0 {
				if specularBounce || bounce == 0 || !pt.UseNEE {
					L = L.Add(beta.MultiplyVec(le))
				} else {
					lightPDF := isect.Primitive.AreaLight.PDFLi(ray.Origin, ray.Direction) * scene.LightSampler.PMF(isect.Primitive.AreaLight)
					weight := core.PowerHeuristic(1, prevBSDFPDF, 1, lightPDF)
					L = L.Add(beta.MultiplyVec(le).Multiply(weight))
				}
			}
		} else if isect.Primitive.Mat != nil {
			le := isect.Primitive.Mat.Emission(isect, ray.Direction.Negate())
			if core.Luminance(le) > 0 {
				L = L.Add(beta.MultiplyVec(le))
			}
		}

		// Step 3.
		if bounce+1 >= pt.MaxDepth {
			break
		}

		// Step 4: construct BSDF; pass through a nil-BSDF (opaque-passthrough) hit.
		bsdf := core.BSDF{}
		if isect.Primitive.Mat != nil {
			bsdf = isect.Primitive.Mat.ComputeBSDF(isect, arena)
		}
		if bsdf.IsNil() {
			ray = isect.SpawnRay(ray.Direction)
			currentMedium = nextMedium(isect, ray.Direction, currentMedium)
			bounce--
			continue
		}

		wo := ray.Direction.Negate()

		// Step 6: NEE.
		if pt.UseNEE && bsdf.Flags().IsNonSpecular() {
			L = L.Add(beta.MultiplyVec(sampleLd(scene, isect.Point, isect.Shading.Normal, bsdf, wo, currentMedium, sampler, rng)))
		}

		// Step 7: sample BSDF for next direction.
		sample, ok := bsdf.SampleF(wo, sampler.Next1D(), sampler.Next2D(), core.BxDFReflTransAll)
		if !ok || sample.PDF <= 0 {
			break
		}
		cosTheta := math.Abs(sample.Wi.Dot(isect.Shading.Normal))
		beta = beta.MultiplyVec(sample.Value).Multiply(cosTheta / sample.PDF)
		prevBSDFPDF = sample.PDF
		specularBounce = sample.IsSpecular()
		if sample.Eta != 0 {
			etaScale *= sample.Eta * sample.Eta
		}

		ray = isect.SpawnRay(sample.Wi)
		currentMedium = nextMedium(isect, sample.Wi, currentMedium)

		// Step 8: Russian roulette.
		var survived bool
		beta, survived = russianRoulette(beta, etaScale, bounce, pt.RouletteStartDepth, sampler.Next1D())
		if !survived {
			break
		}
	}

	return L
}

// nextMedium resolves which medium a ray continues into after crossing a
// surface, by the sign of the direction against the geometric normal, per
// spec.md §5's MediumInterface crossing rule.
func nextMedium(isect *core.Intersection, dir core.Vec3, current core.Medium) core.Medium {
	if isect.Primitive == nil {
		return current
	}
	mi := isect.Primitive.MI
	if !mi.IsTransition() {
		return current
	}
	if dir.Dot(isect.Normal) > 0 {
		return mi.Outside
	}
	return mi.Inside
}
