package integrator

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// RandomWalk serves the `random_walk` token: pure BSDF-sampling transport
// with no NEE and no emitter MIS weighting at all (every hit light just
// adds its raw Le), the textbook "let the walk find the lights on its own"
// baseline spec.md §4.10 calls out as a correctness/variance reference
// against Path.
type RandomWalk struct {
	MaxDepth           int
	RouletteStartDepth int
}

func NewRandomWalk(cfg core.SamplingConfig) *RandomWalk {
	return &RandomWalk{MaxDepth: cfg.MaxDepth, RouletteStartDepth: cfg.RouletteStartDepth}
}

func (rw *RandomWalk) Li(ray core.Ray, currentMedium core.Medium, scene *core.Scene, sampler core.Sampler, arena *core.Arena) core.Spectrum {
	rng := newMediumRNG(sampler)
	L := core.BlackSpectrum
	beta := core.WhiteSpectrum

	for bounce := 0; bounce < rw.MaxDepth; bounce++ {
		isect, hit := scene.Intersect(ray, core.RayEpsilon, core.TMax)
		tMax := core.TMax
		if hit {
			tMax = isect.T
		}

		if currentMedium != nil {
			event := sampleMediumInteraction(currentMedium, ray, tMax, rng, &beta)
			if event.real {
				if event.absorbed {
					L = L.Add(beta.MultiplyVec(event.ms.Le))
					break
				}
				wi, pdf, ok := event.ms.Phase.SampleP(ray.Direction.Negate(), sampler.Next2D())
				if !ok || pdf <= 0 {
					break
				}
				beta = beta.Multiply(1 / pdf)
				ray = core.Ray{Origin: event.p, Direction: wi}
				var survived bool
				beta, survived = russianRoulette(beta, 1, bounce, rw.RouletteStartDepth, sampler.Next1D())
				if !survived {
					break
				}
				continue
			}
		}

		if !hit {
			for _, light := range scene.Lights {
				if light.Type() == core.LightInfinite {
					L = L.Add(beta.MultiplyVec(light.Le(ray)))
				}
			}
			break
		}
		if al, ok := isect.Primitive.AreaLight.(areaEmitter); ok {
			L = L.Add(beta.MultiplyVec(al.L(isect.Normal, ray.Direction.Negate())))
		} else if isect.Primitive.Mat != nil {
			L = L.Add(beta.MultiplyVec(isect.Primitive.Mat.Emission(isect, ray.Direction.Negate())))
		}

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

		sample, ok := bsdf.SampleF(ray.Direction.Negate(), sampler.Next1D(), sampler.Next2D(), core.BxDFReflTransAll)
		if !ok || sample.PDF <= 0 {
			break
		}
		cosTheta := math.Abs(sample.Wi.Dot(isect.Shading.Normal))
		beta = beta.MultiplyVec(sample.Value).Multiply(cosTheta / sample.PDF)
		ray = isect.SpawnRay(sample.Wi)
		currentMedium = nextMedium(isect, sample.Wi, currentMedium)

		var survived bool
		beta, survived = russianRoulette(beta, 1, bounce, rw.RouletteStartDepth, sampler.Next1D())
		if !survived {
			break
		}
	}
	return L
}

// AO serves the `ao` token: ambient occlusion, a single cosine-weighted
// hemisphere sample per primary hit compared against a fixed occlusion
// distance, with no recursive transport at all.
type AO struct {
	MaxDistance float64
}

func NewAO(maxDistance float64) *AO {
	if maxDistance <= 0 {
		maxDistance = 1.0
	}
	return &AO{MaxDistance: maxDistance}
}

func (a *AO) Li(ray core.Ray, currentMedium core.Medium, scene *core.Scene, sampler core.Sampler, arena *core.Arena) core.Spectrum {
	isect, hit := scene.Intersect(ray, core.RayEpsilon, core.TMax)
	if !hit {
		return core.BlackSpectrum
	}
	n := isect.Shading.Normal
	if n.Dot(ray.Direction) > 0 {
		n = n.Negate()
	}
	frame := core.NewFrame(n)
	local := core.SampleCosineHemisphere(sampler.Next2D())
	wi := frame.FromLocal(local)
	occRay := isect.SpawnRay(wi)
	if scene.IntersectP(occRay, core.RayEpsilon, a.MaxDistance) {
		return core.BlackSpectrum
	}
	return core.WhiteSpectrum
}

// Albedo serves the `albedo` token: a G-buffer-style debug visualizer
// reporting the surface's diffuse reflectance (the BSDF's hemispherical
// albedo approximated by its value at normal incidence) with no lighting
// at all.
type Albedo struct{}

func NewAlbedo() *Albedo { return &Albedo{} }

func (alb *Albedo) Li(ray core.Ray, currentMedium core.Medium, scene *core.Scene, sampler core.Sampler, arena *core.Arena) core.Spectrum {
	isect, hit := scene.Intersect(ray, core.RayEpsilon, core.TMax)
	if !hit || isect.Primitive.Mat == nil {
		return core.BlackSpectrum
	}
	bsdf := isect.Primitive.Mat.ComputeBSDF(isect, arena)
	if bsdf.IsNil() {
		return core.BlackSpectrum
	}
	n := isect.Shading.Normal
	return bsdf.F(n, n).Multiply(math.Pi) // a Lambertian F is R/pi
}

// Debug serves the `debug` token: a normal-as-color visualizer, the
// standard first-bounce-only sanity check for geometry and shading frames.
type Debug struct{}

func NewDebug() *Debug { return &Debug{} }

func (d *Debug) Li(ray core.Ray, currentMedium core.Medium, scene *core.Scene, sampler core.Sampler, arena *core.Arena) core.Spectrum {
	isect, hit := scene.Intersect(ray, core.RayEpsilon, core.TMax)
	if !hit {
		return core.BlackSpectrum
	}
	n := isect.Shading.Normal
	return core.NewSpectrum(0.5*(n.X+1), 0.5*(n.Y+1), 0.5*(n.Z+1))
}
