package integrator

import (
	"math"
	"math/rand/v2"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// photon is one recorded photon-mapping deposit: the point it landed at,
// the direction it arrived from, and the flux it carries.
type photon struct {
	p    core.Vec3
	wi   core.Vec3
	flux core.Spectrum
}

// PhotonMap is a brute-force-queried photon store. The pack's retrieved
// dependency set has no spatial-index library (gonum ships none outside its
// graph/matrix packages), so radius queries here are a linear scan over
// Photons rather than a k-d tree's O(log n) query — acceptable at this
// renderer's scale, and noted in DESIGN.md as the one place this module
// falls back to a hand-rolled structure for lack of a library to reach for.
type PhotonMap struct {
	Photons []photon
}

// Deposit records one photon-mapping hit.
func (m *PhotonMap) Deposit(p, wi core.Vec3, flux core.Spectrum) {
	m.Photons = append(m.Photons, photon{p: p, wi: wi, flux: flux})
}

// Gather returns every photon within radius of p, for a density-estimate
// radiance evaluation at a surface or visible point.
func (m *PhotonMap) Gather(p core.Vec3, radius float64) []photon {
	r2 := radius * radius
	var out []photon
	for _, ph := range m.Photons {
		if ph.p.Subtract(p).LengthSquared() <= r2 {
			out = append(out, ph)
		}
	}
	return out
}

// tracePhotons emits one photon subpath per call from a sampled light,
// depositing at every non-specular surface hit whose bounce depth is at
// least minDepth (0 includes the first hit, i.e. direct illumination),
// shared by PhotonMapping's build pass and SPPM's per-iteration photon pass.
func tracePhotons(scene *core.Scene, sampler core.Sampler, arena *core.Arena, rng *rand.Rand, maxDepth, minDepth int, deposit func(p, wi core.Vec3, flux core.Spectrum)) {
	light, lightPMF := scene.LightSampler.Sample(sampler.Next1D())
	if light == nil || lightPMF <= 0 {
		return
	}
	le, ok := light.SampleLe(sampler.Next2D(), sampler.Next2D())
	if !ok || core.Luminance(le.L) <= 0 || le.PDFPos <= 0 || le.PDFDir <= 0 {
		return
	}
	flux := le.L.Multiply(math.Abs(le.Normal.Dot(le.Ray.Direction)) / (lightPMF * le.PDFPos * le.PDFDir))

	ray := le.Ray
	var currentMedium core.Medium
	for depth := 0; depth < maxDepth; depth++ {
		isect, hit := scene.Intersect(ray, core.RayEpsilon, core.TMax)
		if !hit {
			return
		}
		if isect.Primitive.Mat == nil {
			ray = isect.SpawnRay(ray.Direction)
			currentMedium = nextMedium(isect, ray.Direction, currentMedium)
			depth--
			continue
		}
		bsdf := isect.Primitive.Mat.ComputeBSDF(isect, arena)
		if bsdf.IsNil() {
			ray = isect.SpawnRay(ray.Direction)
			currentMedium = nextMedium(isect, ray.Direction, currentMedium)
			depth--
			continue
		}

		wo := ray.Direction.Negate()
		if bsdf.Flags().IsNonSpecular() && depth >= minDepth {
			deposit(isect.Point, wo, flux)
		}

		sample, ok := bsdf.SampleF(wo, sampler.Next1D(), sampler.Next2D(), core.BxDFReflTransAll)
		if !ok || sample.PDF <= 0 {
			return
		}
		cosTheta := math.Abs(sample.Wi.Dot(isect.Shading.Normal))
		flux = flux.MultiplyVec(sample.Value).Multiply(cosTheta / sample.PDF)

		var survived bool
		flux, survived = russianRoulette(flux, 1, depth, 3, sampler.Next1D())
		if !survived {
			return
		}

		ray = isect.SpawnRay(sample.Wi)
		currentMedium = nextMedium(isect, sample.Wi, currentMedium)
	}
}

// PhotonMapping serves the `pm`/`vol_pm` tokens: a camera path traced with
// NEE+MIS exactly like Path up to the first non-specular hit, where
// indirect illumination is then estimated from a prebuilt PhotonMap via
// density estimation instead of continuing the recursive walk — the
// classic two-pass final-gather formulation.
type PhotonMapping struct {
	MaxDepth           int
	RouletteStartDepth int
	GatherRadius       float64
	Map                *PhotonMap
}

// NewPhotonMapping builds a PhotonMapping integrator around a photon map
// that should be populated via BuildPhotonMap before rendering.
func NewPhotonMapping(cfg core.SamplingConfig, gatherRadius float64) *PhotonMapping {
	return &PhotonMapping{MaxDepth: cfg.MaxDepth, RouletteStartDepth: cfg.RouletteStartDepth, GatherRadius: gatherRadius, Map: &PhotonMap{}}
}

// BuildPhotonMap emits numPhotons light-subpath walks into pm.Map. Called
// once before rendering begins; pkg/renderer drives this from the
// BidirectionalIntegrator-style build phase described in SPEC_FULL.md's
// Rendering component.
func (pm *PhotonMapping) BuildPhotonMap(scene *core.Scene, sampler core.Sampler, arena *core.Arena, numPhotons int) {
	rng := newMediumRNG(sampler)
	for i := 0; i < numPhotons; i++ {
		// Direct light comes from Li's own sampleLd, so first-hit photons are skipped.
		tracePhotons(scene, sampler, arena, rng, pm.MaxDepth, 1, pm.Map.Deposit)
	}
}

func (pm *PhotonMapping) Li(ray core.Ray, mediumAtRay core.Medium, scene *core.Scene, sampler core.Sampler, arena *core.Arena) core.Spectrum {
	rng := newMediumRNG(sampler)
	L := core.BlackSpectrum
	beta := core.WhiteSpectrum
	currentMedium := mediumAtRay

	for bounce := 0; bounce < pm.MaxDepth; bounce++ {
		isect, hit := scene.Intersect(ray, core.RayEpsilon, core.TMax)
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
		}

		if isect.Primitive.Mat == nil {
			ray = isect.SpawnRay(ray.Direction)
			currentMedium = nextMedium(isect, ray.Direction, currentMedium)
			bounce--
			continue
		}
		bsdf := isect.Primitive.Mat.ComputeBSDF(isect, arena)
		if bsdf.IsNil() {
			ray = isect.SpawnRay(ray.Direction)
			currentMedium = nextMedium(isect, ray.Direction, currentMedium)
			bounce--
			continue
		}
		wo := ray.Direction.Negate()

		if bsdf.Flags().IsNonSpecular() {
			L = L.Add(beta.MultiplyVec(sampleLd(scene, isect.Point, isect.Shading.Normal, bsdf, wo, currentMedium, sampler, rng)))
			L = L.Add(beta.MultiplyVec(pm.density(bsdf, isect.Point, isect.Shading.Normal, wo)))
			break
		}

		sample, ok := bsdf.SampleF(wo, sampler.Next1D(), sampler.Next2D(), core.BxDFReflTransAll)
		if !ok || sample.PDF <= 0 {
			break
		}
		cosTheta := math.Abs(sample.Wi.Dot(isect.Shading.Normal))
		beta = beta.MultiplyVec(sample.Value).Multiply(cosTheta / sample.PDF)
		ray = isect.SpawnRay(sample.Wi)
		currentMedium = nextMedium(isect, sample.Wi, currentMedium)
	}
	return L
}

// density estimates indirect radiance at p via the photon map: sum every
// gathered photon's flux weighted by the BSDF, divided by the disc area the
// gather radius subtends.
func (pm *PhotonMapping) density(bsdf core.BSDF, p, n, wo core.Vec3) core.Spectrum {
	photons := pm.Map.Gather(p, pm.GatherRadius)
	if len(photons) == 0 {
		return core.BlackSpectrum
	}
	sum := core.BlackSpectrum
	for _, ph := range photons {
		sum = sum.Add(bsdf.F(wo, ph.wi).MultiplyVec(ph.flux))
	}
	area := math.Pi * pm.GatherRadius * pm.GatherRadius
	return sum.Multiply(1 / area)
}

// SPPM serves the `sppm`/`vol_sppm` tokens: stochastic progressive photon
// mapping. Each call to TraceVisiblePoint traces a single camera path down to its first
// non-specular vertex and records it (rather than gathering immediately);
// VisiblePoints accumulates these across a full frame, and AdvanceIteration
// runs one photon pass against them and shrinks the gather radius per
// Knaus & Zwicker's progressive radius reduction, alpha controlling how
// aggressively the radius shrinks each round.
type SPPM struct {
	MaxDepth           int
	RouletteStartDepth int
	Alpha              float64

	radius  float64
	photons int64
	visible []visiblePoint
}

type visiblePoint struct {
	p, n core.Vec3
	bsdf core.BSDF
	wo   core.Vec3
	beta core.Spectrum
	film core.Vec2
}

func NewSPPM(cfg core.SamplingConfig, initialRadius, alpha float64) *SPPM {
	if alpha <= 0 {
		alpha = 0.7
	}
	return &SPPM{MaxDepth: cfg.MaxDepth, RouletteStartDepth: cfg.RouletteStartDepth, Alpha: alpha, radius: initialRadius}
}

// TraceVisiblePoint traces one camera path and records its first
// non-specular vertex (or direct emission, added immediately) as this
// pixel's visible point for the current iteration.
func (s *SPPM) TraceVisiblePoint(pFilm core.Vec2, ray core.Ray, mediumAtRay core.Medium, scene *core.Scene, sampler core.Sampler, arena *core.Arena) core.Spectrum {
	L := core.BlackSpectrum
	beta := core.WhiteSpectrum
	currentMedium := mediumAtRay

	for bounce := 0; bounce < s.MaxDepth; bounce++ {
		isect, hit := scene.Intersect(ray, core.RayEpsilon, core.TMax)
		if !hit {
			for _, light := range scene.Lights {
				if light.Type() == core.LightInfinite {
					L = L.Add(beta.MultiplyVec(light.Le(ray)))
				}
			}
			return L
		}
		if al, ok := isect.Primitive.AreaLight.(areaEmitter); ok {
			L = L.Add(beta.MultiplyVec(al.L(isect.Normal, ray.Direction.Negate())))
		}
		if isect.Primitive.Mat == nil {
			ray = isect.SpawnRay(ray.Direction)
			currentMedium = nextMedium(isect, ray.Direction, currentMedium)
			bounce--
			continue
		}
		bsdf := isect.Primitive.Mat.ComputeBSDF(isect, arena)
		if bsdf.IsNil() {
			ray = isect.SpawnRay(ray.Direction)
			currentMedium = nextMedium(isect, ray.Direction, currentMedium)
			bounce--
			continue
		}
		wo := ray.Direction.Negate()
		if bsdf.Flags().IsNonSpecular() {
			s.visible = append(s.visible, visiblePoint{
				p: isect.Point, n: isect.Shading.Normal, bsdf: bsdf, wo: wo,
				beta: beta, film: pFilm,
			})
			return L
		}
		sample, ok := bsdf.SampleF(wo, sampler.Next1D(), sampler.Next2D(), core.BxDFReflTransAll)
		if !ok || sample.PDF <= 0 {
			return L
		}
		cosTheta := math.Abs(sample.Wi.Dot(isect.Shading.Normal))
		beta = beta.MultiplyVec(sample.Value).Multiply(cosTheta / sample.PDF)
		ray = isect.SpawnRay(sample.Wi)
		currentMedium = nextMedium(isect, sample.Wi, currentMedium)
	}
	return L
}

// AdvanceIteration traces numPhotons photons against the current visible
// points, accumulates their contribution, shrinks the gather radius per
// Knaus-Zwicker, and returns each visible point's per-pixel radiance
// estimate plus its film position, clearing the visible-point list for the
// next iteration.
func (s *SPPM) AdvanceIteration(scene *core.Scene, sampler core.Sampler, arena *core.Arena, numPhotons int) []struct {
	Film core.Vec2
	L    core.Spectrum
} {
	rng := newMediumRNG(sampler)
	m := (float64(s.photons) + float64(numPhotons)*s.Alpha)

	tauAcc := make([]core.Spectrum, len(s.visible))
	for i := 0; i < numPhotons; i++ {
		tracePhotons(scene, sampler, arena, rng, s.MaxDepth, 0, func(p, wi core.Vec3, flux core.Spectrum) {
			r2 := s.radius * s.radius
			for vi, vp := range s.visible {
				if vp.p.Subtract(p).LengthSquared() > r2 {
					continue
				}
				tauAcc[vi] = tauAcc[vi].Add(vp.bsdf.F(vp.wo, wi).MultiplyVec(flux).MultiplyVec(vp.beta))
			}
		})
	}

	out := make([]struct {
		Film core.Vec2
		L    core.Spectrum
	}, len(s.visible))
	area := math.Pi * s.radius * s.radius
	for i, vp := range s.visible {
		out[i].Film = vp.film
		out[i].L = tauAcc[i].Multiply(1 / (area * float64(numPhotons)))
	}

	s.photons += int64(numPhotons)
	if m > 0 {
		s.radius *= math.Sqrt(m / float64(s.photons)) // sqrt((n + alpha*M) / (n + M))
	}
	s.visible = s.visible[:0]
	return out
}
