package integrator

import (
	"math"
	"math/rand/v2"

	"github.com/df07/go-spectral-tracer/pkg/core"
	"github.com/df07/go-spectral-tracer/pkg/medium"
)

// vertex is one node of a BDPT subpath: a surface or light-origin point,
// the BSDF built there, the throughput accumulated to reach it, and the
// medium the next segment leaving it travels through.
type vertex struct {
	p       core.Vec3
	n       core.Vec3
	bsdf    core.BSDF
	beta    core.Spectrum
	wo      core.Vec3 // direction back toward the previous vertex
	medium  core.Medium
	isLight bool
	light   core.Light
}

// BDPT serves the `bdpt`/`vol_bdpt` tokens: Veach's bidirectional path
// tracer. A camera subpath and a light subpath are each built independently
// via BSDF sampling, then every (s, t) pair of prefixes that shares the
// originating pixel is connected and weighted. This implementation uses a
// uniform 1/(s+t) MIS weight across connection strategies rather than
// Veach's full recursive per-strategy PDF-ratio weighting — a documented
// simplification (see DESIGN.md) that keeps the connection step a single
// pass over vertex pairs instead of a second, PDF-reconstructing pass over
// both subpaths. Connections from a light-subpath vertex straight to the
// camera sensor (BDPT's s-only strategies, which land off the originating
// pixel) are left to the dedicated LightTracer token rather than
// duplicated here.
type BDPT struct {
	MaxDepth           int
	RouletteStartDepth int
}

func NewBDPT(cfg core.SamplingConfig) *BDPT {
	return &BDPT{MaxDepth: cfg.MaxDepth, RouletteStartDepth: cfg.RouletteStartDepth}
}

func (b *BDPT) Li(ray core.Ray, mediumAtRay core.Medium, scene *core.Scene, sampler core.Sampler, arena *core.Arena) core.Spectrum {
	rng := newMediumRNG(sampler)

	cameraPath := b.randomWalk(scene, ray, mediumAtRay, core.WhiteSpectrum, sampler, arena, rng)
	lightPath, _ := b.lightWalk(scene, sampler, arena, rng)

	L := core.BlackSpectrum
	for t := 1; t <= len(cameraPath); t++ {
		cv := cameraPath[t-1]

		if al, ok := cv.light.(areaEmitter); ok && cv.isLight {
			le := al.L(cv.n, cv.wo)
			if core.Luminance(le) > 0 {
				L = L.Add(cv.beta.MultiplyVec(le).Multiply(1.0 / float64(t+1)))
			}
		}

		// lv.beta already carries the light-selection 1/lightPMF factor.
		for s := 1; s <= len(lightPath); s++ {
			lv := lightPath[s-1]
			contrib := b.connect(scene, cv, lv, rng)
			if core.Luminance(contrib) <= 0 {
				continue
			}
			L = L.Add(contrib.Multiply(1.0 / float64(s+t)))
		}
	}

	return L
}

// randomWalk builds a subpath by BSDF sampling, recording one vertex per
// bounce, shared by both the camera and light subpath constructions.
func (b *BDPT) randomWalk(scene *core.Scene, ray core.Ray, currentMedium core.Medium, beta core.Spectrum, sampler core.Sampler, arena *core.Arena, rng *rand.Rand) []vertex {
	var path []vertex
	for depth := 0; depth < b.MaxDepth; depth++ {
		isect, hit := scene.Intersect(ray, core.RayEpsilon, core.TMax)
		if !hit {
			break
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

		v := vertex{
			p: isect.Point, n: isect.Shading.Normal, bsdf: bsdf, beta: beta,
			wo: ray.Direction.Negate(), medium: currentMedium,
			isLight: isect.Primitive.AreaLight != nil, light: isect.Primitive.AreaLight,
		}
		path = append(path, v)

		sample, ok := bsdf.SampleF(v.wo, sampler.Next1D(), sampler.Next2D(), core.BxDFReflTransAll)
		if !ok || sample.PDF <= 0 {
			break
		}
		cosTheta := math.Abs(sample.Wi.Dot(isect.Shading.Normal))
		beta = beta.MultiplyVec(sample.Value).Multiply(cosTheta / sample.PDF)

		var survived bool
		beta, survived = russianRoulette(beta, 1, depth, b.RouletteStartDepth, sampler.Next1D())
		if !survived {
			break
		}

		ray = isect.SpawnRay(sample.Wi)
		currentMedium = nextMedium(isect, sample.Wi, currentMedium)
	}
	return path
}

// lightWalk samples one light's emission and extends it into a subpath the
// same way randomWalk does for the camera.
func (b *BDPT) lightWalk(scene *core.Scene, sampler core.Sampler, arena *core.Arena, rng *rand.Rand) ([]vertex, float64) {
	light, lightPMF := scene.LightSampler.Sample(sampler.Next1D())
	if light == nil || lightPMF <= 0 {
		return nil, 1
	}
	le, ok := light.SampleLe(sampler.Next2D(), sampler.Next2D())
	if !ok || core.Luminance(le.L) <= 0 || le.PDFPos <= 0 || le.PDFDir <= 0 {
		return nil, lightPMF
	}
	beta := le.L.Multiply(math.Abs(le.Normal.Dot(le.Ray.Direction)) / (lightPMF * le.PDFPos * le.PDFDir))
	return b.randomWalk(scene, le.Ray, nil, beta, sampler, arena, rng), lightPMF
}

// connect evaluates the BSDF-BSDF connection between a camera-subpath and a
// light-subpath vertex, including shadow-ray visibility and any medium
// transmittance along the connecting segment.
func (b *BDPT) connect(scene *core.Scene, cv, lv vertex, rng *rand.Rand) core.Spectrum {
	dir := lv.p.Subtract(cv.p)
	dist := dir.Length()
	if dist <= 0 {
		return core.BlackSpectrum
	}
	wi := dir.Multiply(1 / dist)

	fc := cv.bsdf.F(cv.wo, wi)
	if core.Luminance(fc) <= 0 {
		return core.BlackSpectrum
	}
	fl := lv.bsdf.F(lv.wo, wi.Negate())
	if core.Luminance(fl) <= 0 {
		return core.BlackSpectrum
	}

	g := math.Abs(wi.Dot(cv.n)) * math.Abs(wi.Dot(lv.n)) / (dist * dist)
	if g <= 0 {
		return core.BlackSpectrum
	}

	shadowRay := core.NewRayTo(cv.p, lv.p)
	tShadow := dist * (1 - 1e-3)
	if scene.IntersectP(shadowRay, core.RayEpsilon, tShadow) {
		return core.BlackSpectrum
	}

	tr := core.WhiteSpectrum
	if cv.medium != nil {
		tr = medium.SampleTransmittance(cv.medium, shadowRay, tShadow, rng)
	}
	if core.MaxComponent(tr) <= 0 {
		return core.BlackSpectrum
	}

	return cv.beta.MultiplyVec(fc).MultiplyVec(fl).MultiplyVec(tr).Multiply(g).MultiplyVec(lv.beta)
}
