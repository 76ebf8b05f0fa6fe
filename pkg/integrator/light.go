package integrator

import (
	"math"
	"math/rand/v2"

	"github.com/df07/go-spectral-tracer/pkg/camera"
	"github.com/df07/go-spectral-tracer/pkg/core"
	"github.com/df07/go-spectral-tracer/pkg/medium"
)

// BidirectionalIntegrator is the transport contract for techniques that
// don't produce a single pixel's radiance from a single camera ray: light
// tracing (LightTracer, the only implementation; BDPT is an Integrator)
// instead distributes contributions across the film directly via
// Film.AddSplat, so it's driven once per light-subpath sample rather than
// once per camera ray. pkg/renderer dispatches to
// Integrator or BidirectionalIntegrator depending on which one a registry
// token resolves to.
type BidirectionalIntegrator interface {
	Splat(scene *core.Scene, sampler core.Sampler, arena *core.Arena, film *camera.Film)
}

// LightTracer serves the `light_path`/`light_vol_path` tokens: a path
// traced forward from a light, connected to the camera's importance
// function at every non-specular vertex and splatted onto the film via
// Camera.SampleWi. The walk tracks the current medium across surfaces and
// applies ratio-tracking transmittance along each camera connection; it
// samples no scattering events inside media. It trades Path's guaranteed one-sample-per-pixel coverage for
// the ability to resolve caustics and other light-favored paths a
// camera-rooted walk rarely finds.
type LightTracer struct {
	MaxDepth           int
	RouletteStartDepth int
}

func NewLightTracer(cfg core.SamplingConfig) *LightTracer {
	return &LightTracer{MaxDepth: cfg.MaxDepth, RouletteStartDepth: cfg.RouletteStartDepth}
}

func (lt *LightTracer) Splat(scene *core.Scene, sampler core.Sampler, arena *core.Arena, film *camera.Film) {
	rng := newMediumRNG(sampler)

	light, lightPMF := scene.LightSampler.Sample(sampler.Next1D())
	if light == nil || lightPMF <= 0 {
		return
	}
	le, ok := light.SampleLe(sampler.Next2D(), sampler.Next2D())
	if !ok || core.Luminance(le.L) <= 0 || le.PDFPos <= 0 || le.PDFDir <= 0 {
		return
	}

	beta := le.L.Multiply(math.Abs(le.Normal.Dot(le.Ray.Direction)) / (lightPMF * le.PDFPos * le.PDFDir))
	ray := le.Ray
	var currentMedium core.Medium

	lt.connectToCamera(scene, ray.Origin, core.Vec3{}, beta, currentMedium, sampler, rng, film, nil)

	for bounce := 0; bounce < lt.MaxDepth; bounce++ {
		isect, hit := scene.Intersect(ray, core.RayEpsilon, core.TMax)
		if !hit {
			return
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
			lt.connectToCamera(scene, isect.Point, isect.Shading.Normal, beta, currentMedium, sampler, rng, film, withBSDF(bsdf, wo))
		}

		sample, ok := bsdf.SampleF(wo, sampler.Next1D(), sampler.Next2D(), core.BxDFReflTransAll)
		if !ok || sample.PDF <= 0 {
			return
		}
		cosTheta := math.Abs(sample.Wi.Dot(isect.Shading.Normal))
		beta = beta.MultiplyVec(sample.Value).Multiply(cosTheta / sample.PDF)

		ray = isect.SpawnRay(sample.Wi)
		currentMedium = nextMedium(isect, sample.Wi, currentMedium)

		var survived bool
		beta, survived = russianRoulette(beta, 1, bounce, lt.RouletteStartDepth, sampler.Next1D())
		if !survived {
			return
		}
	}
}

// bsdfConnection carries the emitting vertex's BSDF when connecting a
// surface (not light-origin) vertex to the camera.
type bsdfConnection struct {
	bsdf core.BSDF
	wo   core.Vec3
}

func withBSDF(bsdf core.BSDF, wo core.Vec3) *bsdfConnection { return &bsdfConnection{bsdf: bsdf, wo: wo} }

// connectToCamera importance-samples the camera's sensor response from a
// light-subpath vertex and splats the resulting contribution, per spec.md's
// light-tracing connection step. A nil conn means p is the light's own
// origin vertex, where the contribution is the raw emitted radiance toward
// the camera rather than a BSDF evaluation.
func (lt *LightTracer) connectToCamera(scene *core.Scene, p, n core.Vec3, beta core.Spectrum, mediumAtP core.Medium, sampler core.Sampler, rng *rand.Rand, film *camera.Film, conn *bsdfConnection) {
	cws, ok := scene.Camera.SampleWi(p, sampler.Next2D())
	if !ok || cws.PDF <= 0 || core.Luminance(cws.Importance) <= 0 {
		return
	}

	f := core.WhiteSpectrum
	if conn != nil {
		f = conn.bsdf.F(conn.wo, cws.Wi).Multiply(math.Abs(cws.Wi.Dot(n)))
	}
	if core.Luminance(f) <= 0 {
		return
	}

	shadowRay := core.NewRayTo(p, cws.PLens)
	dist := cws.PLens.Subtract(p).Length()
	tShadow := dist * (1 - 1e-3)
	if scene.IntersectP(shadowRay, core.RayEpsilon, tShadow) {
		return
	}

	tr := core.WhiteSpectrum
	if mediumAtP != nil {
		tr = medium.SampleTransmittance(mediumAtP, shadowRay, tShadow, rng)
	}
	if core.MaxComponent(tr) <= 0 {
		return
	}

	contrib := beta.MultiplyVec(f).MultiplyVec(tr).MultiplyVec(cws.Importance).Multiply(1 / cws.PDF)
	film.AddSplat(cws.PRaster, contrib)
}
