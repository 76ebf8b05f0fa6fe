// Package integrator implements the renderer's light-transport estimators:
// the spec's full `path, vol_path, light_path, light_vol_path, bdpt,
// vol_bdpt, naive_path, naive_vol_path, random_walk, ao, albedo, debug, pm,
// vol_pm, sppm, vol_sppm, restir_di, restir_pt` token set. Surface and
// volumetric transport are not separate code paths here: each `vol_` token
// is the same Go type as its unprefixed sibling, so a scene with no media
// renders through the identical code a scene full of them does (see
// DESIGN.md for this Open Question resolution). Path/NaivePath and
// RandomWalk sample `core.Medium` interactions inline whenever the current
// ray segment is inside one; the other integrators use the current medium
// only for ratio-tracking transmittance along shadow and connection rays,
// or not at all, and sample no scattering events inside media.
//
// Grounded on the teacher's pkg/integrator/path_tracing.go (the per-bounce
// NEE+MIS shape, the Verbose/logf debug-trace idiom) and pkg/integrator/bdpt.go
// (vertex-array bidirectional connections), generalized from the teacher's
// HitRecord/ScatterResult/core.Emitter model onto this module's
// core.Intersection/core.BSDF/core.Light/core.Medium stack.
package integrator

import (
	"math"
	"math/rand/v2"

	"github.com/df07/go-spectral-tracer/pkg/core"
	"github.com/df07/go-spectral-tracer/pkg/medium"
)

// Integrator is the unidirectional transport contract every `Li`-shaped
// token implements: path, vol_path, naive_path, naive_vol_path,
// random_walk, ao, albedo, debug.
type Integrator interface {
	Li(ray core.Ray, mediumAtRay core.Medium, scene *core.Scene, sampler core.Sampler, arena *core.Arena) core.Spectrum
}

// areaEmitter is the narrow capability pkg/light.DiffuseArea exposes beyond
// core.Light: the emitted radiance leaving its surface toward a direction,
// needed whenever a traced ray directly hits the light's own geometry
// rather than being sampled toward it via SampleLi.
type areaEmitter interface {
	L(n, wo core.Vec3) core.Spectrum
}

// newMediumRNG derives a *rand.Rand from the sampler's own deterministic
// stream, so medium free-flight sampling (which pkg/medium's
// SampleTransmittance and the event sampler below both need a
// math/rand/v2 source for, rather than the core.Sampler contract) still
// varies only with (pixel, sampleIndex) and never with goroutine
// scheduling: the spec's parallel-determinism property (testable property
// 7) depends on every source of randomness bottoming out in the sampler.
func newMediumRNG(sampler core.Sampler) *rand.Rand {
	return rand.New(rand.NewPCG(math.Float64bits(sampler.Next1D()), math.Float64bits(sampler.Next1D())))
}

// mediumEvent is the outcome of sampling a medium's free-flight distance
// along a ray segment: a real absorption/scattering interaction at p, or
// reaching tMax (the surface hit or light-tracer horizon) with beta
// already updated by every null-collision weight encountered along the way.
type mediumEvent struct {
	real     bool
	absorbed bool
	p        core.Vec3
	ms       core.MediumSample
}

// sampleMediumInteraction walks ray's majorant segments over [0, tMax],
// deciding at each candidate collision whether it is absorption,
// scattering, or a null-collision, per spec.md §4.7's discrete event
// distribution [σ_a/σ_maj, σ_s/σ_maj, max(0,1-(σ_a+σ_s)/σ_maj)]. Channels
// are tracked jointly via the average of σ_maj for the free-flight
// distance (matching pkg/medium/transmittance.go's existing
// single-channel-average simplification for this RGB-valued renderer,
// rather than full hero-wavelength spectral MIS), while beta itself still
// accumulates the full per-channel null-collision ratio.
func sampleMediumInteraction(m core.Medium, ray core.Ray, tMax float64, rng *rand.Rand, beta *core.Spectrum) mediumEvent {
	iter := m.SampleRay(ray, tMax)
	for {
		seg, ok := iter.Next()
		if !ok {
			return mediumEvent{}
		}
		sigmaMajAvg := core.Average(seg.SigmaMaj)
		if sigmaMajAvg <= 0 {
			continue
		}
		t := seg.TMin
		for {
			u := math.Max(rng.Float64(), 1e-12)
			t += -math.Log(u) / sigmaMajAvg
			if t >= seg.TMax {
				break
			}
			p := ray.At(t)
			ms := m.Sample(p)
			sigmaA := core.Average(ms.SigmaA)
			sigmaS := core.Average(ms.SigmaS)
			pAbsorb := sigmaA / sigmaMajAvg
			pScatter := sigmaS / sigmaMajAvg
			uEvent := rng.Float64()
			switch {
			case uEvent < pAbsorb:
				return mediumEvent{real: true, absorbed: true, p: p, ms: ms}
			case uEvent < pAbsorb+pScatter:
				return mediumEvent{real: true, p: p, ms: ms}
			default:
				pNull := 1 - pAbsorb - pScatter
				if pNull > 1e-12 {
					sigmaN := seg.SigmaMaj.Subtract(ms.SigmaA).Subtract(ms.SigmaS)
					*beta = beta.MultiplyVec(core.SafeDiv(sigmaN, seg.SigmaMaj.Multiply(pNull)))
				}
			}
		}
	}
}

// sampleLd estimates the next-event-estimation direct-lighting term at a
// surface vertex: choose a light via the scene's LightSampler, importance
// sample it, check visibility (accounting for any participating medium
// along the shadow ray via ratio-tracking transmittance), and MIS-weight
// against the BSDF's own density at that direction. Shared by Path,
// PhotonMapping's final gather, and ReSTIRPT's later bounces.
func sampleLd(scene *core.Scene, p, n core.Vec3, bsdf core.BSDF, wo core.Vec3, mediumAtP core.Medium, sampler core.Sampler, rng *rand.Rand) core.Spectrum {
	light, lightPMF := scene.LightSampler.Sample(sampler.Next1D())
	if light == nil || lightPMF <= 0 {
		return core.BlackSpectrum
	}
	ls, ok := light.SampleLi(p, n, sampler.Next2D())
	if !ok || ls.PDF <= 0 || core.Luminance(ls.L) <= 0 {
		return core.BlackSpectrum
	}

	f := bsdf.F(wo, ls.Wi).Multiply(math.Abs(ls.Wi.Dot(n)))
	if core.Luminance(f) <= 0 {
		return core.BlackSpectrum
	}

	shadowRay := core.NewRayTo(p, ls.PLight)
	shadowRay.Origin = core.Offset(p, shadowRayNormal(n, shadowRay.Direction))
	dist := ls.PLight.Subtract(p).Length()
	tShadow := dist * (1 - 1e-3)
	if scene.IntersectP(shadowRay, core.RayEpsilon, tShadow) {
		return core.BlackSpectrum
	}

	tr := core.WhiteSpectrum
	if mediumAtP != nil {
		tr = medium.SampleTransmittance(mediumAtP, shadowRay, tShadow, rng)
	}
	if core.MaxComponent(tr) <= 0 {
		return core.BlackSpectrum
	}

	lightPDF := ls.PDF * lightPMF
	contrib := f.MultiplyVec(ls.L).MultiplyVec(tr).Multiply(1 / lightPDF)
	if light.Type() == core.LightDeltaPosition || light.Type() == core.LightDeltaDirection {
		return contrib
	}
	bsdfPDF := bsdf.PDF(wo, ls.Wi, core.BxDFReflTransAll)
	weight := core.PowerHeuristic(1, lightPDF, 1, bsdfPDF)
	return contrib.Multiply(weight)
}

func shadowRayNormal(n, dir core.Vec3) core.Vec3 {
	if n.Dot(dir) < 0 {
		return n.Negate()
	}
	return n
}

// sampleLdMedium is sampleLd's counterpart for a real scattering event
// inside a medium: NEE from a volumetric vertex against a phase function
// rather than a BSDF. Phase functions have no specular lobes, so unlike
// sampleLd there is no delta-light MIS bypass beyond the light itself.
func sampleLdMedium(scene *core.Scene, p core.Vec3, phase core.PhaseFunction, wo core.Vec3, mediumAtP core.Medium, sampler core.Sampler, rng *rand.Rand) core.Spectrum {
	light, lightPMF := scene.LightSampler.Sample(sampler.Next1D())
	if light == nil || lightPMF <= 0 {
		return core.BlackSpectrum
	}
	ls, ok := light.SampleLi(p, core.Vec3{}, sampler.Next2D())
	if !ok || ls.PDF <= 0 || core.Luminance(ls.L) <= 0 {
		return core.BlackSpectrum
	}

	ph := phase.P(wo, ls.Wi)
	if ph <= 0 {
		return core.BlackSpectrum
	}

	shadowRay := core.NewRayTo(p, ls.PLight)
	dist := ls.PLight.Subtract(p).Length()
	tShadow := dist * (1 - 1e-3)
	if scene.IntersectP(shadowRay, core.RayEpsilon, tShadow) {
		return core.BlackSpectrum
	}

	tr := core.WhiteSpectrum
	if mediumAtP != nil {
		tr = medium.SampleTransmittance(mediumAtP, shadowRay, tShadow, rng)
	}
	if core.MaxComponent(tr) <= 0 {
		return core.BlackSpectrum
	}

	lightPDF := ls.PDF * lightPMF
	contrib := ls.L.MultiplyVec(tr).Multiply(ph / lightPDF)
	if light.Type() == core.LightDeltaPosition || light.Type() == core.LightDeltaDirection {
		return contrib
	}
	phasePDF := phase.PDF(wo, ls.Wi)
	weight := core.PowerHeuristic(1, lightPDF, 1, phasePDF)
	return contrib.Multiply(weight)
}

// russianRoulette applies the spec's survival test `p =
// clamp(beta.MaxComponent * etaScale, 0, 1)` after rouletteStartDepth
// bounces, returning the possibly-rescaled beta and whether the path
// survives.
func russianRoulette(beta core.Spectrum, etaScale float64, bounce, rouletteStartDepth int, u float64) (core.Spectrum, bool) {
	if bounce < rouletteStartDepth {
		return beta, true
	}
	rrBeta := beta.Multiply(etaScale)
	p := math.Min(1, core.MaxComponent(rrBeta))
	if p <= 0 {
		return beta, false
	}
	if u >= p {
		return beta, false
	}
	return beta.Multiply(1 / p), true
}
