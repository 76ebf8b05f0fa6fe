package bxdf

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// CharlieSheen is the Charlie sheen distribution (Estevez & Kulla,
// "Production Friendly Microfacet Sheen BRDF"), used for cloth-like grazing
// retroreflection that Trowbridge-Reitz can't reproduce. R tints the lobe
// and Roughness in [0,1] controls how tight the grazing highlight is.
type CharlieSheen struct {
	R         core.Spectrum
	Roughness float64
}

// NewCharlieSheen creates a sheen BxDF with reflectance R and roughness in [0,1].
func NewCharlieSheen(r core.Spectrum, roughness float64) *CharlieSheen {
	return &CharlieSheen{R: r, Roughness: math.Max(1e-3, roughness)}
}

func (s *CharlieSheen) Flags() core.BxDFFlags {
	if s.R.IsZero() {
		return 0
	}
	return core.BxDFReflection | core.BxDFGlossy
}

// d evaluates the Charlie distribution at local half-vector wm: a sin^(1/alpha)
// lobe that peaks at grazing angles, the opposite shape of a specular highlight.
func (s *CharlieSheen) d(wm core.Vec3) float64 {
	cosTheta := core.AbsCosTheta(wm)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	alpha := s.Roughness
	invAlpha := 1 / alpha
	return (2 + invAlpha) * math.Pow(sinTheta, invAlpha) / (2 * math.Pi)
}

// lambdaCharlie is a simple visibility term for the Charlie distribution:
// no closed-form Smith lambda exists for it, so this darkens the lobe
// toward grazing angles without the cost of a full microfacet visibility fit.
func lambdaCharlie(cosTheta, alpha float64) float64 {
	cosTheta = math.Max(cosTheta, 1e-5)
	oneMinusCos := 1 - cosTheta
	return oneMinusCos * oneMinusCos / (alpha + 1e-4)
}

func (s *CharlieSheen) v(wo, wi core.Vec3) float64 {
	lo := lambdaCharlie(core.AbsCosTheta(wo), s.Roughness)
	li := lambdaCharlie(core.AbsCosTheta(wi), s.Roughness)
	denom := (1 + lo + li) * 4 * core.AbsCosTheta(wo) * core.AbsCosTheta(wi)
	if denom <= 0 {
		return 0
	}
	return 1 / denom
}

func (s *CharlieSheen) F(wo, wi core.Vec3) core.Spectrum {
	if !core.SameHemisphere(wo, wi) {
		return core.Spectrum{}
	}
	wm := wo.Add(wi)
	if wm.IsZero() {
		return core.Spectrum{}
	}
	wm = wm.Normalize()
	val := s.d(wm) * s.v(wo, wi)
	return s.R.Multiply(val)
}

func (s *CharlieSheen) SampleF(wo core.Vec3, uc float64, u core.Vec2, sampleFlags core.BxDFReflTransFlags) (core.BSDFSample, bool) {
	if sampleFlags&core.BxDFReflTransReflection == 0 || wo.Z == 0 {
		return core.BSDFSample{}, false
	}
	// The Charlie lobe is comparatively flat; cosine-hemisphere sampling
	// gives acceptable variance without needing a dedicated importance
	// sampler for sin^(1/alpha).
	wi := core.SampleCosineHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	pdf := core.CosineHemispherePDF(core.AbsCosTheta(wi))
	if pdf == 0 {
		return core.BSDFSample{}, false
	}
	return core.BSDFSample{
		Value: s.F(wo, wi),
		Wi:    wi,
		PDF:   pdf,
		Flags: core.BxDFReflection | core.BxDFGlossy,
		Eta:   1,
	}, true
}

func (s *CharlieSheen) PDF(wo, wi core.Vec3, sampleFlags core.BxDFReflTransFlags) float64 {
	if sampleFlags&core.BxDFReflTransReflection == 0 || !core.SameHemisphere(wo, wi) {
		return 0
	}
	return core.CosineHemispherePDF(core.AbsCosTheta(wi))
}
