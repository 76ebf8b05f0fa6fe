package bxdf

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Conductor is a rough metallic reflector: a Trowbridge-Reitz microfacet
// distribution with a complex-IOR Fresnel term, per channel. When the
// distribution is effectively smooth it behaves as a perfect mirror tinted
// by normal-incidence Fresnel reflectance.
type Conductor struct {
	Dist             TrowbridgeReitz
	Eta, K           core.Spectrum // complex IOR real/imaginary parts, per RGB channel
	EnergyCompensate bool
}

// NewConductor creates a rough conductor BxDF.
func NewConductor(dist TrowbridgeReitz, eta, k core.Spectrum) *Conductor {
	return &Conductor{Dist: dist, Eta: eta, K: k, EnergyCompensate: true}
}

func (c *Conductor) Flags() core.BxDFFlags {
	if c.Dist.EffectivelySmooth() {
		return core.BxDFReflection | core.BxDFSpecular
	}
	return core.BxDFReflection | core.BxDFGlossy
}

func (c *Conductor) fresnel(cosTheta float64) core.Spectrum {
	return core.NewSpectrum(
		FresnelComplex(cosTheta, complex(c.Eta.X, c.K.X)),
		FresnelComplex(cosTheta, complex(c.Eta.Y, c.K.Y)),
		FresnelComplex(cosTheta, complex(c.Eta.Z, c.K.Z)),
	)
}

func (c *Conductor) F(wo, wi core.Vec3) core.Spectrum {
	if c.Dist.EffectivelySmooth() || !core.SameHemisphere(wo, wi) {
		return core.Spectrum{}
	}
	cosThetaO, cosThetaI := core.AbsCosTheta(wo), core.AbsCosTheta(wi)
	if cosThetaO == 0 || cosThetaI == 0 {
		return core.Spectrum{}
	}
	wm := wo.Add(wi)
	if wm.IsZero() {
		return core.Spectrum{}
	}
	wm = wm.Normalize()
	fr := c.fresnel(wo.AbsDot(wm))
	val := fr.Multiply(c.Dist.D(wm) * c.Dist.G(wo, wi) / (4 * cosThetaO * cosThetaI))
	if c.EnergyCompensate {
		val = val.Add(c.energyCompensation(cosThetaO, cosThetaI, fr))
	}
	return val
}

// energyCompensation adds back the multiple-scattering energy a
// single-scatter microfacet model loses at high roughness, using the
// closed-form approximation from the renderer's directional-albedo LUTs
// (see energycompensation.go); fr approximates the multi-bounce tint as the
// average single-bounce Fresnel term.
func (c *Conductor) energyCompensation(cosThetaO, cosThetaI float64, fr core.Spectrum) core.Spectrum {
	roughness := math.Sqrt(math.Sqrt(c.Dist.AlphaX * c.Dist.AlphaY)) // LUT rows are indexed by roughness, alpha = roughness^2
	eo := GGXDirectionalAlbedo(cosThetaO, roughness)
	ei := GGXDirectionalAlbedo(cosThetaI, roughness)
	eAvg := GGXAverageAlbedo(roughness)
	if eAvg >= 1 {
		return core.Spectrum{}
	}
	fMs := (1 - eo) * (1 - ei) / (math.Pi * (1 - eAvg))
	return fr.Multiply(fMs)
}

func (c *Conductor) SampleF(wo core.Vec3, uc float64, u core.Vec2, sampleFlags core.BxDFReflTransFlags) (core.BSDFSample, bool) {
	if sampleFlags&core.BxDFReflTransReflection == 0 {
		return core.BSDFSample{}, false
	}
	if c.Dist.EffectivelySmooth() {
		wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
		fr := c.fresnel(core.AbsCosTheta(wi))
		return core.BSDFSample{
			Value: fr.Multiply(1 / core.AbsCosTheta(wi)),
			Wi:    wi,
			PDF:   1,
			Flags: core.BxDFReflection | core.BxDFSpecular,
			Eta:   1,
		}, true
	}
	if wo.Z == 0 {
		return core.BSDFSample{}, false
	}
	wh := c.Dist.SampleWm(wo, u)
	wi := Reflect(wo, wh)
	if !core.SameHemisphere(wo, wi) {
		return core.BSDFSample{}, false
	}
	pdf := c.Dist.PDF(wo, wh) / (4 * wo.AbsDot(wh))
	if pdf == 0 {
		return core.BSDFSample{}, false
	}
	return core.BSDFSample{
		Value: c.F(wo, wi),
		Wi:    wi,
		PDF:   pdf,
		Flags: core.BxDFReflection | core.BxDFGlossy,
		Eta:   1,
	}, true
}

func (c *Conductor) PDF(wo, wi core.Vec3, sampleFlags core.BxDFReflTransFlags) float64 {
	if c.Dist.EffectivelySmooth() || sampleFlags&core.BxDFReflTransReflection == 0 || !core.SameHemisphere(wo, wi) {
		return 0
	}
	wm := wo.Add(wi)
	if wm.IsZero() {
		return 0
	}
	wm = wm.Normalize()
	if wm.Z < 0 {
		wm = wm.Negate()
	}
	return c.Dist.PDF(wo, wm) / (4 * wo.AbsDot(wm))
}
