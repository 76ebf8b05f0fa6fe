package bxdf

import "github.com/df07/go-spectral-tracer/pkg/core"

// NormalizedFresnel is the directional term a separable BSSRDF uses at its
// exit point: a Lambertian-shaped lobe scaled by (1 - Fresnel) so that, when
// paired with the entry-point Fresnel transmittance, the total throughput
// stays energy-conserving across the dielectric boundary the subsurface
// material sits behind.
type NormalizedFresnel struct {
	Eta float64
}

// NewNormalizedFresnel creates the BSSRDF exit-term BxDF for relative IOR eta.
func NewNormalizedFresnel(eta float64) *NormalizedFresnel {
	return &NormalizedFresnel{Eta: eta}
}

func (n *NormalizedFresnel) Flags() core.BxDFFlags {
	return core.BxDFReflection | core.BxDFDiffuse
}

func (n *NormalizedFresnel) F(wo, wi core.Vec3) core.Spectrum {
	if !core.SameHemisphere(wo, wi) {
		return core.Spectrum{}
	}
	c := 1 - 2*fresnelMoment1(1/n.Eta)
	val := (1 - FresnelDielectric(core.CosTheta(wi), n.Eta)) / (c * 3.14159265358979323846)
	return core.NewSpectrum(val, val, val)
}

func (n *NormalizedFresnel) SampleF(wo core.Vec3, uc float64, u core.Vec2, sampleFlags core.BxDFReflTransFlags) (core.BSDFSample, bool) {
	if sampleFlags&core.BxDFReflTransReflection == 0 {
		return core.BSDFSample{}, false
	}
	wi := core.SampleCosineHemisphere(u)
	if wo.Z < 0 {
		wi.Z = -wi.Z
	}
	pdf := core.CosineHemispherePDF(core.AbsCosTheta(wi))
	if pdf == 0 {
		return core.BSDFSample{}, false
	}
	return core.BSDFSample{Value: n.F(wo, wi), Wi: wi, PDF: pdf, Flags: n.Flags(), Eta: 1}, true
}

func (n *NormalizedFresnel) PDF(wo, wi core.Vec3, sampleFlags core.BxDFReflTransFlags) float64 {
	if sampleFlags&core.BxDFReflTransReflection == 0 || !core.SameHemisphere(wo, wi) {
		return 0
	}
	return core.CosineHemispherePDF(core.AbsCosTheta(wi))
}

// fresnelMoment1 is a polynomial fit (Habel et al.) for the first moment of
// the Fresnel reflectance integral, used to normalize NormalizedFresnel so
// its hemispherical albedo stays below 1 for any eta.
func fresnelMoment1(eta float64) float64 {
	eta2 := eta * eta
	eta3 := eta2 * eta
	eta4 := eta3 * eta
	eta5 := eta4 * eta
	if eta < 1 {
		return 0.45966 - 1.73965*eta + 3.37668*eta2 - 3.904945*eta3 + 2.49277*eta4 - 0.68441*eta5
	}
	return -4.61686 + 11.1136*eta - 10.4646*eta2 + 5.11455*eta3 - 1.27198*eta4 + 0.12746*eta5
}

// PhaseBxDF adapts a volumetric PhaseFunction to the BxDF interface, letting
// a Subsurface material that models its interior as a scattering medium
// reuse ordinary BSDF sampling at the entry/exit points (spec's
// "Phase-as-BxDF" variant).
type PhaseBxDF struct {
	Phase core.PhaseFunction
}

// NewPhaseBxDF wraps a phase function as a BxDF over the full sphere rather
// than a single hemisphere.
func NewPhaseBxDF(p core.PhaseFunction) *PhaseBxDF {
	return &PhaseBxDF{Phase: p}
}

func (p *PhaseBxDF) Flags() core.BxDFFlags {
	return core.BxDFReflection | core.BxDFTransmission | core.BxDFGlossy
}

func (p *PhaseBxDF) F(wo, wi core.Vec3) core.Spectrum {
	val := p.Phase.P(wo.Negate(), wi)
	return core.NewSpectrum(val, val, val)
}

func (p *PhaseBxDF) SampleF(wo core.Vec3, uc float64, u core.Vec2, sampleFlags core.BxDFReflTransFlags) (core.BSDFSample, bool) {
	wi, pdf, ok := p.Phase.SampleP(wo.Negate(), u)
	if !ok || pdf == 0 {
		return core.BSDFSample{}, false
	}
	val := pdf // a normalized phase function's value equals its own PDF
	return core.BSDFSample{
		Value: core.NewSpectrum(val, val, val),
		Wi:    wi,
		PDF:   pdf,
		Flags: p.Flags(),
		Eta:   1,
	}, true
}

func (p *PhaseBxDF) PDF(wo, wi core.Vec3, sampleFlags core.BxDFReflTransFlags) float64 {
	return p.Phase.PDF(wo.Negate(), wi)
}
