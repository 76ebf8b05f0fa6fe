package bxdf

import "github.com/df07/go-spectral-tracer/pkg/core"

// Diffuse is an ideal Lambertian reflector with constant reflectance R.
type Diffuse struct {
	R core.Spectrum
}

// NewDiffuse creates a Lambertian BxDF with reflectance R.
func NewDiffuse(r core.Spectrum) *Diffuse {
	return &Diffuse{R: r}
}

func (d *Diffuse) Flags() core.BxDFFlags {
	if d.R.IsZero() {
		return 0
	}
	return core.BxDFReflection | core.BxDFDiffuse
}

func (d *Diffuse) F(wo, wi core.Vec3) core.Spectrum {
	if !core.SameHemisphere(wo, wi) {
		return core.Spectrum{}
	}
	return d.R.Multiply(1 / 3.14159265358979323846)
}

func (d *Diffuse) SampleF(wo core.Vec3, uc float64, u core.Vec2, sampleFlags core.BxDFReflTransFlags) (core.BSDFSample, bool) {
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
	return core.BSDFSample{
		Value: d.F(wo, wi),
		Wi:    wi,
		PDF:   pdf,
		Flags: d.Flags(),
		Eta:   1,
	}, true
}

func (d *Diffuse) PDF(wo, wi core.Vec3, sampleFlags core.BxDFReflTransFlags) float64 {
	if sampleFlags&core.BxDFReflTransReflection == 0 || !core.SameHemisphere(wo, wi) {
		return 0
	}
	return core.CosineHemispherePDF(core.AbsCosTheta(wi))
}
