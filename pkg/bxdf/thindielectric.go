package bxdf

import "github.com/df07/go-spectral-tracer/pkg/core"

// ThinDielectric models a thin slab of glass (e.g. a window or soap film):
// light that would refract through a normal dielectric instead exits
// parallel to how it entered, since the two interfaces are assumed to be
// parallel and the slab thin enough to ignore the lateral offset. The
// reflectance accounts for the infinite series of internal bounces between
// the two faces.
type ThinDielectric struct {
	Eta float64
}

// NewThinDielectric creates a thin-dielectric BxDF with relative IOR eta.
func NewThinDielectric(eta float64) *ThinDielectric {
	return &ThinDielectric{Eta: eta}
}

func (t *ThinDielectric) Flags() core.BxDFFlags {
	return core.BxDFReflection | core.BxDFTransmission | core.BxDFSpecular
}

func (t *ThinDielectric) F(wo, wi core.Vec3) core.Spectrum {
	return core.Spectrum{}
}

func (t *ThinDielectric) reflectance(wo core.Vec3) float64 {
	r := FresnelDielectric(core.AbsCosTheta(wo), t.Eta)
	if r < 1 {
		r += (1 - r) * (1 - r) * r / (1 - r*r)
	}
	return r
}

func (t *ThinDielectric) SampleF(wo core.Vec3, uc float64, u core.Vec2, sampleFlags core.BxDFReflTransFlags) (core.BSDFSample, bool) {
	r := t.reflectance(wo)
	tr := 1 - r

	canReflect := sampleFlags&core.BxDFReflTransReflection != 0
	canTransmit := sampleFlags&core.BxDFReflTransTransmission != 0
	pr, pt := r, tr
	if !canReflect {
		pr = 0
	}
	if !canTransmit {
		pt = 0
	}
	if pr+pt == 0 {
		return core.BSDFSample{}, false
	}

	if uc < pr/(pr+pt) {
		wi := core.NewVec3(-wo.X, -wo.Y, wo.Z)
		val := r / core.AbsCosTheta(wi)
		return core.BSDFSample{
			Value: core.NewSpectrum(val, val, val),
			Wi:    wi,
			PDF:   pr / (pr + pt),
			Flags: core.BxDFReflection | core.BxDFSpecular,
			Eta:   1,
		}, true
	}

	wi := wo.Negate()
	val := tr / core.AbsCosTheta(wi)
	return core.BSDFSample{
		Value: core.NewSpectrum(val, val, val),
		Wi:    wi,
		PDF:   pt / (pr + pt),
		Flags: core.BxDFTransmission | core.BxDFSpecular,
		Eta:   1,
	}, true
}

func (t *ThinDielectric) PDF(wo, wi core.Vec3, sampleFlags core.BxDFReflTransFlags) float64 {
	return 0
}
