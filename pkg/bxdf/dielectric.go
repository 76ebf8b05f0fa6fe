package bxdf

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Dielectric is a rough (or, at alpha~0, perfectly smooth) glass-like
// interface: reflects and refracts according to Fresnel, with relative IOR
// Eta (transmitted side / incident side, e.g. 1.5 for glass in air).
type Dielectric struct {
	Eta              float64
	Dist             TrowbridgeReitz
	EnergyCompensate bool
}

// NewDielectric creates a rough dielectric BxDF.
func NewDielectric(eta float64, dist TrowbridgeReitz) *Dielectric {
	return &Dielectric{Eta: eta, Dist: dist, EnergyCompensate: true}
}

func (d *Dielectric) Flags() core.BxDFFlags {
	f := core.BxDFReflection | core.BxDFTransmission
	if d.Eta == 1 || d.Dist.EffectivelySmooth() {
		return f | core.BxDFSpecular
	}
	return f | core.BxDFGlossy
}

func (d *Dielectric) F(wo, wi core.Vec3) core.Spectrum {
	if d.Eta == 1 || d.Dist.EffectivelySmooth() {
		return core.Spectrum{}
	}
	cosThetaO, cosThetaI := core.CosTheta(wo), core.CosTheta(wi)
	reflect := cosThetaI*cosThetaO > 0
	etap := 1.0
	if !reflect {
		if cosThetaO > 0 {
			etap = d.Eta
		} else {
			etap = 1 / d.Eta
		}
	}
	wm := wi.Multiply(etap).Add(wo)
	if cosThetaI == 0 || cosThetaO == 0 || wm.IsZero() {
		return core.Spectrum{}
	}
	wm = wm.Normalize()
	if wm.Z < 0 {
		wm = wm.Negate()
	}
	if wm.Dot(wi)*cosThetaI < 0 || wm.Dot(wo)*cosThetaO < 0 {
		return core.Spectrum{} // backfacing half vector
	}

	fr := FresnelDielectric(wo.Dot(wm), d.Eta)
	val := 0.0
	if reflect {
		val = d.Dist.D(wm) * d.Dist.G(wo, wi) * fr / math.Abs(4*cosThetaI*cosThetaO)
	} else {
		denom := wm.Dot(wi) + wm.Dot(wo)/etap
		denom *= denom
		val = d.Dist.D(wm) * (1 - fr) * d.Dist.G(wo, wi) *
			math.Abs(wm.Dot(wi)*wm.Dot(wo)/(cosThetaI*cosThetaO*denom)) / (etap * etap)
	}
	result := core.NewSpectrum(val, val, val)
	if d.EnergyCompensate {
		roughness := math.Sqrt(math.Sqrt(d.Dist.AlphaX * d.Dist.AlphaY)) // LUT rows are indexed by roughness, alpha = roughness^2
		eo := GGXDirectionalAlbedo(math.Abs(cosThetaO), roughness)
		ei := GGXDirectionalAlbedo(math.Abs(cosThetaI), roughness)
		eAvg := GGXAverageAlbedo(roughness)
		if eAvg < 1 {
			fMs := fr * (1 - eo) * (1 - ei) / (math.Pi * (1 - eAvg))
			result = result.Add(core.NewSpectrum(fMs, fMs, fMs))
		}
	}
	return result
}

func (d *Dielectric) SampleF(wo core.Vec3, uc float64, u core.Vec2, sampleFlags core.BxDFReflTransFlags) (core.BSDFSample, bool) {
	if d.Eta == 1 || d.Dist.EffectivelySmooth() {
		return d.sampleSpecular(wo, uc, sampleFlags)
	}
	return d.sampleRough(wo, uc, u, sampleFlags)
}

func (d *Dielectric) sampleSpecular(wo core.Vec3, uc float64, sampleFlags core.BxDFReflTransFlags) (core.BSDFSample, bool) {
	r := FresnelDielectric(core.CosTheta(wo), d.Eta)
	t := 1 - r
	canReflect := sampleFlags&core.BxDFReflTransReflection != 0
	canTransmit := sampleFlags&core.BxDFReflTransTransmission != 0
	if !canReflect && !canTransmit {
		return core.BSDFSample{}, false
	}

	pr, pt := r, t
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

	wi, etap, ok := Refract(wo, core.NewVec3(0, 0, 1), d.Eta)
	if !ok {
		return core.BSDFSample{}, false
	}
	val := t / core.AbsCosTheta(wi) / (etap * etap)
	return core.BSDFSample{
		Value: core.NewSpectrum(val, val, val),
		Wi:    wi,
		PDF:   pt / (pr + pt),
		Flags: core.BxDFTransmission | core.BxDFSpecular,
		Eta:   etap,
	}, true
}

func (d *Dielectric) sampleRough(wo core.Vec3, uc float64, u core.Vec2, sampleFlags core.BxDFReflTransFlags) (core.BSDFSample, bool) {
	wm := d.Dist.SampleWm(wo, u)
	r := FresnelDielectric(wo.Dot(wm), d.Eta)
	t := 1 - r

	canReflect := sampleFlags&core.BxDFReflTransReflection != 0
	canTransmit := sampleFlags&core.BxDFReflTransTransmission != 0
	pr, pt := r, t
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
		wi := Reflect(wo, wm)
		if !core.SameHemisphere(wo, wi) {
			return core.BSDFSample{}, false
		}
		pdf := d.Dist.PDF(wo, wm) / (4 * wo.AbsDot(wm)) * pr / (pr + pt)
		if pdf == 0 {
			return core.BSDFSample{}, false
		}
		return core.BSDFSample{Value: d.F(wo, wi), Wi: wi, PDF: pdf, Flags: core.BxDFReflection | core.BxDFGlossy, Eta: 1}, true
	}

	wi, etap, ok := Refract(wo, faceforward(wm, wo), d.Eta)
	if !ok || core.SameHemisphere(wo, wi) || wi.Z == 0 {
		return core.BSDFSample{}, false
	}
	denom := wm.Dot(wi) + wm.Dot(wo)/etap
	denom *= denom
	if denom == 0 {
		return core.BSDFSample{}, false
	}
	dwmDwi := math.Abs(wm.Dot(wi)) / denom
	pdf := d.Dist.PDF(wo, wm) * dwmDwi * pt / (pr + pt)
	if pdf == 0 {
		return core.BSDFSample{}, false
	}
	return core.BSDFSample{Value: d.F(wo, wi), Wi: wi, PDF: pdf, Flags: core.BxDFTransmission | core.BxDFGlossy, Eta: etap}, true
}

func (d *Dielectric) PDF(wo, wi core.Vec3, sampleFlags core.BxDFReflTransFlags) float64 {
	if d.Eta == 1 || d.Dist.EffectivelySmooth() {
		return 0
	}
	cosThetaO, cosThetaI := core.CosTheta(wo), core.CosTheta(wi)
	reflect := cosThetaI*cosThetaO > 0
	etap := 1.0
	if !reflect {
		if cosThetaO > 0 {
			etap = d.Eta
		} else {
			etap = 1 / d.Eta
		}
	}
	wm := wi.Multiply(etap).Add(wo)
	if cosThetaI == 0 || cosThetaO == 0 || wm.IsZero() {
		return 0
	}
	wm = wm.Normalize()
	if wm.Z < 0 {
		wm = wm.Negate()
	}

	r := FresnelDielectric(wo.Dot(wm), d.Eta)
	t := 1 - r
	canReflect := sampleFlags&core.BxDFReflTransReflection != 0
	canTransmit := sampleFlags&core.BxDFReflTransTransmission != 0
	pr, pt := r, t
	if !canReflect {
		pr = 0
	}
	if !canTransmit {
		pt = 0
	}
	if pr+pt == 0 {
		return 0
	}

	if reflect {
		return d.Dist.PDF(wo, wm) / (4 * wo.AbsDot(wm)) * pr / (pr + pt)
	}
	denom := wm.Dot(wi) + wm.Dot(wo)/etap
	denom *= denom
	if denom == 0 {
		return 0
	}
	dwmDwi := math.Abs(wm.Dot(wi)) / denom
	return d.Dist.PDF(wo, wm) * dwmDwi * pt / (pr + pt)
}

func faceforward(n, v core.Vec3) core.Vec3 {
	if n.Dot(v) < 0 {
		return n.Negate()
	}
	return n
}
