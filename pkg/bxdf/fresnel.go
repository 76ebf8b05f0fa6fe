// Package bxdf implements core.BxDF: the individual scattering lobes
// (diffuse, conductor, dielectric, sheen, layered, mixture) that a
// core.BSDF wraps with a shading frame.
package bxdf

import (
	"math"
	"math/cmplx"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// FresnelDielectric returns the unpolarized Fresnel reflectance for a
// dielectric interface with relative index of refraction eta (transmitted
// side IOR / incident side IOR), given the cosine of the incident angle.
// cosThetaI may be negative (ray approaching from the "inside"); the caller
// passes eta unchanged and the function inverts it in that case.
func FresnelDielectric(cosThetaI, eta float64) float64 {
	cosThetaI = math.Max(-1, math.Min(1, cosThetaI))
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
	}

	sin2ThetaI := 1 - cosThetaI*cosThetaI
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return 1 // total internal reflection
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)

	rParl := (eta*cosThetaI - cosThetaT) / (eta*cosThetaI + cosThetaT)
	rPerp := (cosThetaI - eta*cosThetaT) / (cosThetaI + eta*cosThetaT)
	return (rParl*rParl + rPerp*rPerp) / 2
}

// FresnelComplex returns the unpolarized Fresnel reflectance at a
// conductor interface with complex relative IOR eta (n + ik), used for
// metals where the extinction coefficient k absorbs transmitted light
// before it can re-emerge.
func FresnelComplex(cosThetaI float64, eta complex128) float64 {
	cosThetaI = math.Max(0, math.Min(1, cosThetaI))
	sin2ThetaI := 1 - cosThetaI*cosThetaI
	sin2ThetaT := complex(sin2ThetaI, 0) / (eta * eta)
	cosThetaT := cmplx.Sqrt(1 - sin2ThetaT)

	ci := complex(cosThetaI, 0)
	rParl := (eta*ci - cosThetaT) / (eta*ci + cosThetaT)
	rPerp := (ci - eta*cosThetaT) / (ci + eta*cosThetaT)
	return (cmplx.Abs(rParl)*cmplx.Abs(rParl) + cmplx.Abs(rPerp)*cmplx.Abs(rPerp)) / 2
}

// FresnelSchlick is the cheap polynomial approximation to FresnelDielectric,
// parameterized directly by normal-incidence reflectance f0 (a spectrum, so
// conductors' colored reflectance can reuse the same formula without a
// complex IOR).
func FresnelSchlick(f0 core.Spectrum, cosTheta float64) core.Spectrum {
	m := math.Max(0, 1-cosTheta)
	m2 := m * m
	weight := m2 * m2 * m
	return f0.Add(core.WhiteSpectrum.Subtract(f0).Multiply(weight))
}

// Refract computes the refracted direction for incident direction wi (wi
// points away from the surface, PBRT convention) given the surface normal n
// and relative IOR eta (transmitted/incident). ok is false under total
// internal reflection. etaP returns the (possibly flipped) relative IOR
// actually used, needed by callers tracking radiance scaling across a
// non-symmetric transmission.
func Refract(wi, n core.Vec3, eta float64) (wt core.Vec3, etaP float64, ok bool) {
	cosThetaI := n.Dot(wi)
	if cosThetaI < 0 {
		eta = 1 / eta
		cosThetaI = -cosThetaI
		n = n.Negate()
	}
	sin2ThetaI := math.Max(0, 1-cosThetaI*cosThetaI)
	sin2ThetaT := sin2ThetaI / (eta * eta)
	if sin2ThetaT >= 1 {
		return core.Vec3{}, eta, false
	}
	cosThetaT := math.Sqrt(1 - sin2ThetaT)
	wt = wi.Negate().Multiply(1 / eta).Add(n.Multiply(cosThetaI/eta - cosThetaT))
	return wt, eta, true
}

// Reflect returns the mirror reflection of wo about normal n.
func Reflect(wo, n core.Vec3) core.Vec3 {
	return wo.Negate().Add(n.Multiply(2 * wo.Dot(n)))
}
