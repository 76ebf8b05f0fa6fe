// Package medium implements participating media: homogeneous and
// grid-based heterogeneous volumes, their phase functions, and the
// null-scattering majorant machinery integrators use for unbiased
// transmittance and collision sampling.
package medium

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Isotropic scatters uniformly in all directions, the simplest phase
// function and a reasonable default for a medium with no preferred
// scattering direction (e.g. a uniform participating fog).
type Isotropic struct{}

func (Isotropic) P(wo, wi core.Vec3) float64 {
	return 1 / (4 * math.Pi)
}

func (Isotropic) SampleP(wo core.Vec3, u core.Vec2) (core.Vec3, float64, bool) {
	wi := core.SampleUniformSphere(u)
	return wi, 1 / (4 * math.Pi), true
}

func (Isotropic) PDF(wo, wi core.Vec3) float64 {
	return 1 / (4 * math.Pi)
}

// HenyeyGreenstein is the standard single-parameter anisotropic phase
// function: G in (-1, 1), with positive values biasing scattering forward
// (in the direction of travel) and negative values biasing it backward.
type HenyeyGreenstein struct {
	G float64
}

// NewHenyeyGreenstein creates an HG phase function with asymmetry g.
func NewHenyeyGreenstein(g float64) HenyeyGreenstein {
	return HenyeyGreenstein{G: math.Max(-0.999, math.Min(0.999, g))}
}

func hgPhase(cosTheta, g float64) float64 {
	denom := 1 + g*g + 2*g*cosTheta
	return (1 - g*g) / (4 * math.Pi * denom * math.Sqrt(math.Max(denom, 1e-12)))
}

// P evaluates the phase function. wo, wi follow the BxDF convention of both
// pointing away from the scattering point, so a ray continuing undeflected
// in its original direction of travel has wi close to -wo: forward-biased
// scattering (g > 0) therefore peaks near cosTheta = Dot(wo, wi) = -1, not
// +1. No extra negation is applied here beyond that dot product.
func (h HenyeyGreenstein) P(wo, wi core.Vec3) float64 {
	return hgPhase(wo.Dot(wi), h.G)
}

func (h HenyeyGreenstein) SampleP(wo core.Vec3, u core.Vec2) (core.Vec3, float64, bool) {
	g := h.G
	var cosTheta float64
	if math.Abs(g) < 1e-3 {
		cosTheta = 1 - 2*u.X
	} else {
		sqrTerm := (1 - g*g) / (1 + g - 2*g*u.X)
		cosTheta = -(1 + g*g - sqrTerm*sqrTerm) / (2 * g)
	}
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y
	sinPhi, cosPhi := math.Sincos(phi)
	frame := core.NewFrame(wo)
	local := core.NewVec3(sinTheta*cosPhi, sinTheta*sinPhi, cosTheta)
	wi := frame.FromLocal(local)
	return wi, hgPhase(cosTheta, g), true
}

func (h HenyeyGreenstein) PDF(wo, wi core.Vec3) float64 {
	return h.P(wo, wi)
}
