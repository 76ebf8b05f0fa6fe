package bxdf

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// TrowbridgeReitz is the GGX microfacet distribution, parameterized by
// per-axis roughness (alphaX, alphaY) for anisotropic surfaces.
type TrowbridgeReitz struct {
	AlphaX, AlphaY float64
}

// RoughnessToAlpha converts a perceptually-linear [0,1] roughness control
// (the value materials expose) to the distribution's alpha parameter, via
// the common alpha = roughness^2 remapping that keeps mid-roughness values
// from looking too glossy.
func RoughnessToAlpha(roughness float64) float64 {
	return roughness * roughness
}

// EffectivelySmooth reports whether both alphas are small enough that the
// distribution should be treated as a delta function (avoids numerical
// instability evaluating D/G1 at alpha~0, and lets Dielectric/Conductor
// switch to exact specular sampling).
func (d TrowbridgeReitz) EffectivelySmooth() bool {
	return math.Max(d.AlphaX, d.AlphaY) < 1e-3
}

// D evaluates the normal distribution function at local-space half vector wm.
func (d TrowbridgeReitz) D(wm core.Vec3) float64 {
	tan2Theta := tan2Theta(wm)
	if math.IsInf(tan2Theta, 1) {
		return 0
	}
	cos4Theta := core.CosTheta(wm) * core.CosTheta(wm) * core.CosTheta(wm) * core.CosTheta(wm)
	if cos4Theta < 1e-16 {
		return 0
	}
	e := tan2Theta * (cos2Phi(wm)/(d.AlphaX*d.AlphaX) + sin2Phi(wm)/(d.AlphaY*d.AlphaY))
	denom := math.Pi * d.AlphaX * d.AlphaY * cos4Theta * (1 + e) * (1 + e)
	if denom == 0 {
		return 0
	}
	return 1 / denom
}

// lambda is the Smith masking-shadowing auxiliary function.
func (d TrowbridgeReitz) lambda(w core.Vec3) float64 {
	tan2Theta := tan2Theta(w)
	if math.IsInf(tan2Theta, 1) {
		return 0
	}
	alpha2 := cos2Phi(w)*d.AlphaX*d.AlphaX + sin2Phi(w)*d.AlphaY*d.AlphaY
	return (math.Sqrt(1+alpha2*tan2Theta) - 1) / 2
}

// G1 is the Smith masking function for a single direction.
func (d TrowbridgeReitz) G1(w core.Vec3) float64 {
	return 1 / (1 + d.lambda(w))
}

// G is the Smith joint masking-shadowing function for both directions.
func (d TrowbridgeReitz) G(wo, wi core.Vec3) float64 {
	return 1 / (1 + d.lambda(wo) + d.lambda(wi))
}

// PDF returns the density of SampleWm over half vectors, converted to a
// density over visible half vectors (PDF of the VNDF).
func (d TrowbridgeReitz) PDF(wo, wm core.Vec3) float64 {
	return d.G1(wo) / core.AbsCosTheta(wo) * d.D(wm) * wo.AbsDot(wm)
}

// SampleWm importance-samples a visible half vector given outgoing
// direction wo, using Heitz's "Sampling the GGX Distribution of Visible
// Normals" construction (transform to hemisphere config, sample, transform
// back), which concentrates samples where the BRDF is actually nonzero.
func (d TrowbridgeReitz) SampleWm(wo core.Vec3, u core.Vec2) core.Vec3 {
	wh := core.Vec3{X: d.AlphaX * wo.X, Y: d.AlphaY * wo.Y, Z: wo.Z}.Normalize()
	if wh.Z < 0 {
		wh = wh.Negate()
	}

	var t1 core.Vec3
	lenSq := wh.X*wh.X + wh.Y*wh.Y
	if lenSq > 0 {
		t1 = core.NewVec3(-wh.Y, wh.X, 0).Multiply(1 / math.Sqrt(lenSq))
	} else {
		t1 = core.NewVec3(1, 0, 0)
	}
	t2 := wh.Cross(t1)

	r := math.Sqrt(u.X)
	phi := 2 * math.Pi * u.Y
	sinPhi, cosPhi := math.Sincos(phi)
	p1 := r * cosPhi
	p2raw := r * sinPhi
	s := 0.5 * (1 + wh.Z)
	p2 := (1-s)*math.Sqrt(math.Max(0, 1-p1*p1)) + s*p2raw

	nh := t1.Multiply(p1).Add(t2.Multiply(p2)).Add(wh.Multiply(math.Sqrt(math.Max(0, 1-p1*p1-p2*p2))))
	return core.Vec3{X: d.AlphaX * nh.X, Y: d.AlphaY * nh.Y, Z: math.Max(1e-6, nh.Z)}.Normalize()
}

func tan2Theta(w core.Vec3) float64 {
	c2 := w.Z * w.Z
	s2 := math.Max(0, 1-c2)
	if c2 == 0 {
		return math.Inf(1)
	}
	return s2 / c2
}

func cos2Phi(w core.Vec3) float64 {
	sinTheta := math.Sqrt(math.Max(0, 1-w.Z*w.Z))
	if sinTheta == 0 {
		return 1
	}
	cosPhi := w.X / sinTheta
	return cosPhi * cosPhi
}

func sin2Phi(w core.Vec3) float64 {
	sinTheta := math.Sqrt(math.Max(0, 1-w.Z*w.Z))
	if sinTheta == 0 {
		return 0
	}
	sinPhi := w.Y / sinTheta
	return sinPhi * sinPhi
}
