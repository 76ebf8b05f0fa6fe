package core

import "math"

// PowerHeuristic combines two sampling strategies' densities using Veach's
// power-2 heuristic, which favors whichever strategy concentrated its
// samples near the evaluated direction and damps the other's contribution.
func PowerHeuristic(nf int, fPDF float64, ng int, gPDF float64) float64 {
	f := float64(nf) * fPDF
	g := float64(ng) * gPDF
	if math.IsInf(f, 1) {
		return 1
	}
	denom := f*f + g*g
	if denom == 0 {
		return 0
	}
	return f * f / denom
}

// BalanceHeuristic combines two sampling strategies' densities using Veach's
// balance heuristic, the variance-optimal single-sample MIS weight.
func BalanceHeuristic(nf int, fPDF float64, ng int, gPDF float64) float64 {
	f := float64(nf) * fPDF
	g := float64(ng) * gPDF
	denom := f + g
	if denom == 0 {
		return 0
	}
	return f / denom
}

// CombinePDFs sums a set of sampling-strategy densities for the same
// direction, used when a single MIS weight must account for more than two
// competing techniques (e.g. BSDF sampling against several lights at once).
func CombinePDFs(pdfs ...float64) float64 {
	sum := 0.0
	for _, p := range pdfs {
		sum += p
	}
	return sum
}

// SampleUniformDiskConcentric maps a unit-square sample to a unit disk using
// Shirley's concentric mapping, which preserves relative sample spacing
// better than the naive polar mapping.
func SampleUniformDiskConcentric(u Vec2) Vec2 {
	ox := 2*u.X - 1
	oy := 2*u.Y - 1
	if ox == 0 && oy == 0 {
		return Vec2{}
	}
	var r, theta float64
	if math.Abs(ox) > math.Abs(oy) {
		r = ox
		theta = (math.Pi / 4) * (oy / ox)
	} else {
		r = oy
		theta = math.Pi/2 - (math.Pi/4)*(ox/oy)
	}
	s, c := math.Sincos(theta)
	return Vec2{X: r * c, Y: r * s}
}

// SampleCosineHemisphere draws a direction in the local +Z hemisphere with
// PDF proportional to cos(theta), via Malley's method (disk sample lifted to
// the hemisphere).
func SampleCosineHemisphere(u Vec2) Vec3 {
	d := SampleUniformDiskConcentric(u)
	z := math.Sqrt(math.Max(0, 1-d.X*d.X-d.Y*d.Y))
	return Vec3{X: d.X, Y: d.Y, Z: z}
}

// CosineHemispherePDF returns the solid-angle PDF of SampleCosineHemisphere
// for a local direction with the given cosTheta.
func CosineHemispherePDF(cosTheta float64) float64 {
	return cosTheta * (1 / math.Pi)
}

// SampleUniformSphere draws a direction uniformly over the full sphere.
func SampleUniformSphere(u Vec2) Vec3 {
	z := 1 - 2*u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	s, c := math.Sincos(phi)
	return Vec3{X: r * c, Y: r * s, Z: z}
}

// UniformSpherePDF is the constant solid-angle PDF of SampleUniformSphere.
const UniformSpherePDF = 1 / (4 * math.Pi)

// SampleUniformCone draws a direction within a cone of half-angle
// acos(cosThetaMax) around local +Z, uniformly in solid angle.
func SampleUniformCone(u Vec2, cosThetaMax float64) Vec3 {
	cosTheta := (1 - u.X) + u.X*cosThetaMax
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y
	s, c := math.Sincos(phi)
	return Vec3{X: sinTheta * c, Y: sinTheta * s, Z: cosTheta}
}

// UniformConePDF is the constant solid-angle PDF of SampleUniformCone.
func UniformConePDF(cosThetaMax float64) float64 {
	return 1 / (2 * math.Pi * (1 - cosThetaMax))
}

// SampleUniformTriangle returns barycentric coordinates (b0, b1; b2 implicit
// = 1-b0-b1) sampled uniformly over a triangle's area.
func SampleUniformTriangle(u Vec2) (b0, b1 float64) {
	if u.X < u.Y {
		b0 = u.X / 2
		b1 = u.Y - b0
	} else {
		b1 = u.Y / 2
		b0 = u.X - b1
	}
	return b0, b1
}

// SphereSubtendedCone returns the cosine of the half-angle of the cone
// formed by a sphere of the given radius as seen from a point at distance
// distToCenter from its center. Used to importance-sample spherical area
// lights by solid angle rather than by area.
func SphereSubtendedCone(radius, distToCenter float64) float64 {
	if distToCenter <= radius {
		return -1 // reference point is inside the sphere: full sphere visible
	}
	sinThetaMax := radius / distToCenter
	return math.Sqrt(math.Max(0, 1-sinThetaMax*sinThetaMax))
}
