package light

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// DiffuseArea binds a constant Lambertian emission to a core.Primitive's
// shape. The teacher's lights package hand-wrote one light type per shape
// (QuadLight, SphereLight, DiscLight) that each duplicated the same
// area/solid-angle sampling and PDF bookkeeping against their own embedded
// geometry.Quad/Sphere/Disc; since core.Shape already exposes
// SampleArea/SampleSolidAngle/PDFSolidAngle/Area for every shape, one
// DiffuseArea generalizes all of them by delegating to whichever Shape its
// Primitive wraps.
type DiffuseArea struct {
	Prim     *core.Primitive
	Lemit    core.Spectrum
	TwoSided bool

	sceneRadius float64
}

// NewDiffuseArea creates an area light bound to prim's shape, emitting le
// from its front face (or both faces if twoSided).
func NewDiffuseArea(prim *core.Primitive, le core.Spectrum, twoSided bool) *DiffuseArea {
	return &DiffuseArea{Prim: prim, Lemit: le, TwoSided: twoSided}
}

func (a *DiffuseArea) Type() core.LightType { return core.LightArea }

func (a *DiffuseArea) Le(ray core.Ray) core.Spectrum { return core.Spectrum{} }

// L returns the emitted radiance leaving the surface at normal n toward wo,
// zero if wo leaves from a non-emitting side. Integrators call this
// directly when a camera or BSDF-sampled ray hits the light's own geometry.
func (a *DiffuseArea) L(n, wo core.Vec3) core.Spectrum {
	cosTheta := n.Dot(wo)
	if cosTheta > 0 || (a.TwoSided && cosTheta < 0) {
		return a.Lemit
	}
	return core.Spectrum{}
}

func (a *DiffuseArea) SampleLi(ref core.Vec3, refNormal core.Vec3, u core.Vec2) (core.LightLiSample, bool) {
	shape := a.Prim.Shape
	if wi, pdf, ok := shape.SampleSolidAngle(ref, u); ok && pdf > 0 {
		ray := core.Ray{Origin: ref, Direction: wi}
		hit, hitOk := a.Prim.Intersect(ray, 1e-4, math.Inf(1))
		if !hitOk {
			return core.LightLiSample{}, false
		}
		l := a.L(hit.Normal, wi.Negate())
		if core.MaxComponent(l) <= 0 {
			return core.LightLiSample{}, false
		}
		return core.LightLiSample{L: l, Wi: wi, PDF: pdf, PLight: hit.Point}, true
	}

	// ref lies inside/on the shape where solid-angle sampling degenerates;
	// fall back to area sampling and convert to a solid-angle density.
	p, n, areaPDF := shape.SampleArea(u)
	if areaPDF <= 0 {
		return core.LightLiSample{}, false
	}
	toLight := p.Subtract(ref)
	distSq := toLight.LengthSquared()
	if distSq == 0 {
		return core.LightLiSample{}, false
	}
	dist := math.Sqrt(distSq)
	wi := toLight.Multiply(1 / dist)
	cosThetaLight := math.Abs(n.Dot(wi.Negate()))
	if cosThetaLight < 1e-8 {
		return core.LightLiSample{}, false
	}
	solidAnglePDF := areaPDF * distSq / cosThetaLight
	l := a.L(n, wi.Negate())
	if core.MaxComponent(l) <= 0 {
		return core.LightLiSample{}, false
	}
	return core.LightLiSample{L: l, Wi: wi, PDF: solidAnglePDF, PLight: p}, true
}

func (a *DiffuseArea) PDFLi(ref core.Vec3, wi core.Vec3) float64 {
	return a.Prim.Shape.PDFSolidAngle(ref, wi)
}

func (a *DiffuseArea) SampleLe(u1, u2 core.Vec2) (core.LightLeSample, bool) {
	p, n, areaPDF := a.Prim.Shape.SampleArea(u1)
	if areaPDF <= 0 {
		return core.LightLeSample{}, false
	}
	emitNormal := n
	if a.TwoSided && u2.X < 0.5 {
		emitNormal = n.Negate()
		u2 = core.Vec2{X: u2.X * 2, Y: u2.Y}
	} else if a.TwoSided {
		u2 = core.Vec2{X: (u2.X-0.5)*2, Y: u2.Y}
	}
	local := core.SampleCosineHemisphere(u2)
	frame := core.NewFrame(emitNormal)
	dir := frame.FromLocal(local)
	dirPDF := core.CosineHemispherePDF(local.Z)
	if a.TwoSided {
		dirPDF *= 0.5
	}
	ray := core.Ray{Origin: p, Direction: dir}
	return core.LightLeSample{Ray: ray, Normal: n, L: a.Lemit, PDFPos: areaPDF, PDFDir: dirPDF}, true
}

func (a *DiffuseArea) PDFLe(ray core.Ray, n core.Vec3) (pdfPos, pdfDir float64) {
	pdfPos = 1 / a.Prim.Shape.Area()
	cosTheta := n.Dot(ray.Direction)
	if a.TwoSided {
		cosTheta = math.Abs(cosTheta)
	}
	if cosTheta <= 0 {
		return pdfPos, 0
	}
	pdfDir = core.CosineHemispherePDF(cosTheta)
	if a.TwoSided {
		pdfDir *= 0.5
	}
	return pdfPos, pdfDir
}

func (a *DiffuseArea) Preprocess(sceneCenter core.Vec3, sceneRadius float64) {
	a.sceneRadius = sceneRadius
}

// Power approximates total emitted power as Le*area*pi (and doubled if
// two-sided), the exact value for uniform Lambertian emission.
func (a *DiffuseArea) Power() float64 {
	p := core.Average(a.Lemit) * a.Prim.Shape.Area() * math.Pi
	if a.TwoSided {
		p *= 2
	}
	return p
}
