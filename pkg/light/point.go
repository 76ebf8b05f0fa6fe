// Package light implements core.Light: delta-position/direction lights,
// finite-area lights bound to a scene Primitive, infinite/environment
// lights, and the LightSampler variants integrators pick lights through.
package light

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Point is an isotropic point light: a delta-position source with no
// area, emitting intensity I uniformly in every direction.
type Point struct {
	P core.Vec3
	I core.Spectrum
}

// NewPoint creates a point light at p with intensity i.
func NewPoint(p core.Vec3, i core.Spectrum) *Point {
	return &Point{P: p, I: i}
}

func (p *Point) Type() core.LightType { return core.LightDeltaPosition }

func (p *Point) Le(ray core.Ray) core.Spectrum { return core.Spectrum{} }

func (p *Point) SampleLi(ref core.Vec3, refNormal core.Vec3, u core.Vec2) (core.LightLiSample, bool) {
	toLight := p.P.Subtract(ref)
	distSq := toLight.LengthSquared()
	if distSq == 0 {
		return core.LightLiSample{}, false
	}
	dist := math.Sqrt(distSq)
	wi := toLight.Multiply(1 / dist)
	l := p.I.Multiply(1 / distSq)
	return core.LightLiSample{L: l, Wi: wi, PDF: 1, PLight: p.P}, true
}

// PDFLi is always zero: a point light occupies no solid angle, so BSDF
// sampling can never independently rediscover it for MIS.
func (p *Point) PDFLi(ref core.Vec3, wi core.Vec3) float64 { return 0 }

func (p *Point) SampleLe(u1, u2 core.Vec2) (core.LightLeSample, bool) {
	dir := core.SampleUniformSphere(u1)
	ray := core.Ray{Origin: p.P, Direction: dir}
	return core.LightLeSample{
		Ray: ray, Normal: core.Vec3{}, L: p.I,
		PDFPos: 1, PDFDir: core.UniformSpherePDF,
	}, true
}

func (p *Point) PDFLe(ray core.Ray, n core.Vec3) (pdfPos, pdfDir float64) {
	return 0, core.UniformSpherePDF
}

func (p *Point) Preprocess(sceneCenter core.Vec3, sceneRadius float64) {}

// Power approximates total emitted power as 4*pi*I, the exact value for a
// true isotropic point source.
func (p *Point) Power() float64 {
	return 4 * math.Pi * core.Average(p.I)
}

// Spot is a point light whose intensity falls off with angle from its
// axis: full I where cosTheta >= CosFalloffStart, zero where cosTheta <=
// CosFalloffEnd, smoothstep-tapering in between (pbrt convention: "start" is
// the narrower inner angle where falloff begins, "end" the wider outer angle
// where emission reaches zero).
type Spot struct {
	P               core.Vec3
	Dir             core.Vec3 // normalized, direction the spot points
	I               core.Spectrum
	CosFalloffStart float64
	CosFalloffEnd   float64
}

// NewSpot creates a spot light at p aimed at dir (not necessarily
// normalized) with a total cone angle and an inner falloff-start angle,
// both in radians, matching pbrt/Bulbit's cone-angle/cone-delta-angle
// parameterization.
func NewSpot(p core.Vec3, dir core.Vec3, i core.Spectrum, totalWidth, falloffStart float64) *Spot {
	return &Spot{
		P: p, Dir: dir.Normalize(), I: i,
		CosFalloffEnd:   math.Cos(totalWidth),
		CosFalloffStart: math.Cos(falloffStart),
	}
}

func (s *Spot) smoothFalloff(cosTheta float64) float64 {
	if cosTheta >= s.CosFalloffStart {
		return 1
	}
	if cosTheta <= s.CosFalloffEnd {
		return 0
	}
	delta := (cosTheta - s.CosFalloffEnd) / (s.CosFalloffStart - s.CosFalloffEnd)
	return delta * delta * (3 - 2*delta)
}

func (s *Spot) Type() core.LightType { return core.LightDeltaPosition }

func (s *Spot) Le(ray core.Ray) core.Spectrum { return core.Spectrum{} }

func (s *Spot) SampleLi(ref core.Vec3, refNormal core.Vec3, u core.Vec2) (core.LightLiSample, bool) {
	toLight := s.P.Subtract(ref)
	distSq := toLight.LengthSquared()
	if distSq == 0 {
		return core.LightLiSample{}, false
	}
	dist := math.Sqrt(distSq)
	wi := toLight.Multiply(1 / dist)
	falloff := s.smoothFalloff(s.Dir.Dot(wi.Negate()))
	if falloff <= 0 {
		return core.LightLiSample{}, false
	}
	l := s.I.Multiply(falloff / distSq)
	return core.LightLiSample{L: l, Wi: wi, PDF: 1, PLight: s.P}, true
}

func (s *Spot) PDFLi(ref core.Vec3, wi core.Vec3) float64 { return 0 }

func (s *Spot) SampleLe(u1, u2 core.Vec2) (core.LightLeSample, bool) {
	cosThetaMax := s.CosFalloffEnd
	local := core.SampleUniformCone(u1, cosThetaMax)
	frame := core.NewFrame(s.Dir)
	dir := frame.FromLocal(local)
	falloff := s.smoothFalloff(local.Z)
	ray := core.Ray{Origin: s.P, Direction: dir}
	return core.LightLeSample{
		Ray: ray, Normal: core.Vec3{}, L: s.I.Multiply(falloff),
		PDFPos: 1, PDFDir: core.UniformConePDF(cosThetaMax),
	}, true
}

func (s *Spot) PDFLe(ray core.Ray, n core.Vec3) (pdfPos, pdfDir float64) {
	cosTheta := s.Dir.Dot(ray.Direction)
	if cosTheta < s.CosFalloffEnd {
		return 0, 0
	}
	return 0, core.UniformConePDF(s.CosFalloffEnd)
}

func (s *Spot) Preprocess(sceneCenter core.Vec3, sceneRadius float64) {}

// Power approximates total emitted power over the cone the light actually
// illuminates, using the midpoint of the full- and zero-intensity angles
// as a representative average falloff.
func (s *Spot) Power() float64 {
	solidAngle := 2 * math.Pi * (1 - 0.5*(s.CosFalloffStart+s.CosFalloffEnd))
	return core.Average(s.I) * solidAngle
}
