package light

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// SpotArea is a DiffuseArea whose cosine-weighted emission is masked by a
// cone around a fixed Dir, generalizing the teacher's DiscSpotLight (which
// hard-coded a geometry.Disc and a smoothstep falloff between two cone
// angles) to any core.Primitive shape. Unlike Spot/Directional/
// DirectionalArea, SpotArea is not a delta light — its emission still
// varies continuously in both position and direction over the shape's
// area and cosine-weighted hemisphere, only scaled down outside the cone.
type SpotArea struct {
	DiffuseArea
	Dir             core.Vec3 // normalized, cone axis
	CosFalloffStart float64
	CosFalloffEnd   float64
}

// NewSpotArea creates a cone-masked area light. totalWidth and
// falloffStart are in radians, matching Spot's parameterization.
func NewSpotArea(prim *core.Primitive, dir core.Vec3, le core.Spectrum, totalWidth, falloffStart float64) *SpotArea {
	return &SpotArea{
		DiffuseArea:     DiffuseArea{Prim: prim, Lemit: le, TwoSided: false},
		Dir:             dir.Normalize(),
		CosFalloffEnd:   math.Cos(totalWidth),
		CosFalloffStart: math.Cos(falloffStart),
	}
}

func (s *SpotArea) smoothFalloff(cosTheta float64) float64 {
	if cosTheta >= s.CosFalloffStart {
		return 1
	}
	if cosTheta <= s.CosFalloffEnd {
		return 0
	}
	delta := (cosTheta - s.CosFalloffEnd) / (s.CosFalloffStart - s.CosFalloffEnd)
	return delta * delta * (3 - 2*delta)
}

func (s *SpotArea) SampleLi(ref core.Vec3, refNormal core.Vec3, u core.Vec2) (core.LightLiSample, bool) {
	sample, ok := s.DiffuseArea.SampleLi(ref, refNormal, u)
	if !ok {
		return core.LightLiSample{}, false
	}
	falloff := s.smoothFalloff(s.Dir.Dot(sample.Wi.Negate()))
	if falloff <= 0 {
		return core.LightLiSample{}, false
	}
	sample.L = sample.L.Multiply(falloff)
	return sample, true
}

func (s *SpotArea) SampleLe(u1, u2 core.Vec2) (core.LightLeSample, bool) {
	sample, ok := s.DiffuseArea.SampleLe(u1, u2)
	if !ok {
		return core.LightLeSample{}, false
	}
	falloff := s.smoothFalloff(s.Dir.Dot(sample.Ray.Direction))
	sample.L = sample.L.Multiply(falloff)
	return sample, true
}

// Power approximates power as the unmasked DiffuseArea power scaled by the
// cone's fractional solid angle out of a full hemisphere.
func (s *SpotArea) Power() float64 {
	frac := (1 - 0.5*(s.CosFalloffStart+s.CosFalloffEnd))
	return s.DiffuseArea.Power() * frac
}
