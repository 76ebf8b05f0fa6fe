package material

import (
	"github.com/df07/go-spectral-tracer/pkg/bxdf"
	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Subsurface approximates a translucent material (skin, wax, marble) with a
// single local shading point: the NormalizedFresnel BxDF models the
// boundary term a full two-point BSSRDF would apply at its exit point, and
// Albedo stands in for the multiple-scattering diffusion profile a full
// random-walk subsurface solve would integrate spatially across the
// surface. This trades the spatial diffusion term for a local one; a
// two-point random-walk implementation is a larger architectural addition
// (it needs a probe ray sampled across nearby geometry) that this material
// does not attempt.
type Subsurface struct {
	Albedo core.Texture
	Eta    float64
}

// NewSubsurface creates a local-approximation subsurface material with
// relative IOR eta (e.g. 1.33 for skin-like tissue).
func NewSubsurface(albedo core.Texture, eta float64) *Subsurface {
	return &Subsurface{Albedo: albedo, Eta: eta}
}

func (s *Subsurface) ComputeBSDF(isect *core.Intersection, arena *core.Arena) core.BSDF {
	albedo := s.Albedo.Evaluate(isect.UV, isect.Point)
	nf := bxdf.NewNormalizedFresnel(s.Eta)
	tinted := core.ArenaAlloc(arena, tintedBxDF{Inner: nf, Tint: albedo})
	return core.NewBSDF(isect.Shading, tinted)
}

func (s *Subsurface) Emission(isect *core.Intersection, wo core.Vec3) core.Spectrum {
	return core.Spectrum{}
}

// tintedBxDF scales an underlying BxDF's value by a constant spectrum,
// letting Subsurface reuse NormalizedFresnel's directional shape while
// applying the medium's own scattering albedo as its local color.
type tintedBxDF struct {
	Inner core.BxDF
	Tint  core.Spectrum
}

func (t tintedBxDF) Flags() core.BxDFFlags { return t.Inner.Flags() }

func (t tintedBxDF) F(wo, wi core.Vec3) core.Spectrum {
	return t.Inner.F(wo, wi).MultiplyVec(t.Tint)
}

func (t tintedBxDF) SampleF(wo core.Vec3, uc float64, u core.Vec2, sampleFlags core.BxDFReflTransFlags) (core.BSDFSample, bool) {
	s, ok := t.Inner.SampleF(wo, uc, u, sampleFlags)
	if !ok {
		return core.BSDFSample{}, false
	}
	s.Value = s.Value.MultiplyVec(t.Tint)
	return s, true
}

func (t tintedBxDF) PDF(wo, wi core.Vec3, sampleFlags core.BxDFReflTransFlags) float64 {
	return t.Inner.PDF(wo, wi, sampleFlags)
}
