package material

import "github.com/df07/go-spectral-tracer/pkg/core"

// Emissive is a legacy constant-emission material (the old "DiffuseLight"
// pattern): a surface that emits a fixed radiance toward the front face and
// otherwise scatters nothing. Prefer an explicit area light bound to a
// non-emissive material for anything beyond simple constant emitters.
type Emissive struct {
	Le core.Texture
}

// NewEmissive creates an emissive material radiating Le toward its front face.
func NewEmissive(le core.Texture) *Emissive {
	return &Emissive{Le: le}
}

// ComputeBSDF returns a nil BSDF: an emissive surface has no scattering lobe.
func (e *Emissive) ComputeBSDF(isect *core.Intersection, arena *core.Arena) core.BSDF {
	return core.BSDF{}
}

// Emission returns Le when viewed from the front face, zero otherwise.
func (e *Emissive) Emission(isect *core.Intersection, wo core.Vec3) core.Spectrum {
	if isect.Normal.Dot(wo) <= 0 {
		return core.Spectrum{}
	}
	return e.Le.Evaluate(isect.UV, isect.Point)
}
