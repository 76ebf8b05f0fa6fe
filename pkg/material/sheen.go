package material

import (
	"github.com/df07/go-spectral-tracer/pkg/bxdf"
	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Sheen is a cloth-like material using the Charlie sheen distribution,
// typically layered over a base material rather than used alone (see
// Mixture/Layered).
type Sheen struct {
	Reflectance core.Texture
	Roughness   core.Texture
}

// NewSheen creates a sheen material.
func NewSheen(reflectance, roughness core.Texture) *Sheen {
	return &Sheen{Reflectance: reflectance, Roughness: roughness}
}

func (s *Sheen) ComputeBSDF(isect *core.Intersection, arena *core.Arena) core.BSDF {
	r := s.Reflectance.Evaluate(isect.UV, isect.Point)
	roughness := s.Roughness.EvaluateScalar(isect.UV, isect.Point)
	bx := core.ArenaAlloc(arena, *bxdf.NewCharlieSheen(r, roughness))
	return core.NewBSDF(isect.Shading, bx)
}

func (s *Sheen) Emission(isect *core.Intersection, wo core.Vec3) core.Spectrum {
	return core.Spectrum{}
}
