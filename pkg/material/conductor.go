package material

import (
	"github.com/df07/go-spectral-tracer/pkg/bxdf"
	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Conductor is a metallic material: a rough microfacet reflector with a
// complex-IOR Fresnel term, per RGB channel. Roughness in [0,1] is remapped
// to the microfacet alpha the same way every other microfacet material does.
type Conductor struct {
	Eta, K    core.Texture
	Roughness core.Texture // scalar texture, evaluated via EvaluateScalar
}

// NewConductor creates a rough conductor material from complex-IOR textures
// and a scalar roughness texture.
func NewConductor(eta, k, roughness core.Texture) *Conductor {
	return &Conductor{Eta: eta, K: k, Roughness: roughness}
}

func (c *Conductor) ComputeBSDF(isect *core.Intersection, arena *core.Arena) core.BSDF {
	eta := c.Eta.Evaluate(isect.UV, isect.Point)
	k := c.K.Evaluate(isect.UV, isect.Point)
	alpha := bxdf.RoughnessToAlpha(c.Roughness.EvaluateScalar(isect.UV, isect.Point))
	dist := bxdf.TrowbridgeReitz{AlphaX: alpha, AlphaY: alpha}
	bx := core.ArenaAlloc(arena, *bxdf.NewConductor(dist, eta, k))
	return core.NewBSDF(isect.Shading, bx)
}

func (c *Conductor) Emission(isect *core.Intersection, wo core.Vec3) core.Spectrum {
	return core.Spectrum{}
}
