package material

import (
	"github.com/df07/go-spectral-tracer/pkg/bxdf"
	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Dielectric is a transparent, refracting material like glass or water. Eta
// is the relative index of refraction (transmitted side over incident
// side); Roughness in [0,1] controls the microfacet distribution, with 0
// giving a perfectly smooth interface.
type Dielectric struct {
	Eta       float64
	Roughness core.Texture
}

// NewDielectric creates a (possibly rough) dielectric material.
func NewDielectric(eta float64, roughness core.Texture) *Dielectric {
	return &Dielectric{Eta: eta, Roughness: roughness}
}

func (d *Dielectric) ComputeBSDF(isect *core.Intersection, arena *core.Arena) core.BSDF {
	alpha := 0.0
	if d.Roughness != nil {
		alpha = bxdf.RoughnessToAlpha(d.Roughness.EvaluateScalar(isect.UV, isect.Point))
	}
	dist := bxdf.TrowbridgeReitz{AlphaX: alpha, AlphaY: alpha}
	bx := core.ArenaAlloc(arena, *bxdf.NewDielectric(d.Eta, dist))
	return core.NewBSDF(isect.Shading, bx)
}

func (d *Dielectric) Emission(isect *core.Intersection, wo core.Vec3) core.Spectrum {
	return core.Spectrum{}
}

// ThinDielectric is a zero-thickness glass shell (e.g. a soap bubble or a
// single pane of glass modeled without refraction bending), where the two
// interfaces' reflections are summed in closed form instead of traced
// separately.
type ThinDielectric struct {
	Eta float64
}

// NewThinDielectricMaterial creates a thin-dielectric material.
func NewThinDielectricMaterial(eta float64) *ThinDielectric {
	return &ThinDielectric{Eta: eta}
}

func (t *ThinDielectric) ComputeBSDF(isect *core.Intersection, arena *core.Arena) core.BSDF {
	bx := core.ArenaAlloc(arena, *bxdf.NewThinDielectric(t.Eta))
	return core.NewBSDF(isect.Shading, bx)
}

func (t *ThinDielectric) Emission(isect *core.Intersection, wo core.Vec3) core.Spectrum {
	return core.Spectrum{}
}
