package material

import (
	"github.com/df07/go-spectral-tracer/pkg/bxdf"
	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Layered composes a Top material (typically a dielectric coat) over a
// Bottom material, separated by an absorbing/scattering interior slab.
// Transport through the slab is simulated with a random walk; MaxBounces
// and Samples bound its cost and variance.
type Layered struct {
	Top, Bottom         core.Material
	Thickness           float64
	Albedo              core.Texture
	G                   float64
	MaxBounces, Samples int
}

// NewLayered creates a two-material layered BSDF.
func NewLayered(top, bottom core.Material, thickness float64, albedo core.Texture, g float64, maxBounces, samples int) *Layered {
	return &Layered{Top: top, Bottom: bottom, Thickness: thickness, Albedo: albedo, G: g, MaxBounces: maxBounces, Samples: samples}
}

func (l *Layered) ComputeBSDF(isect *core.Intersection, arena *core.Arena) core.BSDF {
	top := l.Top.ComputeBSDF(isect, arena)
	bottom := l.Bottom.ComputeBSDF(isect, arena)
	albedo := core.Spectrum{}
	if l.Albedo != nil {
		albedo = l.Albedo.Evaluate(isect.UV, isect.Point)
	}
	bx := core.ArenaAlloc(arena, *bxdf.NewLayered(top.Bx, bottom.Bx, l.Thickness, albedo, l.G, l.MaxBounces, l.Samples))
	return core.NewBSDF(isect.Shading, bx)
}

func (l *Layered) Emission(isect *core.Intersection, wo core.Vec3) core.Spectrum {
	return l.Bottom.Emission(isect, wo)
}
