package material

import (
	"github.com/df07/go-spectral-tracer/pkg/bxdf"
	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Mixture stochastically blends two materials by a fixed weight, e.g. a
// dielectric clear-coat layered over a diffuse base without the cost of a
// full Layered random walk.
type Mixture struct {
	A, B   core.Material
	Weight float64
}

// NewMixture creates a material blending A and B, weighting B by weight in [0,1].
func NewMixture(a, b core.Material, weight float64) *Mixture {
	return &Mixture{A: a, B: b, Weight: weight}
}

func (m *Mixture) ComputeBSDF(isect *core.Intersection, arena *core.Arena) core.BSDF {
	a := m.A.ComputeBSDF(isect, arena)
	b := m.B.ComputeBSDF(isect, arena)
	bx := core.ArenaAlloc(arena, *bxdf.NewMixture(a.Bx, b.Bx, m.Weight))
	return core.NewBSDF(isect.Shading, bx)
}

func (m *Mixture) Emission(isect *core.Intersection, wo core.Vec3) core.Spectrum {
	ea := m.A.Emission(isect, wo).Multiply(1 - m.Weight)
	eb := m.B.Emission(isect, wo).Multiply(m.Weight)
	return ea.Add(eb)
}
