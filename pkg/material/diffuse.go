package material

import (
	"github.com/df07/go-spectral-tracer/pkg/bxdf"
	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Diffuse is an ideal Lambertian material: its reflectance can vary over
// the surface via Albedo (a solid color, image, or procedural texture).
type Diffuse struct {
	Albedo core.Texture
}

// NewDiffuse creates a Lambertian material with the given albedo texture.
func NewDiffuse(albedo core.Texture) *Diffuse {
	return &Diffuse{Albedo: albedo}
}

// ComputeBSDF implements core.Material.
func (d *Diffuse) ComputeBSDF(isect *core.Intersection, arena *core.Arena) core.BSDF {
	r := d.Albedo.Evaluate(isect.UV, isect.Point)
	bx := core.ArenaAlloc(arena, *bxdf.NewDiffuse(r))
	return core.NewBSDF(isect.Shading, bx)
}

// Emission implements core.Material; plain diffuse surfaces don't emit.
func (d *Diffuse) Emission(isect *core.Intersection, wo core.Vec3) core.Spectrum {
	return core.Spectrum{}
}
