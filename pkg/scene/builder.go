// Package scene provides the programmatic scene-construction API (Builder)
// and the built-in sample-scene registry cmd/bbcli resolves scene names
// against. Concrete core.Texture implementations
// live here too (texture.go), since pkg/material must consume core.Texture
// without importing this package (see core.Texture's doc comment).
//
// Grounded on the teacher's pkg/scene (scene.go's Scene struct plus its
// AddQuadLight/AddSphereLight helpers, and cornell.go/spheregrid.go/
// caustic_glass.go for the concrete sample scenes), generalized from the
// teacher's direct field-append style into a builder that also wires the
// BVH, light sampler, and scene bounding sphere through core.Scene.Preprocess
// in one Build call.
package scene

import (
	"github.com/df07/go-spectral-tracer/pkg/bvh"
	"github.com/df07/go-spectral-tracer/pkg/camera"
	"github.com/df07/go-spectral-tracer/pkg/core"
	"github.com/df07/go-spectral-tracer/pkg/light"
	"github.com/df07/go-spectral-tracer/pkg/material"
)

// Builder accumulates primitives, lights, and a camera, then assembles a
// *core.Scene via Build. Its job is purely construction; pkg/renderer owns
// everything about driving a render against the result.
type Builder struct {
	prims        []*core.Primitive
	lights       []core.Light
	camera       core.Camera
	sampling     core.SamplingConfig
	powerSampler bool
}

// NewBuilder starts an empty scene with the given sampling defaults.
func NewBuilder(sampling core.SamplingConfig) *Builder {
	return &Builder{sampling: sampling}
}

// SetCamera installs the scene's camera.
func (b *Builder) SetCamera(cfg camera.Config) *Builder {
	b.camera = camera.NewPerspective(cfg)
	return b
}

// UsePowerSampler switches the light sampler Build constructs from uniform
// (the default) to power-weighted, biasing NEE toward brighter lights —
// the teacher's commented-out "Alternative: weighted sampling" in scene.go,
// promoted to a real option rather than a dead comment.
func (b *Builder) UsePowerSampler() *Builder {
	b.powerSampler = true
	return b
}

// fallbackMaterial stands in for an unresolved material reference, matching
// spec.md §7's "unresolvable material/medium references fall back to a
// magenta diffuse material so the render completes" rule. A nil Mat paired
// with a non-zero MediumInterface is left alone — that combination means a
// deliberate pass-through hit marking a medium boundary, not an unresolved
// reference (see path.go's nil-BSDF handling).
var fallbackMaterial = material.NewDiffuse(NewConstant(core.Spectrum{X: 1, Y: 0, Z: 1}))

// AddPrimitive adds a non-emissive shape/material/medium-interface triple.
func (b *Builder) AddPrimitive(shape core.Shape, mat core.Material, mi core.MediumInterface) *Builder {
	if mat == nil && mi == (core.MediumInterface{}) {
		mat = fallbackMaterial
	}
	b.prims = append(b.prims, &core.Primitive{Shape: shape, Mat: mat, MI: mi})
	return b
}

// AddAreaLight adds shape as a primitive whose area light emits le,
// optionally from both faces.
func (b *Builder) AddAreaLight(shape core.Shape, mat core.Material, le core.Spectrum, twoSided bool) *Builder {
	prim := &core.Primitive{Shape: shape, Mat: mat}
	al := light.NewDiffuseArea(prim, le, twoSided)
	prim.AreaLight = al
	b.prims = append(b.prims, prim)
	b.lights = append(b.lights, al)
	return b
}

// AddQuadLight adds a two-triangle emissive quad spanning corner, corner+u,
// corner+u+v, corner+v, matching the teacher's AddQuadLight parameterization.
func (b *Builder) AddQuadLight(corner, u, v core.Vec3, le core.Spectrum) *Builder {
	return b.addQuadPrimitive(corner, u, v, nil, le, false)
}

// AddQuad adds a two-triangle non-emissive quad with the given material.
func (b *Builder) AddQuad(corner, u, v core.Vec3, mat core.Material) *Builder {
	return b.addQuadPrimitive(corner, u, v, mat, core.Spectrum{}, true)
}

func (b *Builder) addQuadPrimitive(corner, u, v core.Vec3, mat core.Material, le core.Spectrum, materialOnly bool) *Builder {
	tris := quadTriangles(corner, u, v)
	for _, tri := range tris {
		if materialOnly {
			b.AddPrimitive(tri, mat, core.MediumInterface{})
		} else {
			b.AddAreaLight(tri, nil, le, false)
		}
	}
	return b
}

// AddBox adds an axis-aligned box spanning [min,max] as twelve triangle
// primitives sharing mat, the teacher's six-quad-face block construction
// (cornell.go's short/tall blocks) expressed over pkg/shape.Triangle.
func (b *Builder) AddBox(min, max core.Vec3, mat core.Material) *Builder {
	for _, tri := range boxTriangles(min, max) {
		b.AddPrimitive(tri, mat, core.MediumInterface{})
	}
	return b
}

// AddLight adds a non-area light (point, spot, directional, infinite).
func (b *Builder) AddLight(l core.Light) *Builder {
	b.lights = append(b.lights, l)
	return b
}

// Build assembles the accumulated primitives/lights/camera into a ready
// core.Scene: constructs the BVH, the light sampler (power-weighted if
// UsePowerSampler was called), and calls Preprocess so infinite lights get
// the scene's bounding sphere before the first render.
func (b *Builder) Build() *core.Scene {
	agg := bvh.NewBVH(b.prims)

	var sampler core.LightSampler
	if b.powerSampler {
		sampler = light.NewPowerSampler(b.lights)
	} else {
		sampler = light.NewUniformSampler(b.lights)
	}

	sc := core.NewScene(agg, b.lights, sampler, b.camera, b.sampling)
	sc.Preprocess()
	return sc
}
