package scene

import (
	"fmt"
	"math/rand/v2"

	"github.com/df07/go-spectral-tracer/pkg/camera"
	"github.com/df07/go-spectral-tracer/pkg/core"
	"github.com/df07/go-spectral-tracer/pkg/light"
	"github.com/df07/go-spectral-tracer/pkg/material"
	"github.com/df07/go-spectral-tracer/pkg/medium"
	"github.com/df07/go-spectral-tracer/pkg/shape"
)

// Sample is a named, self-contained built-in scene: both its *core.Scene and
// the pixel dimensions it was authored for, since cmd/bbcli's -r flag
// rescales from this baseline rather than a scene-file-declared resolution.
type Sample struct {
	Name          string
	Width, Height int
	Build         func() *core.Scene
}

// Samples lists every built-in scene, in registration order, matching what
// --list-samples prints and covering spec.md §8's concrete test scenarios:
// Cornell Box, Cornell Box Glass, Constant Fog, Image Infinite Light,
// Delta-light visibility, and the BVH-ordering random-spheres scene.
var Samples = []Sample{
	{Name: "cornell", Width: 400, Height: 400, Build: NewCornellScene},
	{Name: "cornell_glass", Width: 400, Height: 400, Build: NewCornellGlassScene},
	{Name: "constant_fog", Width: 200, Height: 200, Build: NewConstantFogScene},
	{Name: "image_infinite", Width: 400, Height: 300, Build: NewImageInfiniteScene},
	{Name: "delta_behind_wall", Width: 200, Height: 200, Build: NewDeltaBehindWallScene},
	{Name: "sphere_grid", Width: 400, Height: 400, Build: NewSphereGridScene},
}

// Find resolves a built-in sample by name, for cmd/bbcli's scene-name
// lookup.
func Find(name string) (Sample, bool) {
	for _, s := range Samples {
		if s.Name == name {
			return s, true
		}
	}
	return Sample{}, false
}

func cornellCamera(width, height int) camera.Config {
	return camera.Config{
		Center: core.Vec3{X: 278, Y: 278, Z: -800}, LookAt: core.Vec3{X: 278, Y: 278, Z: 0}, Up: core.Vec3{X: 0, Y: 1, Z: 0},
		Width: width, Height: height, VFov: 40,
	}
}

func cornellBox(b *Builder, withGlassBack bool) {
	white := material.NewDiffuse(NewConstant(core.Spectrum{X: 0.73, Y: 0.73, Z: 0.73}))
	red := material.NewDiffuse(NewConstant(core.Spectrum{X: 0.65, Y: 0.05, Z: 0.05}))
	green := material.NewDiffuse(NewConstant(core.Spectrum{X: 0.12, Y: 0.45, Z: 0.15}))

	const boxSize = 555.0

	b.AddQuad(core.Vec3{}, core.Vec3{X: boxSize}, core.Vec3{Z: boxSize}, white)                                        // floor
	b.AddQuad(core.Vec3{Y: boxSize}, core.Vec3{X: boxSize}, core.Vec3{Z: boxSize}, white)                              // ceiling
	b.AddQuad(core.Vec3{X: 0, Z: boxSize}, core.Vec3{X: 0, Y: boxSize}, core.Vec3{X: boxSize}, green)                  // right wall (swap u/v from teacher for outward normal)
	b.AddQuad(core.Vec3{}, core.Vec3{Z: boxSize}, core.Vec3{Y: boxSize}, red)                                          // left wall

	if withGlassBack {
		glass := material.NewDielectric(1.5, NewConstantScalar(0))
		b.AddQuad(core.Vec3{Z: boxSize}, core.Vec3{X: boxSize}, core.Vec3{Y: boxSize}, glass)
	} else {
		b.AddQuad(core.Vec3{Z: boxSize}, core.Vec3{X: boxSize}, core.Vec3{Y: boxSize}, white) // back wall
	}

	const lightSize = 130.0
	const lightOffset = (boxSize - lightSize) / 2
	b.AddQuadLight(
		core.Vec3{X: lightOffset, Y: boxSize - 1, Z: lightOffset},
		core.Vec3{X: lightSize}, core.Vec3{Z: lightSize},
		core.Spectrum{X: 15, Y: 15, Z: 15},
	)

	leftSphere := shape.NewSphere(core.Vec3{X: 185, Y: 82.5, Z: 169}, 82.5)
	metal := material.NewConductor(NewConstant(core.Spectrum{X: 0.95, Y: 0.93, Z: 0.88}), NewConstant(core.Spectrum{X: 3.9, Y: 2.5, Z: 2.1}), NewConstantScalar(0.02))
	b.AddPrimitive(leftSphere, metal, core.MediumInterface{})

	rightSphere := shape.NewSphere(core.Vec3{X: 370, Y: 90, Z: 351}, 90)
	glassSphere := material.NewDielectric(1.5, NewConstantScalar(0))
	b.AddPrimitive(rightSphere, glassSphere, core.MediumInterface{})
}

// NewCornellScene builds the classic Cornell box: two spheres (one metal,
// one glass) between diffuse walls lit by a single ceiling area light —
// the scene spec.md §8's centre-pixel-luminance and left-wall-red-dominant
// test scenarios are measured against. Grounded on the teacher's
// NewCornellScene (pkg/scene/cornell.go).
func NewCornellScene() *core.Scene {
	b := NewBuilder(core.SamplingConfig{SamplesPerPixel: 64, MaxDepth: 8, RouletteStartDepth: 4, Seed: 0})
	b.SetCamera(cornellCamera(400, 400))
	cornellBox(b, false)
	return b.Build()
}

// NewCornellGlassScene replaces the Cornell box's back wall with a
// dielectric pane, the scene spec.md §8's caustic-region SPPM scenario
// renders against. Grounded on the teacher's caustic_glass.go.
func NewCornellGlassScene() *core.Scene {
	b := NewBuilder(core.SamplingConfig{SamplesPerPixel: 64, MaxDepth: 12, RouletteStartDepth: 4, Seed: 0})
	b.SetCamera(cornellCamera(400, 400))
	cornellBox(b, true)
	return b.Build()
}

// NewConstantFogScene encloses a single point light in a large sphere
// bounding a homogeneous medium (sigma_s=1, sigma_a=0, g=0), the scene
// spec.md §8's "Constant Fog" in-scattering test measures a direct-view ray
// against. The bounding sphere itself carries no material (a pass-through
// hit, per path.go's nil-BSDF handling), so it exists purely to mark the
// medium boundary a ray crosses into and back out of.
func NewConstantFogScene() *core.Scene {
	b := NewBuilder(core.SamplingConfig{SamplesPerPixel: 256, MaxDepth: 16, RouletteStartDepth: 6, Seed: 0})
	b.SetCamera(camera.Config{
		Center: core.Vec3{Z: -5}, LookAt: core.Vec3{}, Up: core.Vec3{Y: 1},
		Width: 200, Height: 200, VFov: 40,
	})

	phase := medium.NewHenyeyGreenstein(0)
	fog := medium.NewHomogeneous(core.Spectrum{}, core.Spectrum{X: 1, Y: 1, Z: 1}, core.Spectrum{}, phase)
	bound := shape.NewSphere(core.Vec3{}, 50)
	b.AddPrimitive(bound, nil, core.MediumInterface{Inside: fog})

	b.AddLight(light.NewPoint(core.Vec3{X: 0, Y: 0, Z: -4.5}, core.Spectrum{X: 40, Y: 40, Z: 40}))
	return b.Build()
}

// NewImageInfiniteScene lights a single white diffuse ground plane from a
// constant-radiance equirectangular environment (standing in for an HDR
// environment map — no image codec beyond what pkg/camera's Film writer
// uses is wired in this module, so the "image" here is a uniformly-colored
// buffer rather than a loaded file), the scene spec.md §8's ground-radiance
// furnace-style test measures against.
func NewImageInfiniteScene() *core.Scene {
	b := NewBuilder(core.SamplingConfig{SamplesPerPixel: 256, MaxDepth: 8, RouletteStartDepth: 4, Seed: 0})
	b.SetCamera(camera.Config{
		Center: core.Vec3{X: 0, Y: 2, Z: -8}, LookAt: core.Vec3{X: 0, Y: 1, Z: 0}, Up: core.Vec3{Y: 1},
		Width: 400, Height: 300, VFov: 50,
	})

	const envW, envH = 16, 8
	env := make([]core.Spectrum, envW*envH)
	for i := range env {
		env[i] = core.Spectrum{X: 0.6, Y: 0.7, Z: 0.9}
	}
	b.AddLight(light.NewImageInfinite(envW, envH, env, 1.0))

	ground := material.NewDiffuse(NewConstant(core.Spectrum{X: 0.8, Y: 0.8, Z: 0.8}))
	b.AddQuad(core.Vec3{X: -50, Y: 0, Z: -50}, core.Vec3{X: 100}, core.Vec3{Z: 100}, ground)
	return b.Build()
}

// NewDeltaBehindWallScene places a point light entirely behind an opaque
// wall from the camera's view, the scene spec.md §8's "a point light behind
// an opaque wall contributes exactly zero radiance at every pixel" property
// is checked against.
func NewDeltaBehindWallScene() *core.Scene {
	b := NewBuilder(core.SamplingConfig{SamplesPerPixel: 64, MaxDepth: 4, RouletteStartDepth: 4, Seed: 0})
	b.SetCamera(camera.Config{
		Center: core.Vec3{Z: -5}, LookAt: core.Vec3{}, Up: core.Vec3{Y: 1},
		Width: 200, Height: 200, VFov: 40,
	})

	wall := material.NewDiffuse(NewConstant(core.Spectrum{X: 0.5, Y: 0.5, Z: 0.5}))
	b.AddQuad(core.Vec3{X: -5, Y: -5, Z: 0}, core.Vec3{X: 10}, core.Vec3{Y: 10}, wall)
	b.AddLight(light.NewPoint(core.Vec3{Z: 2}, core.Spectrum{X: 100, Y: 100, Z: 100}))
	return b.Build()
}

// NewSphereGridScene randomly places 10^3 unit spheres, the scene spec.md
// §8's BVH-vs-linear-scan agreement test is checked against, and a
// reasonable stand-in for the teacher's spheregrid.go stress scene.
func NewSphereGridScene() *core.Scene {
	b := NewBuilder(core.SamplingConfig{SamplesPerPixel: 16, MaxDepth: 4, RouletteStartDepth: 4, Seed: 0})
	b.SetCamera(camera.Config{
		Center: core.Vec3{X: 0, Y: 30, Z: -60}, LookAt: core.Vec3{X: 0, Y: 0, Z: 0}, Up: core.Vec3{Y: 1},
		Width: 400, Height: 400, VFov: 50,
	})

	rng := rand.New(rand.NewPCG(0, 0))
	const n = 10
	spacing := 4.0
	half := float64(n-1) * spacing / 2
	for ix := 0; ix < n; ix++ {
		for iy := 0; iy < n; iy++ {
			for iz := 0; iz < n; iz++ {
				center := core.Vec3{
					X: float64(ix)*spacing - half + (rng.Float64()-0.5)*spacing*0.3,
					Y: float64(iy)*spacing - half + (rng.Float64()-0.5)*spacing*0.3,
					Z: float64(iz)*spacing - half + (rng.Float64()-0.5)*spacing*0.3,
				}
				mat := material.NewDiffuse(NewConstant(core.Spectrum{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}))
				b.AddPrimitive(shape.NewSphere(center, 1.0), mat, core.MediumInterface{})
			}
		}
	}
	b.AddLight(light.NewPoint(core.Vec3{X: 0, Y: 100, Z: -100}, core.Spectrum{X: 2e5, Y: 2e5, Z: 2e5}))
	return b.Build()
}

// DescribeSamples formats the built-in sample list for --list-samples.
func DescribeSamples() string {
	out := ""
	for _, s := range Samples {
		out += fmt.Sprintf("%s (%dx%d)\n", s.Name, s.Width, s.Height)
	}
	return out
}
