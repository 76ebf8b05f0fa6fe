// Package camera implements core.Camera: perspective, orthographic, and
// spherical primary-ray generation; core.Filter reconstruction kernels; and
// Film, the per-pixel sample/splat accumulator a Rendering writes into.
package camera

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Config describes a camera's placement and film geometry, the parameter
// set the teacher's (retrieval-filtered) geometry.CameraConfig exposed —
// confirmed via pkg/geometry/camera_splat_test.go, the only surviving
// reference to it, which exercises exactly these fields (Center, LookAt,
// Up, Width, AspectRatio, VFov, Aperture, FocusDistance) against a
// perspective camera's SampleCameraFromPoint. Width/Height in pixels are
// threaded through explicitly here since the film resolution is needed by
// every camera variant to go from continuous pixel samples to a raster.
type Config struct {
	Center        core.Vec3
	LookAt        core.Vec3
	Up            core.Vec3
	Width         int
	Height        int
	VFov          float64 // vertical field of view, degrees (perspective only)
	Aperture      float64 // lens diameter; 0 disables depth of field
	FocusDistance float64
}

func (c Config) aspectRatio() float64 {
	return float64(c.Width) / float64(c.Height)
}

// projective holds the shared camera-to-world placement and raster
// transform every projective camera variant (perspective, orthographic)
// builds its ray generation from, generalizing the teacher's simple
// lowerLeftCorner/horizontal/vertical screen-basis (pkg/renderer/camera.go)
// into a full camera-space transform so a thin lens can perturb the ray
// origin/direction in camera space before mapping back to world space.
type projective struct {
	cameraToWorld core.Transform
	lensRadius    float64
	focusDistance float64
	width, height float64
}

func newProjective(cfg Config) projective {
	world := core.NewTransform(core.LookAt4(cfg.Center, cfg.LookAt, cfg.Up))
	focusDistance := cfg.FocusDistance
	if focusDistance <= 0 {
		focusDistance = cfg.Center.Subtract(cfg.LookAt).Length()
	}
	return projective{
		cameraToWorld: world,
		lensRadius:    cfg.Aperture / 2,
		focusDistance: focusDistance,
		width:         float64(cfg.Width),
		height:        float64(cfg.Height),
	}
}

// applyLens perturbs a camera-space ray's origin over the lens aperture and
// retargets it through the point it would have hit on the focal plane at
// focusDistance, the standard thin-lens depth-of-field construction.
func (p projective) applyLens(origin, dir core.Vec3, uLens core.Vec2) (core.Vec3, core.Vec3) {
	if p.lensRadius <= 0 {
		return origin, dir
	}
	lens := core.SampleUniformDiskConcentric(uLens).Multiply(p.lensRadius)
	ft := p.focusDistance / dir.Z
	focus := origin.Add(dir.Multiply(ft))
	newOrigin := core.NewVec3(lens.X, lens.Y, 0)
	newDir := focus.Subtract(newOrigin).Normalize()
	return newOrigin, newDir
}

func (p projective) toWorld(origin, dir core.Vec3) core.Ray {
	return core.Ray{
		Origin:    p.cameraToWorld.Point(origin),
		Direction: p.cameraToWorld.Vector(dir).Normalize(),
	}
}

// rasterToScreen maps a continuous pixel coordinate (origin top-left, x
// right, y down) to camera-space screen coordinates in [-1,1] along the
// shorter axis and [-aspect,aspect] (or its reciprocal) along the longer,
// pbrt's standard screen-window convention for a non-square film.
func (p projective) rasterToScreen(pFilm core.Vec2) (sx, sy float64) {
	ndcX := pFilm.X / p.width
	ndcY := pFilm.Y / p.height
	aspect := p.width / p.height
	if aspect > 1 {
		sx = (2*ndcX - 1) * aspect
		sy = 1 - 2*ndcY
	} else {
		sx = 2*ndcX - 1
		sy = (1 - 2*ndcY) / aspect
	}
	return sx, sy
}

// screenToRaster is rasterToScreen's inverse, used by SampleWi/PDFWe to
// recover which pixel a world-space camera ray corresponds to.
func (p projective) screenToRaster(sx, sy float64) core.Vec2 {
	aspect := p.width / p.height
	var ndcX, ndcY float64
	if aspect > 1 {
		ndcX = (sx/aspect + 1) / 2
		ndcY = (1 - sy) / 2
	} else {
		ndcX = (sx + 1) / 2
		ndcY = (1 - sy*aspect) / 2
	}
	return core.Vec2{X: ndcX * p.width, Y: ndcY * p.height}
}

func (p projective) insideRaster(pRaster core.Vec2) bool {
	return pRaster.X >= 0 && pRaster.X < p.width && pRaster.Y >= 0 && pRaster.Y < p.height
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
