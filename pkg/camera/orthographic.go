package camera

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Orthographic is a parallel-projection camera: every ray travels in the
// same camera-space direction (+Z), with the screen-window offset baked
// into the ray's origin instead of its direction. ScreenHeight sets the
// world-space extent the screen window's shorter axis covers (the
// orthographic analogue of Perspective's VFov).
type Orthographic struct {
	projective
	halfHeight float64
}

// NewOrthographic builds an orthographic camera from cfg; screenHeight is
// the world-space height (shorter-axis extent) of the visible screen window.
func NewOrthographic(cfg Config, screenHeight float64) *Orthographic {
	return &Orthographic{projective: newProjective(cfg), halfHeight: screenHeight / 2}
}

func (o *Orthographic) SampleRay(pFilm core.Vec2, uLens core.Vec2) (core.Ray, float64, bool) {
	sx, sy := o.rasterToScreen(pFilm)
	origin := core.NewVec3(sx*o.halfHeight, sy*o.halfHeight, 0)
	dir := core.NewVec3(0, 0, 1)
	origin, dir = o.applyLens(origin, dir, uLens)
	return o.toWorld(origin, dir), 1, true
}

func (o *Orthographic) SampleWi(ref core.Vec3, u core.Vec2) (core.CameraWiSample, bool) {
	local := o.cameraToWorld.InversePoint(ref)
	if local.Z <= 0 {
		return core.CameraWiSample{}, false
	}
	sx := local.X / o.halfHeight
	sy := local.Y / o.halfHeight
	pRaster := o.screenToRaster(sx, sy)
	if !o.insideRaster(pRaster) {
		return core.CameraWiSample{}, false
	}
	pLens := o.cameraToWorld.Point(core.NewVec3(local.X, local.Y, 0))
	toRef := ref.Subtract(pLens)
	dist := toRef.Length()
	if dist == 0 {
		return core.CameraWiSample{}, false
	}
	wi := toRef.Multiply(-1 / dist) // ref to camera, per the Wi convention
	return core.CameraWiSample{
		Wi: wi, PDF: dist * dist, Importance: core.NewSpectrum(1, 1, 1),
		PRaster: pRaster, PLens: pLens,
	}, true
}

func (o *Orthographic) PDFWe(ray core.Ray) (pdfPos, pdfDir float64) {
	local := o.cameraToWorld.InverseVector(ray.Direction).Normalize()
	if math.Abs(local.Z-1) > 1e-6 {
		return 0, 0
	}
	return 1, 1
}
