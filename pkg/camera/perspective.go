package camera

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Perspective is a pinhole (or thin-lens, when Aperture > 0) projective
// camera: VFov is the field of view across the screen window's shorter
// axis (vertical for the common width>height case), matching the teacher's
// CameraConfig.VFov parameterization confirmed by
// pkg/geometry/camera_splat_test.go's SampleCameraFromPoint test.
type Perspective struct {
	projective
	tanHalfFov float64
}

// NewPerspective builds a perspective camera from cfg.
func NewPerspective(cfg Config) *Perspective {
	return &Perspective{
		projective: newProjective(cfg),
		tanHalfFov: math.Tan(radians(cfg.VFov) / 2),
	}
}

// cameraRay returns the un-lensed ray through screen-space (sx, sy),
// direction normalized, origin at the pinhole.
func (p *Perspective) cameraRay(sx, sy float64) (origin, dir core.Vec3) {
	dir = core.NewVec3(sx*p.tanHalfFov, sy*p.tanHalfFov, 1).Normalize()
	return core.Vec3{}, dir
}

func (p *Perspective) SampleRay(pFilm core.Vec2, uLens core.Vec2) (core.Ray, float64, bool) {
	sx, sy := p.rasterToScreen(pFilm)
	origin, dir := p.cameraRay(sx, sy)
	origin, dir = p.applyLens(origin, dir, uLens)
	return p.toWorld(origin, dir), 1, true
}

func (p *Perspective) SampleWi(ref core.Vec3, u core.Vec2) (core.CameraWiSample, bool) {
	lensLocal := core.Vec3{}
	if p.lensRadius > 0 {
		d := core.SampleUniformDiskConcentric(u).Multiply(p.lensRadius)
		lensLocal = core.NewVec3(d.X, d.Y, 0)
	}
	pLens := p.cameraToWorld.Point(lensLocal)

	toRef := ref.Subtract(pLens)
	dist := toRef.Length()
	if dist == 0 {
		return core.CameraWiSample{}, false
	}
	forward := toRef.Multiply(1 / dist) // camera to ref, world space
	wi := forward.Negate()              // ref to camera, per the Wi convention

	localDir := p.cameraToWorld.InverseVector(forward).Normalize()
	if localDir.Z <= 0 {
		return core.CameraWiSample{}, false
	}
	sx := localDir.X / (localDir.Z * p.tanHalfFov)
	sy := localDir.Y / (localDir.Z * p.tanHalfFov)
	pRaster := p.screenToRaster(sx, sy)
	if !p.insideRaster(pRaster) {
		return core.CameraWiSample{}, false
	}

	lensArea := 1.0
	if p.lensRadius > 0 {
		lensArea = math.Pi * p.lensRadius * p.lensRadius
	}
	cos2Theta := localDir.Z * localDir.Z
	pdf := (dist * dist) / (localDir.Z * lensArea)
	importance := 1 / (lensArea * cos2Theta * cos2Theta)

	return core.CameraWiSample{
		Wi: wi, PDF: pdf, Importance: core.NewSpectrum(importance, importance, importance),
		PRaster: pRaster, PLens: pLens,
	}, true
}

// PDFWe mirrors SampleWi's importance/PDF relationship (pbrt's
// PerspectiveCamera::Pdf_We, specialized to a unit image-plane distance):
// the cos^2(theta)/A^2 falloff that makes a sensor behave like a
// cos-weighted-squared "light" pointed back into the scene.
func (p *Perspective) PDFWe(ray core.Ray) (pdfPos, pdfDir float64) {
	localDir := p.cameraToWorld.InverseVector(ray.Direction).Normalize()
	if localDir.Z <= 0 {
		return 0, 0
	}
	lensArea := 1.0
	if p.lensRadius > 0 {
		lensArea = math.Pi * p.lensRadius * p.lensRadius
	}
	cos2Theta := localDir.Z * localDir.Z
	pdfDir = 1 / (lensArea * cos2Theta * cos2Theta)
	pdfPos = 1 / lensArea
	return pdfPos, pdfDir
}
