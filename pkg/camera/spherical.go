package camera

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Spherical is a 360-degree equirectangular camera: a fixed origin at
// Center emitting one ray per direction over the full sphere, column
// mapping to longitude and row to latitude — the environment-camera
// counterpart of pkg/light's ImageInfinite environment-map parameterization
// (same equirect convention, reused here so a rendered Spherical image and
// an ImageInfinite environment texture are directly interchangeable).
type Spherical struct {
	cameraToWorld core.Transform
	width, height float64
}

// NewSpherical builds a spherical camera from cfg; Aperture/FocusDistance
// are not meaningful for a lensless omnidirectional camera and are ignored.
func NewSpherical(cfg Config) *Spherical {
	return &Spherical{
		cameraToWorld: core.NewTransform(core.LookAt4(cfg.Center, cfg.LookAt, cfg.Up)),
		width:         float64(cfg.Width),
		height:        float64(cfg.Height),
	}
}

func (s *Spherical) pixelToDir(pFilm core.Vec2) core.Vec3 {
	u := pFilm.X / s.width
	v := pFilm.Y / s.height
	theta := v * math.Pi
	phi := u * 2 * math.Pi
	sinTheta, cosTheta := math.Sincos(theta)
	sinPhi, cosPhi := math.Sincos(phi)
	return core.NewVec3(sinTheta*cosPhi, cosTheta, sinTheta*sinPhi)
}

func (s *Spherical) dirToPixel(dir core.Vec3) (core.Vec2, bool) {
	theta := math.Acos(math.Max(-1, math.Min(1, dir.Y)))
	phi := math.Atan2(dir.Z, dir.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	pRaster := core.Vec2{X: phi / (2 * math.Pi) * s.width, Y: theta / math.Pi * s.height}
	if pRaster.X < 0 || pRaster.X >= s.width || pRaster.Y < 0 || pRaster.Y >= s.height {
		return core.Vec2{}, false
	}
	return pRaster, true
}

func (s *Spherical) SampleRay(pFilm core.Vec2, uLens core.Vec2) (core.Ray, float64, bool) {
	dir := s.pixelToDir(pFilm)
	return core.Ray{
		Origin:    s.cameraToWorld.Point(core.Vec3{}),
		Direction: s.cameraToWorld.Vector(dir).Normalize(),
	}, 1, true
}

func (s *Spherical) SampleWi(ref core.Vec3, u core.Vec2) (core.CameraWiSample, bool) {
	center := s.cameraToWorld.Point(core.Vec3{})
	toRef := ref.Subtract(center)
	dist := toRef.Length()
	if dist == 0 {
		return core.CameraWiSample{}, false
	}
	forward := toRef.Multiply(1 / dist) // camera to ref, world space
	wi := forward.Negate()              // ref to camera, per the Wi convention
	localDir := s.cameraToWorld.InverseVector(forward).Normalize()
	pRaster, ok := s.dirToPixel(localDir)
	if !ok {
		return core.CameraWiSample{}, false
	}
	sinTheta := math.Sqrt(math.Max(0, 1-localDir.Y*localDir.Y))
	if sinTheta == 0 {
		return core.CameraWiSample{}, false
	}
	solidAnglePerPixel := (2 * math.Pi * math.Pi / (s.width * s.height)) * sinTheta
	return core.CameraWiSample{
		Wi: wi, PDF: (dist * dist) / solidAnglePerPixel, Importance: core.NewSpectrum(1, 1, 1),
		PRaster: pRaster, PLens: center,
	}, true
}

func (s *Spherical) PDFWe(ray core.Ray) (pdfPos, pdfDir float64) {
	localDir := s.cameraToWorld.InverseVector(ray.Direction).Normalize()
	sinTheta := math.Sqrt(math.Max(0, 1-localDir.Y*localDir.Y))
	if sinTheta == 0 {
		return 1, 0
	}
	return 1, 1 / (2 * math.Pi * math.Pi * sinTheta)
}
