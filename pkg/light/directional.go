package light

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Directional is a delta-direction light at infinite distance: parallel
// rays arriving from Dir (the direction light travels, so illumination
// arrives from -Dir), matching Bulbit's CreateDirectionalLight(direction,
// intensity, visible_radius). VisibleRadius, when nonzero, is the angular
// radius (radians) of a visible disc rendered when a camera ray happens to
// look directly down -Dir, e.g. a sun disc; it does not affect NEE, which
// always treats this as a true delta light.
type Directional struct {
	Dir           core.Vec3 // normalized, direction light travels
	L             core.Spectrum
	VisibleRadius float64

	sceneRadius float64
}

// NewDirectional creates a directional light traveling in dir with
// radiance l and an optional visible angular radius in radians.
func NewDirectional(dir core.Vec3, l core.Spectrum, visibleRadius float64) *Directional {
	return &Directional{Dir: dir.Normalize(), L: l, VisibleRadius: visibleRadius}
}

func (d *Directional) Type() core.LightType { return core.LightDeltaDirection }

// Le renders the visible sun disc: nonzero only when VisibleRadius > 0 and
// the ray looks within that angular radius of -Dir.
func (d *Directional) Le(ray core.Ray) core.Spectrum {
	if d.VisibleRadius <= 0 {
		return core.Spectrum{}
	}
	cosTheta := ray.Direction.Normalize().Dot(d.Dir.Negate())
	if cosTheta >= math.Cos(d.VisibleRadius) {
		return d.L
	}
	return core.Spectrum{}
}

func (d *Directional) SampleLi(ref core.Vec3, refNormal core.Vec3, u core.Vec2) (core.LightLiSample, bool) {
	wi := d.Dir.Negate()
	pLight := ref.Add(wi.Multiply(2 * d.sceneRadius))
	return core.LightLiSample{L: d.L, Wi: wi, PDF: 1, PLight: pLight}, true
}

func (d *Directional) PDFLi(ref core.Vec3, wi core.Vec3) float64 { return 0 }

func (d *Directional) SampleLe(u1, u2 core.Vec2) (core.LightLeSample, bool) {
	if d.sceneRadius <= 0 {
		return core.LightLeSample{}, false
	}
	frame := core.NewFrame(d.Dir)
	diskSample := core.SampleUniformDiskConcentric(u1)
	pDisk := frame.FromLocal(core.NewVec3(diskSample.X, diskSample.Y, 0)).Multiply(d.sceneRadius)
	origin := pDisk.Add(d.Dir.Multiply(-d.sceneRadius))
	ray := core.Ray{Origin: origin, Direction: d.Dir}
	pdfPos := 1 / (math.Pi * d.sceneRadius * d.sceneRadius)
	return core.LightLeSample{Ray: ray, Normal: d.Dir.Negate(), L: d.L, PDFPos: pdfPos, PDFDir: 1}, true
}

func (d *Directional) PDFLe(ray core.Ray, n core.Vec3) (pdfPos, pdfDir float64) {
	if d.sceneRadius <= 0 {
		return 0, 0
	}
	return 1 / (math.Pi * d.sceneRadius * d.sceneRadius), 0
}

// Preprocess caches the scene radius, needed to turn SampleLe's disk
// sampling into a properly scaled finite-density emission ray.
func (d *Directional) Preprocess(sceneCenter core.Vec3, sceneRadius float64) {
	d.sceneRadius = sceneRadius
}

// Power approximates total power as irradiance over the scene's bounding
// disc, pi*r^2, the same finite-world trick SampleLe uses.
func (d *Directional) Power() float64 {
	return core.Average(d.L) * math.Pi * d.sceneRadius * d.sceneRadius
}
