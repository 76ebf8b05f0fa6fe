package light

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// UniformInfinite emits constant radiance L from every direction,
// generalizing the teacher's UniformInfiniteLight (which hard-coded a
// material wrapper around a single Vec3 emission) directly onto
// core.Light's Le/SampleLi/SampleLe contract.
type UniformInfinite struct {
	L core.Spectrum

	sceneCenter core.Vec3
	sceneRadius float64
}

// NewUniformInfinite creates a uniform environment light with radiance l.
func NewUniformInfinite(l core.Spectrum) *UniformInfinite {
	return &UniformInfinite{L: l}
}

func (u *UniformInfinite) Type() core.LightType { return core.LightInfinite }

func (u *UniformInfinite) Le(ray core.Ray) core.Spectrum { return u.L }

func (u *UniformInfinite) SampleLi(ref core.Vec3, refNormal core.Vec3, u2 core.Vec2) (core.LightLiSample, bool) {
	wi := core.SampleUniformSphere(u2)
	pLight := ref.Add(wi.Multiply(2 * u.sceneRadius))
	return core.LightLiSample{L: u.L, Wi: wi, PDF: core.UniformSpherePDF, PLight: pLight}, true
}

func (u *UniformInfinite) PDFLi(ref core.Vec3, wi core.Vec3) float64 {
	return core.UniformSpherePDF
}

func (u *UniformInfinite) SampleLe(u1, u2 core.Vec2) (core.LightLeSample, bool) {
	if u.sceneRadius <= 0 {
		return core.LightLeSample{}, false
	}
	dir := core.SampleUniformSphere(u1).Negate() // ray travels opposite the sampled outward direction
	ray, pdfPos := sampleInfiniteLightRay(u.sceneCenter, u.sceneRadius, dir, u2)
	return core.LightLeSample{Ray: ray, Normal: ray.Direction.Negate(), L: u.L, PDFPos: pdfPos, PDFDir: core.UniformSpherePDF}, true
}

func (u *UniformInfinite) PDFLe(ray core.Ray, n core.Vec3) (pdfPos, pdfDir float64) {
	if u.sceneRadius <= 0 {
		return 0, 0
	}
	return 1 / (math.Pi * u.sceneRadius * u.sceneRadius), core.UniformSpherePDF
}

func (u *UniformInfinite) Preprocess(sceneCenter core.Vec3, sceneRadius float64) {
	u.sceneCenter = sceneCenter
	u.sceneRadius = sceneRadius
}

// Power approximates total power as 4*pi^2*r^2*L (emitted over the full
// sphere of directions, through a disc of the scene's bounding radius).
func (u *UniformInfinite) Power() float64 {
	return 4 * math.Pi * math.Pi * u.sceneRadius * u.sceneRadius * core.Average(u.L)
}

// sampleInfiniteLightRay builds an emission ray traveling in dir, offset
// to a disc of sceneRadius centered on sceneCenter and perpendicular to
// dir, the standard finite-world trick for giving an otherwise-infinite
// environment light a finite emitted-ray position density (grounded on the
// teacher's shared core.SampleInfiniteLight helper, generalized here to
// take an arbitrary sampled direction rather than always -dir).
func sampleInfiniteLightRay(sceneCenter core.Vec3, sceneRadius float64, dir core.Vec3, u2 core.Vec2) (core.Ray, float64) {
	frame := core.NewFrame(dir)
	diskSample := core.SampleUniformDiskConcentric(u2)
	pDisk := sceneCenter.Add(frame.FromLocal(core.NewVec3(diskSample.X, diskSample.Y, 0)).Multiply(sceneRadius))
	origin := pDisk.Add(dir.Multiply(-sceneRadius))
	pdfPos := 1 / (math.Pi * sceneRadius * sceneRadius)
	return core.Ray{Origin: origin, Direction: dir}, pdfPos
}
