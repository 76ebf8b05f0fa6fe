package light

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// DirectionalArea emits a parallel beam (constant Dir) cut to the outline
// of a Primitive's shape, rather than a Lambertian cosine lobe: every point
// on the shape emits straight along Dir, so illuminating a reference point
// means checking whether a ray from that point back along -Dir actually
// lands on the shape. No Bulbit source for this variant survived
// retrieval; it generalizes DiffuseArea's shape-bound sampling to a
// delta-direction emission profile instead of a cosine-weighted one, the
// same way Directional generalizes Point to infinite distance.
type DirectionalArea struct {
	Prim  *core.Primitive
	Dir   core.Vec3 // normalized, direction light travels
	Lemit core.Spectrum
}

// NewDirectionalArea creates a beam-shaped area light bound to prim's
// shape, traveling in dir.
func NewDirectionalArea(prim *core.Primitive, dir core.Vec3, le core.Spectrum) *DirectionalArea {
	return &DirectionalArea{Prim: prim, Dir: dir.Normalize(), Lemit: le}
}

func (d *DirectionalArea) Type() core.LightType { return core.LightDeltaDirection }

func (d *DirectionalArea) Le(ray core.Ray) core.Spectrum { return core.Spectrum{} }

func (d *DirectionalArea) SampleLi(ref core.Vec3, refNormal core.Vec3, u core.Vec2) (core.LightLiSample, bool) {
	wi := d.Dir.Negate()
	ray := core.Ray{Origin: ref, Direction: wi}
	hit, ok := d.Prim.Intersect(ray, 1e-4, math.Inf(1))
	if !ok || !hit.FrontFace {
		return core.LightLiSample{}, false
	}
	return core.LightLiSample{L: d.Lemit, Wi: wi, PDF: 1, PLight: hit.Point}, true
}

func (d *DirectionalArea) PDFLi(ref core.Vec3, wi core.Vec3) float64 { return 0 }

func (d *DirectionalArea) SampleLe(u1, u2 core.Vec2) (core.LightLeSample, bool) {
	p, n, areaPDF := d.Prim.Shape.SampleArea(u1)
	if areaPDF <= 0 || n.Dot(d.Dir) >= 0 {
		return core.LightLeSample{}, false
	}
	ray := core.Ray{Origin: p, Direction: d.Dir}
	return core.LightLeSample{Ray: ray, Normal: n, L: d.Lemit, PDFPos: areaPDF, PDFDir: 1}, true
}

func (d *DirectionalArea) PDFLe(ray core.Ray, n core.Vec3) (pdfPos, pdfDir float64) {
	return 1 / d.Prim.Shape.Area(), 0
}

func (d *DirectionalArea) Preprocess(sceneCenter core.Vec3, sceneRadius float64) {}

// Power approximates total power as irradiance Le over the shape's area.
func (d *DirectionalArea) Power() float64 {
	return core.Average(d.Lemit) * d.Prim.Shape.Area()
}
