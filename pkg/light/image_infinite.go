package light

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// ImageInfinite is an environment light whose radiance comes from an
// equirectangular image: u wraps longitude over [0,2pi), v runs from the
// +Y pole (v=0) to the -Y pole (v=1), the same row-major Width/Height/
// Pixels layout the teacher's ImageTexture uses for surface textures. No
// Bulbit environment-light source survived retrieval (see the package's
// DESIGN.md entry), so sampling is built directly from the published
// technique spec.md names: a 2D piecewise-constant distribution over the
// image weighted by sin(theta), so texels near the poles (which subtend
// less solid angle per pixel) are sampled less often than a luminance-only
// weighting would pick them.
type ImageInfinite struct {
	Width  int
	Height int
	Pixels []core.Spectrum // row-major: Pixels[y*Width+x]
	Scale  float64

	distribution *distribution2D
	sceneCenter  core.Vec3
	sceneRadius  float64
}

// NewImageInfinite builds an environment light from a row-major equirect
// image, weighting the importance distribution by each texel's luminance
// times sin(theta) to account for the equirectangular projection's solid
// angle distortion near the poles.
func NewImageInfinite(width, height int, pixels []core.Spectrum, scale float64) *ImageInfinite {
	f := make([]float64, width*height)
	for y := 0; y < height; y++ {
		theta := (float64(y) + 0.5) / float64(height) * math.Pi
		sinTheta := math.Sin(theta)
		for x := 0; x < width; x++ {
			f[y*width+x] = core.Average(pixels[y*width+x]) * sinTheta
		}
	}
	return &ImageInfinite{
		Width: width, Height: height, Pixels: pixels, Scale: scale,
		distribution: newDistribution2D(f, width, height),
	}
}

func (img *ImageInfinite) dirToUV(dir core.Vec3) (u, v float64) {
	theta := math.Acos(math.Max(-1, math.Min(1, dir.Y)))
	phi := math.Atan2(dir.Z, dir.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return phi / (2 * math.Pi), theta / math.Pi
}

func (img *ImageInfinite) uvToDir(u, v float64) core.Vec3 {
	theta := v * math.Pi
	phi := u * 2 * math.Pi
	sinTheta, cosTheta := math.Sincos(theta)
	sinPhi, cosPhi := math.Sincos(phi)
	return core.NewVec3(sinTheta*cosPhi, cosTheta, sinTheta*sinPhi)
}

func (img *ImageInfinite) lookup(u, v float64) core.Spectrum {
	x := int(u * float64(img.Width))
	y := int(v * float64(img.Height))
	if x < 0 {
		x = 0
	} else if x >= img.Width {
		x = img.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= img.Height {
		y = img.Height - 1
	}
	return img.Pixels[y*img.Width+x].Multiply(img.Scale)
}

func (img *ImageInfinite) Type() core.LightType { return core.LightInfinite }

func (img *ImageInfinite) Le(ray core.Ray) core.Spectrum {
	u, v := img.dirToUV(ray.Direction.Normalize())
	return img.lookup(u, v)
}

// solidAnglePDF converts the distribution's (u,v) density into a
// solid-angle PDF: the equirect Jacobian contributes a factor of
// 2*pi^2*sin(theta), matching the sin(theta) weighting baked into the
// distribution at construction time.
func (img *ImageInfinite) solidAnglePDF(u, v float64) float64 {
	sinTheta := math.Sin(v * math.Pi)
	if sinTheta == 0 {
		return 0
	}
	return img.distribution.pdf(u, v) / (2 * math.Pi * math.Pi * sinTheta)
}

func (img *ImageInfinite) SampleLi(ref core.Vec3, refNormal core.Vec3, u core.Vec2) (core.LightLiSample, bool) {
	up, vp, mapPDF := img.distribution.sampleContinuous(u.X, u.Y)
	if mapPDF <= 0 {
		return core.LightLiSample{}, false
	}
	pdf := img.solidAnglePDF(up, vp)
	if pdf <= 0 {
		return core.LightLiSample{}, false
	}
	wi := img.uvToDir(up, vp)
	pLight := ref.Add(wi.Multiply(2 * img.sceneRadius))
	return core.LightLiSample{L: img.lookup(up, vp), Wi: wi, PDF: pdf, PLight: pLight}, true
}

func (img *ImageInfinite) PDFLi(ref core.Vec3, wi core.Vec3) float64 {
	u, v := img.dirToUV(wi.Normalize())
	return img.solidAnglePDF(u, v)
}

func (img *ImageInfinite) SampleLe(u1, u2 core.Vec2) (core.LightLeSample, bool) {
	if img.sceneRadius <= 0 {
		return core.LightLeSample{}, false
	}
	up, vp, mapPDF := img.distribution.sampleContinuous(u1.X, u1.Y)
	if mapPDF <= 0 {
		return core.LightLeSample{}, false
	}
	pdfDir := img.solidAnglePDF(up, vp)
	if pdfDir <= 0 {
		return core.LightLeSample{}, false
	}
	dir := img.uvToDir(up, vp).Negate() // ray travels opposite the sampled incoming direction
	ray, pdfPos := sampleInfiniteLightRay(img.sceneCenter, img.sceneRadius, dir, u2)
	return core.LightLeSample{Ray: ray, Normal: ray.Direction.Negate(), L: img.lookup(up, vp), PDFPos: pdfPos, PDFDir: pdfDir}, true
}

func (img *ImageInfinite) PDFLe(ray core.Ray, n core.Vec3) (pdfPos, pdfDir float64) {
	if img.sceneRadius <= 0 {
		return 0, 0
	}
	u, v := img.dirToUV(ray.Direction.Negate().Normalize())
	return 1 / (math.Pi * img.sceneRadius * img.sceneRadius), img.solidAnglePDF(u, v)
}

func (img *ImageInfinite) Preprocess(sceneCenter core.Vec3, sceneRadius float64) {
	img.sceneCenter = sceneCenter
	img.sceneRadius = sceneRadius
}

// Power approximates total power by integrating the image's average
// radiance over the full sphere of directions through a disc of the
// scene's bounding radius.
func (img *ImageInfinite) Power() float64 {
	sum := 0.0
	for _, p := range img.Pixels {
		sum += core.Average(p)
	}
	avg := img.Scale * sum / float64(len(img.Pixels))
	return 4 * math.Pi * math.Pi * img.sceneRadius * img.sceneRadius * avg
}
