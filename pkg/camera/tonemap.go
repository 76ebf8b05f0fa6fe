package camera

import (
	"image"
	"image/color"

	"github.com/df07/go-spectral-tracer/pkg/core"
	"github.com/lucasb-eyer/go-colorful"
)

// ToRGBA converts a linear-light Film image (as returned by
// Film.GetRenderedImage) into an 8-bit sRGB *image.RGBA ready for PNG/JPEG
// encoding. Grounded on the teacher's Raytracer.vec3ToColor (gamma=2.0
// approximation, raytracer.go), replaced with go-colorful's exact sRGB
// transfer function (LinearRgb) rather than the teacher's fixed-gamma
// approximation — colorful ships in this module's retrieval pack and is
// the one color-science library available, so this is the point it's
// wired in rather than reimplementing the sRGB curve by hand.
func ToRGBA(pixels []core.Spectrum, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s := pixels[y*width+x]
			c := colorful.LinearRgb(s.X, s.Y, s.Z).Clamped()
			r, g, b := c.RGB255()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}
