package camera

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Box is the simplest reconstruction filter: uniform weight within its
// extent, zero outside. The film-reproduction test relies on this being
// exactly the identity filter (radius 0.5, weight 1 everywhere inside).
type Box struct {
	HalfExtent core.Vec2
}

// NewBox creates a box filter with the given half-extent per axis
// (0.5 in both dimensions is the conventional one-pixel-wide box).
func NewBox(halfExtent core.Vec2) Box { return Box{HalfExtent: halfExtent} }

func (b Box) Radius() core.Vec2 { return b.HalfExtent }

func (b Box) Evaluate(p core.Vec2) float64 {
	if math.Abs(p.X) <= b.HalfExtent.X && math.Abs(p.Y) <= b.HalfExtent.Y {
		return 1
	}
	return 0
}

// Tent is a bilinear (triangle) filter: weight falls off linearly to zero
// at its extent.
type Tent struct {
	HalfExtent core.Vec2
}

func NewTent(halfExtent core.Vec2) Tent { return Tent{HalfExtent: halfExtent} }

func (t Tent) Radius() core.Vec2 { return t.HalfExtent }

func (t Tent) Evaluate(p core.Vec2) float64 {
	wx := math.Max(0, t.HalfExtent.X-math.Abs(p.X))
	wy := math.Max(0, t.HalfExtent.Y-math.Abs(p.Y))
	return wx * wy
}

// Gaussian is a Gaussian reconstruction filter truncated to HalfExtent and
// shifted so it reaches exactly zero at the boundary (pbrt's
// GaussianFilter construction: subtract the value at the radius rather
// than leaving a visible discontinuity there).
type Gaussian struct {
	HalfExtent core.Vec2
	Sigma      float64

	expX, expY float64
}

func NewGaussian(halfExtent core.Vec2, sigma float64) Gaussian {
	return Gaussian{
		HalfExtent: halfExtent, Sigma: sigma,
		expX: gaussian(halfExtent.X, sigma),
		expY: gaussian(halfExtent.Y, sigma),
	}
}

func gaussian(x, sigma float64) float64 {
	return math.Exp(-(x * x) / (2 * sigma * sigma))
}

func (g Gaussian) Radius() core.Vec2 { return g.HalfExtent }

func (g Gaussian) Evaluate(p core.Vec2) float64 {
	if math.Abs(p.X) > g.HalfExtent.X || math.Abs(p.Y) > g.HalfExtent.Y {
		return 0
	}
	wx := math.Max(0, gaussian(p.X, g.Sigma)-g.expX)
	wy := math.Max(0, gaussian(p.Y, g.Sigma)-g.expY)
	return wx * wy
}
