package camera

import (
	"math"
	"sync/atomic"

	"github.com/df07/go-spectral-tracer/pkg/core"
	"gonum.org/v1/gonum/stat"
)

// addAtomicFloat adds delta to the float64 bit-pattern stored in a, via a
// compare-and-swap retry loop — Go's atomic package has no AddFloat64, so
// this is the standard lock-free substitute for an atomic float add.
func addAtomicFloat(a *atomic.Uint64, delta float64) {
	for {
		old := a.Load()
		newVal := math.Float64bits(math.Float64frombits(old) + delta)
		if a.CompareAndSwap(old, newVal) {
			return
		}
	}
}

func float64FromBits(bits uint64) float64 { return math.Float64frombits(bits) }

// pixel holds one film pixel's running sample accumulation: a radiance sum,
// a sample count, and the first two raw moments of luminance (enough to
// derive a per-pixel variance estimate without storing every sample).
type pixel struct {
	sum      core.Vec3
	count    int64
	lumSum   float64
	lumSumSq float64
}

// splat is a per-channel atomic accumulator for contributions that don't
// originate from the pixel's own primary ray (light tracing, BDPT's s=0/1
// strategies). Film.AddSplat is called concurrently from many tile
// threads, so each channel is a separate atomic float bit-pattern the way
// the teacher's renderer package serializes concurrent splat writes,
// generalized here from a single mutex-guarded Vec3 to a lock-free
// compare-and-swap loop per channel.
type splat struct {
	x, y, z atomic.Uint64
}

func (s *splat) add(v core.Vec3) {
	addAtomicFloat(&s.x, v.X)
	addAtomicFloat(&s.y, v.Y)
	addAtomicFloat(&s.z, v.Z)
}

func (s *splat) load() core.Vec3 {
	return core.NewVec3(
		float64FromBits(s.x.Load()),
		float64FromBits(s.y.Load()),
		float64FromBits(s.z.Load()),
	)
}

// Film is the per-pixel accumulator a Rendering writes samples into: a
// sum/count pair per pixel (written only by the owning tile thread, per
// spec.md's AddSample contract) plus a separate atomically-updated splat
// buffer any thread may write to, and an auxiliary luminance-moment array
// for a per-pixel variance image.
type Film struct {
	Width, Height int
	Filter        core.Filter

	pixels []pixel
	splats []splat
}

// NewFilm creates an empty film of the given resolution using filter for
// AddSplat's footprint.
func NewFilm(width, height int, filter core.Filter) *Film {
	return &Film{
		Width: width, Height: height, Filter: filter,
		pixels: make([]pixel, width*height),
		splats: make([]splat, width*height),
	}
}

func (f *Film) index(x, y int) int { return y*f.Width + x }

// AddSample accumulates L into pixel (x,y)'s sum/count and luminance
// moments. Called only from the tile thread that owns this pixel, so no
// synchronization is needed.
func (f *Film) AddSample(x, y int, l core.Spectrum) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	p := &f.pixels[f.index(x, y)]
	p.sum = p.sum.Add(l)
	p.count++
	lum := core.Luminance(l)
	p.lumSum += lum
	p.lumSumSq += lum * lum
}

// AddSplat atomically distributes l over every pixel within the film's
// filter footprint of the continuous point pFilm, weighted by the filter's
// evaluation at each pixel's offset from pFilm.
func (f *Film) AddSplat(pFilm core.Vec2, l core.Spectrum) {
	radius := f.Filter.Radius()
	x0 := int(pFilm.X - radius.X)
	x1 := int(pFilm.X + radius.X)
	y0 := int(pFilm.Y - radius.Y)
	y1 := int(pFilm.Y + radius.Y)
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 >= f.Width {
		x1 = f.Width - 1
	}
	if y1 >= f.Height {
		y1 = f.Height - 1
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			offset := core.Vec2{X: float64(x) + 0.5 - pFilm.X, Y: float64(y) + 0.5 - pFilm.Y}
			w := f.Filter.Evaluate(offset)
			if w <= 0 {
				continue
			}
			f.splats[f.index(x, y)].add(l.Multiply(w))
		}
	}
}

// WeightSplats multiplies every pixel's splat buffer by w (typically
// 1/spp, to normalize a splat-only light-tracing pass against the number
// of camera-path samples it's being blended with).
func (f *Film) WeightSplats(w float64) {
	for i := range f.splats {
		v := f.splats[i].load().Multiply(w)
		f.splats[i] = splat{}
		f.splats[i].add(v)
	}
}

// GetRenderedImage returns the final linear-space image: each pixel is its
// AddSample mean (sum/count, or black if count is zero) plus its splat
// contribution.
func (f *Film) GetRenderedImage() []core.Spectrum {
	out := make([]core.Spectrum, len(f.pixels))
	for i, p := range f.pixels {
		mean := core.Spectrum{}
		if p.count > 0 {
			mean = p.sum.Multiply(1 / float64(p.count))
		}
		out[i] = mean.Add(f.splats[i].load())
	}
	return out
}

// GetVarianceImage returns a per-pixel estimate of the AddSample luminance
// variance (E[L^2]-E[L]^2), for adaptive-sampling and convergence
// diagnostics.
func (f *Film) GetVarianceImage() []float64 {
	out := make([]float64, len(f.pixels))
	for i, p := range f.pixels {
		if p.count < 2 {
			continue
		}
		n := float64(p.count)
		mean := p.lumSum / n
		out[i] = p.lumSumSq/n - mean*mean
	}
	return out
}

// MeanVariance summarizes GetVarianceImage into a single convergence
// metric (the mean per-pixel luminance variance across the whole film),
// using gonum/stat the way pkg/renderer's progress reporting can log a
// single number to track how a render is converging instead of reprinting
// an entire variance image.
func (f *Film) MeanVariance() float64 {
	variances := f.GetVarianceImage()
	if len(variances) == 0 {
		return 0
	}
	return stat.Mean(variances, nil)
}
