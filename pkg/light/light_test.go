package light

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/df07/go-spectral-tracer/pkg/core"
	"github.com/df07/go-spectral-tracer/pkg/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointLightInverseSquare(t *testing.T) {
	p := NewPoint(core.NewVec3(0, 0, 0), core.NewSpectrum(10, 10, 10))
	ref := core.NewVec3(0, 0, 2)
	sample, ok := p.SampleLi(ref, core.Vec3{}, core.Vec2{})
	require.True(t, ok)
	assert.InDelta(t, 10.0/4.0, sample.L.X, 1e-9)
	assert.Equal(t, 0.0, p.PDFLi(ref, sample.Wi))
}

func TestSpotFalloffMasksOutsideCone(t *testing.T) {
	s := NewSpot(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewSpectrum(1, 1, 1), 0.3, 0.2)
	ref := core.NewVec3(0, 0, 1) // directly down the cone axis
	sample, ok := s.SampleLi(ref, core.Vec3{}, core.Vec2{})
	require.True(t, ok)
	assert.Greater(t, sample.L.X, 0.0)

	side := NewSpot(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewSpectrum(1, 1, 1), 0.1, 0.05)
	refSide := core.NewVec3(5, 0, 1)
	_, okSide := side.SampleLi(refSide, core.Vec3{}, core.Vec2{})
	assert.False(t, okSide)
}

func TestDiffuseAreaOnlyEmitsFromFrontFace(t *testing.T) {
	sph := shape.NewSphere(core.NewVec3(0, 0, 0), 1)
	prim := core.NewPrimitive(sph, nil)
	a := NewDiffuseArea(prim, core.NewSpectrum(5, 5, 5), false)
	prim.AreaLight = a

	ref := core.NewVec3(0, 0, 5)
	rng := rand.New(rand.NewPCG(1, 2))
	found := false
	for i := 0; i < 64; i++ {
		u := core.Vec2{X: rng.Float64(), Y: rng.Float64()}
		sample, ok := a.SampleLi(ref, core.Vec3{}, u)
		if ok {
			found = true
			assert.Greater(t, sample.PDF, 0.0)
			assert.GreaterOrEqual(t, sample.L.X, 0.0)
		}
	}
	assert.True(t, found)
}

func TestDistribution2DIntegratesToDensity(t *testing.T) {
	nu, nv := 8, 4
	f := make([]float64, nu*nv)
	for i := range f {
		f[i] = 1
	}
	d := newDistribution2D(f, nu, nv)
	rng := rand.New(rand.NewPCG(3, 4))
	sum := 0.0
	n := 4096
	for i := 0; i < n; i++ {
		_, _, pdf := d.sampleContinuous(rng.Float64(), rng.Float64())
		require.Greater(t, pdf, 0.0)
		sum += 1 / pdf
	}
	avg := sum / float64(n)
	assert.InDelta(t, 1.0, avg, 0.2)
}

func TestSamplerPMFSumsToOne(t *testing.T) {
	lights := []core.Light{
		NewPoint(core.NewVec3(0, 0, 0), core.NewSpectrum(1, 1, 1)),
		NewPoint(core.NewVec3(1, 0, 0), core.NewSpectrum(4, 4, 4)),
		NewDirectional(core.NewVec3(0, -1, 0), core.NewSpectrum(2, 2, 2), 0),
	}

	for _, sampler := range []core.LightSampler{NewUniformSampler(lights), NewPowerSampler(lights)} {
		sum := 0.0
		for _, l := range lights {
			sum += sampler.PMF(l)
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestImageInfiniteRoundTripsDirection(t *testing.T) {
	w, h := 16, 8
	pixels := make([]core.Spectrum, w*h)
	for i := range pixels {
		pixels[i] = core.NewSpectrum(1, 1, 1)
	}
	img := NewImageInfinite(w, h, pixels, 1)
	img.Preprocess(core.Vec3{}, 10)

	dir := core.NewVec3(0.3, 0.5, -0.2).Normalize()
	u, v := img.dirToUV(dir)
	back := img.uvToDir(u, v)
	assert.InDelta(t, dir.X, back.X, 1e-6)
	assert.InDelta(t, dir.Y, back.Y, 1e-6)
	assert.InDelta(t, dir.Z, back.Z, 1e-6)

	pdf := img.PDFLi(core.Vec3{}, dir)
	assert.Greater(t, pdf, 0.0)
	assert.False(t, math.IsNaN(pdf))
}
