package camera

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/df07/go-spectral-tracer/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Center: core.NewVec3(0, 0, 0), LookAt: core.NewVec3(0, 0, 1), Up: core.NewVec3(0, 1, 0),
		Width: 64, Height: 64, VFov: 60,
	}
}

func TestPerspectiveRayPointsTowardLookAt(t *testing.T) {
	cam := NewPerspective(testConfig())
	ray, weight, ok := cam.SampleRay(core.Vec2{X: 32, Y: 32}, core.Vec2{})
	require.True(t, ok)
	assert.Equal(t, 1.0, weight)
	assert.InDelta(t, 1.0, ray.Direction.Z, 1e-6)
	assert.InDelta(t, 0.0, ray.Direction.X, 1e-6)
	assert.InDelta(t, 0.0, ray.Direction.Y, 1e-6)
}

func TestPerspectiveSampleWiRoundTripsToRasterCenter(t *testing.T) {
	cam := NewPerspective(testConfig())
	ref := core.NewVec3(0, 0, 5)
	sample, ok := cam.SampleWi(ref, core.Vec2{})
	require.True(t, ok)
	assert.InDelta(t, 32, sample.PRaster.X, 1.0)
	assert.InDelta(t, 32, sample.PRaster.Y, 1.0)
	assert.Greater(t, sample.PDF, 0.0)
}

func TestOrthographicRaysAreParallel(t *testing.T) {
	cam := NewOrthographic(testConfig(), 2)
	r1, _, ok1 := cam.SampleRay(core.Vec2{X: 10, Y: 10}, core.Vec2{})
	r2, _, ok2 := cam.SampleRay(core.Vec2{X: 50, Y: 50}, core.Vec2{})
	require.True(t, ok1)
	require.True(t, ok2)
	assert.InDelta(t, r1.Direction.X, r2.Direction.X, 1e-9)
	assert.InDelta(t, r1.Direction.Y, r2.Direction.Y, 1e-9)
	assert.InDelta(t, r1.Direction.Z, r2.Direction.Z, 1e-9)
	assert.NotEqual(t, r1.Origin, r2.Origin)
}

func TestSphericalRaysAreUnitLength(t *testing.T) {
	cfg := testConfig()
	cam := NewSpherical(cfg)

	corners := []core.Vec2{
		{X: 0, Y: 0}, {X: float64(cfg.Width) - 1, Y: 0},
		{X: 0, Y: float64(cfg.Height) - 1}, {X: float64(cfg.Width) / 2, Y: float64(cfg.Height) / 2},
	}
	for _, p := range corners {
		ray, _, ok := cam.SampleRay(p, core.Vec2{})
		require.True(t, ok)
		assert.InDelta(t, 1.0, ray.Direction.Length(), 1e-6)
	}
}

func TestSphericalSampleWiRoundTrips(t *testing.T) {
	cam := NewSpherical(testConfig())
	ref := core.NewVec3(3, 1, 2)
	sample, ok := cam.SampleWi(ref, core.Vec2{})
	require.True(t, ok)
	assert.Greater(t, sample.PDF, 0.0)
}

func TestFilters(t *testing.T) {
	box := NewBox(core.Vec2{X: 0.5, Y: 0.5})
	assert.Equal(t, 1.0, box.Evaluate(core.Vec2{X: 0.4, Y: 0.4}))
	assert.Equal(t, 0.0, box.Evaluate(core.Vec2{X: 0.6, Y: 0}))

	tent := NewTent(core.Vec2{X: 1, Y: 1})
	assert.Equal(t, 0.0, tent.Evaluate(core.Vec2{X: 1, Y: 0}))
	assert.Greater(t, tent.Evaluate(core.Vec2{X: 0, Y: 0}), tent.Evaluate(core.Vec2{X: 0.5, Y: 0}))

	gauss := NewGaussian(core.Vec2{X: 2, Y: 2}, 0.5)
	assert.InDelta(t, 0.0, gauss.Evaluate(core.Vec2{X: 2, Y: 0}), 1e-9)
	assert.Greater(t, gauss.Evaluate(core.Vec2{X: 0, Y: 0}), 0.0)
}

// TestFilmReproducesMeanWithBoxFilterNoSplats is the spec's testable
// property 6: with a Box filter of extent 1 and AddSample only (no
// splats), GetRenderedImage[p] equals the per-pixel mean of inputs exactly.
func TestFilmReproducesMeanWithBoxFilterNoSplats(t *testing.T) {
	film := NewFilm(4, 4, NewBox(core.Vec2{X: 0.5, Y: 0.5}))
	rng := rand.New(rand.NewPCG(7, 8))

	expected := make([]core.Spectrum, 16)
	counts := make([]int, 16)
	for s := 0; s < 10; s++ {
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				l := core.NewSpectrum(rng.Float64(), rng.Float64(), rng.Float64())
				film.AddSample(x, y, l)
				idx := y*4 + x
				expected[idx] = expected[idx].Add(l)
				counts[idx]++
			}
		}
	}

	got := film.GetRenderedImage()
	for i := range got {
		mean := expected[i].Multiply(1 / float64(counts[i]))
		assert.InDelta(t, mean.X, got[i].X, 1e-9)
		assert.InDelta(t, mean.Y, got[i].Y, 1e-9)
		assert.InDelta(t, mean.Z, got[i].Z, 1e-9)
	}
}

func TestFilmAddSplatDistributesOverFootprint(t *testing.T) {
	film := NewFilm(8, 8, NewTent(core.Vec2{X: 1, Y: 1}))
	film.AddSplat(core.Vec2{X: 4.0, Y: 4.0}, core.NewSpectrum(1, 1, 1))
	img := film.GetRenderedImage()
	total := 0.0
	for _, p := range img {
		total += core.Average(p)
	}
	assert.Greater(t, total, 0.0)
	assert.False(t, math.IsNaN(total))
}

func TestFilmVarianceIsZeroForConstantSamples(t *testing.T) {
	film := NewFilm(2, 2, NewBox(core.Vec2{X: 0.5, Y: 0.5}))
	for i := 0; i < 5; i++ {
		film.AddSample(0, 0, core.NewSpectrum(0.5, 0.5, 0.5))
	}
	variance := film.GetVarianceImage()
	assert.InDelta(t, 0.0, variance[0], 1e-12)
}
