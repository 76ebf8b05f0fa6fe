package medium

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// TestHomogeneousTransmittanceMatchesAnalytic checks ratio-tracking
// transmittance through a homogeneous medium against the closed-form
// exp(-sigma_t * distance) result (spec testable property 4).
func TestHomogeneousTransmittanceMatchesAnalytic(t *testing.T) {
	sigmaA := core.NewSpectrum(0.2, 0.1, 0.05)
	sigmaS := core.NewSpectrum(0.3, 0.4, 0.5)
	m := NewHomogeneous(sigmaA, sigmaS, core.Spectrum{}, Isotropic{})

	ray := core.Ray{Origin: core.NewVec3(0, 0, 0), Direction: core.NewVec3(0, 0, 1)}
	dist := 2.5

	rng := rand.New(rand.NewPCG(1, 2))
	const n = 40000
	sum := core.Spectrum{}
	for i := 0; i < n; i++ {
		sum = sum.Add(SampleTransmittance(m, ray, dist, rng))
	}
	estimate := sum.Multiply(1.0 / n)

	sigmaT := sigmaA.Add(sigmaS)
	analytic := core.ExpSpectrum(sigmaT.Multiply(dist))

	assert.InDelta(t, analytic.X, estimate.X, 0.02)
	assert.InDelta(t, analytic.Y, estimate.Y, 0.02)
	assert.InDelta(t, analytic.Z, estimate.Z, 0.02)
}

func TestIsotropicPhaseNormalized(t *testing.T) {
	wo := core.NewVec3(0, 0, 1)
	wi := core.NewVec3(1, 0, 0)
	p := Isotropic{}.P(wo, wi)
	assert.InDelta(t, 1/(4*math.Pi), p, 1e-9)
}

func TestHenyeyGreensteinForwardBias(t *testing.T) {
	h := NewHenyeyGreenstein(0.8)
	wo := core.NewVec3(0, 0, -1) // ray traveling in +Z
	forward := h.P(wo, core.NewVec3(0, 0, 1))
	backward := h.P(wo, core.NewVec3(0, 0, -1))
	assert.Greater(t, forward, backward)
}

func TestDenseGridTrilinearInterpolation(t *testing.T) {
	bounds := core.AABB{Min: core.NewVec3(0, 0, 0), Max: core.NewVec3(1, 1, 1)}
	// 2x2x2 grid: density 0 at every corner except (1,1,1)=1.
	data := make([]float64, 8)
	data[(1*2+1)*2+1] = 1
	g := NewDenseGrid(2, 2, 2, bounds, data)
	center := g.Density(core.NewVec3(0.5, 0.5, 0.5))
	assert.Greater(t, center, 0.0)
	assert.Less(t, center, 1.0)
	corner := g.Density(core.NewVec3(0.99, 0.99, 0.99))
	assert.Greater(t, corner, center)
}

func TestHeterogeneousMajorantBoundsDensity(t *testing.T) {
	bounds := core.AABB{Min: core.NewVec3(-1, -1, -1), Max: core.NewVec3(1, 1, 1)}
	data := make([]float64, 8)
	for i := range data {
		data[i] = 1
	}
	g := NewDenseGrid(2, 2, 2, bounds, data)
	h := NewHeterogeneous(g, core.NewSpectrum(0.1, 0.1, 0.1), core.NewSpectrum(0.5, 0.5, 0.5), Isotropic{}, 0, 0, 0, g.MaxDensity())

	ray := core.Ray{Origin: core.NewVec3(-2, 0, 0), Direction: core.NewVec3(1, 0, 0)}
	iter := h.SampleRay(ray, 10)
	seg, ok := iter.Next()
	assert.True(t, ok)
	assert.Greater(t, seg.TMin, 0.0)
	assert.Greater(t, core.MaxComponent(seg.SigmaMaj), 0.0)
	_, ok = iter.Next()
	assert.False(t, ok)
}
