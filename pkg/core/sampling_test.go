package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPowerHeuristicFavorsConcentratedStrategy(t *testing.T) {
	// f is much more concentrated (higher density) at this direction than g;
	// the power heuristic should weight it close to 1.
	w := PowerHeuristic(1, 10, 1, 0.1)
	assert.Greater(t, w, 0.99)
}

func TestPowerHeuristicSymmetricEqualPDFs(t *testing.T) {
	w := PowerHeuristic(1, 1, 1, 1)
	assert.InDelta(t, 0.5, w, 1e-9)
}

func TestBalanceHeuristicSumsToOne(t *testing.T) {
	a := BalanceHeuristic(1, 2, 1, 3)
	b := BalanceHeuristic(1, 3, 1, 2)
	assert.InDelta(t, 1.0, a+b, 1e-9)
}

func TestSampleCosineHemisphereStaysInHemisphere(t *testing.T) {
	for _, u := range []Vec2{{0.1, 0.2}, {0.9, 0.8}, {0.5, 0.5}, {0, 0}} {
		d := SampleCosineHemisphere(u)
		assert.GreaterOrEqual(t, d.Z, 0.0)
		assert.InDelta(t, 1.0, d.Length(), 1e-9)
	}
}

func TestSampleUniformSphereIsUnitLength(t *testing.T) {
	for _, u := range []Vec2{{0.1, 0.2}, {0.9, 0.8}, {0.5, 0.5}} {
		d := SampleUniformSphere(u)
		assert.InDelta(t, 1.0, d.Length(), 1e-9)
	}
}

func TestSampleUniformConeAtFullAngleMatchesSphere(t *testing.T) {
	d := SampleUniformCone(Vec2{0.3, 0.6}, -1)
	assert.InDelta(t, 1.0, d.Length(), 1e-9)
}

func TestSphereSubtendedConeInsideSphere(t *testing.T) {
	assert.Equal(t, -1.0, SphereSubtendedCone(2, 1))
}

func TestSampleUniformTriangleBarycentricSumToOne(t *testing.T) {
	for _, u := range []Vec2{{0.1, 0.2}, {0.9, 0.8}, {0.5, 0.5}} {
		b0, b1 := SampleUniformTriangle(u)
		b2 := 1 - b0 - b1
		assert.GreaterOrEqual(t, b0, -1e-9)
		assert.GreaterOrEqual(t, b1, -1e-9)
		assert.GreaterOrEqual(t, b2, -1e-9)
	}
}
