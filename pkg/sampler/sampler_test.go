package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndependentIsDeterministicForSamePixelAndSample(t *testing.T) {
	a := NewIndependent(16, 42)
	b := NewIndependent(16, 42)

	a.StartPixelSample([2]int{3, 7}, 2, 0)
	b.StartPixelSample([2]int{3, 7}, 2, 0)

	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Next1D(), b.Next1D())
	}
}

func TestIndependentDiffersAcrossPixels(t *testing.T) {
	a := NewIndependent(16, 42)
	a.StartPixelSample([2]int{3, 7}, 0, 0)
	v1 := a.Next1D()

	a.StartPixelSample([2]int{4, 7}, 0, 0)
	v2 := a.Next1D()

	assert.NotEqual(t, v1, v2)
}

func TestIndependentSamplesInUnitInterval(t *testing.T) {
	s := NewIndependent(16, 1)
	s.StartPixelSample([2]int{0, 0}, 0, 0)
	for i := 0; i < 100; i++ {
		v := s.Next1D()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestStratifiedCoversAllCellsOverOnePixel(t *testing.T) {
	const spp = 16 // perfect square -> 4x4 grid
	s := NewStratified(spp, 7, true)

	seen := make(map[[2]int]bool)
	for i := 0; i < spp; i++ {
		s.StartPixelSample([2]int{0, 0}, i, 0)
		u := s.Next2D()
		cellX := int(u.X * 4)
		cellY := int(u.Y * 4)
		seen[[2]int{cellX, cellY}] = true
	}
	assert.Equal(t, 16, len(seen), "every stratum should be covered exactly once")
}

func TestHaltonDeterministicAndBounded(t *testing.T) {
	a := NewHalton(16, 5)
	b := NewHalton(16, 5)
	a.StartPixelSample([2]int{2, 2}, 3, 0)
	b.StartPixelSample([2]int{2, 2}, 3, 0)
	for i := 0; i < 10; i++ {
		v := a.Next1D()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
	a.StartPixelSample([2]int{2, 2}, 3, 0)
	b.StartPixelSample([2]int{2, 2}, 3, 0)
	assert.Equal(t, a.Next1D(), b.Next1D())
}

func TestCloneReproducesSameStream(t *testing.T) {
	s := NewIndependent(16, 9)
	clone := s.Clone()
	s.StartPixelSample([2]int{1, 1}, 0, 0)
	clone.StartPixelSample([2]int{1, 1}, 0, 0)
	assert.Equal(t, s.Next1D(), clone.Next1D())
}
