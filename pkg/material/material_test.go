package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// constTexture is a minimal core.Texture used only by this package's own
// tests; concrete textures for scene authoring live in pkg/scene.
type constTexture struct {
	c core.Spectrum
	s float64
}

func constColor(c core.Spectrum) constTexture { return constTexture{c: c, s: core.Luminance(c)} }
func constScalar(s float64) constTexture      { return constTexture{c: core.NewSpectrum(s, s, s), s: s} }

func (t constTexture) Evaluate(uv core.Vec2, p core.Vec3) core.Spectrum { return t.c }
func (t constTexture) EvaluateScalar(uv core.Vec2, p core.Vec3) float64 { return t.s }

func testIsect() *core.Intersection {
	return &core.Intersection{
		Point:   core.NewVec3(0, 0, 0),
		Normal:  core.NewVec3(0, 0, 1),
		Shading: core.NewFrame(core.NewVec3(0, 0, 1)),
		UV:      core.Vec2{X: 0.5, Y: 0.5},
	}
}

func TestDiffuseComputeBSDF(t *testing.T) {
	arena := core.NewArena()
	m := NewDiffuse(constColor(core.NewSpectrum(0.8, 0.2, 0.2)))
	isect := testIsect()
	bsdf := m.ComputeBSDF(isect, arena)
	require.False(t, bsdf.IsNil())
	wo := core.NewVec3(0, 0, 1)
	wi := core.NewVec3(0, 0, 1)
	f := bsdf.F(wo, wi)
	assert.Greater(t, f.X, 0.0)
	assert.Equal(t, core.Spectrum{}, m.Emission(isect, wo))
}

func TestConductorComputeBSDF(t *testing.T) {
	arena := core.NewArena()
	m := NewConductor(constColor(core.NewSpectrum(0.2, 0.9, 1.1)), constColor(core.NewSpectrum(3, 2.5, 2)), constScalar(0.2))
	isect := testIsect()
	bsdf := m.ComputeBSDF(isect, arena)
	require.False(t, bsdf.IsNil())
	assert.True(t, bsdf.Flags().HasReflection())
}

func TestDielectricSmoothIsSpecular(t *testing.T) {
	arena := core.NewArena()
	m := NewDielectric(1.5, constScalar(0))
	isect := testIsect()
	bsdf := m.ComputeBSDF(isect, arena)
	assert.True(t, bsdf.Flags().IsSpecular())
}

func TestThinDielectricComputeBSDF(t *testing.T) {
	arena := core.NewArena()
	m := NewThinDielectricMaterial(1.5)
	isect := testIsect()
	bsdf := m.ComputeBSDF(isect, arena)
	require.False(t, bsdf.IsNil())
	assert.True(t, bsdf.Flags().HasTransmission())
}

func TestEmissiveEmitsOnlyFrontFace(t *testing.T) {
	m := NewEmissive(constColor(core.NewSpectrum(5, 5, 5)))
	isect := testIsect()
	front := m.Emission(isect, core.NewVec3(0, 0, 1))
	back := m.Emission(isect, core.NewVec3(0, 0, -1))
	assert.Equal(t, 5.0, front.X)
	assert.Equal(t, core.Spectrum{}, back)
	arena := core.NewArena()
	assert.True(t, m.ComputeBSDF(isect, arena).IsNil())
}

func TestMixtureBlendsEmission(t *testing.T) {
	a := NewEmissive(constColor(core.NewSpectrum(1, 0, 0)))
	b := NewEmissive(constColor(core.NewSpectrum(0, 1, 0)))
	m := NewMixture(a, b, 0.25)
	isect := testIsect()
	e := m.Emission(isect, core.NewVec3(0, 0, 1))
	assert.InDelta(t, 0.75, e.X, 1e-9)
	assert.InDelta(t, 0.25, e.Y, 1e-9)
}

func TestLayeredComputeBSDFReflects(t *testing.T) {
	arena := core.NewArena()
	top := NewDielectric(1.5, constScalar(0.1))
	bottom := NewDiffuse(constColor(core.NewSpectrum(0.5, 0.5, 0.5)))
	l := NewLayered(top, bottom, 0.01, constColor(core.NewSpectrum(0.1, 0.1, 0.1)), 0, 8, 1)
	isect := testIsect()
	bsdf := l.ComputeBSDF(isect, arena)
	require.False(t, bsdf.IsNil())
	assert.True(t, bsdf.Flags().HasReflection())
}

func TestSubsurfaceComputeBSDF(t *testing.T) {
	arena := core.NewArena()
	m := NewSubsurface(constColor(core.NewSpectrum(0.8, 0.6, 0.5)), 1.33)
	isect := testIsect()
	bsdf := m.ComputeBSDF(isect, arena)
	require.False(t, bsdf.IsNil())
	wo := core.NewVec3(0, 0, 1)
	wi := core.NewVec3(0, 0, 1)
	f := bsdf.F(wo, wi)
	assert.Greater(t, f.X, 0.0)
}

func TestSheenComputeBSDF(t *testing.T) {
	arena := core.NewArena()
	m := NewSheen(constColor(core.NewSpectrum(0.3, 0.3, 0.3)), constScalar(0.4))
	isect := testIsect()
	bsdf := m.ComputeBSDF(isect, arena)
	require.False(t, bsdf.IsNil())
	assert.True(t, bsdf.Flags().HasReflection())
}
