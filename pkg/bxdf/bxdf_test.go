package bxdf

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

func randomHemisphereDir(rng *rand.Rand) core.Vec3 {
	u := core.Vec2{X: rng.Float64(), Y: rng.Float64()}
	w := core.SampleUniformSphere(u)
	if w.Z < 0 {
		w.Z = -w.Z
	}
	return w
}

// TestDiffuseReciprocity checks f(wo,wi) == f(wi,wo), the Helmholtz
// reciprocity every physically based BxDF must satisfy.
func TestDiffuseReciprocity(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	d := NewDiffuse(core.NewSpectrum(0.5, 0.6, 0.7))
	for i := 0; i < 100; i++ {
		wo := randomHemisphereDir(rng)
		wi := randomHemisphereDir(rng)
		assert.InDelta(t, d.F(wo, wi).X, d.F(wi, wo).X, 1e-9)
	}
}

func TestConductorReciprocity(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	dist := TrowbridgeReitz{AlphaX: 0.3, AlphaY: 0.3}
	c := NewConductor(dist, core.NewSpectrum(0.2, 0.9, 1.1), core.NewSpectrum(3.0, 2.5, 2.0))
	c.EnergyCompensate = false // test the single-scatter microfacet term on its own
	for i := 0; i < 200; i++ {
		wo := randomHemisphereDir(rng)
		wi := randomHemisphereDir(rng)
		fa := c.F(wo, wi)
		fb := c.F(wi, wo)
		assert.InDelta(t, fa.X, fb.X, 1e-9)
		assert.InDelta(t, fa.Y, fb.Y, 1e-9)
		assert.InDelta(t, fa.Z, fb.Z, 1e-9)
	}
}

func TestDielectricReciprocityReflection(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	dist := TrowbridgeReitz{AlphaX: 0.2, AlphaY: 0.2}
	d := NewDielectric(1.5, dist)
	d.EnergyCompensate = false
	for i := 0; i < 200; i++ {
		wo := randomHemisphereDir(rng)
		wi := randomHemisphereDir(rng)
		fa := d.F(wo, wi)
		fb := d.F(wi, wo)
		assert.InDelta(t, fa.X, fb.X, 1e-9)
	}
}

// sampleWhiteFurnace estimates the hemispherical-directional reflectance
// rho(wo) = integral_H f(wo,wi) cosThetaI dwi by importance-sampling the
// BxDF's own SampleF, the white-furnace test: under a uniform (white)
// environment, a BxDF must return radiance <= incident radiance, i.e.
// rho(wo) <= 1, for any physically plausible lobe.
func sampleWhiteFurnace(bx core.BxDF, wo core.Vec3, rng *rand.Rand, samples int) float64 {
	sum := 0.0
	n := 0
	for i := 0; i < samples; i++ {
		uc := rng.Float64()
		u := core.Vec2{X: rng.Float64(), Y: rng.Float64()}
		s, ok := bx.SampleF(wo, uc, u, core.BxDFReflTransAll)
		if !ok || s.PDF <= 0 {
			continue
		}
		lum := core.Luminance(s.Value)
		sum += lum * core.AbsCosTheta(s.Wi) / s.PDF
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func TestConductorWhiteFurnaceEnergyConservation(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	for _, alpha := range []float64{0.01, 0.1, 0.3, 0.6, 0.9} {
		dist := TrowbridgeReitz{AlphaX: alpha, AlphaY: alpha}
		c := NewConductor(dist, core.WhiteSpectrum, core.NewSpectrum(20, 20, 20)) // large k approximates a near-perfect mirror at all angles
		wo := core.NewVec3(0.3, 0, math.Sqrt(1-0.09)).Normalize()
		rho := sampleWhiteFurnace(c, wo, rng, 20000)
		assert.LessOrEqual(t, rho, 1.02, "alpha=%v single+multi-scatter reflectance must not exceed incoming energy", alpha)
	}
}

func TestDiffuseWhiteFurnaceEnergyConservation(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	d := NewDiffuse(core.WhiteSpectrum)
	wo := core.NewVec3(0, 0, 1)
	rho := sampleWhiteFurnace(d, wo, rng, 20000)
	assert.InDelta(t, 1.0, rho, 0.05)
}

func TestDielectricSmoothIsPerfectMirror(t *testing.T) {
	dist := TrowbridgeReitz{AlphaX: 0, AlphaY: 0}
	d := NewDielectric(1.5, dist)
	require.True(t, d.Flags().IsSpecular())
	wo := core.NewVec3(0, 0, 1)
	s, ok := d.SampleF(wo, 0.01, core.Vec2{X: 0.5, Y: 0.5}, core.BxDFReflTransAll)
	require.True(t, ok)
	assert.InDelta(t, 1.0, s.Wi.Z, 1e-9)
}

func TestThinDielectricNoBending(t *testing.T) {
	td := NewThinDielectric(1.5)
	wo := core.NewVec3(0.4, 0.1, math.Sqrt(1-0.16-0.01))
	s, ok := td.SampleF(wo, 0.99, core.Vec2{X: 0.2, Y: 0.3}, core.BxDFReflTransAll)
	require.True(t, ok)
	// Transmission through a thin slab exits parallel to wo, just flipped
	// to the opposite hemisphere (no net bending from the two interfaces).
	assert.InDelta(t, -wo.X, s.Wi.X, 1e-9)
	assert.InDelta(t, -wo.Y, s.Wi.Y, 1e-9)
	assert.InDelta(t, -wo.Z, s.Wi.Z, 1e-9)
}

func TestFresnelDielectricNormalIncidence(t *testing.T) {
	r := FresnelDielectric(1, 1.5)
	expected := math.Pow((1.5-1)/(1.5+1), 2)
	assert.InDelta(t, expected, r, 1e-9)
}

func TestFresnelDielectricTotalInternalReflection(t *testing.T) {
	// Shallow angle going from dense (eta=1.5) to rare medium: eta<1 passed
	// in since the caller is expected to invert for the incident side.
	r := FresnelDielectric(0.05, 1/1.5)
	assert.InDelta(t, 1.0, r, 1e-9)
}

func TestMixtureBlendsFAtWeight(t *testing.T) {
	a := NewDiffuse(core.NewSpectrum(1, 0, 0))
	b := NewDiffuse(core.NewSpectrum(0, 1, 0))
	m := NewMixture(a, b, 0.25)
	wo := core.NewVec3(0, 0, 1)
	wi := core.NewVec3(0, 0, 1)
	f := m.F(wo, wi)
	fa := a.F(wo, wi)
	fb := b.F(wo, wi)
	assert.InDelta(t, 0.75*fa.X+0.25*fb.X, f.X, 1e-9)
	assert.InDelta(t, 0.75*fa.Y+0.25*fb.Y, f.Y, 1e-9)
}

func TestSheenZeroWhenReflectanceBlack(t *testing.T) {
	s := NewCharlieSheen(core.BlackSpectrum, 0.5)
	assert.Equal(t, core.BxDFFlags(0), s.Flags())
}

func TestRoughnessToAlphaMonotonic(t *testing.T) {
	prev := 0.0
	for r := 0.0; r <= 1.0; r += 0.1 {
		a := RoughnessToAlpha(r)
		assert.GreaterOrEqual(t, a, prev)
		prev = a
	}
}
