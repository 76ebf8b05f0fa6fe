package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameRoundTrip(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, 1, 0),
		NewVec3(1, 1, 1).Normalize(),
		NewVec3(-0.3, 0.7, -0.4).Normalize(),
	}
	for _, n := range normals {
		f := NewFrame(n)
		assert.InDelta(t, 1.0, f.Tangent.Length(), 1e-9)
		assert.InDelta(t, 1.0, f.Bitangent.Length(), 1e-9)
		assert.InDelta(t, 0.0, f.Tangent.Dot(f.Bitangent), 1e-9)
		assert.InDelta(t, 0.0, f.Tangent.Dot(f.Normal), 1e-9)

		v := NewVec3(0.2, -0.4, 0.9)
		local := f.ToLocal(v)
		back := f.FromLocal(local)
		assert.InDelta(t, v.X, back.X, 1e-9)
		assert.InDelta(t, v.Y, back.Y, 1e-9)
		assert.InDelta(t, v.Z, back.Z, 1e-9)
	}
}

func TestFrameCosTheta(t *testing.T) {
	f := NewFrame(NewVec3(0, 0, 1))
	local := f.ToLocal(NewVec3(0, 0, 1))
	assert.InDelta(t, 1.0, CosTheta(local), 1e-9)
	assert.InDelta(t, 1.0, AbsCosTheta(local), 1e-9)
}

func TestSameHemisphere(t *testing.T) {
	assert.True(t, SameHemisphere(NewVec3(0, 0, 1), NewVec3(0.5, 0.5, 0.1)))
	assert.False(t, SameHemisphere(NewVec3(0, 0, 1), NewVec3(0.5, 0.5, -0.1)))
}

func TestFrameFromTangentFallsBackWhenDegenerate(t *testing.T) {
	n := NewVec3(0, 0, 1)
	f := NewFrameFromTangent(n, n) // tangent parallel to normal: degenerates
	assert.InDelta(t, 1.0, f.Tangent.Length(), 1e-9)
	assert.False(t, math.IsNaN(f.Tangent.X))
}
