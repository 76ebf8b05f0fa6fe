package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformPointRoundTrip(t *testing.T) {
	xf := NewTransform(Translate4(NewVec3(1, 2, 3)).Mul(RotateZ4(math.Pi / 5)))
	p := NewVec3(0.5, -0.3, 2)

	world := xf.Point(p)
	back := xf.InversePoint(world)

	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
	assert.InDelta(t, p.Z, back.Z, 1e-9)
}

func TestTransformNormalUnderNonUniformScale(t *testing.T) {
	// A normal transformed by a non-uniform scale must stay perpendicular
	// to its (correctly scaled) tangent plane, which the naive M*n would
	// violate; this is exactly why Normal uses the inverse-transpose.
	xf := NewTransform(Scale4(NewVec3(2, 1, 1)))
	n := NewVec3(1, 1, 0).Normalize()
	tangent := NewVec3(1, -1, 0).Normalize() // perpendicular to n

	worldN := xf.Normal(n)
	worldTangent := xf.Vector(tangent)
	assert.InDelta(t, 0, worldN.Dot(worldTangent), 1e-9)
}

func TestTransformAABB(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	xf := NewTransform(Translate4(NewVec3(5, 0, 0)))
	moved := xf.AABB(box)
	assert.True(t, moved.Min.Equals(NewVec3(4, -1, -1)))
	assert.True(t, moved.Max.Equals(NewVec3(6, 1, 1)))
}

func TestIdentityTransformIsNoOp(t *testing.T) {
	xf := IdentityTransform()
	p := NewVec3(3, -2, 9)
	assert.True(t, xf.Point(p).Equals(p))
}
