package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuatRotateVectorMatchesMatrix(t *testing.T) {
	axis := NewVec3(0, 1, 0)
	angle := math.Pi / 2
	q := QuatFromAxisAngle(axis, angle)
	v := NewVec3(1, 0, 0)

	byQuat := q.RotateVector(v)
	byMatrix := q.ToMat4().MulVector(v)

	assert.InDelta(t, byMatrix.X, byQuat.X, 1e-9)
	assert.InDelta(t, byMatrix.Y, byQuat.Y, 1e-9)
	assert.InDelta(t, byMatrix.Z, byQuat.Z, 1e-9)
}

func TestQuatSlerpEndpoints(t *testing.T) {
	a := IdentityQuat()
	b := QuatFromAxisAngle(NewVec3(0, 0, 1), math.Pi/2)

	start := Slerp(a, b, 0)
	end := Slerp(a, b, 1)

	assert.InDelta(t, a.W, start.W, 1e-9)
	assert.InDelta(t, b.W, end.W, 1e-9)
}

func TestQuatMulIdentity(t *testing.T) {
	q := QuatFromAxisAngle(NewVec3(1, 1, 0), 0.7)
	id := IdentityQuat()
	result := q.Mul(id)
	assert.InDelta(t, q.W, result.W, 1e-9)
	assert.InDelta(t, q.X, result.X, 1e-9)
}
