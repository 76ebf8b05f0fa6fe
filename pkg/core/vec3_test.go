package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -1, 2)

	assert.Equal(t, NewVec3(5, 1, 5), a.Add(b))
	assert.Equal(t, NewVec3(-3, 3, 1), a.Subtract(b))
	assert.Equal(t, NewVec3(2, 4, 6), a.Multiply(2))
	assert.InDelta(t, 9.0, a.Dot(b), 1e-9)
	assert.InDelta(t, 9.0, a.AbsDot(b.Negate()), 1e-9)
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 4)
	n := v.Normalize()
	assert.InDelta(t, 1.0, n.Length(), 1e-9)
	assert.True(t, NewVec3(0, 0, 0).Normalize().IsZero())
}

func TestVec3Cross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)
	assert.True(t, x.Cross(y).Equals(NewVec3(0, 0, 1)))
}

func TestVec3Clamp(t *testing.T) {
	v := NewVec3(-1, 0.5, 2)
	assert.Equal(t, NewVec3(0, 0.5, 1), v.Clamp(0, 1))
}

func TestLerp(t *testing.T) {
	a, b := NewVec3(0, 0, 0), NewVec3(10, 10, 10)
	assert.True(t, Lerp(a, b, 0.5).Equals(NewVec3(5, 5, 5)))
}
