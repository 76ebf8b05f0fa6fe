package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAABBUnion(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABB(NewVec3(-1, 2, 0), NewVec3(0.5, 3, 0.5))
	u := a.Union(b)
	assert.Equal(t, NewVec3(-1, 0, 0), u.Min)
	assert.Equal(t, NewVec3(1, 3, 1), u.Max)
}

func TestAABBFromPoints(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(1, 2, 3), NewVec3(-1, 5, 0))
	assert.Equal(t, NewVec3(-1, 2, 0), box.Min)
	assert.Equal(t, NewVec3(1, 5, 3), box.Max)
}

func TestAABBSurfaceAreaAndLongestAxis(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(2, 1, 1))
	assert.InDelta(t, 2*(2*1+1*1+1*2), box.SurfaceArea(), 1e-9)
	assert.Equal(t, 0, box.LongestAxis())
}

func TestAABBHit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	hitRay := NewRay(NewVec3(-5, 0, 0), NewVec3(1, 0, 0))
	ri := NewRayInterval(hitRay)
	require.True(t, box.Hit(hitRay, ri, 0, TMax))

	missRay := NewRay(NewVec3(-5, 5, 0), NewVec3(1, 0, 0))
	ri2 := NewRayInterval(missRay)
	require.False(t, box.Hit(missRay, ri2, 0, TMax))
}

func TestAABBBoundingSphereContainsCorners(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(2, 4, 6))
	center, radius := box.BoundingSphere()
	for _, corner := range []Vec3{box.Min, box.Max, {X: 2, Y: 0, Z: 6}} {
		assert.LessOrEqual(t, corner.Subtract(center).Length(), radius+1e-9)
	}
}

func TestAABBEmptyIsIdentityForUnion(t *testing.T) {
	box := NewAABB(NewVec3(1, 1, 1), NewVec3(2, 2, 2))
	merged := EmptyAABB().Union(box)
	assert.Equal(t, box, merged)
}
