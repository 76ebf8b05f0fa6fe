package shape

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

func TestSphereIntersectFrontFace(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, 0), 1)
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	hit, ok := s.Intersect(ray, 0, core.TMax)
	require.True(t, ok)
	assert.True(t, hit.FrontFace)
	assert.InDelta(t, 4.0, hit.T, 1e-9)
	assert.InDelta(t, 1.0, hit.Point.Z, 1e-9)
}

func TestSphereMiss(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, 0), 1)
	ray := core.NewRay(core.NewVec3(5, 5, 5), core.NewVec3(0, 0, -1))
	_, ok := s.Intersect(ray, 0, core.TMax)
	assert.False(t, ok)
}

func TestSphereAreaAndPDF(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, 0), 2)
	assert.InDelta(t, 4*math.Pi*4, s.Area(), 1e-9)
	_, _, pdf := s.SampleArea(core.Vec2{X: 0.3, Y: 0.7})
	assert.InDelta(t, 1/s.Area(), pdf, 1e-9)
}

func TestSphereSolidAngleSamplingStaysInCone(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, 0), 1)
	ref := core.NewVec3(5, 0, 0)
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 100; i++ {
		u := core.Vec2{X: rng.Float64(), Y: rng.Float64()}
		wi, pdf, ok := s.SampleSolidAngle(ref, u)
		require.True(t, ok)
		assert.Greater(t, pdf, 0.0)
		assert.InDelta(t, 1.0, wi.Length(), 1e-9)
		// the direction must actually intersect the sphere from ref
		hitRay := core.NewRay(ref, wi)
		_, hitOk := s.Intersect(hitRay, 1e-6, core.TMax)
		assert.True(t, hitOk)
	}
}

func TestTriangleIntersectAndArea(t *testing.T) {
	mesh := &Mesh{Positions: []core.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}}
	tris := Triangles(mesh, []int{0, 1, 2})
	require.Len(t, tris, 1)
	tri := tris[0]

	assert.InDelta(t, 0.5, tri.Area(), 1e-9)

	ray := core.NewRay(core.NewVec3(0.2, 0.2, 5), core.NewVec3(0, 0, -1))
	hit, ok := tri.Intersect(ray, 0, core.TMax)
	require.True(t, ok)
	assert.InDelta(t, 5.0, hit.T, 1e-9)

	missRay := core.NewRay(core.NewVec3(5, 5, 5), core.NewVec3(0, 0, -1))
	_, missOk := tri.Intersect(missRay, 0, core.TMax)
	assert.False(t, missOk)
}

func TestTriangleSampleAreaIsInsideTriangle(t *testing.T) {
	mesh := &Mesh{Positions: []core.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 0, Y: 2, Z: 0},
	}}
	tri := Triangles(mesh, []int{0, 1, 2})[0]
	p, _, pdf := tri.SampleArea(core.Vec2{X: 0.25, Y: 0.6})
	assert.Greater(t, pdf, 0.0)
	assert.GreaterOrEqual(t, p.X, -1e-9)
	assert.GreaterOrEqual(t, p.Y, -1e-9)
	assert.LessOrEqual(t, p.X+p.Y, 2+1e-9)
}

func TestDiskIntersectAndMiss(t *testing.T) {
	d := NewDisk(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), 1)
	ray := core.NewRay(core.NewVec3(0.5, 0, 5), core.NewVec3(0, 0, -1))
	hit, ok := d.Intersect(ray, 0, core.TMax)
	require.True(t, ok)
	assert.InDelta(t, 5.0, hit.T, 1e-9)

	missRay := core.NewRay(core.NewVec3(5, 0, 5), core.NewVec3(0, 0, -1))
	_, missOk := d.Intersect(missRay, 0, core.TMax)
	assert.False(t, missOk)
}

func TestDiskArea(t *testing.T) {
	d := NewDisk(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 3)
	assert.InDelta(t, math.Pi*9, d.Area(), 1e-9)
}
