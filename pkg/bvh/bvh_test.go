package bvh

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// testSphere is a minimal core.Shape used only to exercise BVH traversal
// without depending on pkg/shape.
type testSphere struct {
	center core.Vec3
	radius float64
	id     int
}

func (s *testSphere) BoundingBox() core.AABB {
	r := core.NewVec3(s.radius, s.radius, s.radius)
	return core.NewAABB(s.center.Subtract(r), s.center.Add(r))
}

func (s *testSphere) Intersect(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool) {
	oc := ray.Origin.Subtract(s.center)
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.radius*s.radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return nil, false
	}
	sqrtDisc := math.Sqrt(disc)
	root := (-halfB - sqrtDisc) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtDisc) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}
	p := ray.At(root)
	n := p.Subtract(s.center).Multiply(1 / s.radius)
	return &core.Intersection{Point: p, Normal: n, T: root, FrontFace: true}, true
}

func (s *testSphere) IntersectP(ray core.Ray, tMin, tMax float64) bool {
	_, ok := s.Intersect(ray, tMin, tMax)
	return ok
}

func (s *testSphere) Area() float64 { return 0 }
func (s *testSphere) SampleArea(u core.Vec2) (core.Vec3, core.Vec3, float64) {
	return core.Vec3{}, core.Vec3{}, 0
}
func (s *testSphere) SampleSolidAngle(ref core.Vec3, u core.Vec2) (core.Vec3, float64, bool) {
	return core.Vec3{}, 0, false
}
func (s *testSphere) PDFSolidAngle(ref core.Vec3, wi core.Vec3) float64 { return 0 }

// linearScan finds the closest-hit primitive id by brute-force, the oracle
// BVH traversal must agree with.
func linearScan(prims []*core.Primitive, ray core.Ray, tMin, tMax float64) (int, bool) {
	closestT := tMax
	found := -1
	for i, p := range prims {
		if hit, ok := p.Intersect(ray, tMin, closestT); ok {
			closestT = hit.T
			found = i
		}
	}
	return found, found >= 0
}

func buildRandomScene(n int, seed uint64) []*core.Primitive {
	rng := rand.New(rand.NewPCG(seed, seed^1))
	prims := make([]*core.Primitive, n)
	for i := 0; i < n; i++ {
		center := core.NewVec3(rng.Float64()*20-10, rng.Float64()*20-10, rng.Float64()*20-10)
		radius := 0.1 + rng.Float64()*0.4
		prims[i] = core.NewPrimitive(&testSphere{center: center, radius: radius, id: i}, nil)
	}
	return prims
}

func TestBVHMatchesLinearScanNearestHit(t *testing.T) {
	const n = 1000
	prims := buildRandomScene(n, 1)
	tree := NewBVH(prims)

	// The BVH reorders primitives into its own slice; build an id lookup
	// from the shape pointer so we can compare against the linear-scan
	// index space.
	idOf := func(p *core.Primitive) int { return p.Shape.(*testSphere).id }

	rng := rand.New(rand.NewPCG(2, 3))
	mismatches := 0
	const trials = 2000
	for i := 0; i < trials; i++ {
		origin := core.NewVec3(rng.Float64()*30-15, rng.Float64()*30-15, rng.Float64()*30-15)
		dir := core.NewVec3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1).Normalize()
		ray := core.NewRay(origin, dir)

		wantIdx, wantHit := linearScan(prims, ray, 0, core.TMax)
		got, gotHit := tree.Intersect(ray, 0, core.TMax)

		if wantHit != gotHit {
			mismatches++
			continue
		}
		if wantHit && idOf(got.Primitive) != prims[wantIdx].Shape.(*testSphere).id {
			mismatches++
		}
	}
	assert.Equal(t, 0, mismatches)
}

func TestBVHIntersectPAgreesWithLinearAnyHit(t *testing.T) {
	const n = 500
	prims := buildRandomScene(n, 9)
	tree := NewBVH(prims)

	rng := rand.New(rand.NewPCG(4, 5))
	for i := 0; i < 500; i++ {
		origin := core.NewVec3(rng.Float64()*30-15, rng.Float64()*30-15, rng.Float64()*30-15)
		dir := core.NewVec3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1).Normalize()
		ray := core.NewRay(origin, dir)

		_, wantHit := linearScan(prims, ray, 0, core.TMax)
		gotHit := tree.IntersectP(ray, 0, core.TMax)
		assert.Equal(t, wantHit, gotHit)
	}
}

func TestBVHEmptyScene(t *testing.T) {
	tree := NewBVH(nil)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))
	_, ok := tree.Intersect(ray, 0, core.TMax)
	assert.False(t, ok)
	assert.False(t, tree.IntersectP(ray, 0, core.TMax))
}

func TestBVHBoundingBoxContainsAllPrimitives(t *testing.T) {
	prims := buildRandomScene(200, 11)
	tree := NewBVH(prims)
	box := tree.BoundingBox()
	for _, p := range prims {
		pb := p.BoundingBox()
		require.GreaterOrEqual(t, pb.Min.X, box.Min.X-1e-9)
		require.LessOrEqual(t, pb.Max.X, box.Max.X+1e-9)
	}
}
