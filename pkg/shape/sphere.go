// Package shape implements core.Shape: the geometric primitives (sphere,
// triangle mesh, disk) a Primitive wraps with material and medium context.
package shape

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Sphere is a shape centered at Center with the given Radius.
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a sphere shape.
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

func (s *Sphere) BoundingBox() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

// hit solves the sphere quadratic, returning the smallest root in [tMin,tMax].
func (s *Sphere) hit(ray core.Ray, tMin, tMax float64) (t float64, ok bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return 0, false
	}
	sqrtDisc := math.Sqrt(disc)
	root := (-halfB - sqrtDisc) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtDisc) / a
		if root < tMin || root > tMax {
			return 0, false
		}
	}
	return root, true
}

func (s *Sphere) Intersect(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool) {
	t, ok := s.hit(ray, tMin, tMax)
	if !ok {
		return nil, false
	}
	p := ray.At(t)
	outwardNormal := p.Subtract(s.Center).Multiply(1 / s.Radius)
	frontFace := ray.Direction.Dot(outwardNormal) < 0
	n := outwardNormal
	if !frontFace {
		n = n.Negate()
	}
	u, v := sphereUV(outwardNormal)
	return &core.Intersection{
		Point:     p,
		Normal:    n,
		FrontFace: frontFace,
		T:         t,
		Shading:   core.NewFrame(n),
		UV:        core.Vec2{X: u, Y: v},
	}, true
}

func (s *Sphere) IntersectP(ray core.Ray, tMin, tMax float64) bool {
	_, ok := s.hit(ray, tMin, tMax)
	return ok
}

// sphereUV maps a unit-sphere direction to the standard equirectangular
// (u,v) parameterization, u around the equator and v from south to north pole.
func sphereUV(d core.Vec3) (u, v float64) {
	theta := math.Acos(math.Max(-1, math.Min(1, -d.Y)))
	phi := math.Atan2(-d.Z, d.X) + math.Pi
	return phi / (2 * math.Pi), theta / math.Pi
}

func (s *Sphere) Area() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}

func (s *Sphere) SampleArea(u core.Vec2) (p, n core.Vec3, pdf float64) {
	d := core.SampleUniformSphere(u)
	p = s.Center.Add(d.Multiply(s.Radius))
	n = d
	pdf = 1 / s.Area()
	return
}

// SampleSolidAngle importance-samples a direction toward this sphere from
// ref, drawing within the cone it subtends rather than uniformly over its
// area: for a small sphere far from ref, this concentrates samples where
// they can actually contribute and eliminates the wasted rays area sampling
// would spend on the occluded far hemisphere.
func (s *Sphere) SampleSolidAngle(ref core.Vec3, u core.Vec2) (wi core.Vec3, pdf float64, ok bool) {
	toCenter := s.Center.Subtract(ref)
	distSq := toCenter.LengthSquared()
	dist := math.Sqrt(distSq)
	if dist <= s.Radius {
		return core.Vec3{}, 0, false // ref is inside/on the sphere
	}
	cosThetaMax := core.SphereSubtendedCone(s.Radius, dist)
	frame := core.NewFrame(toCenter.Multiply(1 / dist))
	local := core.SampleUniformCone(u, cosThetaMax)
	wi = frame.FromLocal(local)
	pdf = core.UniformConePDF(cosThetaMax)
	return wi, pdf, true
}

func (s *Sphere) PDFSolidAngle(ref core.Vec3, wi core.Vec3) float64 {
	toCenter := s.Center.Subtract(ref)
	distSq := toCenter.LengthSquared()
	dist := math.Sqrt(distSq)
	if dist <= s.Radius {
		return 0
	}
	cosThetaMax := core.SphereSubtendedCone(s.Radius, dist)
	// Only nonzero if wi actually falls within the subtended cone.
	cosTheta := toCenter.Multiply(1 / dist).Dot(wi)
	if cosTheta < cosThetaMax {
		return 0
	}
	return core.UniformConePDF(cosThetaMax)
}
