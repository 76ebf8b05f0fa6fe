package core

import "math"

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// EmptyAABB returns an AABB in the "nothing bounded yet" state, suitable as
// the identity for repeated Union calls.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{Min: Vec3{X: inf, Y: inf, Z: inf}, Max: Vec3{X: -inf, Y: -inf, Z: -inf}}
}

// NewAABB creates a new AABB from min and max points.
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points.
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box = box.UnionPoint(p)
	}
	return box
}

// UnionPoint returns an AABB that also bounds the given point.
func (aabb AABB) UnionPoint(p Vec3) AABB {
	return AABB{
		Min: Vec3{math.Min(aabb.Min.X, p.X), math.Min(aabb.Min.Y, p.Y), math.Min(aabb.Min.Z, p.Z)},
		Max: Vec3{math.Max(aabb.Max.X, p.X), math.Max(aabb.Max.Y, p.Y), math.Max(aabb.Max.Z, p.Z)},
	}
}

// Union returns an AABB that bounds both this AABB and another.
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{math.Min(aabb.Min.X, other.Min.X), math.Min(aabb.Min.Y, other.Min.Y), math.Min(aabb.Min.Z, other.Min.Z)},
		Max: Vec3{math.Max(aabb.Max.X, other.Max.X), math.Max(aabb.Max.Y, other.Max.Y), math.Max(aabb.Max.Z, other.Max.Z)},
	}
}

// Center returns the center point of the AABB.
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the extent of the AABB along each axis.
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// SurfaceArea returns the surface area of the AABB; negative-size axes
// (an invalid box) are reported as zero area rather than a bogus negative.
func (aabb AABB) SurfaceArea() float64 {
	size := aabb.Size()
	if size.X < 0 || size.Y < 0 || size.Z < 0 {
		return 0
	}
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent.
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// Axis returns the AABB's extent along the given axis (0=X, 1=Y, 2=Z).
func (aabb AABB) Axis(axis int) (lo, hi float64) {
	switch axis {
	case 0:
		return aabb.Min.X, aabb.Max.X
	case 1:
		return aabb.Min.Y, aabb.Max.Y
	default:
		return aabb.Min.Z, aabb.Max.Z
	}
}

// Offset returns p's position within the box, normalized to [0,1] per axis.
func (aabb AABB) Offset(p Vec3) Vec3 {
	size := aabb.Size()
	o := p.Subtract(aabb.Min)
	if size.X > 0 {
		o.X /= size.X
	}
	if size.Y > 0 {
		o.Y /= size.Y
	}
	if size.Z > 0 {
		o.Z /= size.Z
	}
	return o
}

// IsValid returns true if this is a valid AABB (min <= max on every axis).
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X && aabb.Min.Y <= aabb.Max.Y && aabb.Min.Z <= aabb.Max.Z
}

// Expand returns an AABB expanded by the given amount in all directions.
func (aabb AABB) Expand(amount float64) AABB {
	e := NewVec3(amount, amount, amount)
	return AABB{Min: aabb.Min.Subtract(e), Max: aabb.Max.Add(e)}
}

// BoundingSphere returns a sphere (center, radius) that contains the box,
// used to turn a scene's AABB into the bounding sphere infinite lights need.
func (aabb AABB) BoundingSphere() (center Vec3, radius float64) {
	center = aabb.Center()
	radius = aabb.Max.Subtract(center).Length()
	return center, radius
}

// RayInterval is precomputed once per ray: inverse direction and the sign of
// each component (1 if negative), so BVH traversal doesn't repeat this work
// at every node.
type RayInterval struct {
	InvDir Vec3
	Sign   [3]int
}

// NewRayInterval precomputes the inverse direction and sign bits for a ray.
func NewRayInterval(r Ray) RayInterval {
	inv := Vec3{X: 1 / r.Direction.X, Y: 1 / r.Direction.Y, Z: 1 / r.Direction.Z}
	sign := [3]int{}
	if inv.X < 0 {
		sign[0] = 1
	}
	if inv.Y < 0 {
		sign[1] = 1
	}
	if inv.Z < 0 {
		sign[2] = 1
	}
	return RayInterval{InvDir: inv, Sign: sign}
}

// Hit tests if a ray intersects this AABB using the slab method, tolerant of
// infinite inverse directions (a ray exactly parallel to an axis still
// produces a correct +/-Inf bound rather than a spurious miss).
func (aabb AABB) Hit(ray Ray, ri RayInterval, tMin, tMax float64) bool {
	bounds := [2]Vec3{aabb.Min, aabb.Max}

	for axis := 0; axis < 3; axis++ {
		var o, invD, lo, hi float64
		switch axis {
		case 0:
			o, invD = ray.Origin.X, ri.InvDir.X
			lo, hi = bounds[ri.Sign[0]].X, bounds[1-ri.Sign[0]].X
		case 1:
			o, invD = ray.Origin.Y, ri.InvDir.Y
			lo, hi = bounds[ri.Sign[1]].Y, bounds[1-ri.Sign[1]].Y
		default:
			o, invD = ray.Origin.Z, ri.InvDir.Z
			lo, hi = bounds[ri.Sign[2]].Z, bounds[1-ri.Sign[2]].Z
		}
		t0 := (lo - o) * invD
		t1 := (hi - o) * invD
		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)
		if tMin > tMax {
			return false
		}
	}
	return true
}
