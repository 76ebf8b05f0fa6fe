package core

// Transform bundles a matrix with its inverse, computed once at
// construction so hot-path shape/medium code never inverts per ray.
type Transform struct {
	M    Mat4
	Inv  Mat4
	InvT Mat4 // inverse-transpose, for transforming normals
}

// NewTransform builds a Transform from a matrix, computing its inverse once.
func NewTransform(m Mat4) Transform {
	inv := m.Inverse()
	return Transform{M: m, Inv: inv, InvT: inv.Transpose()}
}

// IdentityTransform returns the identity transform.
func IdentityTransform() Transform {
	return NewTransform(Identity4())
}

// Inverse returns the inverse transform (swap M/Inv, keep InvT consistent).
func (t Transform) Inverse() Transform {
	return Transform{M: t.Inv, Inv: t.M, InvT: t.M.Transpose()}
}

// Compose returns t followed by other (other applied in the transformed
// space of t, i.e. equivalent to other.M * t.M for points).
func (t Transform) Compose(other Transform) Transform {
	return NewTransform(other.M.Mul(t.M))
}

// Point transforms a point from local to world space.
func (t Transform) Point(p Vec3) Vec3 { return t.M.MulPoint(p) }

// InversePoint transforms a point from world to local space.
func (t Transform) InversePoint(p Vec3) Vec3 { return t.Inv.MulPoint(p) }

// Vector transforms a direction vector from local to world space.
func (t Transform) Vector(v Vec3) Vec3 { return t.M.MulVector(v) }

// InverseVector transforms a direction vector from world to local space.
func (t Transform) InverseVector(v Vec3) Vec3 { return t.Inv.MulVector(v) }

// Normal transforms a surface normal from local to world space using the
// inverse-transpose, which keeps normals correct under non-uniform scale.
func (t Transform) Normal(n Vec3) Vec3 {
	return t.InvT.MulVector(n).Normalize()
}

// Ray transforms a ray from local to world space.
func (t Transform) Ray(r Ray) Ray {
	return Ray{Origin: t.Point(r.Origin), Direction: t.Vector(r.Direction)}
}

// InverseRay transforms a ray from world to local space.
func (t Transform) InverseRay(r Ray) Ray {
	return Ray{Origin: t.InversePoint(r.Origin), Direction: t.InverseVector(r.Direction)}
}

// AABB transforms an axis-aligned box by transforming its eight corners and
// taking their bounding box.
func (t Transform) AABB(box AABB) AABB {
	result := EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := Vec3{
			X: pick(i&1 != 0, box.Min.X, box.Max.X),
			Y: pick(i&2 != 0, box.Min.Y, box.Max.Y),
			Z: pick(i&4 != 0, box.Min.Z, box.Max.Z),
		}
		result = result.UnionPoint(t.Point(corner))
	}
	return result
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return b
	}
	return a
}
