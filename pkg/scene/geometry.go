package scene

import (
	"github.com/df07/go-spectral-tracer/pkg/core"
	"github.com/df07/go-spectral-tracer/pkg/shape"
)

// quadTriangles builds the two-triangle mesh for a quad spanning corner,
// corner+u, corner+v, corner+u+v, matching the teacher's geometry.Quad
// corner/u/v parameterization (cornell.go, caustic_glass.go) but expressed
// against pkg/shape.Triangle, the one planar-polygon primitive this
// module's shape package carries (pkg/shape has no separate Quad shape).
func quadTriangles(corner, u, v core.Vec3) []*shape.Triangle {
	p0 := corner
	p1 := corner.Add(u)
	p2 := corner.Add(u).Add(v)
	p3 := corner.Add(v)
	mesh := &shape.Mesh{Positions: []core.Vec3{p0, p1, p2, p3}}
	return shape.Triangles(mesh, []int{0, 1, 2, 0, 2, 3})
}

// boxTriangles builds the six-face, twelve-triangle mesh of an axis-aligned
// box spanning [min,max], used for scenery blocks inside sample scenes
// (the teacher's cornell.go short/tall blocks, built there from six
// geometry.Quad faces).
func boxTriangles(min, max core.Vec3) []*shape.Triangle {
	var tris []*shape.Triangle
	corner := func(x, y, z float64) core.Vec3 { return core.Vec3{X: x, Y: y, Z: z} }

	// bottom (y = min.Y), top (y = max.Y)
	tris = append(tris, quadTriangles(corner(min.X, min.Y, min.Z), core.Vec3{X: max.X - min.X}, core.Vec3{Z: max.Z - min.Z})...)
	tris = append(tris, quadTriangles(corner(min.X, max.Y, max.Z), core.Vec3{X: max.X - min.X}, core.Vec3{Z: min.Z - max.Z})...)

	// front (z = min.Z), back (z = max.Z)
	tris = append(tris, quadTriangles(corner(min.X, min.Y, min.Z), core.Vec3{Y: max.Y - min.Y}, core.Vec3{X: max.X - min.X})...)
	tris = append(tris, quadTriangles(corner(max.X, min.Y, max.Z), core.Vec3{Y: max.Y - min.Y}, core.Vec3{X: min.X - max.X})...)

	// left (x = min.X), right (x = max.X)
	tris = append(tris, quadTriangles(corner(min.X, min.Y, max.Z), core.Vec3{Y: max.Y - min.Y}, core.Vec3{Z: min.Z - max.Z})...)
	tris = append(tris, quadTriangles(corner(max.X, min.Y, min.Z), core.Vec3{Y: max.Y - min.Y}, core.Vec3{Z: max.Z - min.Z})...)

	return tris
}
