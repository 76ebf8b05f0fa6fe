package shape

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// Disk is a flat circular shape lying in the plane through Center
// perpendicular to Normal, used for simple area lights and ground planes.
type Disk struct {
	Center core.Vec3
	Normal core.Vec3
	Radius float64
	frame  core.Frame
}

// NewDisk creates a disk shape.
func NewDisk(center, normal core.Vec3, radius float64) *Disk {
	return &Disk{Center: center, Normal: normal.Normalize(), Radius: radius, frame: core.NewFrame(normal.Normalize())}
}

func (d *Disk) BoundingBox() core.AABB {
	// Conservative box: the disk's radius in every direction, since an
	// axis-aligned bound around an arbitrarily oriented disk needs to
	// account for the worst-case projection of its tangent/bitangent.
	r := core.NewVec3(d.Radius, d.Radius, d.Radius)
	return core.NewAABB(d.Center.Subtract(r), d.Center.Add(r)).Expand(1e-6)
}

func (d *Disk) Intersect(ray core.Ray, tMin, tMax float64) (*core.Intersection, bool) {
	denom := ray.Direction.Dot(d.Normal)
	if math.Abs(denom) < 1e-9 {
		return nil, false
	}
	t := d.Center.Subtract(ray.Origin).Dot(d.Normal) / denom
	if t < tMin || t > tMax {
		return nil, false
	}
	p := ray.At(t)
	if p.Subtract(d.Center).LengthSquared() > d.Radius*d.Radius {
		return nil, false
	}
	frontFace := denom < 0
	n := d.Normal
	if !frontFace {
		n = n.Negate()
	}
	local := d.frame.ToLocal(p.Subtract(d.Center))
	u := (local.X/d.Radius + 1) / 2
	v := (local.Y/d.Radius + 1) / 2
	return &core.Intersection{
		Point:     p,
		Normal:    n,
		FrontFace: frontFace,
		T:         t,
		Shading:   core.NewFrame(n),
		UV:        core.Vec2{X: u, Y: v},
	}, true
}

func (d *Disk) IntersectP(ray core.Ray, tMin, tMax float64) bool {
	_, ok := d.Intersect(ray, tMin, tMax)
	return ok
}

func (d *Disk) Area() float64 {
	return math.Pi * d.Radius * d.Radius
}

func (d *Disk) SampleArea(u core.Vec2) (p, n core.Vec3, pdf float64) {
	local := core.SampleUniformDiskConcentric(u).Multiply(d.Radius)
	p = d.Center.Add(d.frame.Tangent.Multiply(local.X)).Add(d.frame.Bitangent.Multiply(local.Y))
	return p, d.Normal, 1 / d.Area()
}

func (d *Disk) SampleSolidAngle(ref core.Vec3, u core.Vec2) (wi core.Vec3, pdf float64, ok bool) {
	p, n, areaPDF := d.SampleArea(u)
	toPoint := p.Subtract(ref)
	distSq := toPoint.LengthSquared()
	if distSq == 0 {
		return core.Vec3{}, 0, false
	}
	dist := math.Sqrt(distSq)
	wi = toPoint.Multiply(1 / dist)
	cosAtLight := n.AbsDot(wi)
	if cosAtLight < 1e-9 {
		return core.Vec3{}, 0, false
	}
	return wi, areaPDF * distSq / cosAtLight, true
}

func (d *Disk) PDFSolidAngle(ref core.Vec3, wi core.Vec3) float64 {
	hit, ok := d.Intersect(core.NewRay(ref, wi), 1e-4, core.TMax)
	if !ok {
		return 0
	}
	distSq := hit.Point.Subtract(ref).LengthSquared()
	cosAtLight := hit.Normal.AbsDot(wi)
	if cosAtLight < 1e-9 {
		return 0
	}
	return distSq / (cosAtLight * d.Area())
}
