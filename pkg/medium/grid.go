package medium

import (
	"math"

	"github.com/df07/go-spectral-tracer/pkg/core"
)

// DensityGrid supplies a heterogeneous medium's spatially-varying density
// (and, optionally, blackbody temperature for fire/smoke emission) over a
// world-space bounding box. DenseGrid is the in-memory implementation; a
// future NanoVDB-backed implementation would satisfy the same interface.
type DensityGrid interface {
	Bounds() core.AABB
	Density(p core.Vec3) float64
	Temperature(p core.Vec3) float64
}

// DenseGrid is a regularly-sampled 3D density (and optional temperature)
// field stored as a flat row-major array, trilinearly interpolated.
type DenseGrid struct {
	NX, NY, NZ int
	Bound      core.AABB
	Data       []float64 // flat NX*NY*NZ density field, row-major (z*NY+y)*NX+x
	Temp       []float64 // nil if this grid carries no temperature channel
}

// NewDenseGrid creates a dense density grid over bounds with nx*ny*nz cells.
func NewDenseGrid(nx, ny, nz int, bounds core.AABB, density []float64) *DenseGrid {
	return &DenseGrid{NX: nx, NY: ny, NZ: nz, Bound: bounds, Data: density}
}

// WithTemperature attaches a temperature-in-Kelvin channel for blackbody
// emission, parallel in shape to the density channel.
func (g *DenseGrid) WithTemperature(temp []float64) *DenseGrid {
	g.Temp = temp
	return g
}

func (g *DenseGrid) Bounds() core.AABB { return g.Bound }

// gridCoord maps a world point to continuous grid-index space.
func (g *DenseGrid) gridCoord(p core.Vec3) (fx, fy, fz float64, inside bool) {
	lo, hi := g.Bound.Min, g.Bound.Max
	size := hi.Subtract(lo)
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return 0, 0, 0, false
	}
	u := (p.X - lo.X) / size.X
	v := (p.Y - lo.Y) / size.Y
	w := (p.Z - lo.Z) / size.Z
	if u < 0 || u > 1 || v < 0 || v > 1 || w < 0 || w > 1 {
		return 0, 0, 0, false
	}
	return u*float64(g.NX) - 0.5, v*float64(g.NY) - 0.5, w*float64(g.NZ) - 0.5, true
}

func (g *DenseGrid) sample(channel []float64, p core.Vec3) float64 {
	if channel == nil {
		return 0
	}
	fx, fy, fz, inside := g.gridCoord(p)
	if !inside {
		return 0
	}
	x0, y0, z0 := int(math.Floor(fx)), int(math.Floor(fy)), int(math.Floor(fz))
	dx, dy, dz := fx-float64(x0), fy-float64(y0), fz-float64(z0)
	get := func(x, y, z int) float64 {
		if x < 0 || y < 0 || z < 0 || x >= g.NX || y >= g.NY || z >= g.NZ {
			return 0
		}
		return channel[(z*g.NY+y)*g.NX+x]
	}
	c00 := get(x0, y0, z0)*(1-dx) + get(x0+1, y0, z0)*dx
	c10 := get(x0, y0+1, z0)*(1-dx) + get(x0+1, y0+1, z0)*dx
	c01 := get(x0, y0, z0+1)*(1-dx) + get(x0+1, y0, z0+1)*dx
	c11 := get(x0, y0+1, z0+1)*(1-dx) + get(x0+1, y0+1, z0+1)*dx
	c0 := c00*(1-dy) + c10*dy
	c1 := c01*(1-dy) + c11*dy
	return c0*(1-dz) + c1*dz
}

func (g *DenseGrid) Density(p core.Vec3) float64 {
	return g.sample(g.Data, p)
}

func (g *DenseGrid) Temperature(p core.Vec3) float64 {
	return g.sample(g.Temp, p)
}

// MaxDensity scans the stored grid for its maximum density cell, used to
// build a global-majorant fallback when a caller doesn't need a finer
// per-region majorant grid.
func (g *DenseGrid) MaxDensity() float64 {
	m := 0.0
	for _, d := range g.Data {
		if d > m {
			m = d
		}
	}
	return m
}

// Heterogeneous is a grid-based participating medium (smoke, fire, clouds):
// its extinction at a point is density(p) scaled by per-unit-density
// SigmaA/SigmaS, with a single global majorant for null-scattering.
type Heterogeneous struct {
	Grid              DensityGrid
	SigmaA            core.Spectrum // per unit density
	SigmaS            core.Spectrum // per unit density
	Phase             core.PhaseFunction
	LeScale           float64 // blackbody emission intensity multiplier, 0 disables emission
	TemperatureScale  float64 // raw grid temperature channel -> Kelvin: T = max(0, raw*TemperatureScale - TemperatureOffset)
	TemperatureOffset float64
	maxDensity        float64
}

// NewHeterogeneous creates a grid-based medium. maxDensity bounds the
// grid's density values and sets the null-scattering majorant; pass the
// grid's own DenseGrid.MaxDensity() unless a tighter manual bound is known.
// leScale, temperatureScale and temperatureOffset are ignored (no emission)
// when leScale is 0.
func NewHeterogeneous(grid DensityGrid, sigmaA, sigmaS core.Spectrum, phase core.PhaseFunction, leScale, temperatureScale, temperatureOffset, maxDensity float64) *Heterogeneous {
	return &Heterogeneous{
		Grid: grid, SigmaA: sigmaA, SigmaS: sigmaS, Phase: phase,
		LeScale: leScale, TemperatureScale: temperatureScale, TemperatureOffset: temperatureOffset,
		maxDensity: maxDensity,
	}
}

func (h *Heterogeneous) Sample(p core.Vec3) core.MediumSample {
	d := h.Grid.Density(p)
	le := core.Spectrum{}
	if h.LeScale > 0 {
		raw := h.Grid.Temperature(p)
		t := math.Max(0, raw*h.TemperatureScale-h.TemperatureOffset)
		if t > 0 {
			le = BlackbodyEmission(t).Multiply(h.LeScale * d)
		}
	}
	return core.MediumSample{SigmaA: h.SigmaA.Multiply(d), SigmaS: h.SigmaS.Multiply(d), Le: le, Phase: h.Phase}
}

func (h *Heterogeneous) IsEmissive() bool {
	return h.LeScale > 0
}

// SampleRay clips the ray to the grid's bounds and returns a single
// majorant segment over that span, using the medium-wide maxDensity as the
// majorant scale. A tighter implementation would subdivide into a coarse
// majorant supergrid and walk it with 3D DDA so empty regions are skipped
// for free; this single-segment version is simpler and still unbiased,
// just less efficient for sparse volumes.
func (h *Heterogeneous) SampleRay(ray core.Ray, tMax float64) core.MajorantIterator {
	tMin, tMaxClip, ok := clipToBounds(ray, h.Grid.Bounds(), 1e-4, tMax)
	if !ok {
		return &homogeneousIterator{done: true}
	}
	sigmaMaj := h.SigmaA.Add(h.SigmaS).Multiply(h.maxDensity)
	return &homogeneousIterator{
		seg:  core.MajorantSegment{TMin: tMin, TMax: tMaxClip, SigmaMaj: sigmaMaj},
		done: false,
	}
}

// clipToBounds is the slab test with the surviving t-interval returned,
// which core.AABB.Hit doesn't expose (it only reports a yes/no for BVH
// traversal pruning); a majorant iterator needs the actual clipped span.
func clipToBounds(ray core.Ray, bounds core.AABB, tMin, tMax float64) (float64, float64, bool) {
	bnd := [2]core.Vec3{bounds.Min, bounds.Max}
	dir := [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
	org := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	get := func(v core.Vec3, axis int) float64 {
		switch axis {
		case 0:
			return v.X
		case 1:
			return v.Y
		default:
			return v.Z
		}
	}
	for axis := 0; axis < 3; axis++ {
		invD := 1 / dir[axis]
		t0 := (get(bnd[0], axis) - org[axis]) * invD
		t1 := (get(bnd[1], axis) - org[axis]) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}

// BlackbodyEmission approximates the color of thermal emission at the given
// temperature in Kelvin using the Tanner Helland fit to the Planckian locus,
// normalized so emission intensity is controlled separately via LeScale.
func BlackbodyEmission(tempKelvin float64) core.Spectrum {
	t := tempKelvin / 100
	var r, g, b float64
	if t <= 66 {
		r = 255
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
	}
	if t <= 66 {
		g = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}
	if t >= 66 {
		b = 255
	} else if t <= 19 {
		b = 0
	} else {
		b = 138.5177312231*math.Log(t-10) - 305.0447927307
	}
	clamp := func(x float64) float64 { return math.Max(0, math.Min(255, x)) / 255 }
	return core.NewSpectrum(clamp(r), clamp(g), clamp(b))
}
