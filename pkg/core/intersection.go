package core

// Intersection records everything downstream shading needs about a
// ray-surface hit: the geometric facts (point, geometric normal, distance)
// plus the shading frame and UV used for texturing and BSDF construction.
type Intersection struct {
	Point     Vec3  // world-space hit point
	Normal    Vec3  // geometric normal, always facing the outgoing ray
	FrontFace bool  // true if the ray hit the outward-facing side
	T         float64
	Shading   Frame // shading frame: may differ from the geometric normal under bump/normal mapping
	UV        Vec2
	Primitive *Primitive // back-pointer, nil only for a synthetic/probe intersection
}

// OffsetOrigin nudges a new ray origin off this intersection's surface along
// the geometric normal, oriented toward the given direction, to avoid
// self-intersection ("shadow acne") from floating-point round-off.
func (it *Intersection) OffsetOrigin(dir Vec3) Vec3 {
	n := it.Normal
	if n.Dot(dir) < 0 {
		n = n.Negate()
	}
	return Offset(it.Point, n)
}

// SpawnRay returns a ray leaving this intersection toward dir, offset to
// avoid immediately re-hitting the originating surface.
func (it *Intersection) SpawnRay(dir Vec3) Ray {
	return Ray{Origin: it.OffsetOrigin(dir), Direction: dir}
}

// SpawnRayTo returns a ray from this intersection toward a target point.
// Ray carries no TMax: the direction is the unnormalized offset to the
// target, so the target lies at about t=1, and a visibility test that stops
// just short of t=1 does not overshoot onto the light's own surface.
func (it *Intersection) SpawnRayTo(target Vec3) Ray {
	d := target.Subtract(it.Point)
	return Ray{Origin: it.OffsetOrigin(d), Direction: d}
}

// BxDFFlags classifies the lobes a BxDF (or a particular sample from it)
// exposes. Integrators use these to decide whether NEE applies (skipped for
// purely specular lobes) and to pick the right MIS partner density.
type BxDFFlags int

const (
	BxDFReflection BxDFFlags = 1 << iota
	BxDFTransmission
	BxDFDiffuse
	BxDFGlossy
	BxDFSpecular
)

// IsSpecular reports whether the flags describe a delta-distribution lobe,
// which can't be hit by next-event estimation.
func (f BxDFFlags) IsSpecular() bool { return f&BxDFSpecular != 0 }

// IsNonSpecular is the common guard before attempting NEE against a lobe.
func (f BxDFFlags) IsNonSpecular() bool { return f&(BxDFDiffuse|BxDFGlossy) != 0 }

// HasReflection reports whether the flags include a reflective component.
func (f BxDFFlags) HasReflection() bool { return f&BxDFReflection != 0 }

// HasTransmission reports whether the flags include a transmissive component.
func (f BxDFFlags) HasTransmission() bool { return f&BxDFTransmission != 0 }

// BxDFReflTransFlags restricts BxDF sampling/evaluation to one side, used by
// bidirectional techniques that need to separate a vertex's reflected and
// transmitted contributions.
type BxDFReflTransFlags int

const (
	BxDFReflTransReflection BxDFReflTransFlags = 1 << iota
	BxDFReflTransTransmission
	BxDFReflTransAll = BxDFReflTransReflection | BxDFReflTransTransmission
)

// BSDFSample is the result of importance-sampling a BxDF: an outgoing
// direction, the (possibly unnormalized for specular lobes) BSDF value, its
// PDF, and which lobe produced it.
type BSDFSample struct {
	Value             Spectrum
	Wi                Vec3
	PDF               float64
	Flags             BxDFFlags
	Eta               float64 // relative index of refraction for transmission, 1 otherwise
	PDFIsProportional bool    // PDF only proportional to the true density (e.g. some layered BxDFs)
}

// IsSpecular reports whether this sample came from a delta lobe.
func (s BSDFSample) IsSpecular() bool { return s.Flags.IsSpecular() }

// LightLiSample is the result of importance-sampling a light from a
// reference point: incident radiance, direction, density, and the point
// sampled on the light (for constructing the shadow ray and for MIS).
type LightLiSample struct {
	L      Spectrum
	Wi     Vec3
	PDF    float64
	PLight Vec3 // world-space point sampled on the light
}

// LightLeSample is the result of unconditionally sampling an emitted ray
// from a light (used by light tracing and BDPT), carrying both the
// positional and directional densities needed for MIS.
type LightLeSample struct {
	Ray      Ray
	Normal   Vec3
	L        Spectrum
	PDFPos   float64
	PDFDir   float64
}

// CameraWiSample is the result of importance-sampling the camera's importance
// function from a scene point, used by light tracing to connect a light
// subpath vertex directly to the sensor.
type CameraWiSample struct {
	Wi         Vec3
	PDF        float64
	Importance Spectrum
	PRaster    Vec2 // raster-space pixel the sample lands on
	PLens      Vec3 // world-space point sampled on the lens
}

// MediumSample is the local optical properties of a participating medium at
// a point: how much light it absorbs and scatters per unit distance, what it
// emits, and how it redirects a scattered ray.
type MediumSample struct {
	SigmaA Spectrum
	SigmaS Spectrum
	Le     Spectrum
	Phase  PhaseFunction
}

// MajorantSegment is one run of a ray through a medium over which the
// majorant extinction σ_maj is constant, the unit that null-scattering
// transmittance estimators step through.
type MajorantSegment struct {
	TMin, TMax float64
	SigmaMaj   Spectrum
}

// MajorantIterator walks a ray through a medium's majorant grid (or, for a
// homogeneous medium, yields a single segment spanning the whole ray).
type MajorantIterator interface {
	Next() (MajorantSegment, bool)
}
