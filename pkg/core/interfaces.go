package core

// Logger is the leveled logging sink used throughout the renderer.
// pkg/renderer.DefaultLogger (a plain fmt.Printf writer, in the teacher's
// own DefaultLogger style — no structured-logging library appears anywhere
// in this module's retrieval pack) is the concrete type passed in practice;
// defining the contract here keeps pkg/core free of any logging dependency
// while every other package can log through the interface alone.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Shape is a purely geometric primitive: it can be intersected and bounded,
// and it can be sampled for area-based and solid-angle-based light
// transport. Concrete shapes (sphere, triangle, disk) live in
// pkg/shape.
type Shape interface {
	Intersect(ray Ray, tMin, tMax float64) (*Intersection, bool)
	IntersectP(ray Ray, tMin, tMax float64) bool
	BoundingBox() AABB
	Area() float64

	// SampleArea draws a point on the shape's surface uniformly by area,
	// returning the point, its outward normal, and the area PDF (1/Area
	// for a shape with constant density).
	SampleArea(u Vec2) (p, n Vec3, pdf float64)

	// SampleSolidAngle draws a direction from ref toward the shape,
	// importance-sampled by the solid angle it subtends from ref, which is
	// dramatically lower variance than area sampling for small, distant
	// lights. ok is false if ref lies inside/on the shape where solid-angle
	// sampling degenerates; callers should fall back to SampleArea.
	SampleSolidAngle(ref Vec3, u Vec2) (wi Vec3, pdf float64, ok bool)

	// PDFSolidAngle returns the solid-angle density SampleSolidAngle would
	// have produced for the direction wi from ref, for MIS against other
	// sampling techniques that hit the same shape.
	PDFSolidAngle(ref Vec3, wi Vec3) float64
}

// MediumInterface names the participating media on either side of a
// surface. Both fields are nil for a surface in a vacuum.
type MediumInterface struct {
	Inside  Medium
	Outside Medium
}

// IsTransition reports whether the two sides differ, i.e. whether crossing
// this surface actually changes which medium a ray is in.
func (mi MediumInterface) IsTransition() bool { return mi.Inside != mi.Outside }

// BxDF is a single bidirectional scattering distribution lobe, evaluated and
// sampled entirely in local shading space (wo/wi measured from the surface
// normal +Z). Concrete lobes (diffuse, conductor, dielectric, sheen,
// layered, mixture, ...) live in pkg/bxdf.
type BxDF interface {
	F(wo, wi Vec3) Spectrum
	SampleF(wo Vec3, uc float64, u Vec2, sampleFlags BxDFReflTransFlags) (BSDFSample, bool)
	PDF(wo, wi Vec3, sampleFlags BxDFReflTransFlags) float64
	Flags() BxDFFlags
}

// BSDF pairs a BxDF with the world-space shading frame it was constructed
// in, translating world-space directions to the BxDF's local space and back.
type BSDF struct {
	Shading Frame
	Bx      BxDF
}

// NewBSDF wraps a BxDF with the shading frame it should be evaluated in.
func NewBSDF(shading Frame, bx BxDF) BSDF {
	return BSDF{Shading: shading, Bx: bx}
}

// IsNil reports whether this BSDF has no lobe (a pass-through hit, e.g. an
// unbound medium boundary with no surface material).
func (b BSDF) IsNil() bool { return b.Bx == nil }

// F evaluates the BSDF for world-space directions wo, wi.
func (b BSDF) F(woWorld, wiWorld Vec3) Spectrum {
	if b.Bx == nil {
		return Spectrum{}
	}
	wo, wi := b.Shading.ToLocal(woWorld), b.Shading.ToLocal(wiWorld)
	if wo.Z == 0 {
		return Spectrum{}
	}
	return b.Bx.F(wo, wi)
}

// SampleF importance-samples the BSDF, translating the resulting local
// direction back to world space.
func (b BSDF) SampleF(woWorld Vec3, uc float64, u Vec2, flags BxDFReflTransFlags) (BSDFSample, bool) {
	if b.Bx == nil {
		return BSDFSample{}, false
	}
	wo := b.Shading.ToLocal(woWorld)
	if wo.Z == 0 {
		return BSDFSample{}, false
	}
	s, ok := b.Bx.SampleF(wo, uc, u, flags)
	if !ok {
		return BSDFSample{}, false
	}
	s.Wi = b.Shading.FromLocal(s.Wi)
	return s, true
}

// PDF returns the BSDF's sampling density for world-space directions.
func (b BSDF) PDF(woWorld, wiWorld Vec3, flags BxDFReflTransFlags) float64 {
	if b.Bx == nil {
		return 0
	}
	wo, wi := b.Shading.ToLocal(woWorld), b.Shading.ToLocal(wiWorld)
	if wo.Z == 0 {
		return 0
	}
	return b.Bx.PDF(wo, wi, flags)
}

// Flags reports the wrapped BxDF's lobe classification.
func (b BSDF) Flags() BxDFFlags {
	if b.Bx == nil {
		return 0
	}
	return b.Bx.Flags()
}

// Material constructs a BSDF for a given hit, and carries any legacy
// constant surface emission (diffuse-light materials predating dedicated
// area lights). Concrete variants live in pkg/material.
type Material interface {
	ComputeBSDF(isect *Intersection, arena *Arena) BSDF
	Emission(isect *Intersection, wo Vec3) Spectrum
}

// PhaseFunction governs how a participating medium redirects a scattered
// ray. Concrete phase functions (isotropic, Henyey-Greenstein) live in
// pkg/medium.
type PhaseFunction interface {
	P(wo, wi Vec3) float64
	SampleP(wo Vec3, u Vec2) (wi Vec3, pdf float64, ok bool)
	PDF(wo, wi Vec3) float64
}

// Medium is a participating medium's local optical model: its extinction
// and scattering coefficients at a point, its emission, and a majorant
// iterator for null-scattering transmittance/collision sampling along a
// ray. Concrete media (homogeneous, grid-based heterogeneous) live in
// pkg/medium.
type Medium interface {
	Sample(p Vec3) MediumSample
	SampleRay(ray Ray, tMax float64) MajorantIterator
	IsEmissive() bool
}

// LightType classifies how a light's emission is parameterized, used by
// integrators to decide which sampling strategies apply (e.g. infinite
// lights need special handling in BDPT camera-subpath connections).
type LightType int

const (
	LightDeltaPosition LightType = iota
	LightDeltaDirection
	LightArea
	LightInfinite
)

// Light is the emission contract every light type satisfies: area lights
// bound to a Primitive, point/spot/directional delta lights, and
// infinite/environment lights. Concrete lights live in pkg/light.
type Light interface {
	Type() LightType

	// Le returns radiance carried by a ray that escaped the scene without
	// hitting any geometry; nonzero only for infinite lights.
	Le(ray Ray) Spectrum

	// SampleLi importance-samples this light as seen from ref (e.g. the
	// point being shaded), for next-event estimation.
	SampleLi(ref Vec3, refNormal Vec3, u Vec2) (LightLiSample, bool)

	// PDFLi returns the density SampleLi would assign to direction wi from
	// ref, for MIS against BSDF sampling that independently hits this light.
	PDFLi(ref Vec3, wi Vec3) float64

	// SampleLe unconditionally samples an emitted ray from this light (for
	// light tracing / BDPT light subpaths), returning positional and
	// directional densities separately.
	SampleLe(u1, u2 Vec2) (LightLeSample, bool)

	// PDFLe returns the positional and directional densities SampleLe would
	// assign to the given emitted ray, given the light's surface normal at
	// its origin (zero Vec3 if not area-parameterized).
	PDFLe(ray Ray, n Vec3) (pdfPos, pdfDir float64)

	// Preprocess gives infinite lights the scene's bounding sphere, which
	// they need to convert their angular distribution into a finite-PDF
	// emitted-ray sampler.
	Preprocess(sceneCenter Vec3, sceneRadius float64)

	// Power returns an approximate total emitted power, used by
	// power-weighted light sampling to bias toward brighter lights.
	Power() float64
}

// Camera generates primary rays and, for light tracing, importance-samples
// the sensor from a scene point. Concrete cameras live in pkg/camera.
type Camera interface {
	// SampleRay generates a camera ray for a film-space pixel sample
	// (pFilm in continuous pixel coordinates) plus a lens sample for
	// depth of field, returning the ray and its relative throughput weight.
	SampleRay(pFilm Vec2, uLens Vec2) (ray Ray, weight float64, ok bool)

	// SampleWi importance-samples the camera's importance function as seen
	// from a scene point, for connecting a light subpath vertex directly to
	// the sensor (light tracing).
	SampleWi(ref Vec3, u Vec2) (CameraWiSample, bool)

	// PDFWe returns the camera's positional and directional sampling
	// densities for a ray it could have generated, for MIS in BDPT.
	PDFWe(ray Ray) (pdfPos, pdfDir float64)
}

// Filter is a pixel reconstruction filter: it weights a sample's
// contribution to nearby film pixels based on the sample's offset from
// pixel center. Concrete filters (box, tent, Gaussian) live in pkg/camera.
type Filter interface {
	Evaluate(p Vec2) float64
	Radius() Vec2
}

// Aggregate is the acceleration structure's query surface: a scene's
// primitives wrapped behind whatever spatial structure accelerates ray
// queries (pkg/bvh.BVH in practice). Defined here, rather than depending on
// pkg/bvh directly, so core.Scene doesn't import its own accelerant.
type Aggregate interface {
	Intersect(ray Ray, tMin, tMax float64) (*Intersection, bool)
	IntersectP(ray Ray, tMin, tMax float64) bool
	BoundingBox() AABB
}

// Texture supplies spatially-varying material inputs, evaluated at a
// surface's UV and world-space point. Concrete textures (constant, image,
// procedural) live in pkg/scene; defined here so pkg/material can consume
// the contract without importing the scene package that assembles them.
type Texture interface {
	Evaluate(uv Vec2, p Vec3) Spectrum
	EvaluateScalar(uv Vec2, p Vec3) float64
}

// LightSampler picks a light (and its selection probability) for
// next-event estimation, so integrators don't need to enumerate every light
// in the scene on every shading vertex. Concrete samplers (uniform, power
// heuristic) live in pkg/light.
type LightSampler interface {
	Sample(u float64) (light Light, pmf float64)
	PMF(light Light) float64
}
