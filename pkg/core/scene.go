package core

// Primitive binds a Shape to the material and media it's made of, and
// optionally to the Light it emits as (when the shape is an area light's
// geometry). BVH traversal and intersection queries operate on *Primitive,
// never on a bare Shape, so every hit carries enough context to shade.
type Primitive struct {
	Shape     Shape
	Mat       Material
	MI        MediumInterface
	AreaLight Light // nil unless this primitive is an emitter
}

// NewPrimitive builds a non-emissive primitive with the given shape and
// material in a vacuum.
func NewPrimitive(shape Shape, mat Material) *Primitive {
	return &Primitive{Shape: shape, Mat: mat}
}

// BoundingBox delegates to the wrapped shape.
func (p *Primitive) BoundingBox() AABB { return p.Shape.BoundingBox() }

// Intersect delegates to the wrapped shape, stamping the back-pointer so
// shading code can recover the primitive's material/medium/light from the
// Intersection alone.
func (p *Primitive) Intersect(ray Ray, tMin, tMax float64) (*Intersection, bool) {
	hit, ok := p.Shape.Intersect(ray, tMin, tMax)
	if !ok {
		return nil, false
	}
	hit.Primitive = p
	return hit, true
}

// IntersectP delegates to the wrapped shape for a shadow/occlusion test.
func (p *Primitive) IntersectP(ray Ray, tMin, tMax float64) bool {
	return p.Shape.IntersectP(ray, tMin, tMax)
}

// SamplingConfig holds the integrator-agnostic knobs that scale render
// quality against time: samples per pixel, maximum path depth, and the
// bounce at which Russian roulette starts thinning low-throughput paths.
type SamplingConfig struct {
	SamplesPerPixel   int
	MaxDepth          int
	RouletteStartDepth int
	Seed              int64
}

// DefaultSamplingConfig returns reasonable defaults for interactive preview
// quality; CLI flags or a scene file override these per render.
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel:    64,
		MaxDepth:           8,
		RouletteStartDepth: 4,
		Seed:               1,
	}
}

// Scene bundles everything an integrator needs to trace a path: the
// acceleration structure over all primitives, the full light list plus a
// sampler to pick among them, the camera, and the sampling configuration.
// Preprocess must be called once after construction (and after any camera
// change) before rendering.
type Scene struct {
	Aggregate    Aggregate
	Lights       []Light
	LightSampler LightSampler
	Camera       Camera
	Sampling     SamplingConfig

	center Vec3
	radius float64
}

// NewScene assembles a scene from its pre-built components.
func NewScene(agg Aggregate, lights []Light, sampler LightSampler, camera Camera, sampling SamplingConfig) *Scene {
	return &Scene{Aggregate: agg, Lights: lights, LightSampler: sampler, Camera: camera, Sampling: sampling}
}

// Preprocess computes the scene's bounding sphere and hands it to every
// infinite light, which need a finite world radius to turn their angular
// radiance distribution into a proper emitted-ray sampler.
func (s *Scene) Preprocess() {
	box := s.Aggregate.BoundingBox()
	s.center, s.radius = box.BoundingSphere()
	for _, l := range s.Lights {
		l.Preprocess(s.center, s.radius)
	}
}

// BoundingSphere returns the scene's world bounding sphere, as computed by
// the last Preprocess call.
func (s *Scene) BoundingSphere() (center Vec3, radius float64) {
	return s.center, s.radius
}

// Intersect finds the closest primitive hit along the ray within [tMin,tMax].
func (s *Scene) Intersect(ray Ray, tMin, tMax float64) (*Intersection, bool) {
	return s.Aggregate.Intersect(ray, tMin, tMax)
}

// IntersectP reports whether any primitive occludes the ray within
// [tMin,tMax], without computing shading information — used for shadow rays.
func (s *Scene) IntersectP(ray Ray, tMin, tMax float64) bool {
	return s.Aggregate.IntersectP(ray, tMin, tMax)
}
