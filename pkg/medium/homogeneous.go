package medium

import "github.com/df07/go-spectral-tracer/pkg/core"

// Homogeneous is a participating medium with constant coefficients
// throughout its bounding volume: constant-density fog, colored glass
// interiors, or a uniform "deep space" scattering fill.
type Homogeneous struct {
	SigmaA core.Spectrum
	SigmaS core.Spectrum
	Le     core.Spectrum
	Phase  core.PhaseFunction
}

// NewHomogeneous creates a homogeneous medium with absorption sigmaA,
// scattering sigmaS, emission le, and phase function p.
func NewHomogeneous(sigmaA, sigmaS, le core.Spectrum, p core.PhaseFunction) *Homogeneous {
	return &Homogeneous{SigmaA: sigmaA, SigmaS: sigmaS, Le: le, Phase: p}
}

func (h *Homogeneous) Sample(p core.Vec3) core.MediumSample {
	return core.MediumSample{SigmaA: h.SigmaA, SigmaS: h.SigmaS, Le: h.Le, Phase: h.Phase}
}

func (h *Homogeneous) IsEmissive() bool {
	return core.MaxComponent(h.Le) > 0
}

// SampleRay returns a single majorant segment spanning the whole ray: a
// homogeneous medium's majorant is just its own constant extinction, so
// null-scattering collapses to ordinary analytic/ratio-tracking sampling.
func (h *Homogeneous) SampleRay(ray core.Ray, tMax float64) core.MajorantIterator {
	return &homogeneousIterator{
		seg:  core.MajorantSegment{TMin: 0, TMax: tMax, SigmaMaj: h.SigmaA.Add(h.SigmaS)},
		done: false,
	}
}

type homogeneousIterator struct {
	seg  core.MajorantSegment
	done bool
}

func (it *homogeneousIterator) Next() (core.MajorantSegment, bool) {
	if it.done {
		return core.MajorantSegment{}, false
	}
	it.done = true
	return it.seg, true
}
