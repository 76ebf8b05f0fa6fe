package bxdf

import "github.com/df07/go-spectral-tracer/pkg/core"

// Mixture blends two BxDFs by a fixed weight, used for e.g. a coated
// diffuse base (weight toward the coat's Fresnel reflectance) without the
// cost of a full layered random walk.
type Mixture struct {
	A, B   core.BxDF
	Weight float64 // probability / blend factor favoring B, in [0,1]
}

// NewMixture creates a BxDF that blends A and B, weighting B by weight.
func NewMixture(a, b core.BxDF, weight float64) *Mixture {
	return &Mixture{A: a, B: b, Weight: weight}
}

func (m *Mixture) Flags() core.BxDFFlags {
	return m.A.Flags() | m.B.Flags()
}

func (m *Mixture) F(wo, wi core.Vec3) core.Spectrum {
	fa := m.A.F(wo, wi).Multiply(1 - m.Weight)
	fb := m.B.F(wo, wi).Multiply(m.Weight)
	return fa.Add(fb)
}

func (m *Mixture) SampleF(wo core.Vec3, uc float64, u core.Vec2, sampleFlags core.BxDFReflTransFlags) (core.BSDFSample, bool) {
	var chosen, other core.BxDF
	var pChosen float64
	if uc < m.Weight {
		chosen, other, pChosen = m.B, m.A, m.Weight
		uc = uc / m.Weight
	} else {
		chosen, other, pChosen = m.A, m.B, 1-m.Weight
		uc = (uc - m.Weight) / (1 - m.Weight)
	}

	s, ok := chosen.SampleF(wo, uc, u, sampleFlags)
	if !ok {
		return core.BSDFSample{}, false
	}
	if s.IsSpecular() {
		// A specular lobe's contribution can't be mixed with the other
		// lobe's density at the same direction; scale and report as-is.
		s.PDF *= pChosen
		s.Value = s.Value.Multiply(pChosen)
		return s, true
	}

	otherPDF := other.PDF(wo, s.Wi, sampleFlags)
	s.PDF = pChosen*s.PDF + (1-pChosen)*otherPDF
	if s.PDF == 0 {
		return core.BSDFSample{}, false
	}
	s.Value = m.F(wo, s.Wi)
	nonSpecular := m.Flags() &^ core.BxDFSpecular
	s.Flags = nonSpecular
	return s, true
}

func (m *Mixture) PDF(wo, wi core.Vec3, sampleFlags core.BxDFReflTransFlags) float64 {
	return (1-m.Weight)*m.A.PDF(wo, wi, sampleFlags) + m.Weight*m.B.PDF(wo, wi, sampleFlags)
}
