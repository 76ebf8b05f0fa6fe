package light

import "sort"

// distribution1D is a piecewise-constant PDF/CDF over N equal-width bins,
// built from per-bin function values. SampleContinuous maps a uniform
// [0,1) sample to a continuous position whose density matches the
// underlying step function, the building block image importance sampling
// stacks into two dimensions (distribution2D below).
type distribution1D struct {
	func_   []float64
	cdf     []float64
	funcInt float64
}

func newDistribution1D(f []float64) *distribution1D {
	n := len(f)
	cdf := make([]float64, n+1)
	for i := 0; i < n; i++ {
		cdf[i+1] = cdf[i] + f[i]/float64(n)
	}
	funcInt := cdf[n]
	if funcInt == 0 {
		for i := 1; i <= n; i++ {
			cdf[i] = float64(i) / float64(n)
		}
	} else {
		for i := 1; i <= n; i++ {
			cdf[i] /= funcInt
		}
	}
	return &distribution1D{func_: f, cdf: cdf, funcInt: funcInt}
}

// sampleContinuous returns a position in [0,1), its PDF, and the bin index.
func (d *distribution1D) sampleContinuous(u float64) (x, pdf float64, offset int) {
	n := len(d.func_)
	offset = sort.Search(len(d.cdf), func(i int) bool { return d.cdf[i] > u }) - 1
	if offset < 0 {
		offset = 0
	}
	if offset >= n {
		offset = n - 1
	}
	du := u - d.cdf[offset]
	if denom := d.cdf[offset+1] - d.cdf[offset]; denom > 0 {
		du /= denom
	}
	if d.funcInt > 0 {
		pdf = d.func_[offset] / d.funcInt
	}
	x = (float64(offset) + du) / float64(n)
	return x, pdf, offset
}

func (d *distribution1D) pdf(u float64) float64 {
	n := len(d.func_)
	offset := int(u * float64(n))
	if offset < 0 {
		offset = 0
	}
	if offset >= n {
		offset = n - 1
	}
	if d.funcInt <= 0 {
		return 0
	}
	return d.func_[offset] / d.funcInt
}

// distribution2D importance-samples a 2D step function (an image's
// per-texel weight) via a marginal distribution over rows and, for each
// row, a conditional distribution over columns — the standard
// marginal/conditional construction pbrt-derived renderers use for
// environment-map importance sampling. No Bulbit environment-light source
// survived retrieval (see pkg/light's DESIGN.md entry), so this is built
// directly from the published technique spec.md's ImageInfinite
// description names ("2D hierarchical piecewise-constant distribution"),
// implemented here as the row/column marginal-conditional case of it
// rather than a full multi-resolution MIP hierarchy.
type distribution2D struct {
	conditional []*distribution1D // one per row, over columns
	marginal    *distribution1D   // over rows
}

func newDistribution2D(f []float64, nu, nv int) *distribution2D {
	conditional := make([]*distribution1D, nv)
	marginalFunc := make([]float64, nv)
	for v := 0; v < nv; v++ {
		row := f[v*nu : (v+1)*nu]
		conditional[v] = newDistribution1D(row)
		marginalFunc[v] = conditional[v].funcInt
	}
	return &distribution2D{conditional: conditional, marginal: newDistribution1D(marginalFunc)}
}

func (d *distribution2D) sampleContinuous(u, v float64) (x, y, pdf float64) {
	vPos, pdfV, vOffset := d.marginal.sampleContinuous(v)
	uPos, pdfU, _ := d.conditional[vOffset].sampleContinuous(u)
	return uPos, vPos, pdfU * pdfV
}

func (d *distribution2D) pdf(u, v float64) float64 {
	nv := len(d.conditional)
	vOffset := int(v * float64(nv))
	if vOffset < 0 {
		vOffset = 0
	}
	if vOffset >= nv {
		vOffset = nv - 1
	}
	return d.conditional[vOffset].pdf(u) * d.marginal.pdf(v)
}
