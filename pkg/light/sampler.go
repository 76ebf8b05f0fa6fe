package light

import "github.com/df07/go-spectral-tracer/pkg/core"

// WeightedSampler implements core.LightSampler by picking a light from a
// fixed probability-mass table, generalizing the teacher's
// WeightedLightSampler (which paired a []Light with a parallel []float64
// indexed by position) to key directly off the core.Light it returns, so
// PMF doesn't need the caller to track indices.
type WeightedSampler struct {
	lights  []core.Light
	weights []float64
	pmf     map[core.Light]float64
}

func newWeightedSampler(lights []core.Light, rawWeights []float64) *WeightedSampler {
	total := 0.0
	for _, w := range rawWeights {
		total += w
	}
	weights := make([]float64, len(lights))
	pmf := make(map[core.Light]float64, len(lights))
	if total <= 0 {
		uniform := 0.0
		if len(lights) > 0 {
			uniform = 1.0 / float64(len(lights))
		}
		for i := range weights {
			weights[i] = uniform
			pmf[lights[i]] = uniform
		}
	} else {
		for i, w := range rawWeights {
			weights[i] = w / total
			pmf[lights[i]] = weights[i]
		}
	}
	return &WeightedSampler{lights: lights, weights: weights, pmf: pmf}
}

// NewUniformSampler assigns every light equal selection probability.
func NewUniformSampler(lights []core.Light) *WeightedSampler {
	weights := make([]float64, len(lights))
	for i := range weights {
		weights[i] = 1
	}
	return newWeightedSampler(lights, weights)
}

// NewPowerSampler weights each light's selection probability by its
// emitted Power, so bright lights are found more often than dim ones —
// the standard power-heuristic light sampler pbrt-derived renderers use in
// place of uniform selection once per-light power estimates are available.
func NewPowerSampler(lights []core.Light) *WeightedSampler {
	weights := make([]float64, len(lights))
	for i, l := range lights {
		weights[i] = l.Power()
	}
	return newWeightedSampler(lights, weights)
}

func (s *WeightedSampler) Sample(u float64) (core.Light, float64) {
	if len(s.lights) == 0 {
		return nil, 0
	}
	cumulative := 0.0
	for i, w := range s.weights {
		cumulative += w
		if u <= cumulative {
			return s.lights[i], w
		}
	}
	last := len(s.lights) - 1
	return s.lights[last], s.weights[last]
}

func (s *WeightedSampler) PMF(light core.Light) float64 {
	return s.pmf[light]
}
