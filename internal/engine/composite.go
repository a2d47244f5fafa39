package engine

import (
	"fmt"
	"math"
)

// Weights blends the five factor scores into the composite. Values must sum
// to 1.0.
type Weights struct {
	Social      float64 `yaml:"social" json:"social"`
	Technical   float64 `yaml:"technical" json:"technical"`
	Fundamental float64 `yaml:"fundamental" json:"fundamental"`
	Analyst     float64 `yaml:"analyst" json:"analyst"`
	Structure   float64 `yaml:"structure" json:"structure"`
}

// DefaultWeights returns the production weight allocation.
func DefaultWeights() Weights {
	return Weights{
		Social:      0.25,
		Technical:   0.25,
		Fundamental: 0.20,
		Analyst:     0.15,
		Structure:   0.15,
	}
}

// Of returns the weight assigned to a factor.
func (w Weights) Of(f Factor) float64 {
	switch f {
	case FactorSocial:
		return w.Social
	case FactorTechnical:
		return w.Technical
	case FactorFundamental:
		return w.Fundamental
	case FactorAnalyst:
		return w.Analyst
	case FactorStructure:
		return w.Structure
	}
	return 0
}

// Sum adds all factor weights.
func (w Weights) Sum() float64 {
	var sum float64
	for _, f := range Factors {
		sum += w.Of(f)
	}
	return sum
}

// Validate checks that every weight is non-negative and the set sums to 1.0
// within tolerance.
func (w Weights) Validate() error {
	for _, f := range Factors {
		if w.Of(f) < 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("%s weight is negative", f)}
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > 0.001 {
		return &ConfigurationError{Reason: fmt.Sprintf("weights sum to %.3f, expected 1.000", sum)}
	}
	return nil
}

// Score computes the weighted composite over factors with data, plus a
// confidence value reflecting how much of the expected signal was present.
//
// The weighted sum is re-normalized by the weight actually contributing, so
// partial data does not mechanically depress the score relative to what full
// data would have produced. Confidence is the contributing weight divided by
// the total weight; with nothing present both outputs are 0 rather than an
// arithmetic error.
func Score(components ComponentSet, weights Weights) (composite, confidence float64) {
	var weighted, contributing float64
	total := weights.Sum()

	for _, f := range Factors {
		cs := components.Get(f)
		if cs.Missing() {
			continue
		}
		w := weights.Of(f)
		weighted += cs.Value * w
		contributing += w
	}

	if contributing == 0 || total == 0 {
		return 0, 0
	}
	return weighted / contributing, contributing / total
}
