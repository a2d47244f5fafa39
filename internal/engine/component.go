package engine

// Factor identifies one of the five analysis dimensions feeding the
// composite score.
type Factor string

const (
	FactorSocial      Factor = "social"
	FactorTechnical   Factor = "technical"
	FactorFundamental Factor = "fundamental"
	FactorAnalyst     Factor = "analyst"
	FactorStructure   Factor = "structure"
)

// Factors lists every dimension in canonical order. Iteration over this
// slice keeps output ordering stable across runs.
var Factors = []Factor{
	FactorSocial,
	FactorTechnical,
	FactorFundamental,
	FactorAnalyst,
	FactorStructure,
}

// Completeness tracks how much of a factor's underlying data was available
// when the score was produced.
type Completeness string

const (
	CompletenessFull    Completeness = "full"
	CompletenessPartial Completeness = "partial"
	CompletenessMissing Completeness = "missing"
)

func (c Completeness) valid() bool {
	switch c {
	case CompletenessFull, CompletenessPartial, CompletenessMissing:
		return true
	}
	return false
}

// ComponentScore is one normalized factor signal in [0,100]. Metrics carries
// display-only supporting values (mention counts, RSI, short interest) and
// never participates in scoring.
type ComponentScore struct {
	Value        float64            `json:"value"`
	Completeness Completeness       `json:"completeness"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

// Missing reports whether the upstream collector had no data at all. A
// missing score carries value 0, which must never be read as a weak signal.
func (cs ComponentScore) Missing() bool {
	return cs.Completeness == CompletenessMissing
}

// MissingScore is the placeholder recorded when a collector is unavailable.
func MissingScore() ComponentScore {
	return ComponentScore{Value: 0, Completeness: CompletenessMissing}
}

// ComponentSet holds the five factor scores for one symbol. A fixed struct
// rather than an open map so classification rules stay exhaustive over the
// factor set.
type ComponentSet struct {
	Social      ComponentScore `json:"social"`
	Technical   ComponentScore `json:"technical"`
	Fundamental ComponentScore `json:"fundamental"`
	Analyst     ComponentScore `json:"analyst"`
	Structure   ComponentScore `json:"structure"`
}

// Get returns the score for a factor.
func (c ComponentSet) Get(f Factor) ComponentScore {
	switch f {
	case FactorSocial:
		return c.Social
	case FactorTechnical:
		return c.Technical
	case FactorFundamental:
		return c.Fundamental
	case FactorAnalyst:
		return c.Analyst
	case FactorStructure:
		return c.Structure
	}
	return MissingScore()
}

// Validate rejects out-of-range values and unknown completeness flags.
func (c ComponentSet) Validate() error {
	for _, f := range Factors {
		cs := c.Get(f)
		if cs.Value < 0 || cs.Value > 100 {
			return &InvalidInputError{Factor: f, Reason: "value outside [0,100]"}
		}
		if !cs.Completeness.valid() {
			return &InvalidInputError{Factor: f, Reason: "unknown completeness flag"}
		}
	}
	return nil
}

// Threshold gates. A missing factor satisfies no predicate in either
// direction, so absent data never triggers a classification rule.

func atLeast(cs ComponentScore, threshold float64) bool {
	return !cs.Missing() && cs.Value >= threshold
}

func atMost(cs ComponentScore, threshold float64) bool {
	return !cs.Missing() && cs.Value <= threshold
}

func below(cs ComponentScore, threshold float64) bool {
	return !cs.Missing() && cs.Value < threshold
}
