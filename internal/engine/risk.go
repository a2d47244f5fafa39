package engine

// RiskLevel is the discrete risk bucket derived from volatility and
// structure signals.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskThresholds gates the risk rule table. All values are 0-100 scores.
type RiskThresholds struct {
	SqueezeStructure float64 `yaml:"squeeze_structure" json:"squeeze_structure"` // rule 1: structure at or above
	SqueezeTechnical float64 `yaml:"squeeze_technical" json:"squeeze_technical"` // rule 1: technical at or above
	WeakFundamental  float64 `yaml:"weak_fundamental" json:"weak_fundamental"`   // rule 2: fundamental at or below
	SolidFundamental float64 `yaml:"solid_fundamental" json:"solid_fundamental"` // rule 3: fundamental at or above
	QuietStructure   float64 `yaml:"quiet_structure" json:"quiet_structure"`     // rule 3: structure at or below
}

// DefaultRiskThresholds returns the documented production gates.
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{
		SqueezeStructure: 80,
		SqueezeTechnical: 70,
		WeakFundamental:  30,
		SolidFundamental: 70,
		QuietStructure:   40,
	}
}

// Validate bounds every gate to the score range.
func (t RiskThresholds) Validate() error {
	for name, v := range map[string]float64{
		"risk.squeeze_structure": t.SqueezeStructure,
		"risk.squeeze_technical": t.SqueezeTechnical,
		"risk.weak_fundamental":  t.WeakFundamental,
		"risk.solid_fundamental": t.SolidFundamental,
		"risk.quiet_structure":   t.QuietStructure,
	} {
		if v < 0 || v > 100 {
			return &ConfigurationError{Reason: name + " outside [0,100]"}
		}
	}
	return nil
}

// ClassifyRisk evaluates the risk rule table top to bottom, first match
// wins: structurally squeezable momentum names are high risk, weak balance
// sheets are high risk regardless of anything else, solid fundamentals with
// an unremarkable structure are low risk, everything else is medium.
func ClassifyRisk(c ComponentSet, t RiskThresholds) RiskLevel {
	switch {
	case atLeast(c.Structure, t.SqueezeStructure) && atLeast(c.Technical, t.SqueezeTechnical):
		return RiskHigh
	case atMost(c.Fundamental, t.WeakFundamental):
		return RiskHigh
	case atLeast(c.Fundamental, t.SolidFundamental) && atMost(c.Structure, t.QuietStructure):
		return RiskLow
	default:
		return RiskMedium
	}
}
