package engine

// DivergenceType names a detected mismatch between retail-oriented and
// institutional-oriented signals.
type DivergenceType string

const (
	DivergenceRetailBullishInstBearish DivergenceType = "retail_bullish_institutional_bearish"
	DivergenceRetailBearishInstBullish DivergenceType = "retail_bearish_institutional_bullish"
	DivergenceShortSqueezeSetup        DivergenceType = "short_squeeze_setup"
	DivergenceHiddenGem                DivergenceType = "hidden_gem_signal"
	DivergenceValueTrap                DivergenceType = "value_trap_signal"
)

// Severity ranks a divergence finding.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// Divergence is one detected pattern, embedded in exactly one assessment.
type Divergence struct {
	Type     DivergenceType `json:"type"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
}

// DivergenceThresholds gates the pattern triggers. All values are 0-100
// scores.
type DivergenceThresholds struct {
	RetailBullishSocial  float64 `yaml:"retail_bullish_social" json:"retail_bullish_social"`
	RetailBullishAnalyst float64 `yaml:"retail_bullish_analyst_max" json:"retail_bullish_analyst_max"`
	RetailBearishSocial  float64 `yaml:"retail_bearish_social_max" json:"retail_bearish_social_max"`
	RetailBearishAnalyst float64 `yaml:"retail_bearish_analyst" json:"retail_bearish_analyst"`
	SqueezeStructure     float64 `yaml:"squeeze_structure" json:"squeeze_structure"`
	SqueezeSocial        float64 `yaml:"squeeze_social" json:"squeeze_social"`
	GemFundamental       float64 `yaml:"gem_fundamental" json:"gem_fundamental"`
	GemSocialMax         float64 `yaml:"gem_social_max" json:"gem_social_max"`
	TrapFundamentalMax   float64 `yaml:"trap_fundamental_max" json:"trap_fundamental_max"`
	TrapTechnical        float64 `yaml:"trap_technical" json:"trap_technical"`
}

// DefaultDivergenceThresholds returns the documented production gates.
func DefaultDivergenceThresholds() DivergenceThresholds {
	return DivergenceThresholds{
		RetailBullishSocial:  70,
		RetailBullishAnalyst: 35,
		RetailBearishSocial:  30,
		RetailBearishAnalyst: 70,
		SqueezeStructure:     75,
		SqueezeSocial:        60,
		GemFundamental:       65,
		GemSocialMax:         25,
		TrapFundamentalMax:   30,
		TrapTechnical:        55,
	}
}

// Validate bounds every gate to the score range.
func (t DivergenceThresholds) Validate() error {
	for name, v := range map[string]float64{
		"divergence.retail_bullish_social":      t.RetailBullishSocial,
		"divergence.retail_bullish_analyst_max": t.RetailBullishAnalyst,
		"divergence.retail_bearish_social_max":  t.RetailBearishSocial,
		"divergence.retail_bearish_analyst":     t.RetailBearishAnalyst,
		"divergence.squeeze_structure":          t.SqueezeStructure,
		"divergence.squeeze_social":             t.SqueezeSocial,
		"divergence.gem_fundamental":            t.GemFundamental,
		"divergence.gem_social_max":             t.GemSocialMax,
		"divergence.trap_fundamental_max":       t.TrapFundamentalMax,
		"divergence.trap_technical":             t.TrapTechnical,
	} {
		if v < 0 || v > 100 {
			return &ConfigurationError{Reason: name + " outside [0,100]"}
		}
	}
	return nil
}

// Fixed explanatory messages. Alert generation must be byte-stable across
// re-scans, so no per-run values are interpolated here.
const (
	msgRetailBullishInstBearish = "retail euphoria against bearish analyst coverage: possible overextension"
	msgRetailBearishInstBullish = "retail pessimism against bullish analyst coverage: possible institutional accumulation"
	msgShortSqueezeSetup        = "crowded short structure with rising retail attention: squeeze setup"
	msgHiddenGem                = "strong fundamentals with little retail attention: hidden gem"
	msgValueTrap                = "weak fundamentals behind technical strength: possible value trap"
)

// divergencePattern pairs a trigger with its fixed finding. Unlike
// opportunity classification this is not first-match-wins: every pattern is
// evaluated each run and all matches surface.
type divergencePattern struct {
	finding Divergence
	match   func(ComponentSet, DivergenceThresholds) bool
}

var divergencePatterns = []divergencePattern{
	{
		Divergence{DivergenceRetailBullishInstBearish, SeverityHigh, msgRetailBullishInstBearish},
		func(c ComponentSet, t DivergenceThresholds) bool {
			return atLeast(c.Social, t.RetailBullishSocial) && atMost(c.Analyst, t.RetailBullishAnalyst)
		},
	},
	{
		Divergence{DivergenceRetailBearishInstBullish, SeverityMedium, msgRetailBearishInstBullish},
		func(c ComponentSet, t DivergenceThresholds) bool {
			return atMost(c.Social, t.RetailBearishSocial) && atLeast(c.Analyst, t.RetailBearishAnalyst)
		},
	},
	{
		Divergence{DivergenceShortSqueezeSetup, SeverityHigh, msgShortSqueezeSetup},
		func(c ComponentSet, t DivergenceThresholds) bool {
			return atLeast(c.Structure, t.SqueezeStructure) && atLeast(c.Social, t.SqueezeSocial)
		},
	},
	{
		Divergence{DivergenceHiddenGem, SeverityMedium, msgHiddenGem},
		func(c ComponentSet, t DivergenceThresholds) bool {
			return atLeast(c.Fundamental, t.GemFundamental) && atMost(c.Social, t.GemSocialMax)
		},
	},
	{
		Divergence{DivergenceValueTrap, SeverityMedium, msgValueTrap},
		func(c ComponentSet, t DivergenceThresholds) bool {
			return atMost(c.Fundamental, t.TrapFundamentalMax) && atLeast(c.Technical, t.TrapTechnical)
		},
	},
}

// DetectDivergences evaluates every pattern independently and collects all
// matches. Findings are not mutually exclusive; zero, one, or several may
// co-occur, and toggling inputs relevant to one pattern never changes the
// trigger state of another.
func DetectDivergences(c ComponentSet, t DivergenceThresholds) []Divergence {
	var found []Divergence
	for _, p := range divergencePatterns {
		if p.match(c, t) {
			found = append(found, p.finding)
		}
	}
	return found
}
