package engine

// OpportunityType labels the dominant pattern behind a composite score.
type OpportunityType string

const (
	OpportunityShortSqueeze OpportunityType = "short_squeeze"
	OpportunityMomentum     OpportunityType = "momentum"
	OpportunityValue        OpportunityType = "value"
	OpportunityGrowth       OpportunityType = "growth"
	OpportunityContrarian   OpportunityType = "contrarian"
	OpportunityHiddenGem    OpportunityType = "hidden_gem"
	OpportunityValueTrap    OpportunityType = "value_trap"
	OpportunityNeutral      OpportunityType = "neutral"
)

// OpportunityThresholds gates the classification rules. All values are
// 0-100 scores.
type OpportunityThresholds struct {
	SqueezeStructure     float64 `yaml:"squeeze_structure" json:"squeeze_structure"`
	SqueezeSocial        float64 `yaml:"squeeze_social" json:"squeeze_social"`
	MomentumTechnical    float64 `yaml:"momentum_technical" json:"momentum_technical"`
	MomentumSocial       float64 `yaml:"momentum_social" json:"momentum_social"`
	GemFundamental       float64 `yaml:"gem_fundamental" json:"gem_fundamental"`
	GemSocialMax         float64 `yaml:"gem_social_max" json:"gem_social_max"`
	TrapFundamentalMax   float64 `yaml:"trap_fundamental_max" json:"trap_fundamental_max"`
	TrapTechnical        float64 `yaml:"trap_technical" json:"trap_technical"`
	ValueFundamental     float64 `yaml:"value_fundamental" json:"value_fundamental"`
	ValueAnalyst         float64 `yaml:"value_analyst" json:"value_analyst"`
	GrowthFundamental    float64 `yaml:"growth_fundamental" json:"growth_fundamental"`
	GrowthTechnical      float64 `yaml:"growth_technical" json:"growth_technical"`
	GrowthSocialBelow    float64 `yaml:"growth_social_below" json:"growth_social_below"`
	ContrarianSocialMax  float64 `yaml:"contrarian_social_max" json:"contrarian_social_max"`
	ContrarianFundamental float64 `yaml:"contrarian_fundamental" json:"contrarian_fundamental"`
	ContrarianAnalyst    float64 `yaml:"contrarian_analyst" json:"contrarian_analyst"`
}

// DefaultOpportunityThresholds returns the documented production gates.
func DefaultOpportunityThresholds() OpportunityThresholds {
	return OpportunityThresholds{
		SqueezeStructure:      75,
		SqueezeSocial:         60,
		MomentumTechnical:     70,
		MomentumSocial:        60,
		GemFundamental:        60,
		GemSocialMax:          30,
		TrapFundamentalMax:    35,
		TrapTechnical:         55,
		ValueFundamental:      65,
		ValueAnalyst:          55,
		GrowthFundamental:     55,
		GrowthTechnical:       55,
		GrowthSocialBelow:     60,
		ContrarianSocialMax:   25,
		ContrarianFundamental: 55,
		ContrarianAnalyst:     55,
	}
}

// Validate bounds every gate to the score range.
func (t OpportunityThresholds) Validate() error {
	for name, v := range map[string]float64{
		"opportunity.squeeze_structure":      t.SqueezeStructure,
		"opportunity.squeeze_social":         t.SqueezeSocial,
		"opportunity.momentum_technical":     t.MomentumTechnical,
		"opportunity.momentum_social":        t.MomentumSocial,
		"opportunity.gem_fundamental":        t.GemFundamental,
		"opportunity.gem_social_max":         t.GemSocialMax,
		"opportunity.trap_fundamental_max":   t.TrapFundamentalMax,
		"opportunity.trap_technical":         t.TrapTechnical,
		"opportunity.value_fundamental":      t.ValueFundamental,
		"opportunity.value_analyst":          t.ValueAnalyst,
		"opportunity.growth_fundamental":     t.GrowthFundamental,
		"opportunity.growth_technical":       t.GrowthTechnical,
		"opportunity.growth_social_below":    t.GrowthSocialBelow,
		"opportunity.contrarian_social_max":  t.ContrarianSocialMax,
		"opportunity.contrarian_fundamental": t.ContrarianFundamental,
		"opportunity.contrarian_analyst":     t.ContrarianAnalyst,
	} {
		if v < 0 || v > 100 {
			return &ConfigurationError{Reason: name + " outside [0,100]"}
		}
	}
	return nil
}

// opportunityRule pairs a predicate with the label it assigns.
type opportunityRule struct {
	label OpportunityType
	match func(ComponentSet, OpportunityThresholds) bool
}

// opportunityRules is evaluated in fixed priority order, most specific
// signal first. Reordering changes outcomes on overlapping inputs, so the
// order is part of the contract.
var opportunityRules = []opportunityRule{
	{OpportunityShortSqueeze, func(c ComponentSet, t OpportunityThresholds) bool {
		return atLeast(c.Structure, t.SqueezeStructure) && atLeast(c.Social, t.SqueezeSocial)
	}},
	{OpportunityMomentum, func(c ComponentSet, t OpportunityThresholds) bool {
		return atLeast(c.Technical, t.MomentumTechnical) && atLeast(c.Social, t.MomentumSocial)
	}},
	{OpportunityHiddenGem, func(c ComponentSet, t OpportunityThresholds) bool {
		return atLeast(c.Fundamental, t.GemFundamental) && atMost(c.Social, t.GemSocialMax)
	}},
	{OpportunityValueTrap, func(c ComponentSet, t OpportunityThresholds) bool {
		return atMost(c.Fundamental, t.TrapFundamentalMax) && atLeast(c.Technical, t.TrapTechnical)
	}},
	{OpportunityValue, func(c ComponentSet, t OpportunityThresholds) bool {
		return atLeast(c.Fundamental, t.ValueFundamental) && atLeast(c.Analyst, t.ValueAnalyst)
	}},
	{OpportunityGrowth, func(c ComponentSet, t OpportunityThresholds) bool {
		return atLeast(c.Fundamental, t.GrowthFundamental) &&
			atLeast(c.Technical, t.GrowthTechnical) &&
			below(c.Social, t.GrowthSocialBelow)
	}},
	{OpportunityContrarian, func(c ComponentSet, t OpportunityThresholds) bool {
		return atMost(c.Social, t.ContrarianSocialMax) &&
			(atLeast(c.Fundamental, t.ContrarianFundamental) || atLeast(c.Analyst, t.ContrarianAnalyst))
	}},
}

// ClassifyOpportunity maps a component pattern to exactly one label. Every
// input classifies; anything no rule claims is neutral.
func ClassifyOpportunity(c ComponentSet, t OpportunityThresholds) OpportunityType {
	for _, rule := range opportunityRules {
		if rule.match(c, t) {
			return rule.label
		}
	}
	return OpportunityNeutral
}
