package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(nil)
	require.NoError(t, err)
	return eng
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Social = 0.5 // sum now 1.25

	_, err := New(cfg)
	require.Error(t, err)
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestAssess_RequiresSymbol(t *testing.T) {
	eng := newTestEngine(t)
	_, err := eng.Assess("", components(50, 50, 50, 50, 50))
	assert.Error(t, err)
}

func TestAssess_RejectsOutOfRangeValue(t *testing.T) {
	eng := newTestEngine(t)

	c := components(50, 50, 50, 50, 50)
	c.Technical.Value = 104

	_, err := eng.Assess("TSLA", c)
	require.Error(t, err)
	var inputErr *InvalidInputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, FactorTechnical, inputErr.Factor)

	// One bad symbol must not poison the engine for the next one.
	a, err := eng.Assess("NVDA", components(50, 50, 50, 50, 50))
	require.NoError(t, err)
	assert.Equal(t, "NVDA", a.Symbol)
}

func TestAssess_RejectsUnknownCompleteness(t *testing.T) {
	eng := newTestEngine(t)

	c := components(50, 50, 50, 50, 50)
	c.Analyst.Completeness = "stale"

	_, err := eng.Assess("TSLA", c)
	var inputErr *InvalidInputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, FactorAnalyst, inputErr.Factor)
}

// Hyped small-cap with crowded shorts: high score, high risk, squeeze label,
// squeeze divergence.
func TestAssess_SqueezeCandidate(t *testing.T) {
	eng := newTestEngine(t)

	a, err := eng.Assess("GME", components(85, 72, 46, 38, 92))
	require.NoError(t, err)

	assert.InDelta(t, 69.55, a.Score, 0.0001)
	assert.InDelta(t, 1.0, a.Confidence, 0.0001)
	assert.Equal(t, RiskHigh, a.Risk)
	assert.Equal(t, OpportunityShortSqueeze, a.Opportunity)
	assert.Contains(t, divergenceTypes(a.Divergences), DivergenceShortSqueezeSetup)
}

// Quality name the crowd ignores: analysts bullish, retail absent. The
// hidden-gem rule outranks the value rule on this overlap, and the
// accumulation divergence fires without any squeeze signal.
func TestAssess_IgnoredQualityName(t *testing.T) {
	eng := newTestEngine(t)

	a, err := eng.Assess("XYZ", components(20, 40, 75, 80, 30))
	require.NoError(t, err)

	assert.Equal(t, OpportunityHiddenGem, a.Opportunity)
	types := divergenceTypes(a.Divergences)
	assert.Contains(t, types, DivergenceRetailBearishInstBullish)
	assert.NotContains(t, types, DivergenceShortSqueezeSetup)
}

// Analyst-backed value name with enough retail attention to stay out of the
// hidden-gem bucket.
func TestAssess_ValueCandidate(t *testing.T) {
	eng := newTestEngine(t)

	a, err := eng.Assess("VZ", components(40, 40, 75, 80, 30))
	require.NoError(t, err)
	assert.Equal(t, OpportunityValue, a.Opportunity)
}

// Only the technical collector responded.
func TestAssess_SingleFactor(t *testing.T) {
	eng := newTestEngine(t)

	c := ComponentSet{
		Social:      MissingScore(),
		Technical:   full(64),
		Fundamental: MissingScore(),
		Analyst:     MissingScore(),
		Structure:   MissingScore(),
	}
	a, err := eng.Assess("HOOD", c)
	require.NoError(t, err)

	assert.InDelta(t, 0.25, a.Confidence, 0.0001)
	assert.InDelta(t, 64.0, a.Score, 0.0001)

	// Thin coverage must surface as an advisory alert.
	alerts := eng.AlertsFor(a)
	require.NotEmpty(t, alerts)
	assert.Equal(t, TriggerLowConfidence, alerts[len(alerts)-1].Trigger)
}

// Cheap for a reason: weak fundamentals under a firm tape.
func TestAssess_ValueTrap(t *testing.T) {
	eng := newTestEngine(t)

	c := ComponentSet{
		Social:      MissingScore(),
		Technical:   full(60),
		Fundamental: full(20),
		Analyst:     MissingScore(),
		Structure:   MissingScore(),
	}
	a, err := eng.Assess("WISH", c)
	require.NoError(t, err)

	assert.Equal(t, OpportunityValueTrap, a.Opportunity)
	assert.Contains(t, divergenceTypes(a.Divergences), DivergenceValueTrap)
	assert.Equal(t, RiskHigh, a.Risk)
}

func TestAssess_AllMissing(t *testing.T) {
	eng := newTestEngine(t)

	c := ComponentSet{
		Social:      MissingScore(),
		Technical:   MissingScore(),
		Fundamental: MissingScore(),
		Analyst:     MissingScore(),
		Structure:   MissingScore(),
	}
	a, err := eng.Assess("DARK", c)
	require.NoError(t, err)

	assert.Zero(t, a.Score)
	assert.Zero(t, a.Confidence)
	assert.Equal(t, RiskMedium, a.Risk)
	assert.Equal(t, OpportunityNeutral, a.Opportunity)
	assert.Empty(t, a.Divergences)
}

func TestAlertsFor_StableAcrossCalls(t *testing.T) {
	eng := newTestEngine(t)

	a, err := eng.Assess("AMC", components(85, 72, 46, 38, 92))
	require.NoError(t, err)

	first, errFirst := json.Marshal(eng.AlertsFor(a))
	second, errSecond := json.Marshal(eng.AlertsFor(a))
	require.NoError(t, errFirst)
	require.NoError(t, errSecond)
	assert.Equal(t, first, second, "re-derived alert lists must be byte-identical")
}

func TestAssessment_RoundTripsAsJSON(t *testing.T) {
	eng := newTestEngine(t)

	a, err := eng.Assess("GME", components(85, 72, 46, 38, 92))
	require.NoError(t, err)

	raw, err := json.Marshal(a)
	require.NoError(t, err)

	var decoded Assessment
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, a.Symbol, decoded.Symbol)
	assert.Equal(t, a.Score, decoded.Score)
	assert.Equal(t, a.Risk, decoded.Risk)
	assert.Equal(t, a.Opportunity, decoded.Opportunity)
	assert.Equal(t, a.Divergences, decoded.Divergences)
}
