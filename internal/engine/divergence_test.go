package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func divergenceTypes(found []Divergence) []DivergenceType {
	types := make([]DivergenceType, len(found))
	for i, d := range found {
		types[i] = d.Type
	}
	return types
}

func TestDetectDivergences_Patterns(t *testing.T) {
	thresholds := DefaultDivergenceThresholds()

	tests := []struct {
		name     string
		c        ComponentSet
		expected []DivergenceType
	}{
		{
			"retail bullish vs institutional bearish",
			components(75, 50, 50, 30, 40),
			[]DivergenceType{DivergenceRetailBullishInstBearish},
		},
		{
			"retail bearish vs institutional bullish",
			components(25, 50, 50, 75, 40),
			[]DivergenceType{DivergenceRetailBearishInstBullish},
		},
		{
			"squeeze setup",
			components(65, 50, 50, 50, 80),
			[]DivergenceType{DivergenceShortSqueezeSetup},
		},
		{
			"hidden gem",
			components(20, 50, 70, 50, 40),
			[]DivergenceType{DivergenceHiddenGem},
		},
		{
			"value trap",
			components(50, 60, 25, 50, 40),
			[]DivergenceType{DivergenceValueTrap},
		},
		{
			"quiet tape",
			components(50, 50, 50, 50, 50),
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := DetectDivergences(tt.c, thresholds)
			assert.Equal(t, tt.expected, divergenceTypes(found))
		})
	}
}

func TestDetectDivergences_MultipleConcurrent(t *testing.T) {
	thresholds := DefaultDivergenceThresholds()

	// Euphoric retail, bearish analysts, crowded shorts: two high-severity
	// findings must co-occur, no early exit.
	c := components(75, 50, 50, 30, 80)
	found := DetectDivergences(c, thresholds)

	require.Len(t, found, 2)
	assert.Equal(t, DivergenceRetailBullishInstBearish, found[0].Type)
	assert.Equal(t, DivergenceShortSqueezeSetup, found[1].Type)
	for _, d := range found {
		assert.Equal(t, SeverityHigh, d.Severity)
		assert.NotEmpty(t, d.Message)
	}
}

func TestDetectDivergences_Severities(t *testing.T) {
	severities := map[DivergenceType]Severity{}
	for _, p := range divergencePatterns {
		severities[p.finding.Type] = p.finding.Severity
	}

	assert.Equal(t, SeverityHigh, severities[DivergenceRetailBullishInstBearish])
	assert.Equal(t, SeverityMedium, severities[DivergenceRetailBearishInstBullish])
	assert.Equal(t, SeverityHigh, severities[DivergenceShortSqueezeSetup])
	assert.Equal(t, SeverityMedium, severities[DivergenceHiddenGem])
	assert.Equal(t, SeverityMedium, severities[DivergenceValueTrap])
}

func TestDetectDivergences_PatternIndependence(t *testing.T) {
	thresholds := DefaultDivergenceThresholds()

	// Value trap fires on fundamental+technical; sweeping analyst through
	// its whole range must not alter it.
	for _, analyst := range []float64{0, 35, 70, 100} {
		c := components(50, 60, 25, analyst, 40)
		found := DetectDivergences(c, thresholds)
		assert.Contains(t, divergenceTypes(found), DivergenceValueTrap,
			"value trap lost at analyst=%v", analyst)
	}

	// And toggling structure must not alter the retail-vs-analyst patterns.
	for _, structure := range []float64{0, 50, 100} {
		c := components(75, 50, 50, 30, structure)
		found := DetectDivergences(c, thresholds)
		assert.Contains(t, divergenceTypes(found), DivergenceRetailBullishInstBearish,
			"retail divergence lost at structure=%v", structure)
	}
}

func TestDetectDivergences_MissingFactorsNeverTrigger(t *testing.T) {
	thresholds := DefaultDivergenceThresholds()

	// Missing social reads as value 0; that must not fake retail pessimism
	// or low attention.
	c := components(0, 50, 70, 75, 40)
	c.Social = MissingScore()

	found := DetectDivergences(c, thresholds)
	assert.NotContains(t, divergenceTypes(found), DivergenceRetailBearishInstBullish)
	assert.NotContains(t, divergenceTypes(found), DivergenceHiddenGem)
}
