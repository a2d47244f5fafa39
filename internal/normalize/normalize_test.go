package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailscan/retailscan/internal/engine"
)

func fptr(v float64) *float64 { return &v }

func TestScoreSocial(t *testing.T) {
	s := &SocialSnapshot{
		Sentiment:          0.8,
		Mentions:           600,
		VolumeTrend:        TrendBullish,
		InfluencerMentions: 12,
		TopKeywords:        []string{"moon", "squeeze"},
	}

	cs := ScoreSocial(s)

	// 36 sentiment + 25 mentions + 15 trend + 10 influencers + 4 keywords.
	assert.InDelta(t, 90.0, cs.Value, 0.0001)
	assert.Equal(t, engine.CompletenessFull, cs.Completeness)
	assert.Equal(t, 600.0, cs.Metrics["mentions"])
}

func TestScoreSocial_BearishKeywordTiltAndPartial(t *testing.T) {
	s := &SocialSnapshot{
		Sentiment:   -0.5,
		Mentions:    0,
		VolumeTrend: TrendBearish,
		TopKeywords: []string{"puts", "crash", "dump"},
	}

	cs := ScoreSocial(s)

	// 10 sentiment - 6 keyword tilt; zero mentions flags partial coverage.
	assert.InDelta(t, 4.0, cs.Value, 0.0001)
	assert.Equal(t, engine.CompletenessPartial, cs.Completeness)
}

func TestScoreSocial_KeywordTiltIgnoresCase(t *testing.T) {
	base := &SocialSnapshot{
		Sentiment:   0.0,
		Mentions:    600,
		VolumeTrend: TrendNeutral,
	}

	lower := *base
	lower.TopKeywords = []string{"moon", "rocket"}
	upper := *base
	upper.TopKeywords = []string{"MOON", "Rocket"}

	assert.Equal(t, ScoreSocial(&lower).Value, ScoreSocial(&upper).Value)
	// 20 sentiment + 25 mentions + 7 trend + 4 keyword tilt.
	assert.InDelta(t, 56.0, ScoreSocial(&upper).Value, 0.0001)
}

func TestScoreSocial_Nil(t *testing.T) {
	cs := ScoreSocial(nil)
	assert.True(t, cs.Missing())
	assert.Zero(t, cs.Value)
}

func TestScoreTechnical(t *testing.T) {
	tech := &TechnicalSnapshot{
		Price:             110,
		RSI:               50,
		MACDSignal:        TrendBullish,
		BollingerPosition: 0.5,
		TrendDirection:    TrendBullish,
		PatternDetected:   true,
		PatternConfidence: 0.8,
		VolumeSpike:       true,
		SMA20:             100,
		SMA50:             90,
	}

	cs := ScoreTechnical(tech)

	// 20 RSI + 15 MACD + 10 BB + 20 trend + 12 pattern + 10 spike + 5 MA.
	assert.InDelta(t, 92.0, cs.Value, 0.0001)
	assert.Equal(t, engine.CompletenessFull, cs.Completeness)
}

func TestScoreTechnical_RSIBands(t *testing.T) {
	tests := []struct {
		rsi      float64
		expected float64
	}{
		{10, 25}, // deep oversold outranks neutral
		{25, 15},
		{50, 20},
		{75, 15},
		{90, 5},
	}

	for _, tt := range tests {
		cs := ScoreTechnical(&TechnicalSnapshot{RSI: tt.rsi, BollingerPosition: 0.9})
		// Isolate RSI: bearish MACD/trend score 0, BB > 0.8 adds 5.
		assert.InDelta(t, tt.expected+5, cs.Value, 0.0001, "rsi=%v", tt.rsi)
	}
}

func TestScoreTechnical_MissingAveragesFlagPartial(t *testing.T) {
	cs := ScoreTechnical(&TechnicalSnapshot{RSI: 50, BollingerPosition: 0.5})
	assert.Equal(t, engine.CompletenessPartial, cs.Completeness)
}

func TestScoreFundamental(t *testing.T) {
	f := &FundamentalSnapshot{
		MarketCap:        5e9,
		PERatio:          fptr(10),
		PSRatio:          fptr(1.5),
		RevenueGrowthYoY: fptr(30),
		ProfitMargin:     fptr(18),
		DebtToEquity:     fptr(0.2),
		CurrentRatio:     fptr(2.0),
		ROE:              fptr(18),
	}

	cs := ScoreFundamental(f)

	// 27 valuation + 20 growth + 20 margin + 16 health.
	assert.InDelta(t, 83.0, cs.Value, 0.0001)
	assert.Equal(t, engine.CompletenessFull, cs.Completeness)
}

func TestScoreFundamental_SparseMetricsFlagPartial(t *testing.T) {
	f := &FundamentalSnapshot{
		MarketCap: 1e9,
		PERatio:   fptr(12),
	}

	cs := ScoreFundamental(f)

	assert.Equal(t, engine.CompletenessPartial, cs.Completeness)
	assert.Greater(t, cs.Value, 0.0)
	assert.LessOrEqual(t, cs.Value, 100.0)
}

func TestScoreFundamental_NegativePEReadsWeak(t *testing.T) {
	strong := ScoreFundamental(&FundamentalSnapshot{PERatio: fptr(10), PSRatio: fptr(1)})
	weak := ScoreFundamental(&FundamentalSnapshot{PERatio: fptr(-5), PSRatio: fptr(1)})
	assert.Greater(t, strong.Value, weak.Value)
}

func TestScoreAnalyst(t *testing.T) {
	a := &AnalystSnapshot{
		Consensus:         RatingStrongBuy,
		NumAnalysts:       12,
		PriceTargetUpside: 30,
		RecentUpgrades:    3,
		RecentDowngrades:  1,
	}

	cs := ScoreAnalyst(a)

	// 40 rating + 25 upside + 10 breadth + 10 net upgrades.
	assert.InDelta(t, 85.0, cs.Value, 0.0001)
	assert.Equal(t, engine.CompletenessFull, cs.Completeness)
}

func TestScoreAnalyst_DowngradesPenalize(t *testing.T) {
	base := &AnalystSnapshot{Consensus: RatingHold, NumAnalysts: 8}
	downgraded := &AnalystSnapshot{Consensus: RatingHold, NumAnalysts: 8, RecentDowngrades: 3}

	require.Greater(t, ScoreAnalyst(base).Value, ScoreAnalyst(downgraded).Value)
}

func TestScoreAnalyst_NoCoverageFlagsPartial(t *testing.T) {
	cs := ScoreAnalyst(&AnalystSnapshot{Consensus: RatingHold})
	assert.Equal(t, engine.CompletenessPartial, cs.Completeness)
}

func TestScoreStructure(t *testing.T) {
	s := &StructureSnapshot{
		SharesOutstanding: 100e6,
		FloatShares:       40e6,
		ShortInterest:     25,
		SqueezeScore:      80,
		UtilizationRate:   fptr(85),
		CostToBorrow:      fptr(30),
	}

	cs := ScoreStructure(s)

	// 32 squeeze + 20 short interest + 12 float + 8 utilization + 8 borrow.
	assert.InDelta(t, 80.0, cs.Value, 0.0001)
	assert.Equal(t, engine.CompletenessFull, cs.Completeness)
	assert.Equal(t, 25.0, cs.Metrics["short_interest"])
}

func TestScoreStructure_LendingDataAbsentFlagsPartial(t *testing.T) {
	cs := ScoreStructure(&StructureSnapshot{ShortInterest: 12, SqueezeScore: 40})
	assert.Equal(t, engine.CompletenessPartial, cs.Completeness)
}

func TestSnapshot_Components(t *testing.T) {
	snap := &Snapshot{
		Symbol: "GME",
		Social: &SocialSnapshot{Sentiment: 0.5, Mentions: 300, VolumeTrend: TrendBullish},
		Structure: &StructureSnapshot{
			ShortInterest: 28,
			SqueezeScore:  90,
		},
	}

	c := snap.Components()

	assert.False(t, c.Social.Missing())
	assert.False(t, c.Structure.Missing())
	assert.True(t, c.Technical.Missing())
	assert.True(t, c.Fundamental.Missing())
	assert.True(t, c.Analyst.Missing())
	require.NoError(t, c.Validate())
}
