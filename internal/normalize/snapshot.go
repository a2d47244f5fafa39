// Package normalize converts raw per-source collector payloads into bounded
// 0-100 component scores with completeness flags. Collectors themselves
// (Reddit, market data, filings, short-interest feeds) live outside this
// module; normalize only consumes their snapshots.
package normalize

import "github.com/retailscan/retailscan/internal/engine"

// Trend is the coarse direction flag collectors attach to social volume,
// MACD, and price action.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendNeutral Trend = "neutral"
	TrendBearish Trend = "bearish"
)

// Rating is the analyst consensus bucket.
type Rating string

const (
	RatingStrongBuy  Rating = "strong_buy"
	RatingBuy        Rating = "buy"
	RatingHold       Rating = "hold"
	RatingSell       Rating = "sell"
	RatingStrongSell Rating = "strong_sell"
)

// SocialSnapshot aggregates retail chatter across platforms.
type SocialSnapshot struct {
	Sentiment          float64  `json:"sentiment"` // -1..1
	Mentions           int      `json:"mentions"`
	VolumeTrend        Trend    `json:"volume_trend"`
	InfluencerMentions int      `json:"influencer_mentions"`
	TopKeywords        []string `json:"top_keywords,omitempty"`
}

// TechnicalSnapshot carries indicator readings for one symbol.
type TechnicalSnapshot struct {
	Price             float64 `json:"price"`
	RSI               float64 `json:"rsi"`
	MACDSignal        Trend   `json:"macd_signal"`
	BollingerPosition float64 `json:"bollinger_position"` // 0..1 within bands
	TrendDirection    Trend   `json:"trend_direction"`
	PatternDetected   bool    `json:"pattern_detected"`
	PatternConfidence float64 `json:"pattern_confidence"` // 0..1
	VolumeSpike       bool    `json:"volume_spike"`
	SMA20             float64 `json:"sma_20,omitempty"`
	SMA50             float64 `json:"sma_50,omitempty"`
}

// FundamentalSnapshot carries balance-sheet and valuation readings. Nil
// pointers mark metrics the provider could not supply.
type FundamentalSnapshot struct {
	MarketCap        float64  `json:"market_cap"`
	PERatio          *float64 `json:"pe_ratio,omitempty"`
	PSRatio          *float64 `json:"ps_ratio,omitempty"`
	RevenueGrowthYoY *float64 `json:"revenue_growth_yoy,omitempty"` // percent
	ProfitMargin     *float64 `json:"profit_margin,omitempty"`      // percent
	DebtToEquity     *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio     *float64 `json:"current_ratio,omitempty"`
	ROE              *float64 `json:"roe,omitempty"` // percent
}

// AnalystSnapshot carries sell-side coverage readings.
type AnalystSnapshot struct {
	Consensus         Rating  `json:"consensus"`
	NumAnalysts       int     `json:"num_analysts"`
	PriceTargetUpside float64 `json:"price_target_upside"` // percent vs spot
	RecentUpgrades    int     `json:"recent_upgrades"`
	RecentDowngrades  int     `json:"recent_downgrades"`
}

// StructureSnapshot carries share-structure and short-interest readings.
type StructureSnapshot struct {
	SharesOutstanding float64  `json:"shares_outstanding"`
	FloatShares       float64  `json:"float_shares"`
	ShortInterest     float64  `json:"short_interest"` // percent of float
	SqueezeScore      float64  `json:"squeeze_score"`  // provider composite, 0-100
	UtilizationRate   *float64 `json:"utilization_rate,omitempty"`
	CostToBorrow      *float64 `json:"cost_to_borrow,omitempty"`
}

// Snapshot is the raw material for one assessment. A nil section means that
// collector was unavailable and normalizes to a missing component.
type Snapshot struct {
	Symbol      string               `json:"symbol"`
	Social      *SocialSnapshot      `json:"social,omitempty"`
	Technical   *TechnicalSnapshot   `json:"technical,omitempty"`
	Fundamental *FundamentalSnapshot `json:"fundamental,omitempty"`
	Analyst     *AnalystSnapshot     `json:"analyst,omitempty"`
	Structure   *StructureSnapshot   `json:"structure,omitempty"`
}

// Components normalizes every section into the engine's component set.
func (s *Snapshot) Components() engine.ComponentSet {
	return engine.ComponentSet{
		Social:      ScoreSocial(s.Social),
		Technical:   ScoreTechnical(s.Technical),
		Fundamental: ScoreFundamental(s.Fundamental),
		Analyst:     ScoreAnalyst(s.Analyst),
		Structure:   ScoreStructure(s.Structure),
	}
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
