package normalize

import "github.com/retailscan/retailscan/internal/engine"

// ScoreAnalyst normalizes sell-side coverage to 0-100: consensus rating up
// to 40 points, price-target upside up to 30, coverage breadth up to 15, and
// net recent rating changes worth -5..15.
func ScoreAnalyst(a *AnalystSnapshot) engine.ComponentScore {
	if a == nil {
		return engine.MissingScore()
	}

	score := 0.0

	switch a.Consensus {
	case RatingStrongBuy:
		score += 40
	case RatingBuy:
		score += 30
	case RatingHold:
		score += 15
	case RatingSell:
		score += 5
	case RatingStrongSell:
		score += 0
	default:
		score += 15 // unknown consensus reads as hold
	}

	switch {
	case a.PriceTargetUpside > 50:
		score += 30
	case a.PriceTargetUpside > 25:
		score += 25
	case a.PriceTargetUpside > 15:
		score += 20
	case a.PriceTargetUpside > 5:
		score += 15
	case a.PriceTargetUpside > 0:
		score += 10
	case a.PriceTargetUpside > -10:
		score += 5
	}

	switch {
	case a.NumAnalysts > 20:
		score += 15
	case a.NumAnalysts > 15:
		score += 12
	case a.NumAnalysts > 10:
		score += 10
	case a.NumAnalysts > 5:
		score += 7
	case a.NumAnalysts > 2:
		score += 5
	}

	netChanges := a.RecentUpgrades - a.RecentDowngrades
	switch {
	case netChanges > 3:
		score += 15
	case netChanges > 1:
		score += 10
	case netChanges == 1:
		score += 5
	case netChanges == 0:
		score += 3
	case netChanges < -1:
		score -= 5
	}

	// Nobody covering the name means the consensus is hollow.
	completeness := engine.CompletenessFull
	if a.NumAnalysts == 0 {
		completeness = engine.CompletenessPartial
	}

	return engine.ComponentScore{
		Value:        clampScore(score),
		Completeness: completeness,
		Metrics: map[string]float64{
			"num_analysts":        float64(a.NumAnalysts),
			"price_target_upside": a.PriceTargetUpside,
			"net_rating_changes":  float64(netChanges),
		},
	}
}
