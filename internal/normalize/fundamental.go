package normalize

import "github.com/retailscan/retailscan/internal/engine"

// ScoreFundamental normalizes balance-sheet readings to 0-100: valuation up
// to 30 points, revenue growth up to 25, profitability up to 25, and
// financial health up to 20. Sub-scores for absent metrics are skipped, and
// the result is flagged partial.
func ScoreFundamental(f *FundamentalSnapshot) engine.ComponentScore {
	if f == nil {
		return engine.MissingScore()
	}

	score := 0.0
	missingAny := false

	// Valuation: average of P/E and P/S ladders, each 0-10, scaled to 30.
	score += (scorePERatio(f.PERatio) + scorePSRatio(f.PSRatio)) / 2 * 3
	if f.PERatio == nil || f.PSRatio == nil {
		missingAny = true
	}

	if f.RevenueGrowthYoY != nil {
		score += scoreGrowth(*f.RevenueGrowthYoY) * 25 / 10
	} else {
		missingAny = true
	}

	if f.ProfitMargin != nil {
		score += scoreProfitMargin(*f.ProfitMargin) * 25 / 10
	} else {
		missingAny = true
	}

	// Health: average whichever of debt, liquidity, and ROE are present.
	healthSum, healthParts := 0.0, 0
	if f.DebtToEquity != nil {
		healthSum += scoreDebtRatio(*f.DebtToEquity)
		healthParts++
	}
	if f.CurrentRatio != nil {
		healthSum += scoreCurrentRatio(*f.CurrentRatio)
		healthParts++
	}
	if f.ROE != nil {
		healthSum += scoreROE(*f.ROE)
		healthParts++
	}
	if healthParts > 0 {
		score += healthSum / float64(healthParts) * 20 / 10
	}
	if healthParts < 3 {
		missingAny = true
	}

	completeness := engine.CompletenessFull
	if missingAny {
		completeness = engine.CompletenessPartial
	}

	metrics := map[string]float64{"market_cap": f.MarketCap}
	if f.PERatio != nil {
		metrics["pe_ratio"] = *f.PERatio
	}
	if f.RevenueGrowthYoY != nil {
		metrics["revenue_growth_yoy"] = *f.RevenueGrowthYoY
	}

	return engine.ComponentScore{
		Value:        clampScore(score),
		Completeness: completeness,
		Metrics:      metrics,
	}
}

func scorePERatio(pe *float64) float64 {
	if pe == nil || *pe < 0 {
		return 1
	}
	switch {
	case *pe < 15:
		return 9
	case *pe < 25:
		return 7
	case *pe < 40:
		return 5
	case *pe < 60:
		return 3
	default:
		return 1
	}
}

func scorePSRatio(ps *float64) float64 {
	if ps == nil {
		return 5
	}
	switch {
	case *ps < 2:
		return 9
	case *ps < 5:
		return 7
	case *ps < 10:
		return 5
	case *ps < 20:
		return 3
	default:
		return 1
	}
}

func scoreGrowth(growthPct float64) float64 {
	switch {
	case growthPct > 50:
		return 10
	case growthPct > 25:
		return 8
	case growthPct > 15:
		return 6
	case growthPct > 5:
		return 5
	case growthPct > 0:
		return 3
	default:
		return 1
	}
}

func scoreProfitMargin(marginPct float64) float64 {
	switch {
	case marginPct > 20:
		return 10
	case marginPct > 15:
		return 8
	case marginPct > 10:
		return 6
	case marginPct > 5:
		return 4
	case marginPct > 0:
		return 2
	default:
		return 1
	}
}

func scoreDebtRatio(debtToEquity float64) float64 {
	switch {
	case debtToEquity < 0.3:
		return 9
	case debtToEquity < 0.6:
		return 7
	case debtToEquity < 1.0:
		return 5
	case debtToEquity < 2.0:
		return 3
	default:
		return 1
	}
}

func scoreCurrentRatio(currentRatio float64) float64 {
	switch {
	case currentRatio > 2.5:
		return 9
	case currentRatio > 1.5:
		return 7
	case currentRatio > 1.0:
		return 5
	case currentRatio > 0.5:
		return 3
	default:
		return 1
	}
}

func scoreROE(roePct float64) float64 {
	switch {
	case roePct > 20:
		return 10
	case roePct > 15:
		return 8
	case roePct > 10:
		return 6
	case roePct > 5:
		return 4
	case roePct > 0:
		return 2
	default:
		return 1
	}
}
