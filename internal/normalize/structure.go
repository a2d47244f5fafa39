package normalize

import "github.com/retailscan/retailscan/internal/engine"

// ScoreStructure normalizes share-structure readings to 0-100: the
// provider's squeeze composite up to 40 points, short interest up to 25,
// float tightness up to 15, lending utilization up to 10, and borrow cost up
// to 10.
func ScoreStructure(s *StructureSnapshot) engine.ComponentScore {
	if s == nil {
		return engine.MissingScore()
	}

	score := s.SqueezeScore * 0.4

	switch {
	case s.ShortInterest > 30:
		score += 25
	case s.ShortInterest > 20:
		score += 20
	case s.ShortInterest > 15:
		score += 15
	case s.ShortInterest > 10:
		score += 10
	case s.ShortInterest > 5:
		score += 5
	}

	// A tight float amplifies any covering pressure.
	if s.SharesOutstanding > 0 && s.FloatShares > 0 {
		floatRatio := s.FloatShares / s.SharesOutstanding
		switch {
		case floatRatio < 0.3:
			score += 15
		case floatRatio < 0.5:
			score += 12
		case floatRatio < 0.7:
			score += 8
		default:
			score += 5
		}
	}

	if s.UtilizationRate != nil {
		switch u := *s.UtilizationRate; {
		case u > 90:
			score += 10
		case u > 80:
			score += 8
		case u > 70:
			score += 6
		case u > 60:
			score += 4
		}
	}

	if s.CostToBorrow != nil {
		switch c := *s.CostToBorrow; {
		case c > 50:
			score += 10
		case c > 25:
			score += 8
		case c > 10:
			score += 6
		case c > 5:
			score += 4
		}
	}

	completeness := engine.CompletenessFull
	if s.UtilizationRate == nil || s.CostToBorrow == nil {
		completeness = engine.CompletenessPartial
	}

	metrics := map[string]float64{
		"short_interest": s.ShortInterest,
		"squeeze_score":  s.SqueezeScore,
	}
	if s.UtilizationRate != nil {
		metrics["utilization_rate"] = *s.UtilizationRate
	}
	if s.CostToBorrow != nil {
		metrics["cost_to_borrow"] = *s.CostToBorrow
	}

	return engine.ComponentScore{
		Value:        clampScore(score),
		Completeness: completeness,
		Metrics:      metrics,
	}
}
