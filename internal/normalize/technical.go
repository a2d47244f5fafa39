package normalize

import "github.com/retailscan/retailscan/internal/engine"

// ScoreTechnical normalizes indicator readings to 0-100: RSI band up to 25
// points, MACD signal up to 15, Bollinger position up to 15, trend up to 20,
// detected pattern up to 15, volume spike 10, and moving-average alignment 5.
func ScoreTechnical(t *TechnicalSnapshot) engine.ComponentScore {
	if t == nil {
		return engine.MissingScore()
	}

	score := 0.0

	// Deep oversold outranks neutral; deep overbought is nearly worthless.
	switch {
	case t.RSI < 20:
		score += 25
	case t.RSI >= 30 && t.RSI <= 70:
		score += 20
	case (t.RSI >= 20 && t.RSI < 30) || (t.RSI > 70 && t.RSI <= 80):
		score += 15
	case t.RSI > 80:
		score += 5
	}

	switch t.MACDSignal {
	case TrendBullish:
		score += 15
	case TrendNeutral:
		score += 7
	}

	switch {
	case t.BollingerPosition < 0.2:
		score += 15 // hugging the lower band
	case t.BollingerPosition <= 0.8:
		score += 10
	default:
		score += 5
	}

	switch t.TrendDirection {
	case TrendBullish:
		score += 20
	case TrendNeutral:
		score += 10
	}

	if t.PatternDetected {
		score += t.PatternConfidence * 15
	}

	if t.VolumeSpike {
		score += 10
	}

	if t.SMA20 > 0 && t.SMA50 > 0 {
		if t.Price > t.SMA20 && t.SMA20 > t.SMA50 {
			score += 5
		} else if t.Price > t.SMA20 {
			score += 2
		}
	}

	completeness := engine.CompletenessFull
	if t.SMA20 == 0 || t.SMA50 == 0 {
		completeness = engine.CompletenessPartial
	}

	return engine.ComponentScore{
		Value:        clampScore(score),
		Completeness: completeness,
		Metrics: map[string]float64{
			"rsi":                t.RSI,
			"bollinger_position": t.BollingerPosition,
			"pattern_confidence": t.PatternConfidence,
		},
	}
}
