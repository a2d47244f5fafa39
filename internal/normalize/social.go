package normalize

import (
	"strings"

	"github.com/retailscan/retailscan/internal/engine"
)

var bullishKeywords = map[string]bool{
	"moon": true, "rocket": true, "diamond": true, "hodl": true,
	"squeeze": true, "buy": true, "calls": true,
}

var bearishKeywords = map[string]bool{
	"sell": true, "puts": true, "crash": true, "dump": true,
}

// ScoreSocial normalizes retail chatter to 0-100: base sentiment up to 40
// points, mention volume up to 30, trend direction up to 15, influencer
// pickup up to 15, and a keyword tilt worth at most ±10.
func ScoreSocial(s *SocialSnapshot) engine.ComponentScore {
	if s == nil {
		return engine.MissingScore()
	}

	score := 0.0

	// Sentiment arrives in -1..1.
	sentimentPts := (s.Sentiment + 1) * 20
	if sentimentPts > 40 {
		sentimentPts = 40
	}
	score += sentimentPts

	score += mentionsPoints(s.Mentions)

	switch s.VolumeTrend {
	case TrendBullish:
		score += 15
	case TrendNeutral:
		score += 7
	}

	switch {
	case s.InfluencerMentions > 20:
		score += 15
	case s.InfluencerMentions > 10:
		score += 10
	case s.InfluencerMentions > 5:
		score += 5
	}

	tilt := 0.0
	for _, kw := range s.TopKeywords {
		kw = strings.ToLower(kw)
		if bullishKeywords[kw] {
			tilt += 2
		} else if bearishKeywords[kw] {
			tilt -= 2
		}
	}
	if tilt > 10 {
		tilt = 10
	}
	if tilt < -10 {
		tilt = -10
	}
	score += tilt

	completeness := engine.CompletenessFull
	if s.Mentions == 0 {
		completeness = engine.CompletenessPartial
	}

	return engine.ComponentScore{
		Value:        clampScore(score),
		Completeness: completeness,
		Metrics: map[string]float64{
			"sentiment":           s.Sentiment,
			"mentions":            float64(s.Mentions),
			"influencer_mentions": float64(s.InfluencerMentions),
		},
	}
}

func mentionsPoints(mentions int) float64 {
	switch {
	case mentions > 1000:
		return 30
	case mentions > 500:
		return 25
	case mentions > 200:
		return 20
	case mentions > 100:
		return 15
	case mentions > 50:
		return 10
	case mentions > 10:
		return 5
	default:
		return 0
	}
}
