package engine

import "sort"

// Priority ranks an alert for downstream consumers.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Alert is a value object derived from an assessment. Identity is
// (symbol, trigger); no timestamps or generated ids, so recomputing the same
// assessment yields byte-identical alerts and downstream re-scans dedupe
// safely.
type Alert struct {
	Symbol   string   `json:"symbol"`
	Priority Priority `json:"priority"`
	Message  string   `json:"message"`
	Trigger  string   `json:"trigger"`
}

// Threshold-trigger identifiers. Divergence alerts use the divergence type
// as their trigger.
const (
	TriggerExceptionalScore = "composite_score_exceptional"
	TriggerStrongHighRisk   = "composite_score_high_risk"
	TriggerLowConfidence    = "low_confidence"
)

const (
	msgExceptionalOpportunity = "exceptional opportunity detected"
	msgStrongWithRisk         = "strong signal with elevated risk"
	msgInsufficientData       = "insufficient data coverage"
)

// AlertThresholds gates alert generation.
type AlertThresholds struct {
	Exceptional     float64 `yaml:"exceptional" json:"exceptional"`           // composite at or above: high priority
	Strong          float64 `yaml:"strong" json:"strong"`                     // composite at or above, below exceptional, risk high: medium
	ConfidenceFloor float64 `yaml:"confidence_floor" json:"confidence_floor"` // below: advisory appended
}

// DefaultAlertThresholds returns the documented production gates.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		Exceptional:     80,
		Strong:          60,
		ConfidenceFloor: 0.4,
	}
}

// Validate bounds the score gates and the confidence floor.
func (t AlertThresholds) Validate() error {
	if t.Exceptional < 0 || t.Exceptional > 100 {
		return &ConfigurationError{Reason: "alerts.exceptional outside [0,100]"}
	}
	if t.Strong < 0 || t.Strong > 100 {
		return &ConfigurationError{Reason: "alerts.strong outside [0,100]"}
	}
	if t.Strong > t.Exceptional {
		return &ConfigurationError{Reason: "alerts.strong above alerts.exceptional"}
	}
	if t.ConfidenceFloor < 0 || t.ConfidenceFloor > 1 {
		return &ConfigurationError{Reason: "alerts.confidence_floor outside [0,1]"}
	}
	return nil
}

// GenerateAlerts converts an assessment into a prioritized alert list:
// descending priority, then stable input order (divergence findings first,
// then composite-score triggers). A confidence reading under the floor
// appends a low-priority advisory so consumers are never handed a thin
// composite score without a visible caveat.
func GenerateAlerts(a *Assessment, t AlertThresholds) []Alert {
	var alerts []Alert

	for _, d := range a.Divergences {
		priority := PriorityMedium
		if d.Severity == SeverityHigh {
			priority = PriorityHigh
		}
		alerts = append(alerts, Alert{
			Symbol:   a.Symbol,
			Priority: priority,
			Message:  d.Message,
			Trigger:  string(d.Type),
		})
	}

	switch {
	case a.Score >= t.Exceptional:
		alerts = append(alerts, Alert{
			Symbol:   a.Symbol,
			Priority: PriorityHigh,
			Message:  msgExceptionalOpportunity,
			Trigger:  TriggerExceptionalScore,
		})
	case a.Score >= t.Strong && a.Risk == RiskHigh:
		alerts = append(alerts, Alert{
			Symbol:   a.Symbol,
			Priority: PriorityMedium,
			Message:  msgStrongWithRisk,
			Trigger:  TriggerStrongHighRisk,
		})
	}

	if a.Confidence < t.ConfidenceFloor {
		alerts = append(alerts, Alert{
			Symbol:   a.Symbol,
			Priority: PriorityLow,
			Message:  msgInsufficientData,
			Trigger:  TriggerLowConfidence,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return priorityRank(alerts[i].Priority) < priorityRank(alerts[j].Priority)
	})
	return alerts
}
