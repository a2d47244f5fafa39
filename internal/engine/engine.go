// Package engine scores a ticker across five independently-sourced signal
// dimensions, classifies risk and opportunity, detects retail-vs-institutional
// divergences, and derives a prioritized alert list. Everything here is a
// pure, stateless computation over already-collected data: no I/O, no shared
// mutable state, safe for concurrent batch evaluation.
package engine

import (
	"fmt"
	"time"
)

// Config carries all weights and thresholds. It is passed in explicitly
// rather than held as process state so assessments stay pure functions of
// their inputs.
type Config struct {
	Weights     Weights               `yaml:"weights" json:"weights"`
	Risk        RiskThresholds        `yaml:"risk" json:"risk"`
	Opportunity OpportunityThresholds `yaml:"opportunity" json:"opportunity"`
	Divergence  DivergenceThresholds  `yaml:"divergence" json:"divergence"`
	Alerts      AlertThresholds       `yaml:"alerts" json:"alerts"`
}

// DefaultConfig returns the documented production configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights:     DefaultWeights(),
		Risk:        DefaultRiskThresholds(),
		Opportunity: DefaultOpportunityThresholds(),
		Divergence:  DefaultDivergenceThresholds(),
		Alerts:      DefaultAlertThresholds(),
	}
}

// Validate checks every weight and threshold. Any failure is a
// ConfigurationError and must stop the engine before it assesses anything.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if err := c.Risk.Validate(); err != nil {
		return err
	}
	if err := c.Opportunity.Validate(); err != nil {
		return err
	}
	if err := c.Divergence.Validate(); err != nil {
		return err
	}
	return c.Alerts.Validate()
}

// Assessment is the composite output for one symbol in one analysis run.
// Created fresh per invocation and never mutated afterward.
type Assessment struct {
	Symbol      string          `json:"symbol"`
	Timestamp   time.Time       `json:"timestamp"`
	Components  ComponentSet    `json:"components"`
	Score       float64         `json:"score"`
	Confidence  float64         `json:"confidence"`
	Risk        RiskLevel       `json:"risk"`
	Opportunity OpportunityType `json:"opportunity"`
	Divergences []Divergence    `json:"divergences,omitempty"`
}

// Engine evaluates assessments under a validated configuration.
type Engine struct {
	cfg Config
}

// New builds an engine. A nil config selects defaults; an invalid one fails
// construction with a ConfigurationError.
func New(cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: *cfg}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Assess is the single public scoring entry point: a pure function of the
// symbol, its component scores, and the engine configuration. Input errors
// fail only this symbol; callers running a batch keep going.
func (e *Engine) Assess(symbol string, components ComponentSet) (*Assessment, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if err := components.Validate(); err != nil {
		return nil, fmt.Errorf("assess %s: %w", symbol, err)
	}

	composite, confidence := Score(components, e.cfg.Weights)

	return &Assessment{
		Symbol:      symbol,
		Timestamp:   time.Now().UTC(),
		Components:  components,
		Score:       composite,
		Confidence:  confidence,
		Risk:        ClassifyRisk(components, e.cfg.Risk),
		Opportunity: ClassifyOpportunity(components, e.cfg.Opportunity),
		Divergences: DetectDivergences(components, e.cfg.Divergence),
	}, nil
}

// AlertsFor re-derives the alert list from an assessment. Usable on a stored
// assessment independently of Assess; repeated calls yield identical output.
func (e *Engine) AlertsFor(a *Assessment) []Alert {
	return GenerateAlerts(a, e.cfg.Alerts)
}
