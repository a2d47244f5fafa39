// Package scan runs watchlist batch assessments. The scanner owns the
// network-facing concerns (rate limiting, circuit breaking, retries) so the
// engine stays a pure computation; it never schedules itself.
package scan

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/retailscan/retailscan/internal/engine"
	"github.com/retailscan/retailscan/internal/normalize"
)

// Provider fetches the raw snapshot for one symbol. Implementations wrap the
// external collectors; they are the only network-bound part of a scan.
type Provider interface {
	Snapshot(ctx context.Context, symbol string) (*normalize.Snapshot, error)
}

var errNilSnapshot = errors.New("provider returned no snapshot and no error")

// Config tunes the batch scanner.
type Config struct {
	Workers         int           `yaml:"workers"`          // concurrent assessments
	RPS             float64       `yaml:"rps"`              // provider request rate
	Burst           int           `yaml:"burst"`            // rate limiter burst
	MaxRetries      int           `yaml:"max_retries"`      // per-symbol fetch retries
	BreakerFailures uint32        `yaml:"breaker_failures"` // consecutive failures to open
	BreakerCooldown time.Duration `yaml:"breaker_cooldown"`
}

// DefaultConfig returns conservative scan settings: three workers, matching
// the bounded concurrency the collectors tolerate.
func DefaultConfig() Config {
	return Config{
		Workers:         3,
		RPS:             4,
		Burst:           8,
		MaxRetries:      2,
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
}

// Result is the outcome for one symbol. Err is set when the provider or the
// engine rejected the symbol; one failure never aborts the batch.
type Result struct {
	Symbol     string             `json:"symbol"`
	Assessment *engine.Assessment `json:"assessment,omitempty"`
	Alerts     []engine.Alert     `json:"alerts,omitempty"`
	Err        error              `json:"-"`
	Error      string             `json:"error,omitempty"`
}

// Summary aggregates one scan run, results sorted by composite score
// descending.
type Summary struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Requested int           `json:"requested"`
	Assessed  int           `json:"assessed"`
	Failed    int           `json:"failed"`
	Results   []Result      `json:"results"`
}

// Scanner assesses a symbol list against one engine and one provider.
type Scanner struct {
	engine   *engine.Engine
	provider Provider
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
	cfg      Config
}

// NewScanner wires the resilience stack around a provider.
func NewScanner(eng *engine.Engine, provider Provider, cfg Config) *Scanner {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.RPS <= 0 {
		cfg.RPS = DefaultConfig().RPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.RPS)
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = DefaultConfig().BreakerFailures
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = DefaultConfig().BreakerCooldown
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "snapshot-provider",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
	})

	return &Scanner{
		engine:   eng,
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		breaker:  breaker,
		cfg:      cfg,
	}
}

// Run assesses every symbol with bounded concurrency and returns the sorted
// summary. Per-symbol failures are recorded, not raised.
func (s *Scanner) Run(ctx context.Context, symbols []string) *Summary {
	started := time.Now()
	runID := uuid.NewString()

	log.Info().
		Str("run_id", runID).
		Int("symbols", len(symbols)).
		Int("workers", s.cfg.Workers).
		Msg("scan started")

	jobs := make(chan string)
	results := make([]Result, 0, len(symbols))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				res := s.assessOne(ctx, symbol)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
		}()
	}

	for _, symbol := range symbols {
		jobs <- symbol
	}
	close(jobs)
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool {
		si, sj := resultScore(results[i]), resultScore(results[j])
		if si != sj {
			return si > sj
		}
		return results[i].Symbol < results[j].Symbol
	})

	summary := &Summary{
		RunID:     runID,
		StartedAt: started.UTC(),
		Duration:  time.Since(started),
		Requested: len(symbols),
		Results:   results,
	}
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Assessed++
		}
	}

	log.Info().
		Str("run_id", runID).
		Int("assessed", summary.Assessed).
		Int("failed", summary.Failed).
		Dur("duration", summary.Duration).
		Msg("scan finished")

	return summary
}

func resultScore(r Result) float64 {
	if r.Assessment == nil {
		return -1
	}
	return r.Assessment.Score
}

func (s *Scanner) assessOne(ctx context.Context, symbol string) Result {
	snap, err := s.fetch(ctx, symbol)
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("snapshot fetch failed")
		return Result{Symbol: symbol, Err: err, Error: err.Error()}
	}

	assessment, err := s.engine.Assess(symbol, snap.Components())
	if err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("assessment rejected")
		return Result{Symbol: symbol, Err: err, Error: err.Error()}
	}

	alerts := s.engine.AlertsFor(assessment)
	log.Debug().
		Str("symbol", symbol).
		Float64("score", assessment.Score).
		Str("opportunity", string(assessment.Opportunity)).
		Int("alerts", len(alerts)).
		Msg("symbol assessed")

	return Result{Symbol: symbol, Assessment: assessment, Alerts: alerts}
}

// fetch applies rate limiting, the shared circuit breaker, and capped
// exponential backoff around the provider call.
func (s *Scanner) fetch(ctx context.Context, symbol string) (*normalize.Snapshot, error) {
	var snap *normalize.Snapshot

	attempt := func() error {
		if err := s.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		out, err := s.breaker.Execute(func() (interface{}, error) {
			return s.provider.Snapshot(ctx, symbol)
		})
		if err != nil {
			// An open breaker will not recover within this symbol's retries.
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(err)
			}
			return err
		}
		snap = out.(*normalize.Snapshot)
		if snap == nil {
			// A provider contract violation, not a transient fault.
			return backoff.Permanent(errNilSnapshot)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.cfg.MaxRetries)),
		ctx,
	)
	if err := backoff.Retry(attempt, policy); err != nil {
		return nil, err
	}
	return snap, nil
}
