package scan

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailscan/retailscan/internal/engine"
	"github.com/retailscan/retailscan/internal/normalize"
)

type fakeProvider struct {
	mu        sync.Mutex
	calls     map[string]int
	snapshots map[string]*normalize.Snapshot
	failures  map[string]int // fail this many calls before succeeding
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		calls:     map[string]int{},
		snapshots: map[string]*normalize.Snapshot{},
		failures:  map[string]int{},
	}
}

func (p *fakeProvider) Snapshot(_ context.Context, symbol string) (*normalize.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls[symbol]++
	if p.failures[symbol] >= p.calls[symbol] {
		return nil, errors.New("collector unavailable")
	}
	snap, ok := p.snapshots[symbol]
	if !ok {
		return nil, errors.New("unknown symbol")
	}
	return snap, nil
}

func hypeSnapshot(symbol string, sentiment float64, shortInterest float64) *normalize.Snapshot {
	return &normalize.Snapshot{
		Symbol: symbol,
		Social: &normalize.SocialSnapshot{
			Sentiment:   sentiment,
			Mentions:    800,
			VolumeTrend: normalize.TrendBullish,
		},
		Structure: &normalize.StructureSnapshot{
			ShortInterest: shortInterest,
			SqueezeScore:  70,
		},
	}
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng, err := engine.New(nil)
	require.NoError(t, err)
	return eng
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RPS = 1000 // keep tests fast
	cfg.Burst = 1000
	return cfg
}

func TestScanner_Run_SortsByScore(t *testing.T) {
	provider := newFakeProvider()
	provider.snapshots["HOT"] = hypeSnapshot("HOT", 0.9, 30)
	provider.snapshots["COLD"] = hypeSnapshot("COLD", -0.8, 2)

	scanner := NewScanner(testEngine(t), provider, testConfig())
	summary := scanner.Run(context.Background(), []string{"COLD", "HOT"})

	require.Equal(t, 2, summary.Assessed)
	assert.Zero(t, summary.Failed)
	require.Len(t, summary.Results, 2)
	assert.Equal(t, "HOT", summary.Results[0].Symbol)
	assert.Greater(t, summary.Results[0].Assessment.Score, summary.Results[1].Assessment.Score)
	assert.NotEmpty(t, summary.RunID)
}

func TestScanner_Run_IsolatesFailures(t *testing.T) {
	provider := newFakeProvider()
	provider.snapshots["GOOD"] = hypeSnapshot("GOOD", 0.5, 12)
	// BROKEN has no snapshot registered and keeps failing.

	scanner := NewScanner(testEngine(t), provider, testConfig())
	summary := scanner.Run(context.Background(), []string{"GOOD", "BROKEN"})

	assert.Equal(t, 1, summary.Assessed)
	assert.Equal(t, 1, summary.Failed)

	// Failures sort after every assessed symbol.
	require.Len(t, summary.Results, 2)
	assert.Equal(t, "GOOD", summary.Results[0].Symbol)
	assert.Equal(t, "BROKEN", summary.Results[1].Symbol)
	assert.Nil(t, summary.Results[1].Assessment)
	assert.NotEmpty(t, summary.Results[1].Error)
}

func TestScanner_Run_RetriesTransientFailures(t *testing.T) {
	provider := newFakeProvider()
	provider.snapshots["FLAKY"] = hypeSnapshot("FLAKY", 0.4, 18)
	provider.failures["FLAKY"] = 2 // recovers on the third call

	cfg := testConfig()
	cfg.MaxRetries = 3
	scanner := NewScanner(testEngine(t), provider, cfg)

	summary := scanner.Run(context.Background(), []string{"FLAKY"})

	assert.Equal(t, 1, summary.Assessed)
	assert.GreaterOrEqual(t, provider.calls["FLAKY"], 3)
}

func TestFileProvider_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	snap := hypeSnapshot("GME", 0.8, 28)
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "GME.json"), raw, 0o644))

	provider := NewFileProvider(dir)
	loaded, err := provider.Snapshot(context.Background(), "gme")
	require.NoError(t, err)
	assert.Equal(t, "GME", loaded.Symbol)
	require.NotNil(t, loaded.Social)
	assert.InDelta(t, 0.8, loaded.Social.Sentiment, 0.0001)

	_, err = provider.Snapshot(context.Background(), "MISSING")
	assert.Error(t, err)
}

type nilSnapshotProvider struct{}

func (nilSnapshotProvider) Snapshot(context.Context, string) (*normalize.Snapshot, error) {
	return nil, nil
}

func TestRun_NilSnapshotIsFailure(t *testing.T) {
	eng, err := engine.New(nil)
	require.NoError(t, err)

	scanner := NewScanner(eng, nilSnapshotProvider{}, Config{Workers: 1, RPS: 100})
	summary := scanner.Run(context.Background(), []string{"GME"})

	require.Len(t, summary.Results, 1)
	res := summary.Results[0]
	assert.ErrorIs(t, res.Err, errNilSnapshot)
	assert.Nil(t, res.Assessment)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Assessed)
}
