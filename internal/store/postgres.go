// Package store persists watchlist entries, generated alerts, and cached
// assessments for the API and CLI layers. The engine itself never touches
// it.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/retailscan/retailscan/internal/engine"
)

// ErrNotFound marks a lookup that matched nothing.
var ErrNotFound = errors.New("store: not found")

// WatchlistEntry is one tracked symbol.
type WatchlistEntry struct {
	Symbol  string    `db:"symbol" json:"symbol"`
	Notes   string    `db:"notes" json:"notes,omitempty"`
	Active  bool      `db:"active" json:"active"`
	AddedAt time.Time `db:"added_at" json:"added_at"`
}

// Store wraps the Postgres connection.
type Store struct {
	db *sqlx.DB
}

// Open connects and pings.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{db: db}, nil
}

// New wraps an existing connection, mainly for tests.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if absent.
func (s *Store) Migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS watchlist (
	symbol   TEXT PRIMARY KEY,
	notes    TEXT NOT NULL DEFAULT '',
	active   BOOLEAN NOT NULL DEFAULT TRUE,
	added_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS alerts (
	symbol     TEXT NOT NULL,
	trigger    TEXT NOT NULL,
	priority   TEXT NOT NULL,
	message    TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (symbol, trigger)
);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// AddSymbol inserts or reactivates a watchlist entry.
func (s *Store) AddSymbol(ctx context.Context, symbol, notes string) error {
	const q = `
INSERT INTO watchlist (symbol, notes, active)
VALUES ($1, $2, TRUE)
ON CONFLICT (symbol) DO UPDATE SET notes = EXCLUDED.notes, active = TRUE`
	if _, err := s.db.ExecContext(ctx, q, symbol, notes); err != nil {
		return fmt.Errorf("add symbol %s: %w", symbol, err)
	}
	return nil
}

// RemoveSymbol deactivates an entry; history stays.
func (s *Store) RemoveSymbol(ctx context.Context, symbol string) error {
	const q = `UPDATE watchlist SET active = FALSE WHERE symbol = $1`
	res, err := s.db.ExecContext(ctx, q, symbol)
	if err != nil {
		return fmt.Errorf("remove symbol %s: %w", symbol, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSymbols returns watchlist entries, optionally only active ones.
func (s *Store) ListSymbols(ctx context.Context, activeOnly bool) ([]WatchlistEntry, error) {
	q := `SELECT symbol, notes, active, added_at FROM watchlist ORDER BY symbol`
	if activeOnly {
		q = `SELECT symbol, notes, active, added_at FROM watchlist WHERE active ORDER BY symbol`
	}
	var entries []WatchlistEntry
	if err := s.db.SelectContext(ctx, &entries, q); err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	return entries, nil
}

// ActiveSymbols returns just the symbols to scan.
func (s *Store) ActiveSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	const q = `SELECT symbol FROM watchlist WHERE active ORDER BY symbol`
	if err := s.db.SelectContext(ctx, &symbols, q); err != nil {
		return nil, fmt.Errorf("active symbols: %w", err)
	}
	return symbols, nil
}

// SaveAlerts upserts on the (symbol, trigger) identity, so re-scanning an
// unchanged assessment rewrites the same rows instead of accumulating
// duplicates.
func (s *Store) SaveAlerts(ctx context.Context, alerts []engine.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	const q = `
INSERT INTO alerts (symbol, trigger, priority, message, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (symbol, trigger)
DO UPDATE SET priority = EXCLUDED.priority, message = EXCLUDED.message, updated_at = now()`

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}
	defer tx.Rollback()

	for _, a := range alerts {
		if _, err := tx.ExecContext(ctx, q, a.Symbol, a.Trigger, string(a.Priority), a.Message); err != nil {
			return fmt.Errorf("save alert %s/%s: %w", a.Symbol, a.Trigger, err)
		}
	}
	return tx.Commit()
}

// AlertsFor returns the stored alerts for one symbol, high priority first.
func (s *Store) AlertsFor(ctx context.Context, symbol string) ([]engine.Alert, error) {
	const q = `
SELECT symbol, trigger, priority, message FROM alerts
WHERE symbol = $1
ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, trigger`

	rows, err := s.db.QueryxContext(ctx, q, symbol)
	if err != nil {
		return nil, fmt.Errorf("alerts for %s: %w", symbol, err)
	}
	defer rows.Close()

	var alerts []engine.Alert
	for rows.Next() {
		var sym, trigger, priority, message string
		if err := rows.Scan(&sym, &trigger, &priority, &message); err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		alerts = append(alerts, engine.Alert{
			Symbol:   sym,
			Trigger:  trigger,
			Priority: engine.Priority(priority),
			Message:  message,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return alerts, nil
}
