package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/retailscan/retailscan/internal/engine"
)

// Cache keeps the latest assessment per symbol in Redis so the API can serve
// reads without recomputation.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache connects a cache client. TTL bounds how stale a served
// assessment can be.
func NewCache(addr string, db int, ttl time.Duration) *Cache {
	return &Cache{
		rdb: redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		ttl: ttl,
	}
}

func assessmentKey(symbol string) string {
	return "retailscan:assessment:" + symbol
}

// PutAssessment stores the assessment under its symbol.
func (c *Cache) PutAssessment(ctx context.Context, a *engine.Assessment) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal assessment %s: %w", a.Symbol, err)
	}
	if err := c.rdb.Set(ctx, assessmentKey(a.Symbol), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache assessment %s: %w", a.Symbol, err)
	}
	return nil
}

// GetAssessment returns the cached assessment or ErrNotFound.
func (c *Cache) GetAssessment(ctx context.Context, symbol string) (*engine.Assessment, error) {
	raw, err := c.rdb.Get(ctx, assessmentKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache read %s: %w", symbol, err)
	}

	var a engine.Assessment
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode cached assessment %s: %w", symbol, err)
	}
	return &a, nil
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}
