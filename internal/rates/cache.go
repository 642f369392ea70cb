// Package rates caches the exchange-rate table for the lifetime of a
// session.
package rates

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/donaldgifford/trip-market/internal/metrics"
	"github.com/donaldgifford/trip-market/pkg/logger"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// Source loads a fresh rate table.
type Source func(ctx context.Context) (domain.RateTable, error)

// Option configures a Cache.
type Option func(*Cache)

// WithTTL makes cached tables expire. Zero keeps a table for the lifetime of
// the cache.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		c.ttl = d
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(c *Cache) {
		c.nowFunc = f
	}
}

// WithLogger sets the cache's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		c.log = l
	}
}

// Cache holds the last rate table loaded from its Source.
type Cache struct {
	source  Source
	ttl     time.Duration
	nowFunc func() time.Time
	log     *slog.Logger

	mu        sync.Mutex
	table     domain.RateTable
	fetchedAt time.Time
}

// NewCache creates an empty cache over source.
func NewCache(source Source, opts ...Option) *Cache {
	c := &Cache{source: source, nowFunc: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logger.Component(c.log, "rates")
	return c
}

// Table returns the cached table, loading it first if the cache is empty or
// expired. If a reload fails while an older table is held, the older table
// is returned without error.
func (c *Cache) Table(ctx context.Context) (domain.RateTable, error) {
	c.mu.Lock()
	fresh := c.table != nil && (c.ttl <= 0 || c.nowFunc().Sub(c.fetchedAt) < c.ttl)
	table := c.table
	c.mu.Unlock()

	if fresh {
		return table, nil
	}

	if err := c.Refresh(ctx); err != nil {
		if table != nil {
			c.log.Warn("using stale rate table", "error", err)
			return table, nil
		}
		return domain.RateTable{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table, nil
}

// Refresh reloads the table from the source unconditionally.
func (c *Cache) Refresh(ctx context.Context) error {
	raw, err := c.source(ctx)
	if err != nil {
		metrics.RateRefreshesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("loading exchange rates: %w", err)
	}

	table := Normalize(raw)

	c.mu.Lock()
	c.table = table
	c.fetchedAt = c.nowFunc()
	c.mu.Unlock()

	metrics.RateRefreshesTotal.WithLabelValues("ok").Inc()
	metrics.RateTableSize.Set(float64(len(table)))
	c.log.Debug("exchange rates loaded", "currencies", len(table))
	return nil
}

// Snapshot returns the held table and when it was loaded, without loading.
func (c *Cache) Snapshot() (domain.RateTable, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.table, c.fetchedAt
}

// Normalize upper-cases codes, drops unusable rates and rescales the table
// so the base currency has rate 1. A table without the base currency is
// assumed to already be relative to it.
func Normalize(raw domain.RateTable) domain.RateTable {
	out := make(domain.RateTable, len(raw)+1)
	for code, r := range raw {
		if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		out[strings.ToUpper(strings.TrimSpace(code))] = r
	}

	if base, ok := out[domain.BaseCurrency]; ok && base != 1 {
		scaled := make(domain.RateTable, len(out))
		for code, r := range out {
			scaled[code] = r / base
		}
		out = scaled
	}
	out[domain.BaseCurrency] = 1
	return out
}

// Static returns a Source that always yields a copy of table.
func Static(table domain.RateTable) Source {
	return func(context.Context) (domain.RateTable, error) {
		return maps.Clone(table), nil
	}
}
