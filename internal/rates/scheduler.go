package rates

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/trip-market/pkg/logger"
)

// Refresher reloads a Cache on a fixed interval.
type Refresher struct {
	cron  *cron.Cron
	cache *Cache
	log   *slog.Logger
}

// NewRefresher creates a Refresher that reloads cache every interval.
func NewRefresher(cache *Cache, interval time.Duration, log *slog.Logger) (*Refresher, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid refresh interval %s", interval)
	}

	c := cron.New()

	r := &Refresher{
		cron:  c,
		cache: cache,
		log:   logger.Component(log, "rates-refresher"),
	}

	if _, err := c.AddFunc("@every "+interval.String(), r.run); err != nil {
		return nil, err
	}

	return r, nil
}

// Start begins running scheduled refreshes.
func (r *Refresher) Start() {
	r.log.Info("rate refresher started")
	r.cron.Start()
}

// Stop stops the refresher, waiting for a running refresh to finish.
func (r *Refresher) Stop() context.Context {
	r.log.Info("rate refresher stopping")
	return r.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (r *Refresher) Entries() []cron.Entry {
	return r.cron.Entries()
}

func (r *Refresher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := r.cache.Refresh(ctx); err != nil {
		r.log.Error("scheduled rate refresh failed", "error", err)
	}
}
