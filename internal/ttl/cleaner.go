package ttl

import (
	"context"
	"time"

	"item-appraiser/internal/logs"
	"item-appraiser/internal/metrics"
)

// DefaultInterval is how often expired shares are swept.
const DefaultInterval = time.Hour

// Store defines the minimal contract required by the TTL cleaner
// This keeps the cleaner interface decoupled from the concrete store implementation
type Store interface {
	Sweep() int
}

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates the ticker that drives the cleanup loop.
type TickerFactory func(interval time.Duration) Ticker

type wallTicker struct {
	t *time.Ticker
}

func (w wallTicker) C() <-chan time.Time { return w.t.C }
func (w wallTicker) Stop()               { w.t.Stop() }

// NewWallTicker is the default TickerFactory backed by time.Ticker.
func NewWallTicker(interval time.Duration) Ticker {
	return wallTicker{t: time.NewTicker(interval)}
}

// Cleaner periodically removes expired entries from the store
type Cleaner struct {
	store     Store
	interval  time.Duration
	logger    *logs.Logger
	metrics   *metrics.Registry
	newTicker TickerFactory
}

// NewCleaner creates a new instance of TTL Cleaner
func NewCleaner(
	store Store,
	interval time.Duration,
	logger *logs.Logger,
	metricsRegistry *metrics.Registry,
) *Cleaner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Cleaner{
		store:     store,
		interval:  interval,
		logger:    logger,
		metrics:   metricsRegistry,
		newTicker: NewWallTicker,
	}
}

// WithTicker replaces the ticker factory, mainly so tests can drive
// the loop without real delays.
func (c *Cleaner) WithTicker(factory TickerFactory) *Cleaner {
	if factory != nil {
		c.newTicker = factory
	}
	return c
}

// Start runs the cleanup loop until the context is cancelled.
// It blocks and should typically be run in a separate goroutine.
func (c *Cleaner) Start(ctx context.Context) {
	ticker := c.newTicker(c.interval)
	defer ticker.Stop()

	c.logger.Debugf("ttl cleaner started, interval %s", c.interval)

	for {
		select {
		case <-ticker.C():
			c.runOnce()
		case <-ctx.Done():
			c.logger.Debug("ttl cleaner stopped")
			return
		}
	}
}

// runOnce performs a single cleanup cycle
func (c *Cleaner) runOnce() int {
	removed := c.store.Sweep()

	c.metrics.Inc(metrics.SweepRunsTotal)
	if removed > 0 {
		c.metrics.Add(metrics.SweepRemovedTotal, int64(removed))
		c.logger.Infof("ttl cleaner removed %d expired shares", removed)
	}
	return removed
}
