package upstream

import (
	"context"
	"time"

	"item-appraiser/internal/logs"
	"item-appraiser/internal/metrics"
)

// CheckFunc verifies that a named upstream target is reachable.
type CheckFunc func(ctx context.Context, name string) error

// Prober periodically checks upstream reachability and feeds the
// result into the Tracker.
type Prober struct {
	tracker *Tracker
	check   CheckFunc
	policy  ProbePolicy
	logger  *logs.Logger
	metrics *metrics.Registry
}

// NewProber creates a new Prober
func NewProber(
	tracker *Tracker,
	check CheckFunc,
	policy ProbePolicy,
	logger *logs.Logger,
	metricsRegistry *metrics.Registry,
) *Prober {
	return &Prober{
		tracker: tracker,
		check:   check,
		policy:  policy,
		logger:  logger,
		metrics: metricsRegistry,
	}
}

// Enabled reports whether a probe interval is configured.
func (p *Prober) Enabled() bool {
	return p.policy.Interval > 0
}

// Start begins the probe loop
// Stops immediately when the ctx is cancelled
func (p *Prober) Start(ctx context.Context) {
	if !p.Enabled() {
		return
	}

	ticker := time.NewTicker(p.policy.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.runOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Prober) runOnce(ctx context.Context) {
	for _, name := range p.tracker.Names() {
		p.metrics.Inc(metrics.ProbeRunsTotal)

		checkCtx := ctx
		cancel := func() {}
		if p.policy.Timeout > 0 {
			checkCtx, cancel = context.WithTimeout(ctx, p.policy.Timeout)
		}
		err := p.check(checkCtx, name)
		cancel()

		// Shutting down; the result says nothing about the target.
		if ctx.Err() != nil {
			return
		}

		if err != nil {
			p.metrics.Inc(metrics.ProbeFailuresTotal)
			p.tracker.MarkFailure(name)
			p.logger.Warnf("upstream probe failed for %s: %v", name, err)
			continue
		}

		p.metrics.Inc(metrics.ProbeSuccessTotal)
		p.tracker.MarkSuccess(name)
	}
}
