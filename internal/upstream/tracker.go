package upstream

import (
	"sync"

	"item-appraiser/internal/metrics"
)

// State represents the health state of an upstream target.
type State int

const (
	Healthy State = iota
	Unhealthy
)

func (s State) String() string {
	if s == Unhealthy {
		return "unhealthy"
	}
	return "healthy"
}

// Target tracks the health-related state for a single upstream target
type Target struct {
	Name         string
	State        State
	FailureCount int
	SuccessCount int
}

// Tracker manages the health state of upstream targets, usually one per
// configured model.
type Tracker struct {
	mu      sync.RWMutex
	targets map[string]*Target
	policy  HealthPolicy
	metrics *metrics.Registry
}

// NewTracker creates a new Tracker
func NewTracker(policy HealthPolicy, metricsRegistry *metrics.Registry) *Tracker {
	if policy.FailureThreshold <= 0 {
		policy.FailureThreshold = 1
	}
	if policy.SuccessThreshold <= 0 {
		policy.SuccessThreshold = 1
	}
	return &Tracker{
		targets: make(map[string]*Target),
		policy:  policy,
		metrics: metricsRegistry,
	}
}

// Add registers a new target
func (t *Tracker) Add(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.targets[name]; !exists {
		t.targets[name] = &Target{
			Name:  name,
			State: Healthy,
		}
	}
}

// MarkFailure records a failed call against a target
func (t *Tracker) MarkFailure(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	target, ok := t.targets[name]
	if !ok {
		return
	}
	t.metrics.Inc(metrics.UpstreamFailuresTotal)

	target.FailureCount++
	target.SuccessCount = 0
	if target.State == Healthy && target.FailureCount >= t.policy.FailureThreshold {
		target.State = Unhealthy
		t.metrics.Inc(metrics.UpstreamUnhealthy)
	}
}

// MarkSuccess records a successful call against a target
func (t *Tracker) MarkSuccess(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	target, ok := t.targets[name]
	if !ok {
		return
	}
	target.SuccessCount++
	target.FailureCount = 0
	if target.State == Unhealthy && target.SuccessCount >= t.policy.SuccessThreshold {
		target.State = Healthy
		t.metrics.Add(metrics.UpstreamUnhealthy, -1)
		t.metrics.Inc(metrics.UpstreamRecoveriesTotal)
	}
}

func (t *Tracker) IsHealthy(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	target, ok := t.targets[name]
	return ok && target.State == Healthy
}

func (t *Tracker) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, 0, len(t.targets))
	for name := range t.targets {
		out = append(out, name)
	}
	return out
}

// Snapshot returns a copy of every tracked target.
func (t *Tracker) Snapshot() []Target {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Target, 0, len(t.targets))
	for _, target := range t.targets {
		out = append(out, *target)
	}
	return out
}
