package metrics

import (
	"context"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// MetricKey is a strongly typed metric identifier.
type MetricKey string

// Metric keys (centralized)
const (
	// Share store
	ShareEntries       MetricKey = "share_entries"
	SharePutsTotal     MetricKey = "share_puts_total"
	ShareGetsTotal     MetricKey = "share_gets_total"
	ShareMissesTotal   MetricKey = "share_misses_total"
	ShareExpiredTotal  MetricKey = "share_expired_total"
	ShareRejectedTotal MetricKey = "share_rejected_total"

	// Sweeper
	SweepRunsTotal    MetricKey = "sweep_runs_total"
	SweepRemovedTotal MetricKey = "sweep_removed_total"

	// HTTP
	HTTPRequestsTotal MetricKey = "http_requests_total"
	HTTPErrorsTotal   MetricKey = "http_requests_errors_total"
	HTTPPanicsTotal   MetricKey = "http_panics_total"

	// Endpoints
	AnalyzeRequestsTotal MetricKey = "analyze_requests_total"
	ChatRequestsTotal    MetricKey = "chat_requests_total"
	ExportRequestsTotal  MetricKey = "export_requests_total"

	// Upstream model API
	UpstreamAttemptsTotal   MetricKey = "upstream_attempts_total"
	UpstreamFailuresTotal   MetricKey = "upstream_failures_total"
	UpstreamRetriesTotal    MetricKey = "upstream_retries_total"
	UpstreamTimeoutsTotal   MetricKey = "upstream_timeouts_total"
	UpstreamUnhealthy       MetricKey = "upstream_unhealthy"
	UpstreamRecoveriesTotal MetricKey = "upstream_recoveries_total"

	// Probe
	ProbeRunsTotal     MetricKey = "probe_runs_total"
	ProbeSuccessTotal  MetricKey = "probe_success_total"
	ProbeFailuresTotal MetricKey = "probe_failures_total"
)

// Registry stores all metrics.
//
// Every update is mirrored to an OpenTelemetry up/down counter obtained
// from the global meter provider. Without an installed provider the
// mirror is a no-op.
type Registry struct {
	mu          sync.RWMutex
	counters    map[MetricKey]*int64
	meter       metric.Meter
	instruments map[MetricKey]metric.Int64UpDownCounter
}

// NewRegistry creates a metrics registry.
func NewRegistry() *Registry {
	return &Registry{
		counters:    make(map[MetricKey]*int64),
		meter:       otel.GetMeterProvider().Meter("item-appraiser"),
		instruments: make(map[MetricKey]metric.Int64UpDownCounter),
	}
}

// Inc increments a metric by 1.
func (r *Registry) Inc(key MetricKey) {
	r.Add(key, 1)
}

// Add increments a metric by delta.
func (r *Registry) Add(key MetricKey, delta int64) {
	r.counter(key, delta)

	if inst := r.instrument(key); inst != nil {
		inst.Add(context.Background(), delta)
	}
}

func (r *Registry) counter(key MetricKey, delta int64) {
	r.mu.RLock()
	ptr, ok := r.counters[key]
	r.mu.RUnlock()

	if ok {
		atomic.AddInt64(ptr, delta)
		return
	}

	// Slow path: metric not yet initialized
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if ptr, ok = r.counters[key]; ok {
		atomic.AddInt64(ptr, delta)
		return
	}

	var val int64
	r.counters[key] = &val
	atomic.AddInt64(&val, delta)
}

func (r *Registry) instrument(key MetricKey) metric.Int64UpDownCounter {
	r.mu.RLock()
	inst, ok := r.instruments[key]
	r.mu.RUnlock()
	if ok {
		return inst
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if inst, ok = r.instruments[key]; ok {
		return inst
	}

	inst, err := r.meter.Int64UpDownCounter(string(key))
	if err != nil {
		inst = nil
	}
	r.instruments[key] = inst
	return inst
}
