package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_IncAndAdd(t *testing.T) {
	r := NewRegistry()

	r.Inc(SharePutsTotal)
	r.Add(SharePutsTotal, 2)

	snap := r.Snapshot()
	assert.Equal(t, int64(3), snap[string(SharePutsTotal)])
}

func TestRegistry_MultipleMetrics(t *testing.T) {
	r := NewRegistry()

	r.Inc(ShareGetsTotal)
	r.Inc(ShareMissesTotal)
	r.Add(SweepRemovedTotal, 5)

	snap := r.Snapshot()

	assert.Equal(t, int64(1), snap[string(ShareGetsTotal)])
	assert.Equal(t, int64(1), snap[string(ShareMissesTotal)])
	assert.Equal(t, int64(5), snap[string(SweepRemovedTotal)])
}

func TestRegistry_NegativeDeltaActsAsGauge(t *testing.T) {
	r := NewRegistry()

	r.Add(ShareEntries, 3)
	r.Add(ShareEntries, -2)

	assert.Equal(t, int64(1), r.Snapshot()[string(ShareEntries)])
}

func TestRegistry_ConcurrentUpdates(t *testing.T) {
	r := NewRegistry()
	wg := sync.WaitGroup{}

	workers := 50
	increments := 100

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				r.Inc(UpstreamAttemptsTotal)
			}
		}()
	}

	wg.Wait()

	snap := r.Snapshot()
	assert.Equal(t, int64(workers*increments), snap[string(UpstreamAttemptsTotal)])
}

func TestRegistry_SnapshotIsDeepCopy(t *testing.T) {
	r := NewRegistry()

	r.Inc(ShareEntries)
	snap1 := r.Snapshot()

	// Mutate snapshot
	snap1[string(ShareEntries)] = 999

	// Fetch fresh snapshot
	snap2 := r.Snapshot()

	assert.Equal(t, int64(1), snap2[string(ShareEntries)],
		"internal state should not be affected by snapshot mutation")
}

func TestRegistry_UnknownMetricHandledGracefully(t *testing.T) {
	r := NewRegistry()

	r.Inc("unknown_metric")

	snap := r.Snapshot()
	assert.Equal(t, int64(1), snap["unknown_metric"])
}

func TestRegistry_Value(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, int64(0), r.Value(ProbeRunsTotal))

	r.Add(ProbeRunsTotal, 4)
	assert.Equal(t, int64(4), r.Value(ProbeRunsTotal))
}
