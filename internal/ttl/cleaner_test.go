package ttl

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"item-appraiser/internal/logs"
	"item-appraiser/internal/metrics"
	"item-appraiser/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* ---------------- Mock Store ---------------- */

type mockStore struct {
	calls int32
}

func (m *mockStore) Sweep() int {
	return int(atomic.AddInt32(&m.calls, 1))
}

/* ---------------- Manual Ticker ---------------- */

type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               { m.stopped.Store(true) }

func (m *manualTicker) factory() TickerFactory {
	return func(time.Duration) Ticker { return m }
}

type fixedClock struct{ now atomic.Pointer[time.Time] }

func (c *fixedClock) Now() time.Time { return *c.now.Load() }
func (c *fixedClock) Set(t time.Time) {
	c.now.Store(&t)
}

/* ---------------- Tests ---------------- */

func TestCleaner_RunOnce_RemovesExpiredAndUpdatesMetrics(t *testing.T) {
	st := &mockStore{}
	reg := metrics.NewRegistry()
	logger := logs.NewLogger(10, logs.DEBUG)

	cleaner := NewCleaner(st, time.Second, logger, reg)

	removed := cleaner.runOnce()

	assert.Equal(t, 1, removed)
	assert.Equal(t, int32(1), atomic.LoadInt32(&st.calls))

	snap := reg.Snapshot()
	assert.Equal(t, int64(1), snap[string(metrics.SweepRunsTotal)])
	assert.Equal(t, int64(1), snap[string(metrics.SweepRemovedTotal)])
}

func TestCleaner_Start_SweepsOnEachTick(t *testing.T) {
	st := &mockStore{}
	reg := metrics.NewRegistry()
	logger := logs.NewLogger(10, logs.DEBUG)
	ticker := newManualTicker()

	cleaner := NewCleaner(st, time.Hour, logger, reg).WithTicker(ticker.factory())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cleaner.Start(ctx)
		close(done)
	}()

	ticker.ch <- time.Now()
	ticker.ch <- time.Now()

	assert.Eventually(t, func() bool {
		return reg.Value(metrics.SweepRunsTotal) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.True(t, ticker.stopped.Load())
}

func TestCleaner_Start_StopsOnContextCancel(t *testing.T) {
	st := &mockStore{}
	reg := metrics.NewRegistry()
	logger := logs.NewLogger(10, logs.DEBUG)
	ticker := newManualTicker()

	cleaner := NewCleaner(st, time.Hour, logger, reg).WithTicker(ticker.factory())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NotPanics(t, func() {
		cleaner.Start(ctx)
	})
	assert.Equal(t, int64(0), reg.Value(metrics.SweepRunsTotal))

	entries := logger.GetLast(1)
	require.Len(t, entries, 1)
	assert.Equal(t, "ttl cleaner stopped", entries[0].Message)
}

func TestCleaner_Start_WallTicker(t *testing.T) {
	st := &mockStore{}
	reg := metrics.NewRegistry()
	logger := logs.NewLogger(10, logs.DEBUG)

	cleaner := NewCleaner(st, 5*time.Millisecond, logger, reg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go cleaner.Start(ctx)

	assert.Eventually(t, func() bool {
		return reg.Value(metrics.SweepRunsTotal) >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestCleaner_SweepsRealStoreWithSimulatedTime(t *testing.T) {
	reg := metrics.NewRegistry()
	logger := logs.NewLogger(10, logs.DEBUG)

	clock := &fixedClock{}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(start)

	shares := store.NewStore[string](store.Options{TTL: 2 * time.Hour, Clock: clock}, reg)
	_, err := shares.Put("a")
	require.NoError(t, err)
	_, err = shares.Put("b")
	require.NoError(t, err)

	ticker := newManualTicker()
	cleaner := NewCleaner(shares, time.Hour, logger, reg).WithTicker(ticker.factory())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cleaner.Start(ctx)

	clock.Set(start.Add(time.Hour))
	ticker.ch <- clock.Now()
	assert.Eventually(t, func() bool { return reg.Value(metrics.SweepRunsTotal) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, shares.Len())

	clock.Set(start.Add(3 * time.Hour))
	ticker.ch <- clock.Now()
	assert.Eventually(t, func() bool { return shares.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return reg.Value(metrics.SweepRemovedTotal) == 2 }, time.Second, 5*time.Millisecond)
}

func TestNewCleaner_DefaultInterval(t *testing.T) {
	cleaner := NewCleaner(&mockStore{}, 0, logs.NewLogger(1, logs.INFO), metrics.NewRegistry())
	assert.Equal(t, DefaultInterval, cleaner.interval)
}
