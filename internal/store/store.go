package store

import (
	"errors"
	"sync"
	"time"

	"item-appraiser/internal/metrics"
)

const (
	// DefaultTTL is the retention window for shared snapshots.
	DefaultTTL = 7 * 24 * time.Hour

	// DefaultMaxEntries bounds the number of live entries.
	DefaultMaxEntries = 10000

	maxIDAttempts = 5
)

var (
	// ErrCapacityExceeded is returned by Put when the store is full even
	// after expired entries have been swept.
	ErrCapacityExceeded = errors.New("store: capacity exceeded")

	// ErrIDCollision is returned by Put when the id generator keeps
	// producing ids that are already in use.
	ErrIDCollision = errors.New("store: could not allocate a unique id")
)

// Options configures a Store. Zero values fall back to defaults.
type Options struct {
	TTL        time.Duration
	MaxEntries int
	Clock      Clock
	NewID      IDGenerator
}

// Store is a concurrency-safe in-memory cache of opaque payloads with a
// fixed time-to-live.
//
// Expired entries are never returned. They are removed lazily by Get, by
// the sweep Put runs before inserting, and by the periodic cleaner that
// calls Sweep. The store is volatile: nothing survives a restart.
type Store[V any] struct {
	mu         sync.Mutex
	data       map[string]Entry[V]
	ttl        time.Duration
	maxEntries int
	clock      Clock
	newID      IDGenerator
	metrics    *metrics.Registry
}

// NewStore initializes and returns a new Store.
func NewStore[V any](opts Options, metricsRegistry *metrics.Registry) *Store[V] {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.NewID == nil {
		opts.NewID = NewXID
	}
	if metricsRegistry == nil {
		metricsRegistry = metrics.NewRegistry()
	}

	return &Store[V]{
		data:       make(map[string]Entry[V]),
		ttl:        opts.TTL,
		maxEntries: opts.MaxEntries,
		clock:      opts.Clock,
		newID:      opts.NewID,
		metrics:    metricsRegistry,
	}
}

// TTL returns the retention window applied to new entries.
func (s *Store[V]) TTL() time.Duration {
	return s.ttl
}

// Put stores payload under a freshly generated id and returns the entry.
//
// Expired entries are swept first. If the store is still at capacity the
// payload is rejected with ErrCapacityExceeded.
func (s *Store[V]) Put(payload V) (Entry[V], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.sweepLocked(now)

	if len(s.data) >= s.maxEntries {
		s.metrics.Inc(metrics.ShareRejectedTotal)
		return Entry[V]{}, ErrCapacityExceeded
	}

	id, err := s.allocateIDLocked()
	if err != nil {
		s.metrics.Inc(metrics.ShareRejectedTotal)
		return Entry[V]{}, err
	}

	entry := Entry[V]{
		ID:        id,
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.data[id] = entry

	s.metrics.Inc(metrics.SharePutsTotal)
	s.metrics.Inc(metrics.ShareEntries)

	return entry, nil
}

// allocateIDLocked draws ids until one is unused.
func (s *Store[V]) allocateIDLocked() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, taken := s.data[id]; !taken {
			return id, nil
		}
	}
	return "", ErrIDCollision
}

// Get retrieves a payload from the store.
//
// Behavior:
// - Returns (payload, true) if the id exists and is not expired
// - If the entry is expired, it is deleted and treated as missing
// - Missing, expired and swept ids are indistinguishable to the caller
func (s *Store[V]) Get(id string) (V, bool) {
	entry, ok := s.Lookup(id)
	return entry.Payload, ok
}

// Lookup is Get returning the full entry, including its timestamps.
func (s *Store[V]) Lookup(id string) (Entry[V], bool) {
	s.metrics.Inc(metrics.ShareGetsTotal)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.data[id]
	if !exists {
		s.metrics.Inc(metrics.ShareMissesTotal)
		return Entry[V]{}, false
	}

	if entry.IsExpired(s.clock.Now()) {
		delete(s.data, id)

		s.metrics.Inc(metrics.ShareExpiredTotal)
		s.metrics.Inc(metrics.ShareMissesTotal)
		s.metrics.Add(metrics.ShareEntries, -1)

		return Entry[V]{}, false
	}

	return entry, true
}

// Sweep removes all expired entries and returns how many were removed.
//
// Used by the background cleaner.
func (s *Store[V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sweepLocked(s.clock.Now())
}

func (s *Store[V]) sweepLocked(now time.Time) int {
	removed := 0
	for id, entry := range s.data {
		if entry.IsExpired(now) {
			delete(s.data, id)
			removed++
		}
	}

	if removed > 0 {
		s.metrics.Add(metrics.ShareExpiredTotal, int64(removed))
		s.metrics.Add(metrics.ShareEntries, -int64(removed))
	}

	return removed
}

// Len returns the number of stored entries, expired or not.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.data)
}
