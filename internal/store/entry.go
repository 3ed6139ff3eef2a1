package store

import "time"

// Entry is a single stored payload.
//
// Entries are never updated in place; ExpiresAt is fixed at insertion as
// CreatedAt plus the store TTL.
type Entry[V any] struct {
	ID        string
	Payload   V
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the entry must no longer be served at now.
// An entry is still live at exactly ExpiresAt.
func (e Entry[V]) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
