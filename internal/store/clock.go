package store

import (
	"time"

	"github.com/rs/xid"
)

// Clock is the time source used for every TTL comparison.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// IDGenerator produces identifiers for new entries.
type IDGenerator func() string

// NewXID returns a sortable 20 character id made of a timestamp, machine
// and process bytes, and a per-process counter. Ids are unique within
// the process but are not secret.
func NewXID() string {
	return xid.New().String()
}
