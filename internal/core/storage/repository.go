package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
)

// ErrDuplicate is returned when an event with the same ID already exists.
// Only reachable when the worker derives event IDs from job IDs.
var ErrDuplicate = errors.New("event already exists")

// Predicate selects the events of one site, optionally within [From, To).
type Predicate struct {
	SiteID string
	From   time.Time // zero means unbounded
	To     time.Time // zero means unbounded
}

// Bounded reports whether the predicate restricts the timestamp range.
func (p Predicate) Bounded() bool {
	return !p.From.IsZero() || !p.To.IsZero()
}

// Match reports whether evt satisfies the predicate.
func (p Predicate) Match(evt *v1.Event) bool {
	if evt.SiteID != p.SiteID {
		return false
	}
	if !p.From.IsZero() && evt.Timestamp.Before(p.From) {
		return false
	}
	if !p.To.IsZero() && !evt.Timestamp.Before(p.To) {
		return false
	}
	return true
}

// EventIterator streams query results. Callers must Close it.
type EventIterator interface {
	Next(ctx context.Context) bool
	Event() *v1.Event
	Err() error
	Close() error
}

// EventStore is the append-only persisted collection of events.
type EventStore interface {
	// Append inserts one new record and returns its stored ID.
	Append(ctx context.Context, event *v1.Event) (string, error)

	// Query returns the events matching the predicate.
	Query(ctx context.Context, pred Predicate) (EventIterator, error)

	Ping(ctx context.Context) error
	Close() error
}
