package memory

import (
	"context"
	"errors"
	"sync"

	v1 "github.com/aevon-lab/siteflow/internal/api/v1"
	"github.com/aevon-lab/siteflow/internal/core/storage"
	"github.com/google/uuid"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("memory store closed")

// EventStore is an in-memory implementation of storage.EventStore.
// Useful for testing and development.
type EventStore struct {
	mu     sync.RWMutex
	events []*v1.Event
	ids    map[string]struct{}
	bySite map[string][]int
	closed bool
}

// NewEventStore creates an empty in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		ids:    make(map[string]struct{}),
		bySite: make(map[string][]int),
	}
}

func (s *EventStore) Append(ctx context.Context, event *v1.Event) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrClosed
	}

	// Store a copy to prevent external modification
	copy := *event
	if copy.ID == "" {
		copy.ID = uuid.NewString()
	}
	if _, exists := s.ids[copy.ID]; exists {
		return "", storage.ErrDuplicate
	}

	s.ids[copy.ID] = struct{}{}
	s.bySite[copy.SiteID] = append(s.bySite[copy.SiteID], len(s.events))
	s.events = append(s.events, &copy)
	return copy.ID, nil
}

func (s *EventStore) Query(ctx context.Context, pred storage.Predicate) (storage.EventIterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	var result []*v1.Event
	for _, idx := range s.bySite[pred.SiteID] {
		evt := s.events[idx]
		if !pred.Match(evt) {
			continue
		}
		copy := *evt
		result = append(result, &copy)
	}
	return storage.NewSliceIterator(result), nil
}

// Len returns the number of stored events.
func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

func (s *EventStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *EventStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
