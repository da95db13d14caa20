package alerts

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts the current time so evaluations are testable.
type Clock interface {
	Now() time.Time
}

// systemClock reads the real wall clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// StateStore persists small bits of evaluator state (last-shown timestamps)
// across evaluation passes. The reference system kept these browser-local;
// here the storage medium is injected so the evaluator stays pure.
type StateStore interface {
	// Get returns the stored timestamp for key, if any.
	Get(ctx context.Context, key string) (time.Time, bool)

	// Put stores the timestamp for key, replacing any previous value.
	Put(ctx context.Context, key string, t time.Time)
}

// InMemoryStateStore implements StateStore with a mutex-guarded map.
type InMemoryStateStore struct {
	mu sync.RWMutex
	m  map[string]time.Time
}

// NewInMemoryStateStore creates an empty state store.
func NewInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{m: make(map[string]time.Time)}
}

// Get returns the stored timestamp for key, if any.
func (s *InMemoryStateStore) Get(ctx context.Context, key string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.m[key]
	return t, ok
}

// Put stores the timestamp for key.
func (s *InMemoryStateStore) Put(ctx context.Context, key string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = t
}
