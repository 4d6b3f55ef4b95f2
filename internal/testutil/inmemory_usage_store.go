package testutil

import (
	"context"
	"sync"

	"github.com/invomate/invomate/internal/types"
)

// InMemoryUsageStore is an in-memory usage.Repository for tests. Counts are
// set directly rather than derived from other stores.
type InMemoryUsageStore struct {
	mu     sync.RWMutex
	counts map[types.ResourceKind]int
	err    error
}

func NewInMemoryUsageStore() *InMemoryUsageStore {
	return &InMemoryUsageStore{counts: make(map[types.ResourceKind]int)}
}

// SetCount fixes the reported usage for a kind.
func (s *InMemoryUsageStore) SetCount(kind types.ResourceKind, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[kind] = count
}

// SetError makes every operation fail with err. Pass nil to clear.
func (s *InMemoryUsageStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *InMemoryUsageStore) Count(ctx context.Context, kind types.ResourceKind) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return 0, s.err
	}
	return s.counts[kind], nil
}

func (s *InMemoryUsageStore) Record(ctx context.Context, kind types.ResourceKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.counts[kind]++
	return nil
}
