package testutil

import (
	"context"
	"sync"
)

// InMemorySequenceStore is an in-memory invoice.SequenceRepository for tests.
type InMemorySequenceStore struct {
	mu   sync.Mutex
	last int64
	err  error
}

func NewInMemorySequenceStore() *InMemorySequenceStore {
	return &InMemorySequenceStore{}
}

// SetError makes Next fail with err. Pass nil to clear.
func (s *InMemorySequenceStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *InMemorySequenceStore) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.last++
	return s.last, nil
}
