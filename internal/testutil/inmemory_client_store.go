package testutil

import (
	"context"
	"sync"

	"github.com/invomate/invomate/internal/domain/client"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/types"
)

// InMemoryClientStore is an in-memory client.Repository for tests.
type InMemoryClientStore struct {
	mu      sync.RWMutex
	clients map[string]*client.Client
	err     error
}

func NewInMemoryClientStore() *InMemoryClientStore {
	return &InMemoryClientStore{clients: make(map[string]*client.Client)}
}

// SetError makes every operation fail with err. Pass nil to clear.
func (s *InMemoryClientStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *InMemoryClientStore) Create(ctx context.Context, c *client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.clients[c.ID]; ok {
		return ierr.NewError("client already exists").
			WithHintf("Client %s already exists", c.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	cp := *c
	s.clients[c.ID] = &cp
	return nil
}

func (s *InMemoryClientStore) Get(ctx context.Context, id string) (*client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	c, ok := s.clients[id]
	if !ok || c.TenantID != types.GetTenantID(ctx) {
		return nil, ierr.NewError("client not found").
			WithHintf("Client %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *InMemoryClientStore) Update(ctx context.Context, c *client.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	existing, ok := s.clients[c.ID]
	if !ok || existing.TenantID != types.GetTenantID(ctx) {
		return ierr.NewError("client not found").
			WithHintf("Client %s does not exist", c.ID).
			Mark(ierr.ErrNotFound)
	}
	cp := *c
	s.clients[c.ID] = &cp
	return nil
}

func (s *InMemoryClientStore) List(ctx context.Context, filter types.Filter) ([]*client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	result := make([]*client.Client, 0)
	for _, c := range s.clients {
		if c.TenantID == types.GetTenantID(ctx) && c.Status == types.StatusPublished {
			cp := *c
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (s *InMemoryClientStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return 0, s.err
	}
	count := 0
	for _, c := range s.clients {
		if c.TenantID == types.GetTenantID(ctx) && c.Status == types.StatusPublished {
			count++
		}
	}
	return count, nil
}
