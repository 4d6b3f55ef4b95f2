package testutil

import (
	"context"
	"sync"

	"github.com/invomate/invomate/internal/domain/plan"
)

// InMemoryPlanStore is an in-memory plan.Repository for tests.
type InMemoryPlanStore struct {
	mu   sync.RWMutex
	plan *plan.Plan
	err  error
}

func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{plan: plan.DefaultPlan()}
}

// SetPlan replaces the active plan returned to callers.
func (s *InMemoryPlanStore) SetPlan(p *plan.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = p
}

// SetLimits replaces just the active plan's limits.
func (s *InMemoryPlanStore) SetLimits(limits plan.Limits) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.plan
	cp.Limits = limits
	s.plan = &cp
}

// SetError makes GetActivePlan fail with err. Pass nil to clear.
func (s *InMemoryPlanStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *InMemoryPlanStore) GetActivePlan(ctx context.Context) (*plan.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	cp := *s.plan
	return &cp, nil
}
