package testutil

import (
	"context"
	"sync"

	"github.com/invomate/invomate/internal/domain/payment"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/types"
)

// InMemoryPaymentStore is an in-memory payment.Repository for tests. Like
// the real table it enforces uniqueness of idempotency keys.
type InMemoryPaymentStore struct {
	mu       sync.RWMutex
	payments map[string]*payment.Payment
	err      error
}

func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{payments: make(map[string]*payment.Payment)}
}

// SetError makes every operation fail with err. Pass nil to clear.
func (s *InMemoryPaymentStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, existing := range s.payments {
		if existing.IdempotencyKey == p.IdempotencyKey {
			return ierr.NewError("duplicate idempotency key").
				WithHint("A payment with this idempotency key already exists").
				Mark(ierr.ErrAlreadyExists)
		}
	}
	cp := *p
	s.payments[p.ID] = &cp
	return nil
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.payments[id]
	if !ok || p.TenantID != types.GetTenantID(ctx) {
		return nil, ierr.NewError("payment not found").
			WithHintf("Payment %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *InMemoryPaymentStore) List(ctx context.Context, filter types.Filter) ([]*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	result := make([]*payment.Payment, 0)
	for _, p := range s.payments {
		if p.TenantID == types.GetTenantID(ctx) {
			cp := *p
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (s *InMemoryPaymentStore) ListByInvoice(ctx context.Context, invoiceID string) ([]*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	result := make([]*payment.Payment, 0)
	for _, p := range s.payments {
		if p.TenantID == types.GetTenantID(ctx) && p.InvoiceID == invoiceID {
			cp := *p
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (s *InMemoryPaymentStore) GetByIdempotencyKey(ctx context.Context, key string) (*payment.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.payments {
		if p.IdempotencyKey == key && p.TenantID == types.GetTenantID(ctx) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ierr.NewError("payment not found").
		WithHint("No payment recorded for this idempotency key").
		Mark(ierr.ErrNotFound)
}
