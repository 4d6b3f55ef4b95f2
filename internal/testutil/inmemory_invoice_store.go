package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/invomate/invomate/internal/domain/invoice"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/types"
	"github.com/samber/lo"
)

// InMemoryInvoiceStore is an in-memory invoice.Repository for tests.
type InMemoryInvoiceStore struct {
	mu       sync.RWMutex
	invoices map[string]*invoice.Invoice
	err      error
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{invoices: make(map[string]*invoice.Invoice)}
}

// SetError makes every operation fail with err. Pass nil to clear.
func (s *InMemoryInvoiceStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.invoices[inv.ID]; ok {
		return ierr.NewError("invoice already exists").
			WithHintf("Invoice %s already exists", inv.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	cp := *inv
	s.invoices[inv.ID] = &cp
	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	inv, ok := s.invoices[id]
	if !ok || inv.TenantID != types.GetTenantID(ctx) {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}
	cp := *inv
	return &cp, nil
}

func (s *InMemoryInvoiceStore) FindByID(ctx context.Context, id string) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	inv, ok := s.invoices[id]
	if !ok {
		return nil, ierr.NewError("invoice not found").
			WithHintf("Invoice %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}
	cp := *inv
	return &cp, nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	existing, ok := s.invoices[inv.ID]
	if !ok || existing.TenantID != types.GetTenantID(ctx) {
		return ierr.NewError("invoice not found").
			WithHintf("Invoice %s does not exist", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	cp := *inv
	s.invoices[inv.ID] = &cp
	return nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter types.Filter) ([]*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	result := make([]*invoice.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.TenantID == types.GetTenantID(ctx) && !inv.IsArchived() {
			cp := *inv
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context) (int, error) {
	invoices, err := s.List(ctx, types.NewDefaultFilter())
	if err != nil {
		return 0, err
	}
	return len(invoices), nil
}

func (s *InMemoryInvoiceStore) ListDueBefore(ctx context.Context, cutoff time.Time) ([]*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	unpaid := []types.InvoicePaymentStatus{
		types.InvoicePaymentStatusUnpaid,
		types.InvoicePaymentStatusPending,
		types.InvoicePaymentStatusPartial,
	}
	result := make([]*invoice.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.InvoiceStatus != types.InvoiceStatusSent {
			continue
		}
		if !lo.Contains(unpaid, inv.PaymentStatus) {
			continue
		}
		if inv.DueDate == nil || !inv.DueDate.Before(cutoff) {
			continue
		}
		cp := *inv
		result = append(result, &cp)
	}
	return result, nil
}
