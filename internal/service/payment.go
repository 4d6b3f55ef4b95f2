package service

import (
	"context"

	"github.com/invomate/invomate/internal/api/dto"
	"github.com/invomate/invomate/internal/types"
)

// PaymentService exposes the read side of the payment ledger. Writes happen
// only through the reconciler and the offline-payment flow.
type PaymentService interface {
	GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, filter types.Filter) (*dto.ListPaymentsResponse, error)
	ListByInvoice(ctx context.Context, invoiceID string) (*dto.ListPaymentsResponse, error)
}

type paymentService struct {
	ServiceParams
}

// NewPaymentService creates a new payment service
func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{ServiceParams: params}
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponse(p), nil
}

func (s *paymentService) ListPayments(ctx context.Context, filter types.Filter) (*dto.ListPaymentsResponse, error) {
	payments, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PaymentResponse, len(payments))
	for i, p := range payments {
		items[i] = dto.NewPaymentResponse(p)
	}
	return &dto.ListPaymentsResponse{Items: items, Total: len(items)}, nil
}

func (s *paymentService) ListByInvoice(ctx context.Context, invoiceID string) (*dto.ListPaymentsResponse, error) {
	payments, err := s.PaymentRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PaymentResponse, len(payments))
	for i, p := range payments {
		items[i] = dto.NewPaymentResponse(p)
	}
	return &dto.ListPaymentsResponse{Items: items, Total: len(items)}, nil
}
