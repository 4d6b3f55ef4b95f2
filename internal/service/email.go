package service

import (
	"context"
	"fmt"

	"github.com/invomate/invomate/internal/domain/invoice"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/types"
	"github.com/shopspring/decimal"
)

// EmailService sends the transactional emails that accompany invoice
// lifecycle events. Outgoing email is a gated resource: sends count against
// the tenant's monthly email limit.
type EmailService interface {
	SendInvoiceIssued(ctx context.Context, inv *invoice.Invoice, to string) error
	SendPaymentReceived(ctx context.Context, inv *invoice.Invoice, to string, amount decimal.Decimal) error
}

type emailService struct {
	ServiceParams
	gate UsageGateService
}

// NewEmailService creates a new email service
func NewEmailService(params ServiceParams) EmailService {
	return &emailService{
		ServiceParams: params,
		gate:          NewUsageGateService(params),
	}
}

func (s *emailService) SendInvoiceIssued(ctx context.Context, inv *invoice.Invoice, to string) error {
	subject := fmt.Sprintf("Invoice %s", inv.InvoiceNumber)
	body := fmt.Sprintf(
		"You have received invoice %s for %s %s.\n\nNotes: %s\n",
		inv.InvoiceNumber,
		inv.TotalAmount.StringFixed(2),
		inv.Currency,
		inv.Notes,
	)
	return s.send(ctx, to, subject, body)
}

func (s *emailService) SendPaymentReceived(ctx context.Context, inv *invoice.Invoice, to string, amount decimal.Decimal) error {
	subject := fmt.Sprintf("Payment received for invoice %s", inv.InvoiceNumber)
	body := fmt.Sprintf(
		"We received a payment of %s %s for invoice %s. Thank you.\n",
		amount.StringFixed(2),
		inv.Currency,
		inv.InvoiceNumber,
	)
	return s.send(ctx, to, subject, body)
}

func (s *emailService) send(ctx context.Context, to, subject, body string) error {
	if s.EmailClient == nil || !s.EmailClient.IsEnabled() {
		s.Logger.Debugw("email disabled, skipping send", "subject", subject)
		return nil
	}

	if to == "" {
		return ierr.NewError("recipient email is required").
			WithHint("Client has no email address").
			Mark(ierr.ErrValidation)
	}

	if result := s.gate.CheckLimits(ctx, types.ResourceKindEmail); !result.CanCreate() {
		return ierr.NewError("email limit reached").
			WithHintf("You have used %d of %d emails this month", result.Current, result.Limit).
			Mark(ierr.ErrPermissionDenied)
	}

	if err := s.EmailClient.Send(ctx, to, subject, body); err != nil {
		return err
	}

	if err := s.UsageRepo.Record(ctx, types.ResourceKindEmail); err != nil {
		s.Logger.Warnw("failed to record email usage",
			"tenant_id", types.GetTenantID(ctx),
			"error", err)
	}

	return nil
}
