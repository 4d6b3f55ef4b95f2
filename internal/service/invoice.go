package service

import (
	"context"
	"time"

	"github.com/invomate/invomate/internal/api/dto"
	"github.com/invomate/invomate/internal/domain/invoice"
	"github.com/invomate/invomate/internal/domain/payment"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/idempotency"
	"github.com/invomate/invomate/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceService manages the invoice lifecycle: creation through the usage
// gate, numbering, sending, document generation, manual payments and
// archival.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter types.Filter) (*dto.ListInvoicesResponse, error)
	SendInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	GenerateDocument(ctx context.Context, id string) (*dto.DocumentResponse, error)
	RecordOfflinePayment(ctx context.Context, id string, req dto.RecordPaymentRequest) (*dto.InvoiceResponse, error)
	ArchiveInvoice(ctx context.Context, id string) error
	MarkOverdueInvoices(ctx context.Context) (int, error)
}

type invoiceService struct {
	ServiceParams
	gate     UsageGateService
	idempGen *idempotency.Generator
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
		gate:          NewUsageGateService(params),
		idempGen:      idempotency.NewGenerator(),
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if result := s.gate.CheckLimits(ctx, types.ResourceKindInvoice); !result.CanCreate() {
		return nil, ierr.NewError("invoice limit reached").
			WithHintf("You have used %d of %d invoices on your plan", result.Current, result.Limit).
			Mark(ierr.ErrPermissionDenied)
	}

	if _, err := s.ClientRepo.Get(ctx, req.ClientID); err != nil {
		return nil, err
	}

	inv := req.ToInvoice(ctx)

	if req.PromoCode != "" && s.PromoLookup != nil {
		promo, err := s.PromoLookup.Lookup(ctx, req.PromoCode)
		if err != nil {
			return nil, err
		}
		inv.Discount = inv.Discount.Add(applyPromo(inv.Subtotal, promo))
	}

	inv.TotalAmount = inv.Subtotal.
		Sub(inv.Discount).
		Add(inv.TaxAmount).
		Add(inv.Shipping)
	if inv.TotalAmount.IsNegative() {
		inv.TotalAmount = decimal.Zero
	}

	seq, err := s.SequenceRepo.Next(ctx)
	if err != nil {
		return nil, err
	}
	inv.InvoiceNumber = invoice.FormatInvoiceNumber(seq)

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"client_id", inv.ClientID,
		"total_amount", inv.TotalAmount)

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter types.Filter) (*dto.ListInvoicesResponse, error) {
	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.InvoiceRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		items[i] = dto.NewInvoiceResponse(inv)
	}
	return &dto.ListInvoicesResponse{Items: items, Total: total}, nil
}

// SendInvoice moves a draft invoice to sent and emails it to the client.
// The email counts against the tenant's monthly limit, so hitting the limit
// blocks the send and the invoice stays draft.
func (s *invoiceService) SendInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.IsArchived() {
		return nil, ierr.NewError("invoice is archived").
			WithHint("Archived invoices cannot be sent").
			Mark(ierr.ErrInvalidOperation)
	}
	if inv.InvoiceStatus != types.InvoiceStatusDraft {
		return nil, ierr.NewError("invoice has already been sent").
			WithHint("Only draft invoices can be sent").
			Mark(ierr.ErrInvalidOperation)
	}

	cl, err := s.ClientRepo.Get(ctx, inv.ClientID)
	if err != nil {
		return nil, err
	}

	emailSvc := NewEmailService(s.ServiceParams)
	if err := emailSvc.SendInvoiceIssued(ctx, inv, cl.Email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv.InvoiceStatus = types.InvoiceStatusSent
	inv.SentAt = &now
	inv.UpdatedAt = now
	inv.UpdatedBy = types.GetUserID(ctx)

	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.Logger.Infow("sent invoice",
		"invoice_id", inv.ID,
		"invoice_number", inv.InvoiceNumber,
		"client_id", inv.ClientID)

	return dto.NewInvoiceResponse(inv), nil
}

// GenerateDocument assembles the data needed to render the invoice as a
// document. Generation is gated and counted per calendar month.
func (s *invoiceService) GenerateDocument(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	if result := s.gate.CheckLimits(ctx, types.ResourceKindDocument); !result.CanCreate() {
		return nil, ierr.NewError("document limit reached").
			WithHintf("You have used %d of %d documents this month", result.Current, result.Limit).
			Mark(ierr.ErrPermissionDenied)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cl, err := s.ClientRepo.Get(ctx, inv.ClientID)
	if err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}

	if err := s.UsageRepo.Record(ctx, types.ResourceKindDocument); err != nil {
		s.Logger.Warnw("failed to record document usage",
			"invoice_id", inv.ID,
			"error", err)
	}

	return dto.NewDocumentResponse(inv, cl, payments), nil
}

// RecordOfflinePayment records a manual payment (cash, bank transfer)
// against an invoice. Partial payments leave the invoice partially paid;
// covering the remaining balance settles it.
func (s *invoiceService) RecordOfflinePayment(ctx context.Context, id string, req dto.RecordPaymentRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.IsArchived() {
		return nil, ierr.NewError("invoice is archived").
			WithHint("Archived invoices cannot accept payments").
			Mark(ierr.ErrInvalidOperation)
	}

	paymentDate := time.Now().UTC()
	if req.PaymentDate != nil {
		paymentDate = req.PaymentDate.UTC()
	}

	p := &payment.Payment{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		InvoiceID:         inv.ID,
		ReceiptNumber:     types.GenerateShortIDWithPrefix(types.SHORTID_PREFIX_RECEIPT),
		PaymentMethodType: types.PaymentMethodTypeOffline,
		Amount:            req.Amount,
		Currency:          inv.Currency,
		PaymentDate:       paymentDate,
		Note:              req.Note,
		BaseModel:         types.GetDefaultBaseModel(ctx),
	}
	p.TenantID = inv.TenantID
	p.IdempotencyKey = s.idempGen.GenerateKey(idempotency.ScopeOfflinePayment, map[string]interface{}{
		"invoice_id": inv.ID,
		"payment_id": p.ID,
	})

	if err := p.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newPaid := inv.PaidAmount.Add(req.Amount)

	err = s.DB.WithTx(ctx, func(txCtx context.Context) error {
		inv.PaidAmount = newPaid
		if newPaid.GreaterThanOrEqual(inv.TotalAmount) {
			inv.PaymentStatus = types.InvoicePaymentStatusPaid
			inv.InvoiceStatus = types.InvoiceStatusPaid
			inv.PaidAt = &now
		} else {
			inv.PaymentStatus = types.InvoicePaymentStatusPartial
		}
		inv.UpdatedAt = now
		inv.UpdatedBy = types.GetUserID(txCtx)

		if err := s.InvoiceRepo.Update(txCtx, inv); err != nil {
			return err
		}

		return s.PaymentRepo.Create(txCtx, p)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("recorded offline payment",
		"invoice_id", inv.ID,
		"payment_id", p.ID,
		"amount", req.Amount,
		"payment_status", inv.PaymentStatus)

	return dto.NewInvoiceResponse(inv), nil
}

// ArchiveInvoice soft-deletes an invoice. Archived invoices stay readable
// but accept no further lifecycle changes.
func (s *invoiceService) ArchiveInvoice(ctx context.Context, id string) error {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if inv.IsArchived() {
		return nil
	}

	inv.InvoiceStatus = types.InvoiceStatusArchived
	inv.UpdatedAt = time.Now().UTC()
	inv.UpdatedBy = types.GetUserID(ctx)

	return s.InvoiceRepo.Update(ctx, inv)
}

// MarkOverdueInvoices flips sent, unpaid invoices past their due date to
// overdue. Returns how many invoices were updated; individual failures are
// logged and skipped so one bad row does not stall the sweep.
func (s *invoiceService) MarkOverdueInvoices(ctx context.Context) (int, error) {
	due, err := s.InvoiceRepo.ListDueBefore(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, inv := range due {
		inv.InvoiceStatus = types.InvoiceStatusOverdue
		inv.UpdatedAt = time.Now().UTC()
		inv.UpdatedBy = types.GetUserID(ctx)

		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			s.Logger.Errorw("failed to mark invoice overdue",
				"invoice_id", inv.ID,
				"error", err)
			continue
		}
		updated++
	}

	if updated > 0 {
		s.Logger.Infow("marked invoices overdue", "count", updated)
	}
	return updated, nil
}
