package service

import (
	"context"
	"time"

	"github.com/invomate/invomate/internal/domain/invoice"
	"github.com/invomate/invomate/internal/domain/payment"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/idempotency"
	"github.com/invomate/invomate/internal/integration/nowpay"
	"github.com/invomate/invomate/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ReconcileEvent is a gateway-agnostic payment notification. OrderID is our
// invoice id and is the only required field; amounts may be missing
// depending on what the gateway reports.
type ReconcileEvent struct {
	Gateway          types.PaymentGatewayType
	GatewayPaymentID string
	Status           types.GatewayPaymentStatus
	OrderID          string
	PayAmount        *decimal.Decimal
	ActuallyPaid     *decimal.Decimal
}

// ReconcileResult reports what the reconciler did with a notification.
type ReconcileResult struct {
	InvoiceID      string                     `json:"invoice_id"`
	PaymentStatus  types.InvoicePaymentStatus `json:"payment_status"`
	LedgerRecorded bool                       `json:"ledger_recorded"`
	Duplicate      bool                       `json:"duplicate"`
}

// CryptoGateway fetches the authoritative status of a payment from the
// crypto gateway's REST API.
type CryptoGateway interface {
	GetPaymentStatus(ctx context.Context, paymentID string) (*nowpay.PaymentStatusResponse, error)
}

// ReconcilerService translates asynchronous gateway notifications into
// invoice and ledger state, exactly once in its ledger effect per confirmed
// payment.
type ReconcilerService interface {
	Reconcile(ctx context.Context, ev *ReconcileEvent) (*ReconcileResult, error)
	RefreshPayment(ctx context.Context, gatewayPaymentID string) (*ReconcileResult, error)
}

type reconcilerService struct {
	ServiceParams
	idempGen *idempotency.Generator
}

// NewReconcilerService creates a new payment reconciler
func NewReconcilerService(params ServiceParams) ReconcilerService {
	return &reconcilerService{
		ServiceParams: params,
		idempGen:      idempotency.NewGenerator(),
	}
}

func (s *reconcilerService) Reconcile(ctx context.Context, ev *ReconcileEvent) (*ReconcileResult, error) {
	if ev == nil || ev.OrderID == "" {
		return nil, ierr.NewError("order_id is required").
			WithHint("Notification is missing the invoice reference").
			Mark(ierr.ErrValidation)
	}

	// Webhooks arrive unauthenticated, so the invoice row tells us whose
	// invoice this is and the rest of the reconciliation runs in that
	// tenant's context.
	inv, err := s.InvoiceRepo.FindByID(ctx, ev.OrderID)
	if err != nil {
		return nil, err
	}
	ctx = types.SetTenantID(ctx, inv.TenantID)

	outcome := invoice.OutcomeForGatewayStatus(ev.Status)

	s.Logger.Infow("reconciling gateway notification",
		"invoice_id", inv.ID,
		"gateway", ev.Gateway,
		"gateway_payment_id", ev.GatewayPaymentID,
		"vendor_status", ev.Status,
		"mapped_status", outcome.PaymentStatus)

	if !outcome.RecordLedger {
		return s.applyStatusOnly(ctx, inv, outcome)
	}

	return s.applyPaid(ctx, inv, ev, outcome)
}

// RefreshPayment re-fetches a payment's status directly from the crypto
// gateway and reconciles the result, for when a notification was missed or
// looks suspect. The caller's tenant scope applies: the invoice the gateway
// names must belong to the calling tenant.
func (s *reconcilerService) RefreshPayment(ctx context.Context, gatewayPaymentID string) (*ReconcileResult, error) {
	if gatewayPaymentID == "" {
		return nil, ierr.NewError("payment_id is required").
			WithHint("Provide the gateway's payment id").
			Mark(ierr.ErrValidation)
	}

	if s.CryptoGateway == nil {
		return nil, ierr.NewError("crypto gateway is not configured").
			WithHint("Set the gateway API key to enable payment status refresh").
			Mark(ierr.ErrInvalidOperation)
	}

	status, err := s.CryptoGateway.GetPaymentStatus(ctx, gatewayPaymentID)
	if err != nil {
		return nil, err
	}

	if status.OrderID == "" {
		return nil, ierr.NewError("gateway returned no order reference").
			WithHint("The gateway payment is not linked to an invoice").
			Mark(ierr.ErrValidation)
	}

	if _, err := s.InvoiceRepo.Get(ctx, status.OrderID); err != nil {
		return nil, err
	}

	return s.Reconcile(ctx, &ReconcileEvent{
		Gateway:          types.PaymentGatewayTypeNowPay,
		GatewayPaymentID: status.PaymentID.String(),
		Status:           status.PaymentStatus,
		OrderID:          status.OrderID,
		PayAmount:        status.PayAmount,
		ActuallyPaid:     status.ActuallyPaid,
	})
}

// applyStatusOnly handles the pending and failed branches: the payment axis
// moves, the lifecycle status stays untouched, nothing hits the ledger.
func (s *reconcilerService) applyStatusOnly(ctx context.Context, inv *invoice.Invoice, outcome invoice.GatewayOutcome) (*ReconcileResult, error) {
	if inv.PaymentStatus != outcome.PaymentStatus {
		inv.PaymentStatus = outcome.PaymentStatus
		inv.UpdatedAt = time.Now().UTC()
		inv.UpdatedBy = types.GetUserID(ctx)

		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return nil, err
		}
	}

	return &ReconcileResult{
		InvoiceID:     inv.ID,
		PaymentStatus: inv.PaymentStatus,
	}, nil
}

// applyPaid handles the confirmed/sending/finished branch: the invoice is
// marked paid and a ledger entry is recorded, both inside one transaction.
// Redelivered notifications are detected through an idempotency key derived
// from the vendor's payment id and acknowledged without a second ledger row.
func (s *reconcilerService) applyPaid(ctx context.Context, inv *invoice.Invoice, ev *ReconcileEvent, outcome invoice.GatewayOutcome) (*ReconcileResult, error) {
	amount := resolveAmount(ev, inv)

	idempotencyKey := s.idempGen.GenerateKey(idempotency.ScopeGatewayPayment, map[string]interface{}{
		"gateway":    ev.Gateway.String(),
		"payment_id": ev.GatewayPaymentID,
		"invoice_id": inv.ID,
	})

	if ev.GatewayPaymentID != "" {
		existing, err := s.PaymentRepo.GetByIdempotencyKey(ctx, idempotencyKey)
		if err != nil && !ierr.IsNotFound(err) {
			return nil, err
		}
		if existing != nil {
			s.Logger.Infow("duplicate gateway notification, ledger entry already recorded",
				"invoice_id", inv.ID,
				"payment_id", existing.ID,
				"gateway_payment_id", ev.GatewayPaymentID)
			return &ReconcileResult{
				InvoiceID:      inv.ID,
				PaymentStatus:  types.InvoicePaymentStatusPaid,
				LedgerRecorded: false,
				Duplicate:      true,
			}, nil
		}
	}

	now := time.Now().UTC()

	p := &payment.Payment{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		InvoiceID:         inv.ID,
		ReceiptNumber:     types.GenerateShortIDWithPrefix(types.SHORTID_PREFIX_RECEIPT),
		IdempotencyKey:    idempotencyKey,
		PaymentMethodType: methodForGateway(ev.Gateway),
		PaymentGateway:    lo.ToPtr(ev.Gateway.String()),
		GatewayPaymentID:  types.ToNillableString(ev.GatewayPaymentID),
		Amount:            amount,
		Currency:          inv.Currency,
		PaymentDate:       now,
		Note:              "recorded from gateway notification",
		BaseModel:         types.GetDefaultBaseModel(ctx),
	}
	p.TenantID = inv.TenantID

	if err := p.Validate(); err != nil {
		return nil, err
	}

	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		inv.PaymentStatus = outcome.PaymentStatus
		inv.InvoiceStatus = types.InvoiceStatusPaid
		inv.PaidAmount = amount
		inv.PaidAt = &now
		inv.UpdatedAt = now
		inv.UpdatedBy = types.GetUserID(txCtx)

		if err := s.InvoiceRepo.Update(txCtx, inv); err != nil {
			return err
		}

		return s.PaymentRepo.Create(txCtx, p)
	})
	if err != nil {
		// The unique constraint on the idempotency key catches redeliveries
		// the pre-check could not see: concurrent deliveries, and
		// notifications carrying no gateway payment id at all.
		if ierr.IsAlreadyExists(err) {
			s.Logger.Infow("duplicate gateway notification, ledger entry already recorded",
				"invoice_id", inv.ID,
				"gateway_payment_id", ev.GatewayPaymentID)
			return &ReconcileResult{
				InvoiceID:      inv.ID,
				PaymentStatus:  types.InvoicePaymentStatusPaid,
				LedgerRecorded: false,
				Duplicate:      true,
			}, nil
		}
		return nil, err
	}

	s.notifyPaymentReceived(ctx, inv, amount)

	return &ReconcileResult{
		InvoiceID:      inv.ID,
		PaymentStatus:  inv.PaymentStatus,
		LedgerRecorded: true,
	}, nil
}

// resolveAmount picks the recorded amount: what the payer actually sent,
// falling back to what the gateway quoted, falling back to the invoice
// total. Zero values fall through the same as missing ones since gateways
// report actually_paid as 0 until settlement.
func resolveAmount(ev *ReconcileEvent, inv *invoice.Invoice) decimal.Decimal {
	if ev.ActuallyPaid != nil && ev.ActuallyPaid.IsPositive() {
		return *ev.ActuallyPaid
	}
	if ev.PayAmount != nil && ev.PayAmount.IsPositive() {
		return *ev.PayAmount
	}
	return inv.TotalAmount
}

func methodForGateway(gateway types.PaymentGatewayType) types.PaymentMethodType {
	switch gateway {
	case types.PaymentGatewayTypeStripe:
		return types.PaymentMethodTypeCard
	default:
		return types.PaymentMethodTypeCrypto
	}
}

// notifyPaymentReceived sends the payment confirmation email. Failures are
// logged and swallowed: the ledger write already happened and the gateway
// must still get its acknowledgement.
func (s *reconcilerService) notifyPaymentReceived(ctx context.Context, inv *invoice.Invoice, amount decimal.Decimal) {
	if s.EmailClient == nil || !s.EmailClient.IsEnabled() {
		return
	}

	cl, err := s.ClientRepo.Get(ctx, inv.ClientID)
	if err != nil {
		s.Logger.Warnw("failed to load client for payment email",
			"invoice_id", inv.ID,
			"client_id", inv.ClientID,
			"error", err)
		return
	}

	emailSvc := NewEmailService(s.ServiceParams)
	if err := emailSvc.SendPaymentReceived(ctx, inv, cl.Email, amount); err != nil {
		s.Logger.Warnw("failed to send payment received email",
			"invoice_id", inv.ID,
			"error", err)
	}
}
