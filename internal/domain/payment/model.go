package payment

import (
	"time"

	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/types"
	"github.com/shopspring/decimal"
)

// Payment is an append-only ledger entry recording funds received against an
// invoice. Payments are immutable once created.
type Payment struct {
	// Unique identifier for this payment transaction
	ID string `db:"id" json:"id"`
	// The invoice this payment was applied to
	InvoiceID string `db:"invoice_id" json:"invoice_id"`
	// Short human-facing reference printed on receipts, e.g. RC-4FQX9PA
	ReceiptNumber string `db:"receipt_number" json:"receipt_number"`
	// Unique key used to prevent duplicate ledger entries for redelivered
	// gateway notifications
	IdempotencyKey string `db:"idempotency_key" json:"idempotency_key"`
	// How the payment was made (card, crypto, offline)
	PaymentMethodType types.PaymentMethodType `db:"payment_method_type" json:"payment_method_type"`
	// The gateway that processed this payment, if any
	PaymentGateway *string `db:"payment_gateway" json:"payment_gateway,omitempty"`
	// The transaction identifier from the external payment gateway, if any
	GatewayPaymentID *string `db:"gateway_payment_id" json:"gateway_payment_id,omitempty"`
	// The payment value in the invoice currency
	Amount decimal.Decimal `db:"amount" json:"amount"`
	// Three-letter ISO currency code
	Currency string `db:"currency" json:"currency"`
	// When the funds were received
	PaymentDate time.Time `db:"payment_date" json:"payment_date"`
	// Free-text note
	Note string `db:"note" json:"note,omitempty"`

	types.BaseModel
}

// Validate validates the payment
func (p *Payment) Validate() error {
	if p.InvoiceID == "" {
		return ierr.NewError("invoice id is required").
			WithHint("Invoice id is required").
			Mark(ierr.ErrValidation)
	}
	if p.Amount.IsZero() || p.Amount.IsNegative() {
		return ierr.NewError("invalid amount").
			WithHint("Amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	if err := p.PaymentMethodType.Validate(); err != nil {
		return ierr.NewError("invalid payment method type").
			WithHint("Payment method type is invalid").
			Mark(ierr.ErrValidation)
	}
	if p.Currency == "" {
		return ierr.NewError("currency is required").
			WithHint("Currency is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TableName returns the table name for the payment
func (p *Payment) TableName() string {
	return "payments"
}
