package invoice

import (
	"time"

	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice represents the invoice domain model
type Invoice struct {
	ID            string                     `db:"id" json:"id"`
	ClientID      string                     `db:"client_id" json:"client_id"`
	InvoiceNumber string                     `db:"invoice_number" json:"invoice_number"`
	InvoiceStatus types.InvoiceStatus        `db:"invoice_status" json:"invoice_status"`
	PaymentStatus types.InvoicePaymentStatus `db:"payment_status" json:"payment_status"`
	Currency      string                     `db:"currency" json:"currency"`
	Subtotal      decimal.Decimal            `db:"subtotal" json:"subtotal"`
	TaxAmount     decimal.Decimal            `db:"tax_amount" json:"tax_amount"`
	Discount      decimal.Decimal            `db:"discount" json:"discount"`
	Shipping      decimal.Decimal            `db:"shipping" json:"shipping"`
	TotalAmount   decimal.Decimal            `db:"total_amount" json:"total_amount"`
	PaidAmount    decimal.Decimal            `db:"paid_amount" json:"paid_amount"`
	DueDate       *time.Time                 `db:"due_date" json:"due_date,omitempty"`
	PaidAt        *time.Time                 `db:"paid_at" json:"paid_at,omitempty"`
	SentAt        *time.Time                 `db:"sent_at" json:"sent_at,omitempty"`
	Notes         string                     `db:"notes" json:"notes,omitempty"`
	Metadata      types.Metadata             `db:"metadata" json:"metadata,omitempty"`

	types.BaseModel
}

// GetRemainingAmount returns how much is still owed on the invoice.
func (i *Invoice) GetRemainingAmount() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// IsArchived reports whether the invoice has been soft-deleted.
func (i *Invoice) IsArchived() bool {
	return i.InvoiceStatus == types.InvoiceStatusArchived
}

// Validate validates the invoice
func (i *Invoice) Validate() error {
	if i.ClientID == "" {
		return ierr.NewError("client id is required").
			WithHint("Client is required").
			Mark(ierr.ErrValidation)
	}
	if i.Currency == "" {
		return ierr.NewError("currency is required").
			WithHint("Currency is required").
			Mark(ierr.ErrValidation)
	}
	if i.Subtotal.IsNegative() {
		return ierr.NewError("subtotal must be non negative").
			WithHint("Subtotal must be non negative").
			Mark(ierr.ErrValidation)
	}
	if i.TotalAmount.IsNegative() {
		return ierr.NewError("total amount must be non negative").
			WithHint("Total amount must be non negative").
			Mark(ierr.ErrValidation)
	}
	if i.PaidAmount.IsNegative() {
		return ierr.NewError("paid amount must be non negative").
			WithHint("Paid amount must be non negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TableName returns the table name for the invoice
func (i *Invoice) TableName() string {
	return "invoices"
}
