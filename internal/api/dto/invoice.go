package dto

import (
	"context"
	"time"

	"github.com/invomate/invomate/internal/domain/client"
	"github.com/invomate/invomate/internal/domain/invoice"
	"github.com/invomate/invomate/internal/domain/payment"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/types"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest is the payload for creating an invoice
type CreateInvoiceRequest struct {
	ClientID  string          `json:"client_id" binding:"required"`
	Currency  string          `json:"currency" binding:"required"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Discount  decimal.Decimal `json:"discount"`
	Shipping  decimal.Decimal `json:"shipping"`
	DueDate   *time.Time      `json:"due_date,omitempty"`
	Notes     string          `json:"notes"`
	PromoCode string          `json:"promo_code,omitempty"`
	Metadata  types.Metadata  `json:"metadata"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if r.ClientID == "" {
		return ierr.NewError("client_id is required").
			WithHint("Client is required").
			Mark(ierr.ErrValidation)
	}
	if r.Currency == "" {
		return ierr.NewError("currency is required").
			WithHint("Currency is required").
			Mark(ierr.ErrValidation)
	}
	if r.Subtotal.IsNegative() || r.TaxAmount.IsNegative() ||
		r.Discount.IsNegative() || r.Shipping.IsNegative() {
		return ierr.NewError("amounts must be non negative").
			WithHint("Amounts must be non negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToInvoice converts the request into a domain invoice. The invoice number
// and final discount are filled in by the service.
func (r *CreateInvoiceRequest) ToInvoice(ctx context.Context) *invoice.Invoice {
	return &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		ClientID:      r.ClientID,
		InvoiceStatus: types.InvoiceStatusDraft,
		PaymentStatus: types.InvoicePaymentStatusUnpaid,
		Currency:      r.Currency,
		Subtotal:      r.Subtotal,
		TaxAmount:     r.TaxAmount,
		Discount:      r.Discount,
		Shipping:      r.Shipping,
		PaidAmount:    decimal.Zero,
		DueDate:       r.DueDate,
		Notes:         r.Notes,
		Metadata:      r.Metadata,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

// RecordPaymentRequest is the payload for manually recording an offline
// payment against an invoice
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
	Note        string          `json:"note"`
}

func (r *RecordPaymentRequest) Validate() error {
	if r.Amount.IsZero() || r.Amount.IsNegative() {
		return ierr.NewError("amount must be greater than 0").
			WithHint("Amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceResponse wraps a domain invoice for API responses
type InvoiceResponse struct {
	*invoice.Invoice
}

// NewInvoiceResponse creates a new invoice response
func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	return &InvoiceResponse{Invoice: inv}
}

// ListInvoicesResponse is a paginated list of invoices
type ListInvoicesResponse struct {
	Items []*InvoiceResponse `json:"items"`
	Total int                `json:"total"`
}

// DocumentResponse is the data needed to render an invoice document
type DocumentResponse struct {
	Invoice  *InvoiceResponse   `json:"invoice"`
	Client   *ClientResponse    `json:"client"`
	Payments []*PaymentResponse `json:"payments"`
}

// NewDocumentResponse assembles the document payload
func NewDocumentResponse(inv *invoice.Invoice, cl *client.Client, payments []*payment.Payment) *DocumentResponse {
	items := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		items[i] = NewPaymentResponse(p)
	}
	return &DocumentResponse{
		Invoice:  NewInvoiceResponse(inv),
		Client:   NewClientResponse(cl),
		Payments: items,
	}
}
