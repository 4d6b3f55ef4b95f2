package dto

import (
	"github.com/invomate/invomate/internal/domain/payment"
	ierr "github.com/invomate/invomate/internal/errors"
)

// RefreshPaymentRequest asks the crypto gateway for a payment's current
// status and reconciles the result.
type RefreshPaymentRequest struct {
	GatewayPaymentID string `json:"gateway_payment_id"`
}

func (r *RefreshPaymentRequest) Validate() error {
	if r.GatewayPaymentID == "" {
		return ierr.NewError("gateway_payment_id is required").
			WithHint("Provide the gateway's payment id").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentResponse wraps a domain payment for API responses
type PaymentResponse struct {
	*payment.Payment
}

// NewPaymentResponse creates a new payment response
func NewPaymentResponse(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{Payment: p}
}

// ListPaymentsResponse is a paginated list of payments
type ListPaymentsResponse struct {
	Items []*PaymentResponse `json:"items"`
	Total int                `json:"total"`
}
