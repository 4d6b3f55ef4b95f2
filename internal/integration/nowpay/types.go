package nowpay

import (
	"encoding/json"

	"github.com/invomate/invomate/internal/types"
	"github.com/shopspring/decimal"
)

// SignatureHeader carries the gateway's HMAC signature on IPN callbacks.
const SignatureHeader = "x-nowpayments-sig"

// IPNPayload is the gateway's asynchronous payment notification. order_id is
// our invoice id; pay_amount is what the gateway quoted and actually_paid is
// what the payer actually sent, either of which may be missing.
type IPNPayload struct {
	PaymentID     json.Number                `json:"payment_id"`
	PaymentStatus types.GatewayPaymentStatus `json:"payment_status"`
	OrderID       string                     `json:"order_id"`
	PayAmount     *decimal.Decimal           `json:"pay_amount,omitempty"`
	ActuallyPaid  *decimal.Decimal           `json:"actually_paid,omitempty"`
	PayCurrency   string                     `json:"pay_currency,omitempty"`
	OrderDesc     string                     `json:"order_description,omitempty"`
}

// PaymentStatusResponse is the gateway's response to a status fetch.
type PaymentStatusResponse struct {
	PaymentID     json.Number                `json:"payment_id"`
	PaymentStatus types.GatewayPaymentStatus `json:"payment_status"`
	OrderID       string                     `json:"order_id"`
	PayAmount     *decimal.Decimal           `json:"pay_amount,omitempty"`
	ActuallyPaid  *decimal.Decimal           `json:"actually_paid,omitempty"`
}
