package types

import (
	"fmt"

	"github.com/samber/lo"
)

// PaymentMethodType represents the type of payment method
type PaymentMethodType string

const (
	PaymentMethodTypeCard    PaymentMethodType = "CARD"
	PaymentMethodTypeCrypto  PaymentMethodType = "CRYPTO"
	PaymentMethodTypeOffline PaymentMethodType = "OFFLINE"
)

func (s PaymentMethodType) String() string {
	return string(s)
}

func (s PaymentMethodType) Validate() error {
	allowed := []PaymentMethodType{
		PaymentMethodTypeCard,
		PaymentMethodTypeCrypto,
		PaymentMethodTypeOffline,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid payment method type: %s", s)
	}
	return nil
}

// PaymentGatewayType identifies the external gateway a notification came from.
type PaymentGatewayType string

const (
	PaymentGatewayTypeNowPay PaymentGatewayType = "nowpay"
	PaymentGatewayTypeStripe PaymentGatewayType = "stripe"
)

func (s PaymentGatewayType) String() string {
	return string(s)
}

// GatewayPaymentStatus is the vendor's own vocabulary for payment lifecycle
// state, distinct from our internal InvoicePaymentStatus. Values arrive on the
// wire exactly as the gateway sends them.
type GatewayPaymentStatus string

const (
	GatewayPaymentStatusWaiting    GatewayPaymentStatus = "waiting"
	GatewayPaymentStatusConfirming GatewayPaymentStatus = "confirming"
	GatewayPaymentStatusConfirmed  GatewayPaymentStatus = "confirmed"
	GatewayPaymentStatusSending    GatewayPaymentStatus = "sending"
	GatewayPaymentStatusFinished   GatewayPaymentStatus = "finished"
	GatewayPaymentStatusFailed     GatewayPaymentStatus = "failed"
	GatewayPaymentStatusRefunded   GatewayPaymentStatus = "refunded"
	GatewayPaymentStatusExpired    GatewayPaymentStatus = "expired"
)

func (s GatewayPaymentStatus) String() string {
	return string(s)
}

// IsTerminalSuccess reports whether the vendor status confirms funds received.
func (s GatewayPaymentStatus) IsTerminalSuccess() bool {
	return s == GatewayPaymentStatusConfirmed ||
		s == GatewayPaymentStatusSending ||
		s == GatewayPaymentStatusFinished
}

// IsTerminalFailure reports whether the vendor status is a terminal failure.
func (s GatewayPaymentStatus) IsTerminalFailure() bool {
	return s == GatewayPaymentStatusFailed ||
		s == GatewayPaymentStatusRefunded ||
		s == GatewayPaymentStatusExpired
}
