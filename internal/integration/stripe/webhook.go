package stripe

import (
	"encoding/json"
	"strconv"

	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/types"
	"github.com/shopspring/decimal"
	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// SignatureHeader carries Stripe's webhook signature.
const SignatureHeader = "Stripe-Signature"

// invoiceIDMetadataKey is the payment-intent metadata key we set when
// creating a checkout, linking the intent back to our invoice.
const invoiceIDMetadataKey = "invoice_id"

// GatewayNotification is a gateway-agnostic view of a payment notification,
// normalized to the vocabulary the reconciler understands.
type GatewayNotification struct {
	Gateway          types.PaymentGatewayType
	GatewayPaymentID string
	Status           types.GatewayPaymentStatus
	OrderID          string
	ActuallyPaid     *decimal.Decimal
}

// ConstructEvent verifies the Stripe webhook signature and parses the event.
func ConstructEvent(payload []byte, sigHeader, secret string) (stripeapi.Event, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, secret)
	if err != nil {
		return stripeapi.Event{}, ierr.WithError(err).
			WithHint("Webhook signature verification failed").
			Mark(ierr.ErrSignature)
	}
	return event, nil
}

// TranslateEvent maps a Stripe event onto a gateway notification for the
// reconciler. Events that carry no payment outcome return (nil, nil) and are
// acknowledged without further processing.
func TranslateEvent(event *stripeapi.Event) (*GatewayNotification, error) {
	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
	default:
		return nil, nil
	}

	var intent stripeapi.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid payment intent data in webhook").
			Mark(ierr.ErrValidation)
	}

	notification := &GatewayNotification{
		Gateway:          types.PaymentGatewayTypeStripe,
		GatewayPaymentID: intent.ID,
		OrderID:          intent.Metadata[invoiceIDMetadataKey],
	}

	if event.Type == "payment_intent.succeeded" {
		notification.Status = types.GatewayPaymentStatusFinished
		amount := minorUnitsToDecimal(intent.AmountReceived, string(intent.Currency))
		notification.ActuallyPaid = &amount
	} else {
		notification.Status = types.GatewayPaymentStatusFailed
	}

	return notification, nil
}

// zeroDecimalCurrencies have no minor unit; amounts arrive as whole units.
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true,
	"kmf": true, "krw": true, "mga": true, "pyg": true, "rwf": true,
	"ugx": true, "vnd": true, "vuv": true, "xaf": true, "xof": true, "xpf": true,
}

func minorUnitsToDecimal(amount int64, currency string) decimal.Decimal {
	if zeroDecimalCurrencies[currency] {
		return decimal.NewFromInt(amount)
	}
	return decimal.New(amount, -2)
}

// ParseAmount is a helper for tests and tooling converting a minor-unit
// string to a decimal amount.
func ParseAmount(raw string, currency string) (decimal.Decimal, error) {
	units, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return decimal.Zero, err
	}
	return minorUnitsToDecimal(units, currency), nil
}
