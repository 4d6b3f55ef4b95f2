package stripe

import (
	"encoding/json"
	"testing"

	"github.com/invomate/invomate/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripeapi "github.com/stripe/stripe-go/v82"
)

func paymentIntentEvent(t *testing.T, eventType string, intent map[string]interface{}) *stripeapi.Event {
	t.Helper()
	raw, err := json.Marshal(intent)
	require.NoError(t, err)

	return &stripeapi.Event{
		Type: stripeapi.EventType(eventType),
		Data: &stripeapi.EventData{Raw: raw},
	}
}

func TestTranslateEventSucceeded(t *testing.T) {
	event := paymentIntentEvent(t, "payment_intent.succeeded", map[string]interface{}{
		"id":              "pi_3abc",
		"amount_received": 11550,
		"currency":        "usd",
		"metadata":        map[string]string{"invoice_id": "inv_123"},
	})

	n, err := TranslateEvent(event)
	require.NoError(t, err)
	require.NotNil(t, n)

	assert.Equal(t, types.PaymentGatewayTypeStripe, n.Gateway)
	assert.Equal(t, "pi_3abc", n.GatewayPaymentID)
	assert.Equal(t, types.GatewayPaymentStatusFinished, n.Status)
	assert.Equal(t, "inv_123", n.OrderID)
	assert.True(t, n.ActuallyPaid.Equal(decimal.NewFromFloat(115.50)))
}

func TestTranslateEventFailed(t *testing.T) {
	event := paymentIntentEvent(t, "payment_intent.payment_failed", map[string]interface{}{
		"id":       "pi_3abc",
		"metadata": map[string]string{"invoice_id": "inv_123"},
	})

	n, err := TranslateEvent(event)
	require.NoError(t, err)
	require.NotNil(t, n)

	assert.Equal(t, types.GatewayPaymentStatusFailed, n.Status)
	assert.Nil(t, n.ActuallyPaid)
}

func TestTranslateEventIgnoresOtherTypes(t *testing.T) {
	event := &stripeapi.Event{Type: "customer.created"}

	n, err := TranslateEvent(event)
	assert.NoError(t, err)
	assert.Nil(t, n)
}

func TestTranslateEventZeroDecimalCurrency(t *testing.T) {
	event := paymentIntentEvent(t, "payment_intent.succeeded", map[string]interface{}{
		"id":              "pi_3abc",
		"amount_received": 1000,
		"currency":        "jpy",
		"metadata":        map[string]string{"invoice_id": "inv_123"},
	})

	n, err := TranslateEvent(event)
	require.NoError(t, err)
	assert.True(t, n.ActuallyPaid.Equal(decimal.NewFromInt(1000)))
}

func TestConstructEventRejectsBadSignature(t *testing.T) {
	_, err := ConstructEvent([]byte(`{}`), "t=1,v1=bad", "whsec_test")
	assert.Error(t, err)
}
