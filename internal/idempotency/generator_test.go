package idempotency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKeyIsDeterministic(t *testing.T) {
	g := NewGenerator()

	params := map[string]interface{}{
		"gateway":    "nowpay",
		"payment_id": "4937492",
		"invoice_id": "inv_123",
	}

	first := g.GenerateKey(ScopeGatewayPayment, params)
	second := g.GenerateKey(ScopeGatewayPayment, params)

	assert.Equal(t, first, second)
	assert.Contains(t, first, string(ScopeGatewayPayment))
}

func TestGenerateKeyDiffersByParams(t *testing.T) {
	g := NewGenerator()

	a := g.GenerateKey(ScopeGatewayPayment, map[string]interface{}{"payment_id": "1"})
	b := g.GenerateKey(ScopeGatewayPayment, map[string]interface{}{"payment_id": "2"})

	assert.NotEqual(t, a, b)
}

func TestGenerateKeyDiffersByScope(t *testing.T) {
	g := NewGenerator()

	params := map[string]interface{}{"invoice_id": "inv_123"}

	assert.NotEqual(t,
		g.GenerateKey(ScopeGatewayPayment, params),
		g.GenerateKey(ScopeOfflinePayment, params))
}

func TestValidateKey(t *testing.T) {
	g := NewGenerator()

	params := map[string]interface{}{"invoice_id": "inv_123"}
	key := g.GenerateKey(ScopeGatewayPayment, params)

	assert.True(t, g.ValidateKey(ScopeGatewayPayment, params, key))
	assert.False(t, g.ValidateKey(ScopeOfflinePayment, params, key))
}
