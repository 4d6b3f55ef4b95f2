package service

import (
	"context"

	"github.com/invomate/invomate/internal/integration/stripe"
	"github.com/shopspring/decimal"
)

// PromoLookup resolves a customer-facing promo code to its discount terms.
// Implemented by the Stripe promo client in production.
type PromoLookup interface {
	Lookup(ctx context.Context, code string) (*stripe.PromoCode, error)
}

// applyPromo computes the discount a promo code grants on a subtotal.
// Percent discounts win over fixed amounts when a coupon carries both, and
// the result is clamped to the subtotal so a generous coupon never produces
// a negative invoice.
func applyPromo(subtotal decimal.Decimal, promo *stripe.PromoCode) decimal.Decimal {
	if promo == nil {
		return decimal.Zero
	}

	var discount decimal.Decimal
	if promo.PercentOff.IsPositive() {
		discount = subtotal.Mul(promo.PercentOff).Div(decimal.NewFromInt(100)).Round(2)
	} else if promo.AmountOff.IsPositive() {
		discount = promo.AmountOff
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount
}
