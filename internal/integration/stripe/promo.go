package stripe

import (
	"context"

	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/logger"
	"github.com/shopspring/decimal"
	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// PromoCode is the subset of a Stripe promotion code we care about when
// validating a discount at invoice creation.
type PromoCode struct {
	Code       string
	PercentOff decimal.Decimal
	AmountOff  decimal.Decimal
	Currency   string
}

// PromoClient validates promotion codes against Stripe.
type PromoClient struct {
	api    *client.API
	logger *logger.Logger
}

// NewPromoClient creates a promo code client. With an empty key the client is
// disabled and every lookup fails with not found.
func NewPromoClient(secretKey string, logger *logger.Logger) *PromoClient {
	var api *client.API
	if secretKey != "" {
		api = &client.API{}
		api.Init(secretKey, nil)
	}
	return &PromoClient{api: api, logger: logger}
}

// Lookup finds an active promotion code by its customer-facing code.
func (c *PromoClient) Lookup(ctx context.Context, code string) (*PromoCode, error) {
	if c.api == nil {
		return nil, ierr.NewError("promo codes are not configured").
			WithHint("Promo code not found").
			Mark(ierr.ErrNotFound)
	}

	params := &stripeapi.PromotionCodeListParams{
		Code:   stripeapi.String(code),
		Active: stripeapi.Bool(true),
	}
	params.Context = ctx

	it := c.api.PromotionCodes.List(params)
	for it.Next() {
		pc := it.PromotionCode()
		if pc.Coupon == nil {
			continue
		}

		result := &PromoCode{Code: pc.Code}
		if pc.Coupon.PercentOff > 0 {
			result.PercentOff = decimal.NewFromFloat(pc.Coupon.PercentOff)
		}
		if pc.Coupon.AmountOff > 0 {
			result.AmountOff = decimal.New(pc.Coupon.AmountOff, -2)
			result.Currency = string(pc.Coupon.Currency)
		}
		return result, nil
	}

	if err := it.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to look up promo code").
			Mark(ierr.ErrHTTPClient)
	}

	return nil, ierr.NewError("promo code not found").
		WithHintf("Promo code %s is not active", code).
		Mark(ierr.ErrNotFound)
}
