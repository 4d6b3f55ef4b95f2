package v1

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invomate/invomate/internal/api/dto"
	"github.com/invomate/invomate/internal/config"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/integration/nowpay"
	"github.com/invomate/invomate/internal/integration/stripe"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/service"
	"github.com/invomate/invomate/internal/types"
)

// WebhookHandler receives asynchronous payment notifications from the
// gateways and feeds them to the reconciler. Signature failures and missing
// invoice references are rejected with 400; every handled status, including
// unrecognized ones, is acknowledged with 200. Reconcile failures surface
// through the error envelope so the gateway redelivers later.
type WebhookHandler struct {
	reconciler service.ReconcilerService
	cfg        *config.Configuration
	log        *logger.Logger
}

func NewWebhookHandler(reconciler service.ReconcilerService, cfg *config.Configuration, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, cfg: cfg, log: log}
}

// @Summary Crypto gateway IPN callback
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} dto.WebhookAckResponse
// @Router /webhooks/crypto [post]
func (h *WebhookHandler) HandleCryptoWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Failed to read webhook body").
			Mark(ierr.ErrValidation))
		return
	}

	signature := c.GetHeader(nowpay.SignatureHeader)
	if err := nowpay.VerifySignature(body, signature, h.cfg.Webhook.NowPayIPNSecret); err != nil {
		h.log.Warnw("rejected crypto webhook", "error", err)
		c.Error(err)
		return
	}

	var payload nowpay.IPNPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		// VerifySignature already parsed the body, so this only trips on
		// type mismatches in known fields.
		c.Error(ierr.WithError(err).
			WithHint("Invalid webhook payload").
			Mark(ierr.ErrValidation))
		return
	}

	if payload.OrderID == "" {
		c.Error(ierr.NewError("order_id is required").
			WithHint("Notification is missing the invoice reference").
			Mark(ierr.ErrValidation))
		return
	}

	ev := &service.ReconcileEvent{
		Gateway:          types.PaymentGatewayTypeNowPay,
		GatewayPaymentID: payload.PaymentID.String(),
		Status:           payload.PaymentStatus,
		OrderID:          payload.OrderID,
		PayAmount:        payload.PayAmount,
		ActuallyPaid:     payload.ActuallyPaid,
	}

	if _, err := h.reconciler.Reconcile(c.Request.Context(), ev); err != nil {
		h.log.Errorw("failed to reconcile crypto notification",
			"order_id", payload.OrderID,
			"payment_id", payload.PaymentID,
			"status", payload.PaymentStatus,
			"error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.WebhookAckResponse{Success: true})
}

// @Summary Stripe webhook callback
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} dto.WebhookAckResponse
// @Router /webhooks/stripe [post]
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Failed to read webhook body").
			Mark(ierr.ErrValidation))
		return
	}

	event, err := stripe.ConstructEvent(body, c.GetHeader(stripe.SignatureHeader), h.cfg.Stripe.WebhookSecret)
	if err != nil {
		h.log.Warnw("rejected stripe webhook", "error", err)
		c.Error(err)
		return
	}

	notification, err := stripe.TranslateEvent(&event)
	if err != nil {
		c.Error(err)
		return
	}
	if notification == nil {
		// Event type we do not process.
		c.JSON(http.StatusOK, dto.WebhookAckResponse{Success: true})
		return
	}

	if notification.OrderID == "" {
		c.Error(ierr.NewError("payment intent has no invoice reference").
			WithHint("Notification is missing the invoice reference").
			Mark(ierr.ErrValidation))
		return
	}

	ev := &service.ReconcileEvent{
		Gateway:          notification.Gateway,
		GatewayPaymentID: notification.GatewayPaymentID,
		Status:           notification.Status,
		OrderID:          notification.OrderID,
		ActuallyPaid:     notification.ActuallyPaid,
	}

	if _, err := h.reconciler.Reconcile(c.Request.Context(), ev); err != nil {
		h.log.Errorw("failed to reconcile stripe notification",
			"order_id", notification.OrderID,
			"gateway_payment_id", notification.GatewayPaymentID,
			"status", notification.Status,
			"error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.WebhookAckResponse{Success: true})
}
