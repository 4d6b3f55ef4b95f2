package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invomate/invomate/internal/api/dto"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/service"
	"github.com/invomate/invomate/internal/types"
)

type PaymentHandler struct {
	service    service.PaymentService
	reconciler service.ReconcilerService
	log        *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, reconciler service.ReconcilerService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, reconciler: reconciler, log: log}
}

// @Summary Get a payment
// @Tags Payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	resp, err := h.service.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List payments
// @Tags Payments
// @Produce json
// @Success 200 {object} dto.ListPaymentsResponse
// @Router /payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	var filter types.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid pagination parameters").
			Mark(ierr.ErrValidation))
		return
	}

	if invoiceID := c.Query("invoice_id"); invoiceID != "" {
		resp, err := h.service.ListByInvoice(c.Request.Context(), invoiceID)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	resp, err := h.service.ListPayments(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Refresh a payment's status from the crypto gateway
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body dto.RefreshPaymentRequest true "Refresh request"
// @Success 200 {object} service.ReconcileResult
// @Router /payments/refresh [post]
func (h *PaymentHandler) RefreshPayment(c *gin.Context) {
	var req dto.RefreshPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.reconciler.RefreshPayment(c.Request.Context(), req.GatewayPaymentID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
