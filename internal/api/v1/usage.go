package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invomate/invomate/internal/api/dto"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/service"
	"github.com/invomate/invomate/internal/types"
)

type UsageHandler struct {
	gate service.UsageGateService
	log  *logger.Logger
}

func NewUsageHandler(gate service.UsageGateService, log *logger.Logger) *UsageHandler {
	return &UsageHandler{gate: gate, log: log}
}

// @Summary Check the creation gate for one resource kind
// @Tags Usage
// @Produce json
// @Param kind path string true "Resource kind" Enums(clients, invoices, pdfs, emails)
// @Success 200 {object} dto.UsageLimitResponse
// @Router /usage/{kind} [get]
func (h *UsageHandler) CheckLimit(c *gin.Context) {
	kind := types.ResourceKind(c.Param("kind"))
	result := h.gate.CheckLimits(c.Request.Context(), kind)

	c.JSON(http.StatusOK, toUsageLimitResponse(kind, result))
}

// @Summary Check the creation gate for all resource kinds
// @Tags Usage
// @Produce json
// @Success 200 {object} dto.UsageSnapshotResponse
// @Router /usage [get]
func (h *UsageHandler) Snapshot(c *gin.Context) {
	snapshot := h.gate.Snapshot(c.Request.Context())

	resp := &dto.UsageSnapshotResponse{
		Limits: make([]*dto.UsageLimitResponse, 0, len(snapshot)),
	}
	for _, kind := range []types.ResourceKind{
		types.ResourceKindClient,
		types.ResourceKindInvoice,
		types.ResourceKindDocument,
		types.ResourceKindEmail,
	} {
		resp.Limits = append(resp.Limits, toUsageLimitResponse(kind, snapshot[kind]))
	}

	c.JSON(http.StatusOK, resp)
}

func toUsageLimitResponse(kind types.ResourceKind, result service.GateResult) *dto.UsageLimitResponse {
	return &dto.UsageLimitResponse{
		ResourceKind: kind.String(),
		CanCreate:    result.CanCreate(),
		Decision:     string(result.Decision),
		Current:      result.Current,
		Limit:        result.Limit,
	}
}
