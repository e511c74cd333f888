package handlers

import (
	"fmt"
	"net/http"

	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/dto"
	"github.com/harborlaw/legal_billing_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Content type for xlsx downloads.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// billingHandler exposes the unbilled summary and draft computation endpoints.
type billingHandler struct {
	billingService portssvc.BillingSvcFacade
}

func newBillingHandler(bs portssvc.BillingSvcFacade) *billingHandler {
	return &billingHandler{billingService: bs}
}

// RegisterBillingRoutes registers the billing aggregation routes under the
// owning client.
func RegisterBillingRoutes(rg *gin.RouterGroup, billingService portssvc.BillingSvcFacade) {
	h := newBillingHandler(billingService)

	clients := rg.Group("/clients/:id")
	{
		clients.GET("/unbilled-summary", h.unbilledSummary)
		clients.GET("/unbilled-summary/export", h.exportUnbilledSummary)
		clients.POST("/invoice-drafts/totals", h.computeDraftTotals)
	}
}

// unbilledSummary godoc
// @Summary Unbilled work summary for a client
// @Description Aggregates the client's unbilled time entries into per-case groups with hour and amount totals. The period filter is optional and day granular.
// @Tags billing
// @Produce  json
// @Param   id path string true "Client ID"
// @Param   period query string false "Period kind" Enums(ALL, PREV_MONTH, CUSTOM) default(ALL)
// @Param   startDate query string false "Inclusive start date (YYYY-MM-DD), CUSTOM only"
// @Param   endDate query string false "Inclusive end date (YYYY-MM-DD), CUSTOM only"
// @Success 200 {object} dto.UnbilledSummaryResponse
// @Failure 400 {object} map[string]string "Invalid period parameters"
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{id}/unbilled-summary [get]
func (h *billingHandler) unbilledSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	period, err := params.ToPeriod()
	if err != nil {
		respondServiceError(c, logger, err, "Invalid period")
		return
	}

	summary, err := h.billingService.UnbilledSummary(c.Request.Context(), c.Param("id"), period)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute unbilled summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToUnbilledSummaryResponse(summary))
}

// exportUnbilledSummary godoc
// @Summary Export the unbilled summary as a spreadsheet
// @Tags billing
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   id path string true "Client ID"
// @Param   period query string false "Period kind" Enums(ALL, PREV_MONTH, CUSTOM) default(ALL)
// @Param   startDate query string false "Inclusive start date (YYYY-MM-DD), CUSTOM only"
// @Param   endDate query string false "Inclusive end date (YYYY-MM-DD), CUSTOM only"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{id}/unbilled-summary/export [get]
func (h *billingHandler) exportUnbilledSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	period, err := params.ToPeriod()
	if err != nil {
		respondServiceError(c, logger, err, "Invalid period")
		return
	}

	content, filename, err := h.billingService.ExportUnbilledSummary(c.Request.Context(), c.Param("id"), period)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to export unbilled summary")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, content)
}

// computeDraftTotals godoc
// @Summary Compute invoice draft totals
// @Description Recomputes totals and effective line values for a draft in progress: selected entries, per-entry hour and amount overrides, manual items and an optional manual grand total. Nothing is persisted.
// @Tags billing
// @Accept  json
// @Produce  json
// @Param   id path string true "Client ID"
// @Param   draft body dto.ComputeDraftRequest true "Draft state"
// @Success 200 {object} dto.ComputeDraftResponse
// @Failure 400 {object} map[string]string "Invalid draft state"
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{id}/invoice-drafts/totals [post]
func (h *billingHandler) computeDraftTotals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ComputeDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	period, err := req.ToPeriod()
	if err != nil {
		respondServiceError(c, logger, err, "Invalid period")
		return
	}

	draft, err := req.ToDraft()
	if err != nil {
		respondServiceError(c, logger, err, "Invalid draft state")
		return
	}

	totals, lines, err := h.billingService.ComputeDraft(c.Request.Context(), c.Param("id"), period, draft)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute draft totals")
		return
	}
	c.JSON(http.StatusOK, dto.ToComputeDraftResponse(totals, lines))
}
