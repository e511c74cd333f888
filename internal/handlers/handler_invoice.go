package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/dto"
	"github.com/harborlaw/legal_billing_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests for invoices and their lifecycle.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: is}
}

// registerInvoiceRoutes registers invoice routes. Creation hangs off the
// owning client; lifecycle transitions are addressed by invoice ID.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.GET("/:id/export", h.exportInvoice)
		invoices.POST("/:id/finalize", h.finalizeInvoice)
		invoices.POST("/:id/send", h.markSent)
		invoices.POST("/:id/pay", h.markPaid)
		invoices.POST("/:id/void", h.voidInvoice)
	}

	rg.POST("/clients/:id/invoices", h.createInvoice)
}

// createInvoice godoc
// @Summary Create an invoice from a draft
// @Description Persists the submitted draft as a DRAFT invoice. Totals are recomputed server side and the billed entries are locked against further modification.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Client ID"
// @Param   invoice body dto.CreateInvoiceRequest true "Draft state"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string "Invalid draft state"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 409 {object} map[string]string "An entry was billed concurrently"
// @Security BearerAuth
// @Router /clients/{id}/invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
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

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := h.invoiceService.CreateFromDraft(c.Request.Context(), c.Param("id"), period, draft, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create invoice")
		return
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("client_id", invoice.ClientID))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// getInvoice godoc
// @Summary Get an invoice by ID
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List invoices
// @Description Lists invoices, optionally filtered by client and status, newest first.
// @Tags invoices
// @Produce  json
// @Param   clientID query string false "Filter by client"
// @Param   status query string false "Filter by status" Enums(DRAFT, FINALIZED, SENT, PAID, VOID)
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Page offset" default(0)
// @Success 200 {array} dto.InvoiceResponse
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	var status *domain.InvoiceStatus
	if params.Status != nil {
		s := domain.InvoiceStatus(*params.Status)
		status = &s
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), params.ClientID, status, params.Limit, params.Offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, dto.ToListInvoiceResponse(invoices))
}

// exportInvoice godoc
// @Summary Export an invoice as a spreadsheet
// @Tags invoices
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   id path string true "Invoice ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id}/export [get]
func (h *invoiceHandler) exportInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	content, filename, err := h.invoiceService.ExportInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to export invoice")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, content)
}

// finalizeInvoice godoc
// @Summary Finalize a draft invoice
// @Description Allocates the sequential invoice number, sets the issue date and freezes the invoice content.
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice is not a draft, or the number was taken concurrently"
// @Security BearerAuth
// @Router /invoices/{id}/finalize [post]
func (h *invoiceHandler) finalizeInvoice(c *gin.Context) {
	h.transition(c, h.invoiceService.FinalizeInvoice, "Failed to finalize invoice")
}

// markSent godoc
// @Summary Mark a finalized invoice as sent
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice is not in FINALIZED status"
// @Security BearerAuth
// @Router /invoices/{id}/send [post]
func (h *invoiceHandler) markSent(c *gin.Context) {
	h.transition(c, h.invoiceService.MarkSent, "Failed to mark invoice as sent")
}

// markPaid godoc
// @Summary Mark a sent invoice as paid
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Invoice is not in SENT status"
// @Security BearerAuth
// @Router /invoices/{id}/pay [post]
func (h *invoiceHandler) markPaid(c *gin.Context) {
	h.transition(c, h.invoiceService.MarkPaid, "Failed to mark invoice as paid")
}

// voidInvoice godoc
// @Summary Void an invoice
// @Description Voids an unpaid invoice and releases its time entries back to the unbilled pool.
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Paid invoices cannot be voided"
// @Security BearerAuth
// @Router /invoices/{id}/void [post]
func (h *invoiceHandler) voidInvoice(c *gin.Context) {
	h.transition(c, h.invoiceService.VoidInvoice, "Failed to void invoice")
}

type transitionFunc func(ctx context.Context, invoiceID string, updaterUserID string) (*domain.Invoice, error)

func (h *invoiceHandler) transition(c *gin.Context, fn transitionFunc, fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	invoice, err := fn(c.Request.Context(), c.Param("id"), updaterUserID)
	if err != nil {
		respondServiceError(c, logger, err, fallbackMsg)
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}
