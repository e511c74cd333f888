package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/dto"
	"github.com/harborlaw/legal_billing_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// caseHandler handles HTTP requests related to legal cases.
type caseHandler struct {
	caseService portssvc.CaseSvcFacade
}

func newCaseHandler(cs portssvc.CaseSvcFacade) *caseHandler {
	return &caseHandler{caseService: cs}
}

// registerCaseRoutes registers case routes. Listing hangs off the owning
// client; everything else is addressed by case ID.
func registerCaseRoutes(rg *gin.RouterGroup, caseService portssvc.CaseSvcFacade) {
	h := newCaseHandler(caseService)

	cases := rg.Group("/cases")
	{
		cases.POST("", h.createCase)
		cases.GET("/:id", h.getCase)
		cases.PUT("/:id", h.updateCase)
		cases.POST("/:id/close", h.closeCase)
	}

	rg.GET("/clients/:id/cases", h.listCasesByClient)
}

// createCase godoc
// @Summary Create a new case
// @Description Creates a case under a client. The case number must be unique per client.
// @Tags cases
// @Accept  json
// @Produce  json
// @Param   case body dto.CreateCaseRequest true "Case details"
// @Success 201 {object} dto.CaseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 409 {object} map[string]string "Duplicate case number for client"
// @Security BearerAuth
// @Router /cases [post]
func (h *caseHandler) createCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	kase, err := h.caseService.CreateCase(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create case")
		return
	}

	logger.Info("Case created", slog.String("case_id", kase.CaseID), slog.String("client_id", kase.ClientID))
	c.JSON(http.StatusCreated, dto.ToCaseResponse(kase))
}

// getCase godoc
// @Summary Get a case by ID
// @Tags cases
// @Produce  json
// @Param   id path string true "Case ID"
// @Success 200 {object} dto.CaseResponse
// @Failure 404 {object} map[string]string "Case not found"
// @Security BearerAuth
// @Router /cases/{id} [get]
func (h *caseHandler) getCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	kase, err := h.caseService.GetCaseByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve case")
		return
	}
	c.JSON(http.StatusOK, dto.ToCaseResponse(kase))
}

// listCasesByClient godoc
// @Summary List a client's cases
// @Tags cases
// @Produce  json
// @Param   id path string true "Client ID"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Page offset" default(0)
// @Success 200 {array} dto.CaseResponse
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{id}/cases [get]
func (h *caseHandler) listCasesByClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListCasesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	cases, err := h.caseService.ListCasesByClient(c.Request.Context(), c.Param("id"), params.Limit, params.Offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list cases")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCaseResponse(cases))
}

// updateCase godoc
// @Summary Update a case
// @Tags cases
// @Accept  json
// @Produce  json
// @Param   id path string true "Case ID"
// @Param   case body dto.UpdateCaseRequest true "Fields to update"
// @Success 200 {object} dto.CaseResponse
// @Failure 404 {object} map[string]string "Case not found"
// @Security BearerAuth
// @Router /cases/{id} [put]
func (h *caseHandler) updateCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	kase, err := h.caseService.UpdateCase(c.Request.Context(), c.Param("id"), req, updaterUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update case")
		return
	}
	c.JSON(http.StatusOK, dto.ToCaseResponse(kase))
}

// closeCase godoc
// @Summary Close a case
// @Description Marks a case CLOSED. Unbilled entries on a closed case remain billable.
// @Tags cases
// @Produce  json
// @Param   id path string true "Case ID"
// @Success 200 {object} dto.CaseResponse
// @Failure 404 {object} map[string]string "Case not found"
// @Security BearerAuth
// @Router /cases/{id}/close [post]
func (h *caseHandler) closeCase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	kase, err := h.caseService.CloseCase(c.Request.Context(), c.Param("id"), updaterUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to close case")
		return
	}
	c.JSON(http.StatusOK, dto.ToCaseResponse(kase))
}
