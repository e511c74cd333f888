package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/dto"
	"github.com/harborlaw/legal_billing_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// timeEntryHandler handles HTTP requests related to time entries.
type timeEntryHandler struct {
	entryService portssvc.TimeEntrySvcFacade
}

func newTimeEntryHandler(ts portssvc.TimeEntrySvcFacade) *timeEntryHandler {
	return &timeEntryHandler{entryService: ts}
}

// registerTimeEntryRoutes registers time entry routes. Listing hangs off the
// owning client and is token paginated, newest work first.
func registerTimeEntryRoutes(rg *gin.RouterGroup, entryService portssvc.TimeEntrySvcFacade) {
	h := newTimeEntryHandler(entryService)

	entries := rg.Group("/time-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("/:id", h.getEntry)
		entries.PUT("/:id", h.updateEntry)
		entries.DELETE("/:id", h.deleteEntry)
	}

	rg.GET("/clients/:id/time-entries", h.listEntriesByClient)
}

// createEntry godoc
// @Summary Log a time entry
// @Description Records billable work against a client, optionally attributed to a case. The rate defaults to the client's current hourly rate and stays frozen on the entry afterwards.
// @Tags time-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateTimeEntryRequest true "Entry details"
// @Success 201 {object} dto.TimeEntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Client or case not found"
// @Security BearerAuth
// @Router /time-entries [post]
func (h *timeEntryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.entryService.CreateEntry(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create time entry")
		return
	}

	logger.Info("Time entry created", slog.String("entry_id", entry.EntryID), slog.String("client_id", entry.ClientID))
	c.JSON(http.StatusCreated, dto.ToTimeEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a time entry by ID
// @Tags time-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.TimeEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /time-entries/{id} [get]
func (h *timeEntryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entry, err := h.entryService.GetEntryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve time entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToTimeEntryResponse(entry))
}

// listEntriesByClient godoc
// @Summary List a client's time entries
// @Description Returns the client's entries newest first, with a nextToken for the following page.
// @Tags time-entries
// @Produce  json
// @Param   id path string true "Client ID"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTimeEntriesResponse
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{id}/time-entries [get]
func (h *timeEntryHandler) listEntriesByClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTimeEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, nextToken, err := h.entryService.ListEntriesByClient(c.Request.Context(), c.Param("id"), params.Limit, params.NextToken)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list time entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTimeEntriesResponse(entries, nextToken))
}

// updateEntry godoc
// @Summary Update a time entry
// @Description Updates an unbilled entry. Entries attached to an invoice reject modification.
// @Tags time-entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   entry body dto.UpdateTimeEntryRequest true "Fields to update"
// @Success 200 {object} dto.TimeEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already invoiced"
// @Security BearerAuth
// @Router /time-entries/{id} [put]
func (h *timeEntryHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateTimeEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.entryService.UpdateEntry(c.Request.Context(), c.Param("id"), req, updaterUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update time entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToTimeEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a time entry
// @Description Deletes an unbilled entry. Entries attached to an invoice reject deletion.
// @Tags time-entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 204
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already invoiced"
// @Security BearerAuth
// @Router /time-entries/{id} [delete]
func (h *timeEntryHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.entryService.DeleteEntry(c.Request.Context(), c.Param("id"), requestingUserID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete time entry")
		return
	}
	c.Status(http.StatusNoContent)
}
