package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/dto"
	"github.com/harborlaw/legal_billing_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// clientHandler handles HTTP requests related to clients.
type clientHandler struct {
	clientService portssvc.ClientSvcFacade
}

func newClientHandler(cs portssvc.ClientSvcFacade) *clientHandler {
	return &clientHandler{clientService: cs}
}

// registerClientRoutes registers all client CRUD routes. The nested billing
// and listing routes under /clients/:id live in their own handlers.
func registerClientRoutes(rg *gin.RouterGroup, clientService portssvc.ClientSvcFacade) {
	h := newClientHandler(clientService)

	clients := rg.Group("/clients")
	{
		clients.POST("", h.createClient)
		clients.GET("", h.listClients)
		clients.GET("/:id", h.getClient)
		clients.PUT("/:id", h.updateClient)
		clients.DELETE("/:id", h.deleteClient)
	}
}

// createClient godoc
// @Summary Create a new client
// @Description Creates a client with a default hourly rate for new time entries
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} dto.ClientResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /clients [post]
func (h *clientHandler) createClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create client")
		return
	}

	logger.Info("Client created", slog.String("client_id", client.ClientID))
	c.JSON(http.StatusCreated, dto.ToClientResponse(client))
}

// getClient godoc
// @Summary Get a client by ID
// @Tags clients
// @Produce  json
// @Param   id path string true "Client ID"
// @Success 200 {object} dto.ClientResponse
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *clientHandler) getClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	client, err := h.clientService.GetClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve client")
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// listClients godoc
// @Summary List clients
// @Tags clients
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Page offset" default(0)
// @Success 200 {array} dto.ClientResponse
// @Security BearerAuth
// @Router /clients [get]
func (h *clientHandler) listClients(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListClientsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	clients, err := h.clientService.ListClients(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list clients")
		return
	}
	c.JSON(http.StatusOK, dto.ToListClientResponse(clients))
}

// updateClient godoc
// @Summary Update a client
// @Description Updates client fields. A changed hourly rate applies only to future time entries.
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   id path string true "Client ID"
// @Param   client body dto.UpdateClientRequest true "Fields to update"
// @Success 200 {object} dto.ClientResponse
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [put]
func (h *clientHandler) updateClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), c.Param("id"), req, updaterUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update client")
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// deleteClient godoc
// @Summary Delete a client
// @Description Deletes a client. Fails if the client still has cases, entries or invoices.
// @Tags clients
// @Produce  json
// @Param   id path string true "Client ID"
// @Success 204
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 409 {object} map[string]string "Client still has dependent records"
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (h *clientHandler) deleteClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), c.Param("id"), requestingUserID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete client")
		return
	}
	c.Status(http.StatusNoContent)
}
