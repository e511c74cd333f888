package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harborlaw/legal_billing_app/internal/apperrors"
)

// respondServiceError translates a service-layer error into an HTTP response.
// AppErrors carry their own status code; well-known sentinel errors map to
// the obvious statuses; anything else is a 500 with the fallback message.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "Resource already exists"})
	case errors.Is(err, apperrors.ErrEntryInvoiced):
		c.JSON(http.StatusConflict, gin.H{"error": "Time entry is already attached to an invoice"})
	case errors.Is(err, apperrors.ErrInvoiceNotEditable):
		c.JSON(http.StatusConflict, gin.H{"error": "Invoice cannot be modified in its current status"})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}
