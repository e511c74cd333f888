package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/harborlaw/legal_billing_app/internal/apperrors"
	"github.com/harborlaw/legal_billing_app/internal/core/domain"
	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// GoogleOAuthHandler handles Google OAuth related requests.
type GoogleOAuthHandler struct {
	logger             *slog.Logger
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	tokenService       portssvc.TokenSvcFacade
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(
	logger *slog.Logger,
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade,
	userService portssvc.UserSvcFacade,
	tokenService portssvc.TokenSvcFacade,
) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		logger:             logger,
		googleOAuthService: googleOAuthService,
		userService:        userService,
		tokenService:       tokenService,
	}
}

// ExchangeCodeRequest defines the expected JSON body for the /google/exchange-code endpoint.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ExchangeCodeResponse defines the successful response for the /google/exchange-code endpoint.
type ExchangeCodeResponse struct {
	Token string `json:"token"`
}

// ExchangeCodeGoogle handles the POST request from the frontend containing the
// authorization code from Google. It exchanges the code for Google tokens,
// validates the ID token, creates or retrieves the user, and returns an
// application JWT.
// @Summary Exchange authorization code for access token
// @Description Exchange authorization code for access token
// @Tags oauth
// @Accept  json
// @Produce  json
// @Param   code body ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} ExchangeCodeResponse
// @Failure 400 {object} map[string]string "Invalid authorization code"
// @Failure 500 {object} map[string]string "Failed to exchange authorization code for access token"
// @Router /auth/google/exchange-code [post]
func (h *GoogleOAuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromContext(c)

	var req ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.ErrorContext(ctx, "Failed to bind JSON for exchange code request", slog.String("error", err.Error()))
		appErr := apperrors.NewBadRequestError("Invalid request payload: " + err.Error())
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	// 1. Exchange the authorization code for Google tokens. The redirect URI
	// baked into the oauth2 config must match the one the frontend used.
	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		appErr := apperrors.NewGatewayTimeoutError("Failed to communicate with Google OAuth service.")
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") || strings.Contains(strings.ToLower(err.Error()), "bad request") {
			appErr = apperrors.NewBadRequestError("Invalid or expired authorization code provided by Google.")
		}
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.ErrorContext(ctx, "ID token not found in Google's token response")
		appErr := apperrors.NewInternalServerError("Failed to retrieve ID token from Google.")
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	// 2. Validate Google's ID token.
	googleIDTokenPayload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.ErrorContext(ctx, "Google ID token validation failed", slog.String("error", err.Error()))
		appErr := apperrors.NewUnauthorizedError("Invalid Google ID token: " + err.Error())
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	// 3. Extract user information from the validated ID token payload.
	email, _ := googleIDTokenPayload.Claims["email"].(string)
	name, _ := googleIDTokenPayload.Claims["name"].(string)
	emailVerified, _ := googleIDTokenPayload.Claims["email_verified"].(bool)
	providerUserID := googleIDTokenPayload.Subject

	if email == "" || providerUserID == "" {
		logger.ErrorContext(ctx, "Essential claims (email or sub) missing from Google ID token payload",
			slog.Any("claims", googleIDTokenPayload.Claims))
		appErr := apperrors.NewInternalServerError("Essential user information missing from Google token.")
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	if !emailVerified {
		appErr := apperrors.NewUnauthorizedError("Google account email is not verified.")
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	// 4. Look up or provision the local user account.
	finalUser, err := h.userService.GetOrCreateGoogleUser(ctx, domain.GoogleUserInfo{
		ID:            providerUserID,
		Email:         email,
		VerifiedEmail: emailVerified,
		Name:          name,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create or get OAuth user from service", slog.String("error", err.Error()), slog.String("google_user_id", providerUserID))
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		} else {
			defaultErr := apperrors.NewInternalServerError("Failed to process user authentication.")
			c.JSON(defaultErr.Code, gin.H{"error": defaultErr.Message})
		}
		return
	}
	logger.InfoContext(ctx, "User processed successfully via Google OAuth", slog.String("user_id", finalUser.UserID), slog.String("username", finalUser.Username))

	// 5. Generate the application access token.
	accessToken, _, err := h.tokenService.GenerateAccessToken(ctx, finalUser)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate application access token", slog.String("error", err.Error()), slog.String("user_id", finalUser.UserID))
		appErr := apperrors.NewInternalServerError("Failed to generate access token.")
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": ExchangeCodeResponse{
			Token: accessToken,
		},
	})
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(slog.New(slog.NewJSONHandler(os.Stdout, nil)), services.GoogleOAuthHandler, services.User, services.TokenService)
	googleRoutes := rg.Group("/google")
	{
		googleRoutes.POST("/exchange-code", h.ExchangeCodeGoogle)
	}
}
