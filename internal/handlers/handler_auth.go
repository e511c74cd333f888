package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/gin-gonic/gin"
	"github.com/harborlaw/legal_billing_app/internal/apperrors"
	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/dto"
	"github.com/harborlaw/legal_billing_app/internal/middleware"
	"github.com/harborlaw/legal_billing_app/internal/platform/config"
	"github.com/harborlaw/legal_billing_app/internal/utils"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	cfg          *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService:  us,
		tokenService: ts,
		cfg:          cfg,
	}
}

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services.User, services.TokenService, cfg)

	// Rate limit: 5 login attempts per minute per IP
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := limitergin.NewMiddleware(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/register", h.Register)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		registerGoogleOAuthRoutes(auth, services)
	}
}

// setRefreshCookie writes the refresh token cookie. The value carries the
// user ID alongside the raw token because refresh validation is keyed by
// user, not by token.
func (h *AuthHandler) setRefreshCookie(c *gin.Context, userID, rawToken string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.cfg.RefreshTokenCookieName,
		userID+":"+rawToken,
		maxAge,
		h.cfg.RefreshTokenCookiePath,
		"",
		h.cfg.IsProduction,
		true,
	)
}

func (h *AuthHandler) readRefreshCookie(c *gin.Context) (userID, rawToken string, ok bool) {
	value, err := c.Cookie(h.cfg.RefreshTokenCookieName)
	if err != nil || value == "" {
		return "", "", false
	}
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT access token plus a refresh token cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromContext(c)

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.userService.AuthenticateUser(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
			return
		}
		logger.Error("Authentication failed unexpectedly", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Login failed"})
		return
	}

	accessToken, accessExpiry, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	rawRefreshToken, refreshExpiry, err := h.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		logger.Error("Failed to generate refresh token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}
	if err := h.userService.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(rawRefreshToken), refreshExpiry); err != nil {
		logger.Error("Failed to persist refresh token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	h.setRefreshCookie(c, user.UserID, rawRefreshToken, int(h.cfg.RefreshTokenExpiryDuration.Seconds()))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     accessToken,
		ExpiresAt: accessExpiry,
		User:      dto.ToUserResponse(user),
	})
}

// Register godoc
// @Summary Register new user
// @Description Creates a new user account.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.CreateUserRequest true "User Details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromContext(c)

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.CreateUser(ctx, req)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
			return
		}
		logger.Error("Failed to register user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Refresh godoc
// @Summary Refresh access token
// @Description Exchanges a valid refresh token cookie for a new access token. The refresh token is rotated.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromContext(c)

	userID, rawToken, ok := h.readRefreshCookie(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Missing refresh token"})
		return
	}

	user, err := h.tokenService.ValidateAndParseRefreshToken(ctx, userID, rawToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrRefreshTokenExpired) || errors.Is(err, apperrors.ErrUnauthorized) {
			h.setRefreshCookie(c, "", "", -1)
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired refresh token"})
			return
		}
		logger.Error("Refresh token validation failed unexpectedly", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to refresh token"})
		return
	}

	accessToken, accessExpiry, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to refresh token"})
		return
	}

	// Rotate the refresh token on every use.
	newRefreshToken, refreshExpiry, err := h.tokenService.GenerateRefreshToken(ctx, user)
	if err != nil {
		logger.Error("Failed to rotate refresh token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to refresh token"})
		return
	}
	if err := h.userService.UpdateRefreshToken(ctx, user.UserID, utils.HashRefreshToken(newRefreshToken), refreshExpiry); err != nil {
		logger.Error("Failed to persist rotated refresh token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to refresh token"})
		return
	}

	h.setRefreshCookie(c, user.UserID, newRefreshToken, int(h.cfg.RefreshTokenExpiryDuration.Seconds()))
	c.JSON(http.StatusOK, dto.RefreshTokenResponse{
		Token:     accessToken,
		ExpiresAt: accessExpiry,
	})
}

// Logout godoc
// @Summary Logout
// @Description Clears the refresh token cookie and revokes the stored refresh token.
// @Tags auth
// @Produce json
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if userID, _, ok := h.readRefreshCookie(c); ok {
		if err := h.userService.ClearRefreshToken(ctx, userID); err != nil {
			logger := middleware.GetLoggerFromContext(c)
			logger.Warn("Failed to clear stored refresh token on logout", slog.String("error", err.Error()))
		}
	}

	h.setRefreshCookie(c, "", "", -1)
	c.Status(http.StatusNoContent)
}
