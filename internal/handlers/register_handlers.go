package handlers

import (
	"github.com/harborlaw/legal_billing_app/cmd/docs"
	portssvc "github.com/harborlaw/legal_billing_app/internal/core/ports/services"
	"github.com/harborlaw/legal_billing_app/internal/middleware"
	"github.com/harborlaw/legal_billing_app/internal/platform/config"
	"github.com/harborlaw/legal_billing_app/internal/utils"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
) {
	r.Use(middleware.PosthogMiddleware(posthogClient))

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	// Register public authentication routes
	registerAuthRoutes(r, cfg, services)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	// API token auth runs first; when it authenticates a request the JWT
	// middleware steps aside.
	v1 := r.Group("/api/v1",
		middleware.APITokenAuth(service.APIToken),
		middleware.AuthMiddleware(cfg.JWTSecret),
	)

	// Delegate route registration to specific handlers, passing required services
	registerUserRoutes(v1, service.User)
	RegisterAPITokenRoutes(v1, service.APIToken)
	registerClientRoutes(v1, service.Client)
	registerCaseRoutes(v1, service.Case)
	registerTimeEntryRoutes(v1, service.TimeEntry)
	RegisterBillingRoutes(v1, service.Billing)
	registerInvoiceRoutes(v1, service.Invoice)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
