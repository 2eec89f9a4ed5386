package router

import (
	"github.com/anonto42/nano-midea/accounts/internal/auth"
	"github.com/anonto42/nano-midea/accounts/internal/handlers"
	"github.com/anonto42/nano-midea/accounts/internal/metrics"
	"github.com/anonto42/nano-midea/accounts/internal/middleware"
	"github.com/anonto42/nano-midea/accounts/internal/service"
	"github.com/anonto42/nano-midea/accounts/validators"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Accounts *service.AccountService
	Tokens   *auth.TokenManager
	Metrics  *metrics.Metrics
	Cookies  handlers.CookieOptions
	// Firebase is optional; leave nil to disable Firebase login.
	Firebase handlers.IdentityVerifier
	Log      logrus.FieldLogger
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, d Dependencies) {
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler(d.Log)
	e.Use(d.Metrics.Middleware())

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1")
	requireAuth := middleware.SessionAuth(d.Tokens)

	authHandler := handlers.NewAuthHandler(d.Accounts, d.Metrics, d.Cookies, d.Firebase)
	authHandler.RegisterAuthRoutes(api, requireAuth)
	d.Log.Info("Auth routes configured.")

	userHandler := handlers.NewUserHandler(d.Accounts, d.Metrics, d.Cookies)
	userHandler.RegisterProfileRoutes(api, requireAuth)
	d.Log.Info("User profile routes configured.")

	followHandler := handlers.NewFollowHandler(d.Accounts, d.Metrics)
	followHandler.RegisterFollowRoutes(api, requireAuth)
	d.Log.Info("Follow routes configured.")

	postHandler := handlers.NewPostHandler(d.Accounts)
	postHandler.RegisterPostRoutes(api, requireAuth)
	d.Log.Info("Post routes configured.")

	d.Log.Info("All routes configured.")
}
