package gateway

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/core/ports"
	"github.com/streamflow/platform/internal/gateway/handler"
	"github.com/streamflow/platform/internal/gateway/middleware"
	"github.com/streamflow/platform/internal/health"
)

// Deps bundles everything the gateway router needs wired in.
type Deps struct {
	Auth    ports.AuthService
	Tokens  ports.TokenManager
	Users   ports.UserDirectory
	Billing ports.BillingDirectory
	Probes  *health.Handler
	Log     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("streamflow_gateway"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	billingHandler := handler.NewBillingHandler(d.Billing)

	auth := middleware.Auth(d.Tokens)
	optionalAuth := middleware.OptionalAuth(d.Tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, auth)
	e.GET("/auth/profile", authHandler.Profile, auth)
	e.POST("/auth/change-password", authHandler.ChangePassword, auth)

	// --- User routes ---
	// Registration takes OptionalAuth: anonymous callers register clients,
	// an authenticated admin may assign any role.
	e.POST("/usuarios", userHandler.Create, optionalAuth)
	e.GET("/usuarios", userHandler.List, auth, adminOnly)
	e.GET("/usuarios/:id", userHandler.Get, auth)
	e.PUT("/usuarios/:id", userHandler.Update, auth)
	e.DELETE("/usuarios/:id", userHandler.Delete, auth, adminOnly)

	// --- Billing routes ---
	e.POST("/facturas", billingHandler.Create, auth, adminOnly)
	e.GET("/facturas", billingHandler.List, auth)
	e.GET("/facturas/:id", billingHandler.Get, auth)
	e.PATCH("/facturas/:id", billingHandler.UpdateStatus, auth, adminOnly)
	e.DELETE("/facturas/:id", billingHandler.Delete, auth, adminOnly)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	health.Register(e, d.Probes)

	return e
}
