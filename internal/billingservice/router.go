// Package billingservice exposes the billing service's internal RPC surface.
package billingservice

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/streamflow/platform/internal/core/service"
	"github.com/streamflow/platform/internal/health"
	"github.com/streamflow/platform/internal/rpc"
)

// NewRouter builds the Echo instance serving /v1/invoices.
func NewRouter(svc *service.BillingService, probes *health.Handler, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(rpc.IdentityMiddleware())
	e.HTTPErrorHandler = rpc.NewErrorHandler(log)

	h := NewHandler(svc)

	e.POST("/v1/invoices", h.Create)
	e.GET("/v1/invoices", h.List)
	e.GET("/v1/invoices/:id", h.Get)
	e.PUT("/v1/invoices/:id/status", h.UpdateStatus)
	e.DELETE("/v1/invoices/:id", h.Delete)

	health.Register(e, probes)

	return e
}
