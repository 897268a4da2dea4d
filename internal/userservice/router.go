// Package userservice exposes the user service's internal RPC surface.
package userservice

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/streamflow/platform/internal/core/service"
	"github.com/streamflow/platform/internal/health"
	"github.com/streamflow/platform/internal/rpc"
)

// NewRouter builds the Echo instance serving /v1/users.
func NewRouter(svc *service.UserService, probes *health.Handler, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(rpc.IdentityMiddleware())
	e.HTTPErrorHandler = rpc.NewErrorHandler(log)

	h := NewHandler(svc)

	// Static route before the :id parameter so /credentials never binds as
	// an account id.
	e.GET("/v1/users/credentials", h.GetCredentials)

	e.POST("/v1/users", h.Create)
	e.GET("/v1/users", h.List)
	e.GET("/v1/users/:id", h.Get)
	e.PUT("/v1/users/:id", h.Update)
	e.DELETE("/v1/users/:id", h.Delete)
	e.PUT("/v1/users/:id/password", h.ChangePassword)

	health.Register(e, probes)

	return e
}
