package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streamflow/platform/internal/gateway/middleware"
	"github.com/streamflow/platform/internal/rpc"
)

// ctxIdentity returns the identity verified by the Auth middleware and
// fast-fails when the middleware did not run: a protected handler reached
// without a verified actor is a wiring bug, answered as 401 rather than
// letting an anonymous identity through.
func ctxIdentity(c echo.Context) (rpc.Identity, error) {
	id := middleware.Identity(c)
	if id.Anonymous() {
		return rpc.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
