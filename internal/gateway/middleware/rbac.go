package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC gates a route on the verified role. This is the edge-side half of the
// defense-in-depth pair: the owning service re-evaluates the same policy on
// its side of the RPC boundary.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := Identity(c)
			if _, ok := allowed[id.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "No tiene permisos para realizar esta operación.")
			}
			return next(c)
		}
	}
}
