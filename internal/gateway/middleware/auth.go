package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/core/ports"
	"github.com/streamflow/platform/internal/metrics"
	"github.com/streamflow/platform/internal/rpc"
)

// Echo context keys set by Auth on success.
const (
	ContextKeyIdentity = "identity"
	ContextKeyToken    = "token"
)

// Auth verifies the bearer token and injects the verified identity into the
// echo context. Outcomes are reported distinctly:
//   - no token        → 401 (protected route, nothing presented)
//   - revoked token   → 401 (signature still valid, session closed)
//   - expired/forged  → 403
func Auth(tokens ports.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Acceso no autorizado: Token no proporcionado")
			}
			return verifyAndContinue(c, next, tokens, token)
		}
	}
}

// OptionalAuth verifies a bearer token when one is presented and continues
// anonymously otherwise. Used on self-registration, where an admin may
// authenticate to create privileged accounts but a new client needs no token.
func OptionalAuth(tokens ports.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return next(c)
			}
			return verifyAndContinue(c, next, tokens, token)
		}
	}
}

func verifyAndContinue(c echo.Context, next echo.HandlerFunc, tokens ports.TokenManager, token string) error {
	id, err := tokens.Verify(c.Request().Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenRevoked):
			metrics.TokenVerificationsTotal.WithLabelValues("revoked").Inc()
			return echo.NewHTTPError(http.StatusUnauthorized, "Token inválido")
		case errors.Is(err, domain.ErrTokenExpired):
			metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
			return echo.NewHTTPError(http.StatusForbidden, "Token no válido o expirado")
		case errors.Is(err, domain.ErrTokenInvalid):
			metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
			return echo.NewHTTPError(http.StatusForbidden, "Token no válido o expirado")
		default:
			return err
		}
	}

	metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
	c.Set(ContextKeyIdentity, id)
	c.Set(ContextKeyToken, token)
	return next(c)
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Identity returns the verified identity set by Auth, or the anonymous zero
// value when no middleware ran (public routes).
func Identity(c echo.Context) rpc.Identity {
	id, _ := c.Get(ContextKeyIdentity).(rpc.Identity)
	return id
}

// Token returns the raw bearer token set by Auth.
func Token(c echo.Context) string {
	token, _ := c.Get(ContextKeyToken).(string)
	return token
}
