// Package gateway is the Edge Translator: it terminates external HTTP,
// authenticates callers, translates REST calls into internal RPC calls with
// the verified identity attached, and maps internal error codes back to
// transport statuses.
package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/streamflow/platform/internal/core/domain"
	"github.com/streamflow/platform/internal/rpc"
)

// errorResponse is the canonical error envelope for the external surface.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns the gateway's echo.HTTPErrorHandler. It maps
// the closed set of internal codes to transport statuses, translates the few
// domain errors raised inside the gateway itself, and logs everything
// unexpected while answering with an opaque message; internal detail never
// crosses the trust boundary.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (middleware rejections, bind failures, router 404).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Failures relayed from a backend service keep their message: backends
	// already phrase them for the caller.
	var re *rpc.Error
	if errors.As(err, &re) {
		return httpStatusFor(re.Code, log, c, err), re.Message
	}

	// Errors raised inside the gateway's own auth flow.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Credenciales inválidas"
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusForbidden, "Token no válido o expirado"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Error interno del servidor"
}

func httpStatusFor(code rpc.Code, log zerolog.Logger, c echo.Context, err error) int {
	switch code {
	case rpc.CodeInvalidArgument:
		return http.StatusBadRequest
	case rpc.CodeNotFound:
		return http.StatusNotFound
	case rpc.CodeAlreadyExists:
		return http.StatusConflict
	case rpc.CodePermissionDenied:
		return http.StatusForbidden
	case rpc.CodeUnauthenticated:
		return http.StatusUnauthorized
	case rpc.CodeFailedPrecondition:
		return http.StatusUnprocessableEntity
	case rpc.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("internal error from backend")
		return http.StatusInternalServerError
	}
}
