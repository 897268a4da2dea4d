package rpc

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/streamflow/platform/internal/core/domain"
)

// IdentityMiddleware extracts the out-of-band identity headers into the
// request context. It never rejects: operations that need an actor fail with
// Unauthenticated at the policy layer, not at the transport.
func IdentityMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFromHeaders(c.Request().Header)
			ctx := NewContext(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// NewErrorHandler returns an echo.HTTPErrorHandler for backend services that:
//   - Maps known domain errors to their internal code.
//   - Logs unexpected errors without leaking details across the boundary.
//   - Renders the protocol envelope: {"code": "...", "message": "..."}.
func NewErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		re := resolveError(err, log, c)
		_ = c.JSON(re.Code.HTTPStatus(), re)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) *Error {
	var re *Error
	if errors.As(err, &re) {
		return re
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := CodeInternal
		switch he.Code {
		case http.StatusBadRequest:
			code = CodeInvalidArgument
		case http.StatusNotFound:
			code = CodeNotFound
		}
		return &Error{Code: code, Message: fmt.Sprintf("%v", he.Message)}
	}

	if code, msg, ok := mapDomainError(err); ok {
		return &Error{Code: code, Message: msg}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return &Error{Code: CodeInternal, Message: "internal error"}
}

// mapDomainError translates the shared domain sentinels into protocol codes.
// Both backend services route their failures through this table.
func mapDomainError(err error) (Code, string, bool) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return CodeUnauthenticated, "El usuario debe haber iniciado sesión.", true
	case errors.Is(err, domain.ErrPermissionDenied):
		return CodePermissionDenied, "No tiene permisos para realizar esta operación.", true
	case errors.Is(err, domain.ErrAccountNotFound):
		return CodeNotFound, "Usuario no encontrado.", true
	case errors.Is(err, domain.ErrEmailTaken):
		return CodeAlreadyExists, "El correo electrónico ya está en uso.", true
	case errors.Is(err, domain.ErrInvalidAccount):
		return CodeInvalidArgument, err.Error(), true
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return CodeNotFound, "Factura no encontrada.", true
	case errors.Is(err, domain.ErrInvalidInvoice), errors.Is(err, domain.ErrInvalidStatus):
		return CodeInvalidArgument, err.Error(), true
	case errors.Is(err, domain.ErrInvoicePaid):
		return CodeFailedPrecondition, "No se puede eliminar una factura en estado pagado.", true
	}
	return CodeInternal, "", false
}
