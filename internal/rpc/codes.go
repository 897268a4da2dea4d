// Package rpc defines the internal protocol spoken between the gateway and
// the backend services: a closed set of error codes, an error envelope, and
// the out-of-band identity fields attached to every call.
package rpc

import (
	"fmt"
	"net/http"
)

// Code classifies an internal call outcome. The set is closed: backends must
// not invent new codes, and the gateway maps each one to a transport status.
type Code string

const (
	CodeOK                 Code = "OK"
	CodeInvalidArgument    Code = "InvalidArgument"
	CodeNotFound           Code = "NotFound"
	CodeAlreadyExists      Code = "AlreadyExists"
	CodePermissionDenied   Code = "PermissionDenied"
	CodeUnauthenticated    Code = "Unauthenticated"
	CodeFailedPrecondition Code = "FailedPrecondition"
	CodeUnavailable        Code = "Unavailable"
	CodeInternal           Code = "Internal"
)

// Error is the wire-level failure of an internal call.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errorf builds an *Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the Code from err, or CodeInternal for unknown errors.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	if re, ok := err.(*Error); ok {
		return re.Code
	}
	return CodeInternal
}

// HTTPStatus returns the transport status used to carry a code between
// processes. The gateway applies the same table at the external boundary,
// except FailedPrecondition which surfaces as 422 there.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists:
		return http.StatusConflict
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeFailedPrecondition:
		return http.StatusPreconditionFailed
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// codeFromString validates a wire code, falling back to Internal.
func codeFromString(s string) Code {
	switch Code(s) {
	case CodeOK, CodeInvalidArgument, CodeNotFound, CodeAlreadyExists,
		CodePermissionDenied, CodeUnauthenticated, CodeFailedPrecondition,
		CodeUnavailable, CodeInternal:
		return Code(s)
	}
	return CodeInternal
}
