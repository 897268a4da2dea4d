package domain

import "errors"

// Account errors.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already in use")
	ErrInvalidAccount  = errors.New("invalid account data")
)

// Credential and token errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
)

// Authorization errors, shared by every backend service.
var (
	ErrUnauthenticated  = errors.New("caller is not authenticated")
	ErrPermissionDenied = errors.New("permission denied")
)

// Invoice errors.
var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrInvalidInvoice   = errors.New("invalid invoice data")
	ErrInvoicePaid      = errors.New("paid invoices cannot be deleted")
	ErrInvalidStatus    = errors.New("invalid invoice status")
)
