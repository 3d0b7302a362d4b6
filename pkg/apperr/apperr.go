package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable, machine-readable name of an error category.
// It is sent to clients in the error envelope and must not change.
type Kind string

const (
	KindMissingTenant      Kind = "missing_tenant"
	KindNoToken            Kind = "no_token"
	KindTokenInvalid       Kind = "token_invalid"
	KindTokenExpired       Kind = "token_expired"
	KindTenantMismatch     Kind = "tenant_mismatch"
	KindForbidden          Kind = "forbidden"
	KindDuplicateEmail     Kind = "duplicate_email"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindStoreUnavailable   Kind = "store_unavailable"
	KindNotFound           Kind = "not_found"
	KindValidation         Kind = "validation"
	KindRateLimited        Kind = "rate_limited"
	KindInternal           Kind = "internal"
)

// Error carries a Kind plus an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrTokenExpired)
// works for wrapped and freshly constructed values alike.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

var (
	ErrMissingTenant      = New(KindMissingTenant, "tenant header is required")
	ErrNoToken            = New(KindNoToken, "bearer token is required")
	ErrTokenInvalid       = New(KindTokenInvalid, "token is invalid")
	ErrTokenExpired       = New(KindTokenExpired, "token has expired")
	ErrTenantMismatch     = New(KindTenantMismatch, "not authorized")
	ErrForbidden          = New(KindForbidden, "not authorized")
	ErrDuplicateEmail     = New(KindDuplicateEmail, "email is already registered")
	ErrInvalidCredentials = New(KindInvalidCredentials, "invalid credentials")
	ErrStoreUnavailable   = New(KindStoreUnavailable, "storage is unavailable")
	ErrNotFound           = New(KindNotFound, "not found")
)

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message for err. Causes are never exposed.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// Status maps a Kind to its HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case KindMissingTenant, KindValidation:
		return http.StatusBadRequest
	case KindNoToken, KindTokenInvalid, KindTokenExpired, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindTenantMismatch, KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicateEmail:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
