package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure classes the HTTP client produces.
// Every transport or HTTP-level failure is classified exactly once, at the
// client boundary; the rest of the code switches on the kind instead of
// inspecting status codes or response bodies.
type ErrorKind string

const (
	KindNetwork        ErrorKind = "NETWORK"
	KindTimeout        ErrorKind = "TIMEOUT"
	KindBadCredentials ErrorKind = "BAD_CREDENTIALS"
	KindSessionExpired ErrorKind = "SESSION_EXPIRED"
	KindForbidden      ErrorKind = "FORBIDDEN"
	KindNotFound       ErrorKind = "NOT_FOUND"
	KindValidation     ErrorKind = "VALIDATION"
	KindServerError    ErrorKind = "SERVER_ERROR"
	KindGeneric        ErrorKind = "GENERIC"
)

// APIError is the single error type crossing the HTTP client boundary.
// Body keeps the raw response payload so gateways can recognise domain
// envelopes (e.g. the 400 "turno ya activo" conflict that carries the
// existing shift).
type APIError struct {
	Kind    ErrorKind
	Message string
	Status  int
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewAPIError builds a classified error with a user-displayable message.
func NewAPIError(kind ErrorKind, status int, message string, body []byte) *APIError {
	return &APIError{Kind: kind, Status: status, Message: message, Body: body}
}

// KindOf returns the classification of err, or KindGeneric when err did not
// originate at the HTTP client boundary.
func KindOf(err error) ErrorKind {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindGeneric
}

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// IsTransient reports whether retrying the same request can succeed. A 4xx
// classification is a verdict, not a glitch; only transport trouble and
// backend 5xx qualify.
func IsTransient(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindTimeout, KindServerError:
		return true
	default:
		return false
	}
}

// ErrRoleMismatch is returned by sign-in when the authenticated identity does
// not hold the role the caller expected to sign in as.
var ErrRoleMismatch = errors.New("el usuario no tiene el rol esperado")

// ErrMissingShiftFields is returned by sign-in when a guard omits sede or
// jornada.
var ErrMissingShiftFields = errors.New("selecciona sede y jornada")

// ErrNotPermitted wraps a transport-successful response whose domain envelope
// said permitido=false. Motivo carries the server-supplied reason.
type ErrNotPermitted struct {
	Motivo string
}

func (e *ErrNotPermitted) Error() string {
	if e.Motivo == "" {
		return "operación no permitida"
	}
	return e.Motivo
}
