package api

import (
	"errors"
	"fmt"
)

// Kind classifies an API failure for callers that need to branch on it.
type Kind int

const (
	// KindNetwork is a transport-level failure: no response was received.
	// Retryable by user action, never retried silently.
	KindNetwork Kind = iota
	// KindUnauthorized means the credential was missing or rejected. The
	// session has already been cleared by the time callers see it.
	KindUnauthorized
	// KindValidation is a malformed request rejected before any network
	// call was made.
	KindValidation
	// KindServer is a non-2xx response from the API.
	KindServer
)

// String returns a short label for the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the tagged failure type returned by the client. Expected HTTP
// failures never escape the client as anything else.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status code; zero for transport and validation failures
	Message string // user-displayable description
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Kind, e.Status)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

func networkError(cause error) *Error {
	return &Error{Kind: KindNetwork, Message: "cannot reach the shop API", cause: cause}
}

func unauthorizedError(status int, message string) *Error {
	if message == "" {
		message = "sign in required"
	}
	return &Error{Kind: KindUnauthorized, Status: status, Message: message}
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewValidationError builds a validation failure for callers that reject
// malformed mutations before reaching the client.
func NewValidationError(message string) *Error {
	return validationError(message)
}

func serverError(status int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("the shop API returned status %d", status)
	}
	return &Error{Kind: KindServer, Status: status, Message: message}
}

// ErrorKind extracts the Kind from err. ok is false when err is not an
// *Error produced by this package.
func ErrorKind(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

// IsUnauthorized reports whether err signals a missing or rejected credential.
func IsUnauthorized(err error) bool {
	k, ok := ErrorKind(err)
	return ok && k == KindUnauthorized
}

// IsValidation reports whether err was rejected before any request was sent.
func IsValidation(err error) bool {
	k, ok := ErrorKind(err)
	return ok && k == KindValidation
}

// IsNotFound reports whether err is a server response with status 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindServer && apiErr.Status == 404
}
