// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the failure classes the API surfaces.
var (
	ErrValidation      = errors.New("validation failed")
	ErrAuthentication  = errors.New("authentication required")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrDatabase        = errors.New("database operation failed")
	ErrExternalService = errors.New("external service failed")
	ErrTimeout         = errors.New("operation timed out")
)

// Machine-readable error codes carried on API failure envelopes.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeAuthentication  = "AUTH_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeDatabase        = "DATABASE_ERROR"
	CodeExternalService = "EXTERNAL_SERVICE_ERROR"
	CodeTimeout         = "TIMEOUT"
	CodeInternal        = "INTERNAL_ERROR"
)

// Error is the application error type: a failure class, a machine code, a
// user-facing message, an HTTP-style status, and optional diagnostic detail
// that is logged but kept off the wire for end users.
type Error struct {
	kind    error
	cause   error
	Code    string
	Message string
	Details string
	Status  int
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes both the failure class and the underlying cause to errors.Is
// and errors.As.
func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

// NewValidationError reports bad or missing input. Never retried.
func NewValidationError(message string) *Error {
	return &Error{kind: ErrValidation, Code: CodeValidation, Message: message, Status: http.StatusBadRequest}
}

// NewValidationErrorf formats a validation failure message.
func NewValidationErrorf(format string, args ...any) *Error {
	return NewValidationError(fmt.Sprintf(format, args...))
}

// NewAuthenticationError reports a missing or mismatched identity.
func NewAuthenticationError(message string) *Error {
	if message == "" {
		message = "authentication required"
	}
	return &Error{kind: ErrAuthentication, Code: CodeAuthentication, Message: message, Status: http.StatusUnauthorized}
}

// NewNotFoundError reports an absent referenced entity.
func NewNotFoundError(resource string) *Error {
	return &Error{kind: ErrNotFound, Code: CodeNotFound, Message: resource + " not found", Status: http.StatusNotFound}
}

// NewConflictError reports an operation against an entity in the wrong state.
func NewConflictError(message string) *Error {
	return &Error{kind: ErrConflict, Code: CodeConflict, Message: message, Status: http.StatusConflict}
}

// NewDatabaseError wraps a failed store operation. The underlying detail is
// preserved for diagnostics but not shown to end users.
func NewDatabaseError(message string, cause error) *Error {
	return &Error{
		kind:    ErrDatabase,
		cause:   cause,
		Code:    CodeDatabase,
		Message: message,
		Details: detailOf(cause),
		Status:  http.StatusInternalServerError,
	}
}

// NewExternalServiceError wraps a failed call to an external collaborator.
func NewExternalServiceError(service string, cause error) *Error {
	return &Error{
		kind:    ErrExternalService,
		cause:   cause,
		Code:    CodeExternalService,
		Message: service + " error",
		Details: detailOf(cause),
		Status:  http.StatusBadGateway,
	}
}

// NewTimeoutError reports an awaited operation that exceeded its deadline.
func NewTimeoutError(message string) *Error {
	return &Error{kind: ErrTimeout, Code: CodeTimeout, Message: message, Status: http.StatusRequestTimeout}
}

func detailOf(cause error) string {
	if cause == nil {
		return ""
	}
	return cause.Error()
}

// HTTPStatus maps an error to the status its failure envelope carries.
// Unknown errors map to 500.
func HTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// ErrorCode returns the machine code for an error.
func ErrorCode(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsRetryable determines if an error should trigger a retry. Only server-side
// failures (status >= 500) are retryable; validation, auth, not-found and
// conflict failures never are.
func IsRetryable(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status >= http.StatusInternalServerError
	}
	return false
}
