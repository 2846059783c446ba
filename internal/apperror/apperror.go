package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across services and handlers
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeForbidden          = "FORBIDDEN"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeProductUnavailable = "PRODUCT_UNAVAILABLE"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeProvider           = "PROVIDER_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
)

// FieldError describes a single offending field in a validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the application error carried from services up to the HTTP layer.
// Status is the HTTP status the centralized handler should answer with.
type Error struct {
	Code    string       `json:"code"`
	Message string       `json:"error"`
	Status  int          `json:"-"`
	Fields  []FieldError `json:"details,omitempty"`
	Err     error        `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a field-level validation error
func Validation(fields []FieldError) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: "validation failed",
		Status:  http.StatusBadRequest,
		Fields:  fields,
	}
}

// NotFound builds a missing-resource error
func NotFound(what string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: what + " not found",
		Status:  http.StatusNotFound,
	}
}

// Conflict builds a duplicate-resource error
func Conflict(message string) *Error {
	return &Error{
		Code:    CodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

// Forbidden builds an access-denied error
func Forbidden(message string) *Error {
	return &Error{
		Code:    CodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// Unauthorized builds a missing/invalid-credential error
func Unauthorized(message string) *Error {
	return &Error{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// ProductUnavailable is returned when any requested product is missing,
// unavailable or belongs to another tenant. All-or-nothing: one bad product
// id invalidates the whole order.
func ProductUnavailable() *Error {
	return &Error{
		Code:    CodeProductUnavailable,
		Message: "one or more products are unavailable",
		Status:  http.StatusBadRequest,
	}
}

// InvalidTransition is returned when an order status change is not allowed
// by the lifecycle transition table
func InvalidTransition(from, to string) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition order from %s to %s", from, to),
		Status:  http.StatusConflict,
	}
}

// Provider wraps a payment-gateway failure
func Provider(message string, err error) *Error {
	return &Error{
		Code:    CodeProvider,
		Message: message,
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}

// Internal wraps an unexpected failure. The wrapped error is logged
// server-side; callers only see the generic message.
func Internal(err error) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// As extracts an *Error from err, wrapping unknown errors as Internal
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
