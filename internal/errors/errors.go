// Package errors provides the error taxonomy shared by the Nivesh backend,
// the desk client and the investment form pipeline. Every error that can
// reach a user is an AppError so responses stay consistent and never leak
// internal details.
package errors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, optional field-level messages
// and an optional internal error.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
	StatusCode int               `json:"-"`
	Internal   error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError carrying the same code, so that
// copies made by Wrap and WithMessage still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Fields:     sentinel.Fields,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithFields creates a new AppError carrying field-level messages.
func WithFields(sentinel *AppError, fields map[string]string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Fields:     fields,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Code returns the AppError code carried by err, or "" when err is not an AppError.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrInvalidAPIKey      = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrServiceKeyMissing  = &AppError{Code: "SERVICE_NOT_CONFIGURED", Message: "Service endpoints are not configured", StatusCode: http.StatusServiceUnavailable}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrRateLimited    = &AppError{Code: "RATE_LIMITED", Message: "Too many requests", StatusCode: http.StatusTooManyRequests}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Idempotency guard errors.
var (
	ErrIdempotencyKeyReused = &AppError{Code: "IDEMPOTENCY_KEY_REUSED", Message: "Idempotency-Key was reused with a different body", StatusCode: http.StatusConflict}
	ErrRequestInProgress    = &AppError{Code: "REQUEST_IN_PROGRESS", Message: "A request with this Idempotency-Key is already in progress", StatusCode: http.StatusConflict}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Client master errors.
var (
	ErrClientNotFound  = &AppError{Code: "CLIENT_NOT_FOUND", Message: "Client not found", StatusCode: http.StatusNotFound}
	ErrDuplicateClient = &AppError{Code: "DUPLICATE_CLIENT", Message: "A client with this code already exists", StatusCode: http.StatusConflict}
)

// Investment avenue errors.
var (
	ErrAvenueNotFound     = &AppError{Code: "AVENUE_NOT_FOUND", Message: "Investment avenue not found", StatusCode: http.StatusNotFound}
	ErrAvenueTypeMismatch = &AppError{Code: "AVENUE_TYPE_MISMATCH", Message: "Investment type does not match the selected avenue", StatusCode: http.StatusBadRequest}
	ErrAvenueInUse        = &AppError{Code: "AVENUE_IN_USE", Message: "Investment avenue is referenced by existing investments", StatusCode: http.StatusConflict}
)

// Investment form and submission errors.
var (
	ErrValidation         = &AppError{Code: "VALIDATION_ERROR", Message: "Some fields are missing or malformed", StatusCode: http.StatusBadRequest}
	ErrUnsupportedVariant = &AppError{Code: "UNSUPPORTED_VARIANT", Message: "Unsupported investment type", StatusCode: http.StatusBadRequest}
	ErrInvestmentNotFound = &AppError{Code: "INVESTMENT_NOT_FOUND", Message: "Investment not found", StatusCode: http.StatusNotFound}
	ErrSubmitInProgress   = &AppError{Code: "SUBMIT_IN_PROGRESS", Message: "A submission is already in progress", StatusCode: http.StatusConflict}
)

// Transport errors raised by the REST client.
var (
	ErrTransport = &AppError{Code: "TRANSPORT_ERROR", Message: "The backend could not be reached", StatusCode: http.StatusBadGateway}
	ErrTimeout   = &AppError{Code: "TIMEOUT", Message: "The backend did not answer in time", StatusCode: http.StatusGatewayTimeout}
)
