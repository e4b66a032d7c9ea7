package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an Error for status mapping and logging.
type ErrorType string

const (
	// ValidationError represents schema or field validation failures.
	ValidationError ErrorType = "VALIDATION_ERROR"
	// AuthenticationError represents authentication failures (provider
	// rejected the code, or an invalid/expired session credential).
	AuthenticationError ErrorType = "AUTHENTICATION_ERROR"
	// ReviewGenerationError represents a completion call that produced
	// no usable content.
	ReviewGenerationError ErrorType = "REVIEW_GENERATION_ERROR"
	// ExternalServiceError represents a failure reported by an upstream
	// provider, carrying the provider's status code.
	ExternalServiceError ErrorType = "EXTERNAL_SERVICE_ERROR"
	// InternalError represents unexpected defects.
	InternalError ErrorType = "INTERNAL_ERROR"
)

// Error is the operational error shape used across the service. Every
// failure that reaches the transport layer is one of these; anything
// else is treated as unexpected and surfaced as a generic 500.
type Error struct {
	Type       ErrorType              `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"status_code"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsOperational reports whether the error is an expected, classifiable
// failure as opposed to an unexpected defect.
func (e *Error) IsOperational() bool {
	return e.Type != InternalError
}

// HTTPStatus returns the status code the error should surface with.
func (e *Error) HTTPStatus() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Type {
	case ValidationError:
		return http.StatusBadRequest
	case AuthenticationError:
		return http.StatusUnauthorized
	case ExternalServiceError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AsError extracts a *Error from err's chain, if present.
func AsError(err error) (*Error, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// NewValidationError creates a new validation error (400).
func NewValidationError(code, message string, details map[string]interface{}) *Error {
	return &Error{
		Type:       ValidationError,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// NewAuthenticationError creates a new authentication error (401).
func NewAuthenticationError(code, message string) *Error {
	return &Error{
		Type:       AuthenticationError,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewReviewGenerationError creates a new review generation error (500).
// It is operational: the pipeline ran, the model returned nothing.
func NewReviewGenerationError(code, message string) *Error {
	return &Error{
		Type:       ReviewGenerationError,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewExternalServiceError creates an error that echoes an upstream
// provider failure with the provider's own status code.
func NewExternalServiceError(code, message string, statusCode int, cause error) *Error {
	if statusCode == 0 {
		statusCode = http.StatusBadGateway
	}
	return &Error{
		Type:       ExternalServiceError,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error (500, non-operational).
func NewInternalError(code, message string, cause error) *Error {
	return &Error{
		Type:       InternalError,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}
