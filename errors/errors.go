package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// InvalidRequest creates an AppError for a request the client refused to send.
func InvalidRequest(reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidRequest, Message: reason,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// InvalidConfig creates an AppError for an invalid configuration value.
func InvalidConfig(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: message,
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
	}
}

// Timeout creates an AppError for a call that exceeded its deadline.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// ConnectionFailed creates an AppError for a service that could not be reached.
func ConnectionFailed(target string) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("Unable to connect to %s.", target),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"target": target},
	}
}

// DecodeFailed creates an AppError for a response body that could not be decoded.
func DecodeFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDecodeFailed, Message: "The service returned a response that could not be decoded.",
		HTTPStatus: http.StatusBadGateway, Retryable: false, Cause: cause,
	}
}

// FromStatus maps a remote HTTP status to an AppError. The message is kept
// as reported by the remote service.
func FromStatus(status int, message string) *AppError {
	code := ErrCodeExternalService
	httpStatus := http.StatusBadGateway
	switch {
	case status == http.StatusUnauthorized:
		code, httpStatus = ErrCodeUnauthorized, status
	case status == http.StatusForbidden:
		code, httpStatus = ErrCodeForbidden, status
	case status == http.StatusNotFound:
		code, httpStatus = ErrCodeNotFound, status
	case status == http.StatusConflict:
		code, httpStatus = ErrCodeConflict, status
	case status == http.StatusTooManyRequests:
		code, httpStatus = ErrCodeRateLimited, status
	case status == http.StatusServiceUnavailable:
		code, httpStatus = ErrCodeServiceUnavailable, status
	case status >= 400 && status < 500:
		code, httpStatus = ErrCodeInvalidInput, status
	}
	return New(code, message, httpStatus)
}

// Internal creates an AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
