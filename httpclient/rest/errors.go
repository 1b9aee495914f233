package rest

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kbukum/jsonrest/errors"
	"github.com/kbukum/jsonrest/httpclient"
)

// RequestError reports caller misuse: an unsupported verb or a request that
// cannot be converted to a key/value mapping.
type RequestError struct {
	Message string
	Err     error
}

func newRequestError(msg string, err error) *RequestError {
	return &RequestError{Message: msg, Err: err}
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rest: invalid request: %s: %v", e.Message, e.Err)
	}
	return "rest: invalid request: " + e.Message
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error { return e.Err }

// AppError converts the error for callers that report *errors.AppError.
func (e *RequestError) AppError() *errors.AppError {
	return errors.InvalidRequest(e.Message).WithCause(e.Err)
}

// TransportError reports that no HTTP exchange completed: connection
// refused, DNS failure, timeout, cancellation or an open circuit.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("rest: %s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying error, usually an *httpclient.Error.
func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the exchange ran out of time.
func (e *TransportError) Timeout() bool {
	return httpclient.IsTimeout(e.Err) || stderrors.Is(e.Err, context.DeadlineExceeded)
}

// AppError converts the error for callers that report *errors.AppError.
func (e *TransportError) AppError() *errors.AppError {
	switch {
	case e.Timeout():
		return errors.Timeout(e.Method + " " + e.URL).WithCause(e.Err)
	case httpclient.IsCircuitOpen(e.Err):
		return errors.New(errors.ErrCodeServiceUnavailable, "The service is temporarily unavailable.",
			http.StatusServiceUnavailable).WithCause(e.Err)
	default:
		return errors.ConnectionFailed(e.URL).WithCause(e.Err)
	}
}

// ServiceError reports a completed exchange with a non-2xx status.
type ServiceError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// StatusDescription is the reason phrase of the status line.
	StatusDescription string
	// ResponseStatus is the decoded error envelope, nil when absent.
	ResponseStatus *ResponseStatus
	// Body is the raw response body.
	Body []byte
	// Headers are the response headers.
	Headers map[string]string
	// Method and URL identify the failed call.
	Method string
	URL    string
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if code := e.ErrorCode(); code != "" {
		return fmt.Sprintf("rest: HTTP %d (%s): %s", e.StatusCode, code, e.ErrorMessage())
	}
	return fmt.Sprintf("rest: HTTP %d: %s", e.StatusCode, e.ErrorMessage())
}

// ErrorCode returns the envelope's error code, or "" without an envelope.
func (e *ServiceError) ErrorCode() string {
	if e.ResponseStatus == nil {
		return ""
	}
	return e.ResponseStatus.ErrorCode
}

// ErrorMessage returns the envelope's message when non-empty, else the status description.
func (e *ServiceError) ErrorMessage() string {
	if e.ResponseStatus != nil && e.ResponseStatus.Message != "" {
		return e.ResponseStatus.Message
	}
	return e.StatusDescription
}

// FieldErrors returns the envelope's field-level errors.
func (e *ServiceError) FieldErrors() []ResponseError {
	if e.ResponseStatus == nil {
		return nil
	}
	return e.ResponseStatus.Errors
}

// FieldError returns the first field error for name, matched case-insensitively.
func (e *ServiceError) FieldError(name string) (ResponseError, bool) {
	for _, fe := range e.FieldErrors() {
		if strings.EqualFold(fe.FieldName, name) {
			return fe, true
		}
	}
	return ResponseError{}, false
}

// IsClientError reports a 4xx status.
func (e *ServiceError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsServerError reports a 5xx status.
func (e *ServiceError) IsServerError() bool {
	return e.StatusCode >= 500
}

// AppError converts the error for callers that report *errors.AppError.
func (e *ServiceError) AppError() *errors.AppError {
	appErr := errors.FromStatus(e.StatusCode, e.ErrorMessage()).WithDetail("status", e.StatusCode)
	if code := e.ErrorCode(); code != "" {
		appErr = appErr.WithDetail("errorCode", code)
	}
	if fields := e.FieldErrors(); len(fields) > 0 {
		appErr = appErr.WithDetail("fields", fields)
	}
	return appErr
}

// DecodeError reports a response payload that could not be parsed or
// materialized into the requested type.
type DecodeError struct {
	// StatusCode is the status of the response that failed to decode.
	StatusCode int
	// Target names the type being materialized; empty for payload decoding.
	Target string
	// Body is the raw response body.
	Body []byte
	Err  error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("rest: decode response into %s: %v", e.Target, e.Err)
	}
	return fmt.Sprintf("rest: decode response: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error { return e.Err }

// AppError converts the error for callers that report *errors.AppError.
func (e *DecodeError) AppError() *errors.AppError {
	return errors.DecodeFailed(e.Err)
}

// AsServiceError extracts a *ServiceError from err.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	ok := stderrors.As(err, &se)
	return se, ok
}

// IsRequestError checks if err is a *RequestError.
func IsRequestError(err error) bool {
	var e *RequestError
	return stderrors.As(err, &e)
}

// IsTransportError checks if err is a *TransportError.
func IsTransportError(err error) bool {
	var e *TransportError
	return stderrors.As(err, &e)
}

// IsServiceError checks if err is a *ServiceError.
func IsServiceError(err error) bool {
	var e *ServiceError
	return stderrors.As(err, &e)
}

// IsDecodeError checks if err is a *DecodeError.
func IsDecodeError(err error) bool {
	var e *DecodeError
	return stderrors.As(err, &e)
}

// IsTimeout checks if err is a transport timeout.
func IsTimeout(err error) bool {
	var e *TransportError
	return stderrors.As(err, &e) && e.Timeout()
}

// IsNotFound checks if err is a 404 service error.
func IsNotFound(err error) bool {
	se, ok := AsServiceError(err)
	return ok && se.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if err is a 401 or 403 service error.
func IsUnauthorized(err error) bool {
	se, ok := AsServiceError(err)
	return ok && (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden)
}
