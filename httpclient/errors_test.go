package httpclient

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorCode_String(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeTimeout, "timeout"},
		{ErrCodeConnection, "connection"},
		{ErrCodeCanceled, "canceled"},
		{ErrCodeCircuitOpen, "circuit_open"},
		{ErrCodeInvalidRequest, "invalid_request"},
		{ErrorCode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestError_Error(t *testing.T) {
	e := NewConnectionError(fmt.Errorf("connection refused"))
	want := "httpclient: connection: connection refused"
	if got := e.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("dial tcp: i/o timeout")
	outer := NewTimeoutError(inner)
	if !errors.Is(outer, inner) {
		t.Error("expected errors.Is to reach the cause")
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want ErrorCode
	}{
		{"canceled context", canceled, fmt.Errorf("request failed"), ErrCodeCanceled},
		{"deadline", context.Background(), fmt.Errorf("wrap: %w", context.DeadlineExceeded), ErrCodeTimeout},
		{"net timeout", context.Background(), timeoutErr{}, ErrCodeTimeout},
		{"refused", context.Background(), fmt.Errorf("connection refused"), ErrCodeConnection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.ctx, tt.err); got.Code != tt.want {
				t.Errorf("got %s, want %s", got.Code, tt.want)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	if !IsTimeout(NewTimeoutError(context.DeadlineExceeded)) {
		t.Error("IsTimeout")
	}
	if IsRetryable(NewCanceledError(context.Canceled)) {
		t.Error("canceled must not be retryable")
	}
	if IsRetryable(NewCircuitOpenError("", nil)) {
		t.Error("circuit open must not be retryable")
	}
	if IsRetryable(fmt.Errorf("plain")) {
		t.Error("plain errors are not transport errors")
	}
	if !shouldRetry(&statusError{resp: &Response{StatusCode: 503}}) {
		t.Error("gateway statuses should be retried")
	}
}

func TestIsRetryableStatus(t *testing.T) {
	for code, want := range map[int]bool{200: false, 400: false, 500: false, 502: true, 503: true, 504: true} {
		if got := IsRetryableStatus(code); got != want {
			t.Errorf("IsRetryableStatus(%d) = %v, want %v", code, got, want)
		}
	}
}
