package httpclient

import (
	"context"
	"net/http"
	"strings"
)

// Transport executes a single HTTP exchange.
// *Adapter is the default implementation; tests and embedders may supply their own.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Send calls f(ctx, req).
func (f TransportFunc) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP verb.
	Method string
	// URL is the fully resolved request URL, query string included.
	URL string
	// Headers are sent as-is. Later layers never merge defaults in here.
	Headers map[string]string
	// Body is the encoded request body. Nil sends no body.
	Body []byte
}

// Header returns the value of a request header, matched case-insensitively.
func (r *Request) Header(name string) string {
	return lookupHeader(r.Headers, name)
}

// Response is the result of a completed HTTP exchange.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the status line as reported by the server, e.g. "404 Not Found".
	Status string
	// Headers are the response headers (first value per canonical key).
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Header returns the value of a response header, matched case-insensitively.
func (r *Response) Header(name string) string {
	return lookupHeader(r.Headers, name)
}

// StatusText returns the reason phrase of the status line without the
// leading code, falling back to the standard text for the code.
func (r *Response) StatusText() string {
	text := strings.TrimSpace(r.Status)
	if code, rest, ok := strings.Cut(text, " "); ok && isDigits(code) {
		text = strings.TrimSpace(rest)
	} else if isDigits(text) {
		text = ""
	}
	if text == "" {
		text = http.StatusText(r.StatusCode)
	}
	return text
}

func lookupHeader(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	if v, ok := headers[http.CanonicalHeaderKey(name)]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
