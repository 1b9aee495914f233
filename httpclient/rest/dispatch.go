package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/jsonrest/httpclient"
	"github.com/kbukum/jsonrest/logger"
)

const contentTypeJSON = "application/json"

// Result is the outcome of a successful dispatch.
type Result struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Payload is the decoded body: map[string]any, []any, string, float64, bool or nil.
	Payload any
	// Body is the raw response body.
	Body []byte
	// Route is the resolved route.
	Route string
	// URL is the requested URL, query string included.
	URL string
}

// CallOption configures a single dispatch.
type CallOption func(*callOptions)

type callOptions struct {
	path    string
	headers map[string]string
}

// WithPath sets an explicit route, bypassing route inference. An absolute
// http(s) URL bypasses the base URL as well.
func WithPath(path string) CallOption {
	return func(o *callOptions) {
		o.path = strings.TrimSpace(path)
	}
}

// WithHeader adds a header to this dispatch only. It overrides custom headers
// but not the Authorization header set from credentials.
func WithHeader(name, value string) CallOption {
	return func(o *callOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[http.CanonicalHeaderKey(name)] = value
	}
}

// verbs maps supported verbs to whether they carry the request as a query string.
var verbs = map[string]bool{
	http.MethodGet:    true,
	http.MethodDelete: true,
	http.MethodPost:   false,
	http.MethodPut:    false,
	http.MethodPatch:  false,
}

// Do dispatches req with method and returns the decoded result.
//
// GET and DELETE send the request mapping as a query string; POST, PUT and
// PATCH send it as a JSON body ({} when empty). Failures are *RequestError,
// *TransportError, *ServiceError or *DecodeError.
func (c *Client) Do(ctx context.Context, method string, req any, opts ...CallOption) (*Result, error) {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}

	verb := strings.ToUpper(strings.TrimSpace(method))
	readStyle, ok := verbs[verb]
	if !ok {
		return nil, newRequestError("unsupported verb "+method, nil)
	}

	n, err := Normalize(req)
	if err != nil {
		return nil, err
	}

	snap := c.snapshot()
	route := resolveRoute(o.path, n, c.routes, DefaultRoutes)
	target := joinURL(snap.baseURL, route)

	var body []byte
	if readStyle {
		target = appendQuery(target, n.Fields.Query())
	} else {
		body, err = n.Fields.MarshalJSON()
		if err != nil {
			return nil, newRequestError("encode request body", err)
		}
	}

	headers := map[string]string{
		"Content-Type": contentTypeJSON,
		"Accept":       contentTypeJSON,
	}
	if c.userAgent != "" {
		headers["User-Agent"] = c.userAgent
	}
	for k, v := range snap.headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	for k, v := range o.headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	snap.auth.Apply(headers)

	if snap.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, snap.timeout)
		defer cancel()
	}

	log := c.log.WithContext(ctx)
	start := time.Now()
	resp, err := c.transport.Send(ctx, &httpclient.Request{
		Method:  verb,
		URL:     target,
		Headers: headers,
		Body:    body,
	})
	elapsed := time.Since(start)
	if err != nil {
		terr := &TransportError{Method: verb, URL: target, Err: err}
		log.Debug("dispatch failed", logger.Fields(
			logger.FieldMethod, verb,
			logger.FieldRoute, route,
			logger.FieldErrorKind, "transport",
			logger.FieldError, err.Error(),
			logger.FieldDuration, elapsed.Milliseconds(),
		))
		return nil, terr
	}

	fields := logger.Fields(
		logger.FieldMethod, verb,
		logger.FieldRoute, route,
		logger.FieldStatusCode, resp.StatusCode,
		logger.FieldDuration, elapsed.Milliseconds(),
	)

	if !resp.IsSuccess() {
		se := Classify(resp.StatusCode, resp.Status, resp.Body)
		se.Headers = resp.Headers
		se.Method = verb
		se.URL = target
		fields[logger.FieldErrorKind] = "service"
		fields[logger.FieldErrorCode] = se.ErrorCode()
		log.Debug("dispatch failed", fields)
		return nil, se
	}

	payload, err := DecodePayload(resp.Body)
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			de.StatusCode = resp.StatusCode
		}
		fields[logger.FieldErrorKind] = "decode"
		log.Debug("dispatch failed", fields)
		return nil, err
	}

	log.Debug("dispatch", fields)
	return &Result{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Payload:    payload,
		Body:       resp.Body,
		Route:      route,
		URL:        target,
	}, nil
}

// Send dispatches req with method and returns the decoded payload.
func (c *Client) Send(ctx context.Context, method string, req any, opts ...CallOption) (any, error) {
	res, err := c.Do(ctx, method, req, opts...)
	if err != nil {
		return nil, err
	}
	return res.Payload, nil
}

// Get dispatches req as GET with a query string.
func (c *Client) Get(ctx context.Context, req any, opts ...CallOption) (any, error) {
	return c.Send(ctx, http.MethodGet, req, opts...)
}

// Delete dispatches req as DELETE with a query string.
func (c *Client) Delete(ctx context.Context, req any, opts ...CallOption) (any, error) {
	return c.Send(ctx, http.MethodDelete, req, opts...)
}

// Post dispatches req as POST with a JSON body.
func (c *Client) Post(ctx context.Context, req any, opts ...CallOption) (any, error) {
	return c.Send(ctx, http.MethodPost, req, opts...)
}

// Put dispatches req as PUT with a JSON body.
func (c *Client) Put(ctx context.Context, req any, opts ...CallOption) (any, error) {
	return c.Send(ctx, http.MethodPut, req, opts...)
}

// Patch dispatches req as PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, req any, opts ...CallOption) (any, error) {
	return c.Send(ctx, http.MethodPatch, req, opts...)
}
