package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net"
	"net/http"
	"net/http/cookiejar"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/publicsuffix"

	"github.com/kbukum/jsonrest/observability"
	"github.com/kbukum/jsonrest/resilience"
)

const (
	instrumentationName = "github.com/kbukum/jsonrest/httpclient"

	// HeaderRequestID is the header carrying the generated request ID.
	HeaderRequestID = "X-Request-Id"
)

// Adapter is the default Transport: a pooled *http.Client with TLS,
// connect timeout, optional cookie jar, request IDs, resilience policies
// and OpenTelemetry instrumentation.
type Adapter struct {
	httpClient *http.Client
	config     Config
	cb         *resilience.CircuitBreaker
	inst       *instruments
}

var _ Transport = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithHTTPClient replaces the underlying *http.Client.
// TLS, connect timeout and cookie settings of Config are then ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) {
		if c != nil {
			a.httpClient = c
		}
	}
}

// WithCookieJar installs a caller-owned cookie jar.
func WithCookieJar(jar http.CookieJar) Option {
	return func(a *Adapter) {
		a.httpClient.Jar = jar
	}
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	if cfg.Retry != nil {
		retry := *cfg.Retry
		cfg.Retry = &retry
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   cfg.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = cfg.ConnectTimeout
	transport.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}

	a := &Adapter{
		httpClient: &http.Client{Transport: transport},
		config:     cfg,
	}

	if cfg.Cookies {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("httpclient: create cookie jar: %w", err)
		}
		a.httpClient.Jar = jar
	}

	if cfg.CircuitBreaker != nil {
		cbCfg := *cfg.CircuitBreaker
		if cbCfg.IsFailure == nil {
			cbCfg.IsFailure = isBreakerFailure
		}
		a.cb = resilience.NewCircuitBreaker(cbCfg)
	}

	if cfg.Tracing {
		inst, err := newInstruments()
		if err != nil {
			return nil, err
		}
		a.inst = inst
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Send executes the exchange, applying the circuit breaker and retry policy
// when configured. Every completed exchange is returned as a *Response,
// whatever its status; an error means no response was obtained.
func (a *Adapter) Send(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, NewInvalidRequestError("nil request", nil)
	}
	if a.config.Retry != nil && a.retryable(req.Method) {
		return unwrapStatus(resilience.Retry(ctx, *a.config.Retry, func() (*Response, error) {
			return a.attempt(ctx, req)
		}))
	}
	return unwrapStatus(a.attempt(ctx, req))
}

// replayMethods are retried without RetryWrites.
var replayMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	http.MethodDelete:  true,
}

func (a *Adapter) retryable(method string) bool {
	return a.config.RetryWrites || replayMethods[strings.ToUpper(method)]
}

// CircuitState returns the circuit breaker state, or StateClosed when no breaker is configured.
func (a *Adapter) CircuitState() resilience.State {
	if a.cb == nil {
		return resilience.StateClosed
	}
	return a.cb.State()
}

// Jar returns the adapter's cookie jar, if any.
func (a *Adapter) Jar() http.CookieJar {
	return a.httpClient.Jar
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (a *Adapter) Unwrap() *http.Client {
	return a.httpClient
}

// Close releases idle connections held by the adapter.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// attempt runs one exchange through the circuit breaker.
func (a *Adapter) attempt(ctx context.Context, req *Request) (*Response, error) {
	exchange := func() (*Response, error) {
		resp, err := a.exchange(ctx, req)
		if err == nil && IsRetryableStatus(resp.StatusCode) {
			return resp, &statusError{resp: resp}
		}
		return resp, err
	}

	if a.cb == nil {
		return exchange()
	}

	var resp *Response
	err := a.cb.Execute(func() error {
		var execErr error
		resp, execErr = exchange()
		return execErr
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return nil, NewCircuitOpenError(a.cb.Name(), err)
	}
	return resp, err
}

// exchange builds and sends a single HTTP request.
func (a *Adapter) exchange(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, NewInvalidRequestError("create request", err)
	}
	// Sorted so that names differing only in case resolve the same way on every call.
	for _, k := range slices.Sorted(maps.Keys(req.Headers)) {
		httpReq.Header.Set(k, req.Headers[k])
	}
	if a.config.RequestID && httpReq.Header.Get(HeaderRequestID) == "" {
		httpReq.Header.Set(HeaderRequestID, uuid.NewString())
	}

	var span trace.Span
	if a.inst != nil {
		ctx, span = a.inst.start(ctx, httpReq)
		httpReq = httpReq.WithContext(ctx)
		defer span.End()
	}

	start := time.Now()
	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		classified := classifyError(ctx, err)
		a.inst.finish(ctx, span, httpReq, 0, start, classified)
		return nil, classified
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		classified := classifyError(ctx, fmt.Errorf("read response body: %w", err))
		a.inst.finish(ctx, span, httpReq, resp.StatusCode, start, classified)
		return nil, classified
	}
	a.inst.finish(ctx, span, httpReq, resp.StatusCode, start, nil)

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    flattenHeaders(resp.Header),
		Body:       data,
	}, nil
}

// shouldRetry is the default retry predicate: retryable transport failures
// and gateway statuses.
func shouldRetry(err error) bool {
	var se *statusError
	return errors.As(err, &se) || IsRetryable(err)
}

// isBreakerFailure counts gateway statuses and transport failures, except
// caller cancellation, against the circuit.
func isBreakerFailure(err error) bool {
	return err != nil && !IsCanceled(err)
}

// unwrapStatus turns a retryable status that survived every attempt back
// into a plain response.
func unwrapStatus(resp *Response, err error) (*Response, error) {
	var se *statusError
	if errors.As(err, &se) {
		return se.resp, nil
	}
	return resp, err
}

// instruments holds the tracer and metric instruments of an adapter.
type instruments struct {
	tracer  trace.Tracer
	metrics *observability.ClientMetrics
}

func newInstruments() (*instruments, error) {
	metrics, err := observability.NewClientMetrics(observability.Meter(instrumentationName))
	if err != nil {
		return nil, fmt.Errorf("httpclient: %w", err)
	}
	return &instruments{
		tracer:  observability.Tracer(instrumentationName),
		metrics: metrics,
	}, nil
}

func (i *instruments) start(ctx context.Context, req *http.Request) (context.Context, trace.Span) {
	ctx, span := i.tracer.Start(ctx, "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(observability.AttrHTTPMethod, req.Method),
			attribute.String(observability.AttrURLFull, req.URL.Redacted()),
			attribute.String(observability.AttrServerAddress, req.URL.Hostname()),
		),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	i.metrics.RecordStart(ctx, req.Method, req.URL.Hostname())
	return ctx, span
}

func (i *instruments) finish(ctx context.Context, span trace.Span, req *http.Request, status int, start time.Time, err *Error) {
	if i == nil {
		return
	}
	if status > 0 {
		span.SetAttributes(attribute.Int(observability.AttrHTTPStatus, status))
		if status >= 500 {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
	var errType string
	if err != nil {
		errType = err.Code.String()
		observability.SetSpanError(span, err)
	}
	i.metrics.RecordEnd(ctx, req.Method, req.URL.Hostname(), status, errType, time.Since(start))
}
