// Package httpclient is the transport beneath the REST client: it turns a
// method, URL, header set and body into a status, status line, header set
// and body. It owns the concerns the dispatcher deliberately leaves out:
// TLS, connect timeouts, connection pooling, session cookies, request IDs,
// retries, circuit breaking and OpenTelemetry instrumentation.
//
// Status codes are not interpreted here. Any completed HTTP exchange comes
// back as a *Response; only failures to complete one produce an *Error.
//
// # Basic Usage
//
//	adapter, err := httpclient.New(httpclient.Config{
//	    ConnectTimeout: 10 * time.Second,
//	    Cookies:        true,
//	})
//
//	resp, err := adapter.Send(ctx, &httpclient.Request{
//	    Method:  http.MethodGet,
//	    URL:     "https://api.example.com/hello?name=World",
//	    Headers: map[string]string{"Accept": "application/json"},
//	})
//
// # With Resilience
//
//	adapter, err := httpclient.New(httpclient.Config{
//	    Retry:          httpclient.DefaultRetryConfig(),
//	    CircuitBreaker: httpclient.DefaultCircuitBreakerConfig("orders-api"),
//	})
package httpclient
