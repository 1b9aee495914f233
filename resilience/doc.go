// Package resilience provides the fault-tolerance policies the HTTP transport
// can wrap around each exchange:
//   - Retry: re-runs a failed operation with exponential backoff and jitter
//   - CircuitBreaker: fails fast after repeated failures, probing for recovery
//
// Both are opt-in. The REST dispatcher never retries on its own.
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("orders-api"))
//	resp, err := resilience.Retry(ctx, resilience.DefaultRetryConfig(), func() (*Response, error) {
//	    var resp *Response
//	    err := cb.Execute(func() error {
//	        var sendErr error
//	        resp, sendErr = send(ctx)
//	        return sendErr
//	    })
//	    return resp, err
//	})
package resilience
