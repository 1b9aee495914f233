// Package observability bootstraps OpenTelemetry for jsonrest.
//
// Init installs OTLP/HTTP tracer and meter providers globally; the
// httpclient transport records a client span and request metrics per
// exchange through them when tracing is enabled. Without Init the global
// providers are no-ops.
//
//	shutdown, err := observability.Init(ctx, observability.DefaultConfig("jsonrest"), log)
//	defer shutdown(context.Background())
package observability
