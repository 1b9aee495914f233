package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	), nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// ClientMetrics holds the instruments recorded per HTTP exchange.
type ClientMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
}

// NewClientMetrics creates the HTTP client instruments on meter.
func NewClientMetrics(meter metric.Meter) (*ClientMetrics, error) {
	requests, err := meter.Int64Counter("http.client.requests",
		metric.WithDescription("Number of HTTP exchanges attempted"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.client.requests counter: %w", err)
	}

	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of HTTP exchanges"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.client.request.duration histogram: %w", err)
	}

	active, err := meter.Int64UpDownCounter("http.client.active_requests",
		metric.WithDescription("Number of HTTP exchanges in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.client.active_requests counter: %w", err)
	}

	return &ClientMetrics{requests: requests, duration: duration, active: active}, nil
}

// RecordStart counts an exchange as in flight.
func (m *ClientMetrics) RecordStart(ctx context.Context, method, host string) {
	m.active.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrServerAddress, host),
	))
}

// RecordEnd records a finished exchange. status is 0 when no response
// arrived; errType is empty on success.
func (m *ClientMetrics) RecordEnd(ctx context.Context, method, host string, status int, errType string, duration time.Duration) {
	m.active.Add(ctx, -1, metric.WithAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrServerAddress, host),
	))

	attrs := []attribute.KeyValue{
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrServerAddress, host),
	}
	if status > 0 {
		attrs = append(attrs, attribute.Int(AttrHTTPStatus, status))
	}
	if errType != "" {
		attrs = append(attrs, attribute.String(AttrErrorType, errType))
	}
	set := metric.WithAttributes(attrs...)
	m.requests.Add(ctx, 1, set)
	m.duration.Record(ctx, duration.Seconds(), set)
}
