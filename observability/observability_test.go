package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/jsonrest/validation"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("test-service")

	if !cfg.Enabled {
		t.Error("expected default config to be enabled")
	}
	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.MetricInterval != 15*time.Second {
		t.Errorf("expected MetricInterval 15s, got %v", cfg.MetricInterval)
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.ServiceName != "jsonrest" || cfg.Environment != "development" || cfg.Endpoint != "localhost:4318" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.MetricInterval != 15*time.Second {
		t.Errorf("expected 15s interval, got %v", cfg.MetricInterval)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		field   string
		wantErr bool
	}{
		{"valid", DefaultConfig("svc"), "", false},
		{"sample rate too high", Config{SampleRate: 1.5}, "sample_rate", true},
		{"negative sample rate", Config{SampleRate: -0.1}, "sample_rate", true},
		{"enabled without endpoint", Config{Enabled: true}, "endpoint", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				fields := validation.FieldErrors(err)
				if len(fields) == 0 || fields[0].Field != tc.field {
					t.Errorf("expected %s field error, got %+v", tc.field, fields)
				}
			}
		})
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tc := range tests {
		if got := sampler(tc.rate).Description(); !strings.Contains(got, tc.want) {
			t.Errorf("sampler(%v) = %q, want it to contain %q", tc.rate, got, tc.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource(Config{ServiceName: "svc", ServiceVersion: "1.2.3", Environment: "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := map[string]string{}
	for _, kv := range res.Attributes() {
		got[string(kv.Key)] = kv.Value.Emit()
	}
	if got[AttrServiceName] != "svc" || got[AttrServiceVersion] != "1.2.3" || got[AttrEnvironment] != "test" {
		t.Errorf("unexpected resource attributes %v", got)
	}
}

func TestInitDisabled(t *testing.T) {
	before := otel.GetTracerProvider()
	shutdown, err := Init(context.Background(), Config{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if otel.GetTracerProvider() != before {
		t.Error("disabled telemetry must not replace the global provider")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestInitInvalid(t *testing.T) {
	if _, err := Init(context.Background(), Config{Enabled: true, SampleRate: 3}, nil); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestInitExportsSpans(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	prevTP, prevMP, prevProp := otel.GetTracerProvider(), otel.GetMeterProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
		otel.SetTextMapPropagator(prevProp)
	})

	cfg := DefaultConfig("test-service")
	cfg.Endpoint = strings.TrimPrefix(collector.URL, "http://")
	shutdown, err := Init(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := otel.GetTextMapPropagator().Fields()
	if !containsString(fields, "traceparent") || !containsString(fields, "baggage") {
		t.Errorf("expected W3C propagators, got %v", fields)
	}

	_, span := Tracer("test").Start(context.Background(), "op")
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !containsString(paths, "/v1/traces") {
		t.Errorf("expected spans to be exported, got %v", paths)
	}
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func TestClientMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewClientMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	m.RecordStart(ctx, "GET", "localhost")
	m.RecordEnd(ctx, "GET", "localhost", 200, "", 120*time.Millisecond)
	m.RecordStart(ctx, "POST", "localhost")
	m.RecordEnd(ctx, "POST", "localhost", 0, "timeout", time.Second)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			names[md.Name] = true
			if md.Name == "http.client.requests" {
				sum := md.Data.(metricdata.Sum[int64])
				var total int64
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
				if total != 2 {
					t.Errorf("expected 2 requests, got %d", total)
				}
			}
		}
	}
	for _, want := range []string{"http.client.requests", "http.client.request.duration", "http.client.active_requests"} {
		if !names[want] {
			t.Errorf("expected metric %s, got %v", want, names)
		}
	}
}

func TestSetSpanError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	SetSpanError(span, errors.New("boom"))
	SetSpanError(span, nil)
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Status().Code != codes.Error || ended[0].Status().Description != "boom" {
		t.Errorf("unexpected status %+v", ended[0].Status())
	}
	if len(ended[0].Events()) != 1 {
		t.Errorf("expected one error event, got %d", len(ended[0].Events()))
	}

	SetSpanError(nil, errors.New("ignored"))
}
