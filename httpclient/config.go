package httpclient

import (
	"time"

	"github.com/kbukum/jsonrest/resilience"
	"github.com/kbukum/jsonrest/validation"
)

const (
	defaultConnectTimeout   = 60 * time.Second
	defaultIdleConnsPerHost = 10
)

// Config configures the transport.
type Config struct {
	// ConnectTimeout bounds connection establishment (dial + TLS handshake).
	// Defaults to 60s. The overall exchange is bounded by the caller's context.
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout" validate:"gte=0"`

	// MaxIdleConnsPerHost caps pooled keep-alive connections per host. Defaults to 10.
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host" validate:"gte=0"`

	// TLS configures TLS settings for the HTTP transport.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Cookies enables a session cookie jar shared by all requests of the adapter.
	Cookies bool `yaml:"cookies" mapstructure:"cookies"`

	// RequestID adds an X-Request-Id header to requests that do not carry one.
	RequestID bool `yaml:"request_id" mapstructure:"request_id"`

	// Tracing enables an OpenTelemetry client span and request metrics per exchange.
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`

	// Retry configures retry behavior. Nil disables retry. Only GET, HEAD,
	// OPTIONS and DELETE are retried unless RetryWrites is set.
	Retry *resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`

	// RetryWrites extends Retry to POST, PUT and PATCH. A write whose
	// response was lost (or answered 502/503/504) may then be applied twice.
	RetryWrites bool `yaml:"retry_writes" mapstructure:"retry_writes"`

	// CircuitBreaker configures circuit breaker behavior. Nil disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	if c.MaxIdleConnsPerHost <= 0 {
		c.MaxIdleConnsPerHost = defaultIdleConnsPerHost
	}
	if c.Retry != nil && c.Retry.RetryIf == nil {
		c.Retry.RetryIf = shouldRetry
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// DefaultRetryConfig returns a retry config suitable for HTTP transports:
// transport failures and gateway statuses are retried, nothing else.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = shouldRetry
	return &cfg
}

// DefaultCircuitBreakerConfig returns a default circuit breaker config.
func DefaultCircuitBreakerConfig(name string) *resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(name)
	return &cfg
}
