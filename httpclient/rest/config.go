package rest

import (
	"strings"
	"time"

	"github.com/kbukum/jsonrest/httpclient"
	"github.com/kbukum/jsonrest/validation"
)

// DefaultTimeout bounds each dispatch unless configured otherwise.
const DefaultTimeout = 60 * time.Second

// Config configures a Client.
type Config struct {
	// BaseURL is prepended to every resolved route. Trailing slashes are trimmed.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,baseurl"`

	// Timeout bounds each dispatch. Defaults to 60s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// Headers are sent with every request and may override the JSON defaults.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Username and Password enable HTTP basic auth when both are set.
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`

	// BearerToken enables bearer auth and takes precedence over basic auth.
	BearerToken string `yaml:"bearer_token" mapstructure:"bearer_token"`

	// Transport configures the default httpclient.Adapter. Ignored with WithTransport.
	Transport httpclient.Config `yaml:"transport" mapstructure:"transport"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	c.BaseURL = trimBaseURL(c.BaseURL)
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	c.Transport.ApplyDefaults()
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

func trimBaseURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}
