package cli

import (
	"fmt"

	"github.com/kbukum/jsonrest/httpclient/rest"
	"github.com/kbukum/jsonrest/logger"
	"github.com/kbukum/jsonrest/observability"
	"github.com/kbukum/jsonrest/version"
)

// appName is the config file and environment prefix name (JSONREST_...).
const appName = "jsonrest"

// Config is the CLI configuration file layout.
//
//	client:
//	  base_url: http://localhost:5000
//	  timeout: 30s
//	logging:
//	  level: debug
//	telemetry:
//	  enabled: true
//	  endpoint: localhost:4318
type Config struct {
	Client    rest.Config          `yaml:"client" mapstructure:"client"`
	Logging   logger.Config        `yaml:"logging" mapstructure:"logging"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills in logging and telemetry defaults. The client section
// is defaulted by rest.New once flags have been applied.
func (c *Config) ApplyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	c.Logging.ApplyDefaults()
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = version.Version
	}
	c.Telemetry.ApplyDefaults()
	if c.Telemetry.Enabled {
		c.Client.Transport.Tracing = true
	}
}

// Validate checks the logging and telemetry sections.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return c.Telemetry.Validate()
}
