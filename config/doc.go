// Package config loads application configuration with Viper.
//
// Values come from a YAML, JSON or TOML file and from environment variables
// carrying the application's prefix; a .env file is loaded into the
// environment first. Keys map onto struct fields through mapstructure tags.
//
// # Usage
//
//	var cfg cli.Config
//	err := config.LoadConfig("jsonrest", &cfg, config.WithConfigFile("jsonrest.yml"))
//
// With the "jsonrest" name, JSONREST_CLIENT_BASE_URL overrides client.base_url.
package config
