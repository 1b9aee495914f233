package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/jsonrest/config"
	"github.com/kbukum/jsonrest/httpclient/rest"
	"github.com/kbukum/jsonrest/logger"
	"github.com/kbukum/jsonrest/observability"
)

// callFlags are the connection flags of the call command. They override
// the config file and environment.
type callFlags struct {
	baseURL  string
	timeout  time.Duration
	headers  []string
	bearer   string
	user     string
	password string
	raw      bool
	verbose  bool
}

func (a *app) newCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <METHOD> <route|TypeName> [key=value ...]",
		Short: "Send a request and print the response payload",
		Long: `Send a request built from key=value arguments.

The target is either an explicit route (/hello, or an absolute URL) or a
request type name whose route is derived from the name:

  jsonrest call GET Hello name=World
  jsonrest call POST /users name=Ann admin=true tags='["a","b"]'

Values true, false, null, numbers and JSON objects or arrays keep their
type; everything else is sent as a string. GET and DELETE send the fields
as a query string, POST, PUT and PATCH as a JSON body.`,
		Args: cobra.MinimumNArgs(2),
		RunE: a.runCall,
	}

	f := cmd.Flags()
	f.StringVarP(&a.flags.baseURL, "base-url", "u", "", "service base URL")
	f.DurationVarP(&a.flags.timeout, "timeout", "t", 0, "request timeout (default 60s)")
	f.StringArrayVarP(&a.flags.headers, "header", "H", nil, "extra header name=value (repeatable)")
	f.StringVar(&a.flags.bearer, "bearer", "", "bearer token")
	f.StringVar(&a.flags.user, "user", "", "basic auth username")
	f.StringVar(&a.flags.password, "password", "", "basic auth password")
	f.BoolVar(&a.flags.raw, "raw", false, "print the raw response body")
	f.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log dispatch details to stderr")
	return cmd
}

func (a *app) runCall(cmd *cobra.Command, args []string) error {
	method, target := strings.ToUpper(args[0]), args[1]

	fields, err := parseFields(args[2:])
	if err != nil {
		return err
	}

	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.NewWithWriter(&cfg.Logging, appName, a.stderr)
	ctx := cmd.Context()

	shutdown, err := observability.Init(ctx, cfg.Telemetry, log)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			log.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}()

	client, err := rest.New(cfg.Client, rest.WithLogger(log))
	if err != nil {
		return err
	}

	var (
		req  any = fields
		opts []rest.CallOption
	)
	if isExplicitPath(target) {
		opts = append(opts, rest.WithPath(target))
	} else {
		req = rest.NewNamed(target, fields)
	}

	res, err := client.Do(ctx, method, req, opts...)
	if err != nil {
		return err
	}

	if a.flags.raw {
		_, err = a.stdout.Write(res.Body)
		return err
	}
	return printJSON(a.stdout, res.Payload)
}

// loadConfig reads the config file and environment, then applies flags.
func (a *app) loadConfig(cmd *cobra.Command) (*Config, error) {
	var opts []config.LoaderOption
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}
	if a.envFile != "" {
		opts = append(opts, config.WithEnvFile(a.envFile))
	}

	cfg := &Config{}
	if err := config.LoadConfig(appName, cfg, opts...); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.Client.BaseURL = a.flags.baseURL
	}
	if flags.Changed("timeout") {
		cfg.Client.Timeout = a.flags.timeout
	}
	if flags.Changed("bearer") {
		cfg.Client.BearerToken = a.flags.bearer
	}
	if flags.Changed("user") {
		cfg.Client.Username = a.flags.user
	}
	if flags.Changed("password") {
		cfg.Client.Password = a.flags.password
	}
	if len(a.flags.headers) > 0 {
		headers, err := parseHeaders(a.flags.headers)
		if err != nil {
			return nil, err
		}
		if cfg.Client.Headers == nil {
			cfg.Client.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			cfg.Client.Headers[k] = v
		}
	}
	if a.flags.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}
