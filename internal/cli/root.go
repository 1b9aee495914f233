package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/jsonrest/httpclient/rest"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitService = 2
)

// app holds the state shared by the commands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configFile string
	envFile    string
	flags      callFlags
}

// NewRootCmd builds the jsonrest command tree writing to stdout and stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "jsonrest",
		Short: "Call JSON-over-REST services from the command line",
		Long: `jsonrest sends requests to services following the JSON-over-REST DTO
convention. Routes are derived from request type names (CreateUserRequest is
sent to /create-user) and error responses are decoded from their
responseStatus envelope.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is ./jsonrest.yml or ~/.jsonrest/config.yml)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", ".env file to load (default is ./.env.jsonrest or ./.env)")

	root.AddCommand(
		a.newCallCmd(),
		a.newRouteCmd(),
		a.newTokenCmd(),
		a.newVersionCmd(),
	)
	return root
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	if se, ok := rest.AsServiceError(err); ok {
		printServiceError(stderr, se)
		return exitService
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitFailure
}
