package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/jsonrest/httpclient/rest"
)

func (a *app) newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <TypeName>...",
		Short: "Print the routes derived from request type names",
		Example: `  jsonrest route CreateUserRequest XMLHttpRequest
  CreateUserRequest  /create-user
  XMLHttpRequest     /xml-http`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			for _, name := range args {
				fmt.Fprintf(tw, "%s\t%s\n", name, rest.RouteName(name))
			}
			return tw.Flush()
		},
	}
}
