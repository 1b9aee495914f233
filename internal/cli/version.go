package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/jsonrest/version"
)

func (a *app) newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if asJSON {
				return printJSON(a.stdout, info)
			}
			_, err := fmt.Fprintf(a.stdout, "%s %s\n", version.Product, info.String())
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
