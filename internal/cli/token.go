package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/jsonrest/httpclient/rest"
)

func (a *app) newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <jwt>",
		Short: "Print the claims of a bearer token without verifying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := rest.InspectToken(args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			row := func(k, v string) {
				if v != "" {
					fmt.Fprintf(tw, "%s:\t%s\n", k, v)
				}
			}
			row("subject", info.Subject)
			row("issuer", info.Issuer)
			row("audience", strings.Join(info.Audience, ", "))
			row("issued", formatTime(info.IssuedAt))
			row("expires", formatTime(info.ExpiresAt))
			switch {
			case info.ExpiresAt.IsZero():
				row("status", "no expiry")
			case info.Expired(time.Now()):
				row("status", "expired")
			default:
				row("status", "valid for "+time.Until(info.ExpiresAt).Round(time.Second).String())
			}
			return tw.Flush()
		},
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
