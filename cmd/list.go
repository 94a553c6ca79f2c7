package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/anfragment/zen-subscriptions/internal/cfg"
	"github.com/anfragment/zen-subscriptions/internal/subscription"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the subscriptions in the patterns file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(getPatternsFile(), func(s *session) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "URL\tKIND\tFILTERS\tDISABLED\tTITLE\tNOTES")
			for _, sub := range s.subs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%s\t%s\n", sub.URL(), sub.Kind(), sub.FilterCount(), sub.Disabled(), sub.DisplayTitle(), notes(sub))
			}
			return w.Flush()
		})
	},
}

// notes summarizes the state worth attention: default filter types, download problems and required upgrades.
func notes(sub *subscription.Subscription) string {
	if special := sub.AsSpecial(); special != nil {
		if special.IsGeneric() {
			return ""
		}
		return "defaults: " + special.Defaults().String()
	}

	d := sub.AsDownloadable()
	out := d.DownloadStatus()
	if d.Errors() > 0 {
		out += " errors: " + strconv.FormatUint(uint64(d.Errors()), 10)
	}
	if cfg.Version != "development" {
		if required, err := d.UpgradeRequired(cfg.Version); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", sub.URL(), err)
		} else if required {
			out += " upgrade required: " + d.RequiredVersion()
		}
	}
	return out
}

func init() {
	RootCmd.AddCommand(listCmd)
}
