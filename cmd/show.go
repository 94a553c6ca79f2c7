package cmd

import (
	"fmt"

	"github.com/anfragment/zen-subscriptions/internal/storage"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <url>",
	Short: "Print a subscription in its serialized form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(getPatternsFile(), func(s *session) error {
			sub := s.find(args[0])
			if sub == nil {
				return fmt.Errorf("unknown subscription %q", args[0])
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), storage.SerializeSubscription(sub))
			return err
		})
	},
}

func init() {
	RootCmd.AddCommand(showCmd)
}
