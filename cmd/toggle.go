package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable <url>",
	Short: "Enable a subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDisabled(args[0], false)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <url>",
	Short: "Disable a subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDisabled(args[0], true)
	},
}

func setDisabled(url string, disabled bool) error {
	return withSession(getPatternsFile(), func(s *session) error {
		sub := s.find(url)
		if sub == nil {
			return fmt.Errorf("unknown subscription %q", url)
		}
		sub.SetDisabled(disabled)
		return nil
	})
}

func init() {
	RootCmd.AddCommand(enableCmd)
	RootCmd.AddCommand(disableCmd)
}
