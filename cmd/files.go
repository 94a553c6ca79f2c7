package cmd

import (
	"fmt"

	"github.com/anfragment/zen-subscriptions/internal/patternsfile"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export all subscriptions to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(getPatternsFile(), func(s *session) error {
			if err := patternsfile.Save(args[0], s.subs); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d subscriptions\n", len(s.subs))
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import subscriptions from an exported file",
	Long: `Import subscriptions from an exported file.

Subscriptions that already exist in the patterns file are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(getPatternsFile(), func(s *session) error {
			imported, err := patternsfile.Import(args[0], s.reg)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			if len(imported) > 0 {
				s.subs = append(s.subs, imported...)
				s.tracker.MarkDirty()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d subscriptions\n", len(imported))
			return nil
		})
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(importCmd)
}
