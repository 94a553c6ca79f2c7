package cmd

import (
	"fmt"
	"log"

	"github.com/anfragment/zen-subscriptions/internal/cfg"
	"github.com/anfragment/zen-subscriptions/internal/logger"
	"github.com/spf13/cobra"
)

// patternsFile overrides the patterns file location from the config.
var patternsFile string

// config is loaded before any subcommand runs.
var config *cfg.Config

var RootCmd = &cobra.Command{
	Use:   "zen-subscriptions",
	Short: "Inspect and edit filter subscriptions",
	Long: `Inspect and edit the filter subscriptions stored in the patterns file.

Mutating commands rewrite the patterns file only if something actually changed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		config, err = cfg.NewConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := logger.SetupLogger(config.GetLogToFile()); err != nil {
			return fmt.Errorf("setup logger: %w", err)
		}
		if config.IsFirstLaunch() {
			log.Printf("created default config, version %s", cfg.Version)
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&patternsFile, "file", "f", "",
		"Path to the patterns file (defaults to the one in the data directory)")
}

func getPatternsFile() string {
	if patternsFile != "" {
		return patternsFile
	}
	return config.GetPatternsFile()
}
