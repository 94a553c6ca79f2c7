package cmd

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/anfragment/zen-subscriptions/internal/logger"
	"github.com/anfragment/zen-subscriptions/internal/notifier"
	"github.com/anfragment/zen-subscriptions/internal/patternsfile"
	"github.com/anfragment/zen-subscriptions/internal/subscription"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the patterns file whenever it changes and print a summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		path := getPatternsFile()
		summarize := func() {
			reg := subscription.NewRegistry(notifier.New())
			subs, err := patternsfile.Load(path, reg)
			if err != nil {
				log.Printf("reload %s: %v", logger.Redacted(path), err)
				return
			}
			defer patternsfile.Release(subs)

			filters := 0
			for _, s := range subs {
				filters += s.FilterCount()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d subscriptions, %d filters\n", len(subs), filters)
		}

		summarize()
		return patternsfile.Watch(ctx, path, summarize)
	},
}

func init() {
	RootCmd.AddCommand(watchCmd)
}
