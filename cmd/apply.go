package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/anfragment/zen-subscriptions/internal/listheader"
	"github.com/anfragment/zen-subscriptions/internal/subscription"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply <url> <list-file>",
	Short: "Store a downloaded filter list in a downloadable subscription",
	Long: `Store a downloaded filter list in a downloadable subscription.

The list metadata (title, homepage, version, expiration) is taken from its
header comments. If the file is not a valid filter list, the failure is
recorded on the subscription instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(getPatternsFile(), func(s *session) error {
			sub, err := applyList(s, args[0], args[1], time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d filters\n", sub.URL(), sub.FilterCount())
			return nil
		})
	},
}

// applyList stores the filter list in the file at listPath in the downloadable subscription at url.
// If the file is not a valid list, the failure is recorded on the subscription and saved before the error is returned.
func applyList(s *session, url, listPath string, now time.Time) (*subscription.Subscription, error) {
	if subscription.KindOf(url) != subscription.KindDownloadable {
		return nil, fmt.Errorf("%s is not a downloadable subscription", url)
	}

	f, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open list: %w", err)
	}
	defer f.Close()

	sub := s.findOrCreate(url)
	d := sub.AsDownloadable()

	res, err := listheader.Parse(f)
	if err != nil {
		listheader.Fail(d, listheader.StatusInvalidData, now)
		if saveErr := s.save(); saveErr != nil {
			return nil, saveErr
		}
		return nil, fmt.Errorf("parse list: %w", err)
	}
	listheader.Apply(d, res, now)
	return sub, nil
}

func init() {
	RootCmd.AddCommand(applyCmd)
}
