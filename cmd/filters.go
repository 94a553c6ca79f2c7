package cmd

import (
	"fmt"
	"strconv"

	"github.com/anfragment/zen-subscriptions/internal/filter"
	"github.com/anfragment/zen-subscriptions/internal/subscription"
	"github.com/spf13/cobra"
)

// add-filter command flags
var (
	addFilterPosition    int
	addFilterMakeDefault bool
)

var addFilterCmd = &cobra.Command{
	Use:   "add-filter <url> <filter>",
	Short: "Add a filter to a subscription, creating the subscription if needed",
	Long: `Add a filter to a subscription, creating the subscription if needed.

Use an empty url ("") to create a new user-defined subscription.

Examples:
  # Append a rule to the user's list
  zen-subscriptions add-filter '~user~12345' '||ads.example.com^'

  # Insert at the top and make the list the default for blocking rules
  zen-subscriptions add-filter '~user~12345' '||ads.example.com^' --position 0 --make-default`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(getPatternsFile(), func(s *session) error {
			return addFilter(s, args[0], args[1], addFilterPosition, addFilterMakeDefault)
		})
	},
}

// addFilter inserts the filter text into the subscription at url, appending if position is negative.
// Everything is validated before the session is modified.
func addFilter(s *session, url, text string, position int, makeDefault bool) error {
	f := filter.FromText(text)
	if f == nil || f.Type() == filter.Invalid {
		return fmt.Errorf("invalid filter %q", text)
	}

	if makeDefault && subscription.KindOf(url) != subscription.KindSpecial {
		return fmt.Errorf("%s is not a special subscription", url)
	}

	sub := s.findOrCreate(url)
	if position < 0 {
		position = sub.FilterCount()
	}
	sub.InsertFilterAt(f, position)
	if makeDefault {
		sub.AsSpecial().MakeDefaultFor(f)
	}
	return nil
}

var removeFilterCmd = &cobra.Command{
	Use:   "remove-filter <url> <index>",
	Short: "Remove the filter at the given index from a subscription",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("parse index: %w", err)
		}
		return withSession(getPatternsFile(), func(s *session) error {
			sub := s.find(args[0])
			if sub == nil {
				return fmt.Errorf("unknown subscription %q", args[0])
			}
			if index < 0 || index >= sub.FilterCount() {
				return fmt.Errorf("index %d out of range, %s has %d filters", index, sub.URL(), sub.FilterCount())
			}
			sub.RemoveFilterAt(index)
			return nil
		})
	},
}

func init() {
	addFilterCmd.Flags().IntVar(&addFilterPosition, "position", -1,
		"Position to insert the filter at (defaults to the end)")
	addFilterCmd.Flags().BoolVar(&addFilterMakeDefault, "make-default", false,
		"Make the subscription the default for the filter's type")

	RootCmd.AddCommand(addFilterCmd)
	RootCmd.AddCommand(removeFilterCmd)
}
