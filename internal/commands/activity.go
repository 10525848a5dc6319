package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/activity"
)

func newActivityCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent changes made through tally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(opts.dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			entries, err := activity.Read(root)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No activity.")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %-18s  %-30s  %s\n",
					e.Timestamp.Local().Format("2006-01-02 15:04"), e.Action, truncate(e.Subject, 30), e.Details)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of most recent entries to show (0 = all)")

	return cmd
}
