package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/activity"
)

func newClearCommand(opts *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all statements and custom categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear without --yes")
			}
			return opts.withSession(cmd, func(s *session) error {
				s.store.ClearAll()
				if err := s.save(); err != nil {
					return err
				}
				s.record(activity.DataCleared, "", "")
				fmt.Fprintln(s.out, "Cleared all finance data.")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting everything")

	return cmd
}
