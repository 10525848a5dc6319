package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/activity"
)

func newStatementsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "statements",
		Short: "Manage imported statements",
	}
	cmd.AddCommand(newStatementsListCommand(opts), newStatementsRemoveCommand(opts))
	return cmd
}

func newStatementsListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List imported statements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				sts := s.store.Statements()
				if len(sts) == 0 {
					fmt.Fprintln(s.out, "No statements.")
					return nil
				}
				bold.Fprintf(s.out, "%3s  %-30s  %-8s  %-24s  %5s  %s\n", "#", "FILE", "ACCOUNT", "PERIOD", "TXNS", "UPLOADED")
				for i, st := range sts {
					fmt.Fprintf(s.out, "%3d  %-30s  %-8s  %-24s  %5d  %s\n",
						i, truncate(st.FileName, 30), st.AccountType,
						st.Period.Start+" to "+st.Period.End, len(st.Transactions),
						st.UploadedAt.Format("2006-01-02 15:04"))
				}
				return nil
			})
		},
	}
}

func newStatementsRemoveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove a statement and its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			return opts.withSession(cmd, func(s *session) error {
				sts := s.store.Statements()
				if err := s.store.RemoveStatement(index); err != nil {
					return err
				}
				if err := s.save(); err != nil {
					return err
				}
				removed := sts[index]
				s.record(activity.StatementRemoved, removed.FileName, fmt.Sprintf("%d transactions", len(removed.Transactions)))
				fmt.Fprintf(s.out, "Removed %s (%d transactions)\n", removed.FileName, len(removed.Transactions))
				return nil
			})
		},
	}
}
