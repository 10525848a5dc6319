package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show income, expenses and spending by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				printSummary(s)
				return nil
			})
		},
	}
}

func printSummary(s *session) {
	sum := s.store.Summary()
	if sum.TransactionCount == 0 {
		fmt.Fprintln(s.out, "No transactions.")
		return
	}

	p := s.store.Period()
	fmt.Fprintf(s.out, "Period:        %s to %s\n", p.Start, p.End)
	fmt.Fprintf(s.out, "Transactions:  %d\n", sum.TransactionCount)
	fmt.Fprintf(s.out, "Income:        %s\n", amount(sum.TotalIncome, 12))
	fmt.Fprintf(s.out, "Expenses:      %s\n", amount(sum.TotalExpenses.Neg(), 12))
	fmt.Fprintf(s.out, "Net change:    %s\n", amount(sum.NetChange, 12))
	fmt.Fprintf(s.out, "Last updated:  %s\n", s.store.LastUpdated().Local().Format("2006-01-02 15:04"))

	if len(sum.ByCategory) == 0 {
		return
	}
	fmt.Fprintln(s.out)
	bold.Fprintf(s.out, "%-24s  %12s  %5s  %6s\n", "CATEGORY", "TOTAL", "COUNT", "SHARE")
	for _, c := range sum.ByCategory {
		label := s.store.CategoryConfig(c.Category).Label
		fmt.Fprintf(s.out, "%-24s  %12s  %5d  %5.1f%%\n",
			truncate(label, 24), c.Total.StringFixed(2), c.Count, c.Percentage)
	}
}
