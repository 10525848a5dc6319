package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/model"
)

func newLedgerCommand(opts *rootOptions) *cobra.Command {
	var category string
	var limit int
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				txns := s.store.Ledger()
				if category != "" {
					c, err := resolveCategory(s.store, category)
					if err != nil {
						return err
					}
					txns = filterCategory(txns, c)
				}
				if limit > 0 && len(txns) > limit {
					txns = txns[:limit]
				}

				if asCSV {
					return ledger.WriteTransactionsCSV(s.out, txns, s.store.CategoryConfig)
				}
				printLedger(s, txns)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show this category (key, name or label)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to show (0 = all)")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")

	return cmd
}

func filterCategory(txns []model.Transaction, c model.Category) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.Category == c {
			out = append(out, t)
		}
	}
	return out
}

func printLedger(s *session, txns []model.Transaction) {
	if len(txns) == 0 {
		fmt.Fprintln(s.out, "No transactions.")
		return
	}
	bold.Fprintf(s.out, "%-10s  %12s  %-22s  %-40s  %s\n", "DATE", "AMOUNT", "CATEGORY", "DESCRIPTION", "ID")
	for _, t := range txns {
		label := s.store.CategoryConfig(t.Category).Label
		fmt.Fprintf(s.out, "%-10s  %s  %-22s  %-40s  %s\n",
			t.Date, amount(t.Amount, 12), truncate(label, 22), truncate(t.Description, 40), t.ID)
	}
}
