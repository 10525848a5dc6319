package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/activity"
	"github.com/tallyhq/tally/internal/ledger"
)

// maxListedMatches caps how many similar transactions are printed.
const maxListedMatches = 5

func newRecategorizeCommand(opts *rootOptions) *cobra.Command {
	var bulk, single bool

	cmd := &cobra.Command{
		Use:   "recategorize <transaction-id> <category>",
		Short: "Change a transaction's category, optionally with similar ones",
		Long: "Change a transaction's category. When other transactions from the same\n" +
			"vendor exist you are asked whether to update them too, unless --bulk or\n" +
			"--single is given.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(s *session) error {
				return runRecategorize(s, cmd.InOrStdin(), args[0], args[1], bulk, single)
			})
		},
	}

	cmd.Flags().BoolVar(&bulk, "bulk", false, "also update all similar transactions")
	cmd.Flags().BoolVar(&single, "single", false, "only update this transaction")
	cmd.MarkFlagsMutuallyExclusive("bulk", "single")

	return cmd
}

func runRecategorize(s *session, in io.Reader, txnID, categoryArg string, bulk, single bool) error {
	category, err := resolveCategory(s.store, categoryArg)
	if err != nil {
		return err
	}

	p, err := s.store.ProposeCategoryChange(txnID, category)
	if err != nil {
		return err
	}
	label := s.store.CategoryConfig(category).Label
	if p.Unchanged() {
		fmt.Fprintf(s.out, "%s is already in %s\n", txnID, label)
		return nil
	}

	applyBulk := bulk
	if len(p.Similar) > 0 && !bulk && !single {
		printProposal(s, p)
		applyBulk, err = confirm(s.out, in, fmt.Sprintf("Update all %d to %s? [y/N]: ", len(p.Similar)+1, label))
		if err != nil {
			return err
		}
	}

	n, err := s.store.ApplyCategoryChange(p, applyBulk)
	if err != nil {
		return err
	}
	if err := s.save(); err != nil {
		return err
	}
	s.record(activity.Recategorized, txnID, fmt.Sprintf("%s -> %s, %d transactions", p.Target.Category, category, n))
	fmt.Fprintf(s.out, "Updated %d transaction(s) to %s\n", n, label)
	return nil
}

func printProposal(s *session, p ledger.Proposal) {
	plural := "s"
	if len(p.Similar) == 1 {
		plural = ""
	}
	fmt.Fprintf(s.out, "Found %d other transaction%s from the same vendor as %q:\n", len(p.Similar), plural, p.Target.Description)
	for i, m := range p.Similar {
		if i == maxListedMatches {
			fmt.Fprintf(s.out, "  +%d more...\n", len(p.Similar)-maxListedMatches)
			break
		}
		t := m.Transaction
		fmt.Fprintf(s.out, "  %-10s  %s  %s\n", t.Date, amount(t.Amount, 10), truncate(t.Description, 40))
	}
}

// confirm asks a yes/no question; anything but y or yes is no.
func confirm(out io.Writer, in io.Reader, question string) (bool, error) {
	fmt.Fprint(out, question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
