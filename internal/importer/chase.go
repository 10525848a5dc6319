package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/model"
)

// Layout gives the field positions of one export format.
type Layout struct {
	DateCol   int
	DescCol   int
	AmountCol int
}

// Chase checking: Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #
var chaseCheckingLayout = Layout{DateCol: 1, DescCol: 2, AmountCol: 3}

// Chase credit card: Transaction Date,Post Date,Description,Category,Type,Amount,Memo
var chaseCreditLayout = Layout{DateCol: 0, DescCol: 2, AmountCol: 5}

// ChaseParser parses Chase checking or credit card CSV exports.
type ChaseParser struct {
	Account model.AccountType
}

// Format returns the parser name, e.g. "chase-checking".
func (p *ChaseParser) Format() string { return "chase-" + string(p.Account) }

// AccountType returns the account type the parser reads.
func (p *ChaseParser) AccountType() model.AccountType { return p.Account }

func (p *ChaseParser) layout() Layout {
	if p.Account == model.AccountCredit {
		return chaseCreditLayout
	}
	return chaseCheckingLayout
}

// row is one surviving record before it becomes a Transaction.
type row struct {
	date   string
	desc   string
	amount decimal.Decimal
}

// parseRow extracts a row by layout. The returned reason is non-empty when the
// row must be skipped.
func (l Layout) parseRow(fields []string) (row, string) {
	date := field(fields, l.DateCol)
	desc := field(fields, l.DescCol)
	rawAmount := field(fields, l.AmountCol)

	if date == "" {
		return row{}, "missing date"
	}
	if desc == "" {
		return row{}, "missing description"
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return row{}, fmt.Sprintf("parsing amount %q", rawAmount)
	}
	return row{date: FormatDate(date), desc: desc, amount: amount}, ""
}

func field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}

// FormatDate rewrites "M/D/YYYY" as "YYYY-MM-DD". Any other literal is
// returned unchanged.
func FormatDate(s string) string {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return s
	}
	return fmt.Sprintf("%s-%s-%s", parts[2], padTwo(parts[0]), padTwo(parts[1]))
}

func padTwo(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}
