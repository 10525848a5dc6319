package commands

import (
	"fmt"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

var (
	red    = color.New(color.FgRed)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	bold   = color.New(color.Bold)
)

// amount right-aligns d in width columns, red for debits and green for
// credits. Padding happens before coloring so columns stay aligned.
func amount(d decimal.Decimal, width int) string {
	s := fmt.Sprintf("%*s", width, d.StringFixed(2))
	if d.IsNegative() {
		return red.Sprint(s)
	}
	return green.Sprint(s)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 3 {
		return string([]rune(s)[:n])
	}
	return string([]rune(s)[:n-3]) + "..."
}
