// Package summary reduces transactions to income, expense and per-category
// spending figures.
package summary

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Summarize computes totals over txns. Only debits contribute to the
// category breakdown, which is sorted by total descending with ties kept in
// first-seen order.
func Summarize(txns []model.Transaction) model.Summary {
	income := decimal.Zero
	expenses := decimal.Zero

	type bucket struct {
		total decimal.Decimal
		count int
	}
	buckets := make(map[model.Category]*bucket)
	var order []model.Category

	for _, t := range txns {
		if !t.IsDebit() {
			income = income.Add(t.Amount)
			continue
		}
		spent := t.Amount.Abs()
		expenses = expenses.Add(spent)

		b, ok := buckets[t.Category]
		if !ok {
			b = &bucket{total: decimal.Zero}
			buckets[t.Category] = b
			order = append(order, t.Category)
		}
		b.total = b.total.Add(spent)
		b.count++
	}

	byCategory := make([]model.CategorySummary, 0, len(order))
	for _, c := range order {
		b := buckets[c]
		byCategory = append(byCategory, model.CategorySummary{
			Category:   c,
			Total:      b.total,
			Count:      b.count,
			Percentage: percentage(b.total, expenses),
		})
	}
	sort.SliceStable(byCategory, func(i, j int) bool {
		return byCategory[i].Total.GreaterThan(byCategory[j].Total)
	})

	return model.Summary{
		TotalIncome:      income,
		TotalExpenses:    expenses,
		NetChange:        income.Sub(expenses),
		TransactionCount: len(txns),
		ByCategory:       byCategory,
	}
}

func percentage(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}

// Period returns the earliest and latest dates in txns, or an empty period.
func Period(txns []model.Transaction) model.Period {
	var p model.Period
	for _, t := range txns {
		if p.Start == "" || t.Date < p.Start {
			p.Start = t.Date
		}
		if p.End == "" || t.Date > p.End {
			p.End = t.Date
		}
	}
	return p
}
