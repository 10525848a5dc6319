package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType identifies which export layout a statement came from.
type AccountType string

const (
	AccountChecking AccountType = "checking"
	AccountCredit   AccountType = "credit"
)

// Valid reports whether a is a known account type.
func (a AccountType) Valid() bool {
	return a == AccountChecking || a == AccountCredit
}

// Period is the inclusive date range covered by a set of transactions.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Statement is one ingested bank or card export.
type Statement struct {
	ID           string        `json:"id"`
	FileName     string        `json:"fileName"`
	AccountType  AccountType   `json:"accountType"`
	Period       Period        `json:"statementPeriod"`
	Transactions []Transaction `json:"transactions"`
	Summary      Summary       `json:"summary"` // computed at ingestion; may be stale
	UploadedAt   time.Time     `json:"uploadedAt"`
}

// SameSource reports whether two statements share file name and period.
func (s Statement) SameSource(other Statement) bool {
	return s.FileName == other.FileName &&
		s.Period.Start == other.Period.Start &&
		s.Period.End == other.Period.End
}

// Summary holds aggregate income and spending figures.
type Summary struct {
	TotalIncome      decimal.Decimal   `json:"totalIncome"`
	TotalExpenses    decimal.Decimal   `json:"totalExpenses"`
	NetChange        decimal.Decimal   `json:"netChange"`
	TransactionCount int               `json:"transactionCount"`
	ByCategory       []CategorySummary `json:"byCategory"`
}

// CategorySummary is spending within one category.
type CategorySummary struct {
	Category   Category        `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

// MarshalJSON writes totals as JSON numbers.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TotalIncome      json.Number       `json:"totalIncome"`
		TotalExpenses    json.Number       `json:"totalExpenses"`
		NetChange        json.Number       `json:"netChange"`
		TransactionCount int               `json:"transactionCount"`
		ByCategory       []CategorySummary `json:"byCategory"`
	}{
		TotalIncome:      Number(s.TotalIncome),
		TotalExpenses:    Number(s.TotalExpenses),
		NetChange:        Number(s.NetChange),
		TransactionCount: s.TransactionCount,
		ByCategory:       s.ByCategory,
	})
}

// MarshalJSON writes the total as a JSON number.
func (c CategorySummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Category   Category    `json:"category"`
		Total      json.Number `json:"total"`
		Count      int         `json:"count"`
		Percentage float64     `json:"percentage"`
	}{
		Category:   c.Category,
		Total:      Number(c.Total),
		Count:      c.Count,
		Percentage: c.Percentage,
	})
}
