package model

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType is derived from the sign of a transaction amount.
type TransactionType string

const (
	TypeCredit TransactionType = "credit"
	TypeDebit  TransactionType = "debit"
)

// TypeOf returns credit for zero or positive amounts, debit otherwise.
func TypeOf(amount decimal.Decimal) TransactionType {
	if amount.IsNegative() {
		return TypeDebit
	}
	return TypeCredit
}

// Transaction is one row of an ingested statement. Its type is never stored
// independently of Amount.
type Transaction struct {
	ID          string
	Date        string          // YYYY-MM-DD when the source date was MM/DD/YYYY
	Description string          //nolint:revive // plain field name is clearest
	Amount      decimal.Decimal // negative = money spent, positive = money received
	Category    Category
	Merchant    string
}

// NewTransaction builds a Transaction.
func NewTransaction(id, date, description string, amount decimal.Decimal, category Category) Transaction {
	return Transaction{
		ID:          id,
		Date:        date,
		Description: description,
		Amount:      amount,
		Category:    category,
	}
}

// Type reports credit or debit from the amount sign.
func (t Transaction) Type() TransactionType {
	return TypeOf(t.Amount)
}

// IsDebit reports whether the transaction is money spent.
func (t Transaction) IsDebit() bool {
	return t.Type() == TypeDebit
}

// Number renders d as a bare JSON number. Stored and exported files carry
// amounts as numbers, not the quoted strings decimal emits by default.
func Number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

type transactionJSON struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      json.Number     `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    Category        `json:"category"`
	Merchant    string          `json:"merchant,omitempty"`
}

// MarshalJSON writes the derived type alongside the amount.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:          t.ID,
		Date:        t.Date,
		Description: t.Description,
		Amount:      Number(t.Amount),
		Type:        t.Type(),
		Category:    t.Category,
		Merchant:    t.Merchant,
	})
}

// UnmarshalJSON ignores any stored type; it is recomputed from the amount.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	amount := decimal.Zero
	if raw.Amount != "" {
		var err error
		if amount, err = decimal.NewFromString(raw.Amount.String()); err != nil {
			return fmt.Errorf("transaction %s amount: %w", raw.ID, err)
		}
	}
	*t = Transaction{
		ID:          raw.ID,
		Date:        raw.Date,
		Description: raw.Description,
		Amount:      amount,
		Category:    raw.Category,
		Merchant:    raw.Merchant,
	}
	return nil
}

// ExtractedRow is one transaction as returned by document extraction.
type ExtractedRow struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}
