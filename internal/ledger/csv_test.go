package ledger

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/model"
)

func TestMarshalTransaction(t *testing.T) {
	row := MarshalTransaction(txn("t1", "2024-01-02", "COSTCO #12", "-12.5", model.CategoryGroceries), nil)
	assert.Equal(t, []string{"t1", "2024-01-02", "COSTCO #12", "-12.50", "debit", "groceries", "Groceries"}, row)
}

func TestWriteTransactionsCSV_StoreLabels(t *testing.T) {
	s := newStore(t, nil)
	key, err := s.AddCustomCategory("Pets", "Pet Stuff")
	require.NoError(t, err)
	s.AddStatement(stmt("a.csv", "2024-01-01", "2024-01-31",
		txn("t1", "2024-01-02", "PETCO, INC", "-30", model.CategoryOther),
		txn("t2", "2024-01-05", "PAYROLL", "1000", model.CategoryIncome),
	))
	require.NoError(t, s.SetTransactionCategory("t1", key))

	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsCSV(&buf, s.Ledger(), s.CategoryConfig))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "date", "description", "amount", "type", "category", "category_label"}, records[0])
	assert.Equal(t, []string{"t2", "2024-01-05", "PAYROLL", "1000.00", "credit", "income", "Income"}, records[1])
	assert.Equal(t, []string{"t1", "2024-01-02", "PETCO, INC", "-30.00", "debit", "custom_pets", "Pet Stuff"}, records[2])
}
