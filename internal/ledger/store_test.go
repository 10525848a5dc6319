package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/model"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type memPersister struct {
	state   *StoredState
	loadErr error
	saveErr error
	saves   int
}

func (m *memPersister) Load(context.Context) (*StoredState, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.state, nil
}

func (m *memPersister) Save(_ context.Context, st StoredState) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.state = &st
	return nil
}

func txn(id, date, desc, amount string, cat model.Category) model.Transaction {
	return model.NewTransaction(id, date, desc, decimal.RequireFromString(amount), cat)
}

func stmt(file, start, end string, txns ...model.Transaction) model.Statement {
	if txns == nil {
		txns = []model.Transaction{}
	}
	return model.Statement{
		ID:           "stmt_" + file,
		FileName:     file,
		AccountType:  model.AccountChecking,
		Period:       model.Period{Start: start, End: end},
		Transactions: txns,
		UploadedAt:   fixedNow,
	}
}

func newStore(t *testing.T, p Persister) *Store {
	t.Helper()
	return New(p, WithClock(func() time.Time { return fixedNow }))
}

func TestNew_Empty(t *testing.T) {
	s := newStore(t, nil)
	assert.Empty(t, s.Statements())
	assert.Empty(t, s.Ledger())
	assert.Empty(t, customKeys(s))
	assert.Equal(t, fixedNow, s.LastUpdated())
}

func TestAddStatement_Idempotent(t *testing.T) {
	s := newStore(t, nil)
	a := stmt("jan.csv", "2024-01-01", "2024-01-31", txn("t1", "2024-01-02", "COSTCO", "-10", model.CategoryGroceries))

	assert.True(t, s.AddStatement(a))
	assert.False(t, s.AddStatement(a))
	assert.Len(t, s.Statements(), 1)
	assert.Len(t, s.Ledger(), 1)

	// Same file, different period is a different statement.
	b := stmt("jan.csv", "2024-02-01", "2024-02-28")
	assert.True(t, s.AddStatement(b))
	assert.Len(t, s.Statements(), 2)
}

func TestAddStatement_UnknownCategoryBecomesOther(t *testing.T) {
	s := newStore(t, nil)
	s.AddStatement(stmt("a.csv", "2024-01-01", "2024-01-01", txn("t1", "2024-01-01", "X", "-1", "custom_missing")))

	led := s.Ledger()
	require.Len(t, led, 1)
	assert.Equal(t, model.CategoryOther, led[0].Category)
}

func TestAddStatement_CopiesInput(t *testing.T) {
	s := newStore(t, nil)
	a := stmt("a.csv", "2024-01-01", "2024-01-01", txn("t1", "2024-01-01", "X", "-1", model.CategoryFees))
	s.AddStatement(a)

	a.Transactions[0].Category = model.CategoryTravel
	assert.Equal(t, model.CategoryFees, s.Ledger()[0].Category)
}

func TestRemoveStatement(t *testing.T) {
	s := newStore(t, nil)
	s.AddStatement(stmt("a.csv", "2024-01-01", "2024-01-31", txn("a1", "2024-01-02", "A", "-1", model.CategoryOther)))
	s.AddStatement(stmt("b.csv", "2024-02-01", "2024-02-28", txn("b1", "2024-02-02", "B", "-1", model.CategoryOther)))

	require.NoError(t, s.RemoveStatement(0))
	sts := s.Statements()
	require.Len(t, sts, 1)
	assert.Equal(t, "b.csv", sts[0].FileName)
	assert.Equal(t, []string{"b1"}, ids(s.Ledger()))

	err := s.RemoveStatement(5)
	assert.ErrorIs(t, err, ErrStatementNotFound)
	err = s.RemoveStatement(-1)
	assert.ErrorIs(t, err, ErrStatementNotFound)
}

func TestLedger_SortedNewestFirstWithStableTies(t *testing.T) {
	s := newStore(t, nil)
	s.AddStatement(stmt("a.csv", "2024-01-03", "2024-01-05",
		txn("a1", "2024-01-05", "A1", "-1", model.CategoryOther),
		txn("a2", "2024-01-03", "A2", "-1", model.CategoryOther),
	))
	s.AddStatement(stmt("b.csv", "2024-01-04", "2024-01-05",
		txn("b1", "2024-01-05", "B1", "-1", model.CategoryOther),
		txn("b2", "2024-01-04", "B2", "-1", model.CategoryOther),
	))

	assert.Equal(t, []string{"a1", "b1", "b2", "a2"}, ids(s.Ledger()))
}

func TestSetTransactionCategory_MutatesOwningStatement(t *testing.T) {
	s := newStore(t, nil)
	s.AddStatement(stmt("a.csv", "2024-01-01", "2024-01-31",
		txn("t1", "2024-01-02", "SHELL", "-40", model.CategoryOther),
		txn("t2", "2024-01-03", "COSTCO", "-10", model.CategoryGroceries),
	))

	require.NoError(t, s.SetTransactionCategory("t1", model.CategoryTransportation))

	sts := s.Statements()
	assert.Equal(t, model.CategoryTransportation, sts[0].Transactions[0].Category)
	assert.Equal(t, model.CategoryGroceries, sts[0].Transactions[1].Category)

	sum := s.Summary()
	require.Len(t, sum.ByCategory, 2)
	assert.Equal(t, model.CategoryTransportation, sum.ByCategory[0].Category)
}

func TestSetTransactionCategory_Errors(t *testing.T) {
	s := newStore(t, nil)
	s.AddStatement(stmt("a.csv", "2024-01-01", "2024-01-31", txn("t1", "2024-01-02", "SHELL", "-40", model.CategoryOther)))

	err := s.SetTransactionCategory("t1", "custom_nope")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	err = s.SetTransactionCategory("missing", model.CategoryFees)
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	assert.Equal(t, model.CategoryOther, s.Ledger()[0].Category)
}

func TestSetTransactionCategoriesBulk(t *testing.T) {
	s := newStore(t, nil)
	s.AddStatement(stmt("a.csv", "2024-01-01", "2024-01-31",
		txn("t1", "2024-01-02", "A", "-1", model.CategoryOther),
		txn("t2", "2024-01-03", "B", "-1", model.CategoryOther),
		txn("t3", "2024-01-04", "C", "-1", model.CategoryOther),
	))

	n, err := s.SetTransactionCategoriesBulk([]string{"t1", "t3", "missing"}, model.CategoryFees)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	byID := index(s.Ledger())
	assert.Equal(t, model.CategoryFees, byID["t1"].Category)
	assert.Equal(t, model.CategoryOther, byID["t2"].Category)
	assert.Equal(t, model.CategoryFees, byID["t3"].Category)

	_, err = s.SetTransactionCategoriesBulk([]string{"t2"}, "bogus")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestClearAll(t *testing.T) {
	s := newStore(t, nil)
	s.AddStatement(stmt("a.csv", "2024-01-01", "2024-01-31", txn("t1", "2024-01-02", "A", "-1", model.CategoryOther)))
	_, err := s.AddCustomCategory("Pets", "")
	require.NoError(t, err)

	s.ClearAll()
	assert.Empty(t, s.Statements())
	assert.Empty(t, customKeys(s))
}

func TestSummaryAndPeriod(t *testing.T) {
	s := newStore(t, nil)
	s.AddStatement(stmt("a.csv", "2024-01-01", "2024-01-31",
		txn("t1", "2024-01-20", "PAYROLL", "1000", model.CategoryIncome),
		txn("t2", "2024-01-02", "COSTCO", "-250", model.CategoryGroceries),
	))

	sum := s.Summary()
	assert.True(t, sum.TotalIncome.Equal(decimal.RequireFromString("1000")))
	assert.True(t, sum.TotalExpenses.Equal(decimal.RequireFromString("250")))
	assert.True(t, sum.NetChange.Equal(decimal.RequireFromString("750")))
	assert.Equal(t, 2, sum.TransactionCount)

	assert.Equal(t, model.Period{Start: "2024-01-02", End: "2024-01-20"}, s.Period())
}

func TestLoad_Absent(t *testing.T) {
	s := newStore(t, &memPersister{})
	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.Statements())
}

func TestLoad_CurrentVersion(t *testing.T) {
	stored := &StoredState{
		Version:    CurrentVersion,
		Statements: []model.Statement{stmt("a.csv", "2024-01-01", "2024-01-31", txn("t1", "2024-01-02", "PETCO", "-1", "custom_pets"))},
		CustomCategories: map[model.Category]model.CategoryConfig{
			"custom_pets": {Label: "Pets", Color: "#06b6d4"},
		},
		LastUpdated: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	s := newStore(t, &memPersister{state: stored})
	require.NoError(t, s.Load(context.Background()))

	assert.Len(t, s.Statements(), 1)
	assert.Equal(t, "Pets", s.CategoryConfig("custom_pets").Label)
	assert.Equal(t, stored.LastUpdated, s.LastUpdated())
}

func TestLoad_UnknownCategoryBecomesOther(t *testing.T) {
	stored := &StoredState{
		Version: CurrentVersion,
		Statements: []model.Statement{stmt("a.csv", "2024-01-01", "2024-01-31",
			txn("t1", "2024-01-02", "PETCO", "-1", "custom_gone"),
			txn("t2", "2024-01-03", "VET", "-2", "custom_pets"),
			txn("t3", "2024-01-04", "KROGER", "-3", model.CategoryGroceries),
			txn("t4", "2024-01-05", "ODD", "-4", "bogus"),
		)},
		CustomCategories: map[model.Category]model.CategoryConfig{
			"custom_pets": {Label: "Pets", Color: "#f43f5e"},
			"bogus":       {Label: "Bogus", Color: "#14b8a6"},
		},
	}
	s := newStore(t, &memPersister{state: stored})
	require.NoError(t, s.Load(context.Background()))

	got := index(s.Ledger())
	assert.Equal(t, model.CategoryOther, got["t1"].Category)
	assert.Equal(t, model.Category("custom_pets"), got["t2"].Category)
	assert.Equal(t, model.CategoryGroceries, got["t3"].Category)
	assert.Equal(t, model.CategoryOther, got["t4"].Category)
	assert.False(t, s.IsKnownCategory("bogus"))
	assert.Equal(t, []model.Category{"custom_pets"}, customKeys(s))

	// The persisted copy is not touched until the next save.
	assert.Equal(t, model.Category("custom_gone"), stored.Statements[0].Transactions[0].Category)
}

func TestLoad_VersionMismatchStartsEmpty(t *testing.T) {
	stored := &StoredState{
		Version:    0,
		Statements: []model.Statement{stmt("a.csv", "2024-01-01", "2024-01-31")},
	}
	s := newStore(t, &memPersister{state: stored})
	s.AddStatement(stmt("pre.csv", "2024-01-01", "2024-01-31"))

	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.Statements())
	assert.Empty(t, customKeys(s))
}

func TestLoad_ReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	s := newStore(t, &memPersister{loadErr: boom})
	err := s.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Statements())
}

func TestSave_RoundTrip(t *testing.T) {
	p := &memPersister{}
	s := newStore(t, p)
	s.AddStatement(stmt("a.csv", "2024-01-01", "2024-01-31", txn("t1", "2024-01-02", "A", "-1", model.CategoryOther)))
	require.NoError(t, s.Save(context.Background()))
	require.Equal(t, 1, p.saves)
	assert.Equal(t, CurrentVersion, p.state.Version)

	other := newStore(t, p)
	require.NoError(t, other.Load(context.Background()))
	assert.Equal(t, ids(s.Ledger()), ids(other.Ledger()))
}

func TestSave_FailureKeepsMemoryState(t *testing.T) {
	boom := errors.New("quota exceeded")
	s := newStore(t, &memPersister{saveErr: boom})
	s.AddStatement(stmt("a.csv", "2024-01-01", "2024-01-31", txn("t1", "2024-01-02", "A", "-1", model.CategoryOther)))

	err := s.Save(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, s.Statements(), 1)
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	s := newStore(t, nil)
	s.AddStatement(stmt("a.csv", "2024-01-01", "2024-01-31", txn("t1", "2024-01-02", "A", "-1", model.CategoryOther)))

	snap := s.Snapshot()
	snap.Statements[0].Transactions[0].Category = model.CategoryFees
	assert.Equal(t, model.CategoryOther, s.Ledger()[0].Category)
}

func ids(txns []model.Transaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.ID
	}
	return out
}

func customKeys(s *Store) []model.Category {
	var out []model.Category
	for _, e := range s.Categories() {
		if e.Custom {
			out = append(out, e.Key)
		}
	}
	return out
}

func index(txns []model.Transaction) map[string]model.Transaction {
	out := make(map[string]model.Transaction, len(txns))
	for _, t := range txns {
		out[t.ID] = t
	}
	return out
}
