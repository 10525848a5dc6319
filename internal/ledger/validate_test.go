package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/model"
)

func TestValidateState_Valid(t *testing.T) {
	st := StoredState{
		Version: CurrentVersion,
		Statements: []model.Statement{
			stmt("a.csv", "2024-01-01", "2024-01-31", txn("t1", "2024-01-02", "PETCO", "-1", "custom_pets")),
			stmt("a.csv", "2024-02-01", "2024-02-28", txn("t2", "2024-02-02", "COSTCO", "-1", model.CategoryGroceries)),
		},
		CustomCategories: map[model.Category]model.CategoryConfig{"custom_pets": {Label: "Pets"}},
	}
	assert.Empty(t, ValidateState(st))
}

func TestValidateState_Rules(t *testing.T) {
	tests := []struct {
		name string
		st   StoredState
		rule int
	}{
		{
			name: "custom key without prefix",
			st: StoredState{
				CustomCategories: map[model.Category]model.CategoryConfig{"pets": {Label: "Pets"}},
			},
			rule: 1,
		},
		{
			name: "duplicate statement",
			st: StoredState{Statements: []model.Statement{
				stmt("a.csv", "2024-01-01", "2024-01-31"),
				stmt("a.csv", "2024-01-01", "2024-01-31"),
			}},
			rule: 2,
		},
		{
			name: "duplicate transaction id",
			st: StoredState{Statements: []model.Statement{
				stmt("a.csv", "2024-01-01", "2024-01-31",
					txn("t1", "2024-01-02", "A", "-1", model.CategoryOther),
					txn("t1", "2024-01-03", "B", "-1", model.CategoryOther),
				),
			}},
			rule: 3,
		},
		{
			name: "unknown category",
			st: StoredState{Statements: []model.Statement{
				stmt("a.csv", "2024-01-01", "2024-01-31", txn("t1", "2024-01-02", "A", "-1", "custom_gone")),
			}},
			rule: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateState(tt.st)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.rule, errs[0].Rule)
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Rule: 4, Subject: "t1", Description: "unknown category"}
	assert.Equal(t, "rule 4 [t1]: unknown category", e.Error())
}
