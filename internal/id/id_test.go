package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/model"
)

func TestNewTransactionID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		got := NewTransactionID()
		assert.True(t, strings.HasPrefix(got, "txn_"), got)
		assert.Len(t, got, len("txn_")+32)
		assert.False(t, seen[got], "duplicate id %s", got)
		seen[got] = true
	}
}

func TestNewStatementID(t *testing.T) {
	got := NewStatementID()
	assert.True(t, strings.HasPrefix(got, "stmt_"))
	assert.NotEqual(t, got, NewStatementID())
}

func TestCategoryKey(t *testing.T) {
	tests := []struct {
		name string
		want model.Category
	}{
		{"Pets", "custom_pets"},
		{"Pet Care", "custom_pet_care"},
		{"Kids   School\tFees", "custom_kids_school_fees"},
		{"  Gym ", "custom_gym"},
		{"CAFÉ", "custom_café"},
	}
	for _, tt := range tests {
		got, err := CategoryKey(tt.name)
		require.NoError(t, err, "name: %q", tt.name)
		assert.Equal(t, tt.want, got)
		assert.True(t, got.IsCustom())
	}
}

func TestCategoryKey_Empty(t *testing.T) {
	for _, name := range []string{"", "   ", "\t"} {
		_, err := CategoryKey(name)
		assert.Error(t, err, "expected error for %q", name)
	}
}
