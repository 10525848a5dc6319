package ledger

import (
	"context"
	"time"

	"github.com/tallyhq/tally/internal/model"
)

// CurrentVersion is the schema version written by this build. Stored state
// with any other version is discarded on load.
const CurrentVersion = 1

// StoredState is the persisted form of a Store and the backup file format.
type StoredState struct {
	Version          int                                    `json:"version"`
	Statements       []model.Statement                      `json:"statements"`
	CustomCategories map[model.Category]model.CategoryConfig `json:"customCategories"`
	LastUpdated      time.Time                              `json:"lastUpdated"`
}

// Persister loads and saves StoredState. Load returns (nil, nil) when nothing
// has been stored yet. Save must replace the stored state atomically.
type Persister interface {
	Load(ctx context.Context) (*StoredState, error)
	Save(ctx context.Context, state StoredState) error
}

func cloneStatements(in []model.Statement) []model.Statement {
	out := make([]model.Statement, len(in))
	for i, s := range in {
		out[i] = cloneStatement(s)
	}
	return out
}

func cloneStatement(s model.Statement) model.Statement {
	txns := make([]model.Transaction, len(s.Transactions))
	copy(txns, s.Transactions)
	s.Transactions = txns

	byCat := make([]model.CategorySummary, len(s.Summary.ByCategory))
	copy(byCat, s.Summary.ByCategory)
	s.Summary.ByCategory = byCat
	return s
}

func cloneCategories(in map[model.Category]model.CategoryConfig) map[model.Category]model.CategoryConfig {
	out := make(map[model.Category]model.CategoryConfig, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
