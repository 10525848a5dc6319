package ledger

import (
	"fmt"

	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/similar"
)

// Proposal is a pending category change for one transaction together with
// the similar transactions that could follow it.
type Proposal struct {
	Target   model.Transaction
	Category model.Category
	Similar  []similar.Match
}

// Unchanged reports whether applying p would be a no-op.
func (p Proposal) Unchanged() bool {
	return p.Target.Category == p.Category
}

// ProposeCategoryChange looks up the transaction and collects similar ones
// that are not already in category. Nothing is mutated. A proposal for the
// transaction's current category carries no matches.
func (s *Store) ProposeCategoryChange(txnID string, category model.Category) (Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.known(category) {
		return Proposal{}, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	pool := s.ledger()
	for _, t := range pool {
		if t.ID != txnID {
			continue
		}
		p := Proposal{Target: t, Category: category}
		if !p.Unchanged() {
			p.Similar = similar.FindSimilar(t, pool, category)
		}
		return p, nil
	}
	return Proposal{}, fmt.Errorf("%w: %s", ErrTransactionNotFound, txnID)
}

// ApplyCategoryChange commits p. With bulk set the similar transactions are
// changed together with the target in one pass; otherwise only the target.
// It returns the number of transactions changed.
func (s *Store) ApplyCategoryChange(p Proposal, bulk bool) (int, error) {
	if !bulk || len(p.Similar) == 0 {
		if err := s.SetTransactionCategory(p.Target.ID, p.Category); err != nil {
			return 0, err
		}
		return 1, nil
	}
	ids := append([]string{p.Target.ID}, similar.IDs(p.Similar)...)
	return s.SetTransactionCategoriesBulk(ids, p.Category)
}
