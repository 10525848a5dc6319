// Package ledger owns ingested statements, the custom category registry and
// the transaction ledger derived from them.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tallyhq/tally/internal/model"
	"github.com/tallyhq/tally/internal/summary"
)

var (
	ErrUnknownCategory     = errors.New("unknown category")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrStatementNotFound   = errors.New("statement not found")
	ErrCategoryExists      = errors.New("category already exists")
	ErrInvalidBackup       = errors.New("invalid backup")
)

// Store is the finance aggregate. Mutations are serialized; reads run
// concurrently against a consistent snapshot.
type Store struct {
	mu          sync.RWMutex
	persister   Persister
	log         zerolog.Logger
	now         func() time.Time
	statements  []model.Statement
	custom      map[model.Category]model.CategoryConfig
	lastUpdated time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock sets the time source for lastUpdated.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty Store backed by p. A nil Persister keeps the store
// in memory only.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

// reset restores the empty default state. Callers hold the write lock.
func (s *Store) reset() {
	s.statements = nil
	s.custom = make(map[model.Category]model.CategoryConfig)
	s.lastUpdated = s.now().UTC()
}

func (s *Store) touch() {
	s.lastUpdated = s.now().UTC()
}

// Load replaces in-memory state with the persisted state. Absent state or a
// schema version other than CurrentVersion leaves the store empty without
// error. A read failure is returned and the store is left empty.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	if s.persister == nil {
		return nil
	}

	st, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading finance data: %w", err)
	}
	if st == nil {
		s.log.Debug().Msg("no stored finance data")
		return nil
	}
	if st.Version != CurrentVersion {
		s.log.Warn().
			Int("stored_version", st.Version).
			Int("current_version", CurrentVersion).
			Msg("stored finance data has a different schema version, starting empty")
		return nil
	}

	s.adopt(*st)
	if keys, txns := s.dropUnknownCategories(); keys > 0 || txns > 0 {
		s.log.Warn().
			Int("invalid_custom_keys", keys).
			Int("reassigned_transactions", txns).
			Msg("stored finance data referenced unknown categories, reassigned to other")
	}
	s.log.Debug().Int("statements", len(s.statements)).Msg("loaded finance data")
	return nil
}

// dropUnknownCategories removes registry entries whose key is not a custom
// key and moves transactions holding an unregistered category to other.
// Callers hold the write lock.
func (s *Store) dropUnknownCategories() (keys, txns int) {
	for k := range s.custom {
		if !k.IsCustom() {
			delete(s.custom, k)
			keys++
		}
	}
	for i := range s.statements {
		for j := range s.statements[i].Transactions {
			t := &s.statements[i].Transactions[j]
			if !s.known(t.Category) {
				t.Category = model.CategoryOther
				txns++
			}
		}
	}
	return keys, txns
}

// adopt copies st into the store. Callers hold the write lock.
func (s *Store) adopt(st StoredState) {
	s.statements = cloneStatements(st.Statements)
	for i := range s.statements {
		if s.statements[i].Transactions == nil {
			s.statements[i].Transactions = []model.Transaction{}
		}
	}
	s.custom = cloneCategories(st.CustomCategories)
	s.lastUpdated = st.LastUpdated
	if s.lastUpdated.IsZero() {
		s.touch()
	}
}

// Snapshot returns a deep copy of the current state as StoredState.
func (s *Store) Snapshot() StoredState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Store) snapshot() StoredState {
	return StoredState{
		Version:          CurrentVersion,
		Statements:       cloneStatements(s.statements),
		CustomCategories: cloneCategories(s.custom),
		LastUpdated:      s.lastUpdated,
	}
}

// Save writes the whole state through the Persister. On failure the
// in-memory state stays authoritative and is not rolled back.
func (s *Store) Save(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	st := s.Snapshot()
	if err := s.persister.Save(ctx, st); err != nil {
		return fmt.Errorf("saving finance data: %w", err)
	}
	return nil
}

// LastUpdated returns the time of the last mutation.
func (s *Store) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// AddStatement appends stmt unless a statement with the same file name and
// period already exists. It reports whether the statement was added.
// Transactions carrying a category the store does not know become other.
func (s *Store) AddStatement(stmt model.Statement) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.statements {
		if existing.SameSource(stmt) {
			s.log.Warn().
				Str("file", stmt.FileName).
				Str("start", stmt.Period.Start).
				Str("end", stmt.Period.End).
				Msg("duplicate statement, skipping")
			return false
		}
	}

	c := cloneStatement(stmt)
	for i := range c.Transactions {
		if !s.known(c.Transactions[i].Category) {
			c.Transactions[i].Category = model.CategoryOther
		}
	}
	s.statements = append(s.statements, c)
	s.touch()
	s.log.Debug().Str("file", c.FileName).Int("transactions", len(c.Transactions)).Msg("statement added")
	return true
}

// RemoveStatement deletes the statement at index together with its
// transactions.
func (s *Store) RemoveStatement(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.statements) {
		return fmt.Errorf("%w: index %d of %d", ErrStatementNotFound, index, len(s.statements))
	}
	removed := s.statements[index]
	s.statements = append(s.statements[:index:index], s.statements[index+1:]...)
	s.touch()
	s.log.Debug().Str("file", removed.FileName).Msg("statement removed")
	return nil
}

// Statements returns copies of the stored statements in insertion order.
func (s *Store) Statements() []model.Statement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStatements(s.statements)
}

// SetTransactionCategory changes one transaction's category inside its
// owning statement.
func (s *Store) SetTransactionCategory(id string, category model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.known(category) {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	for si := range s.statements {
		txns := s.statements[si].Transactions
		for ti := range txns {
			if txns[ti].ID == id {
				txns[ti].Category = category
				s.touch()
				s.log.Debug().Str("transaction", id).Str("category", string(category)).Msg("category changed")
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrTransactionNotFound, id)
}

// SetTransactionCategoriesBulk changes the category of every listed
// transaction in one pass and returns how many were found.
func (s *Store) SetTransactionCategoriesBulk(ids []string, category model.Category) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.known(category) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	n := s.reassign(func(t model.Transaction) bool { return want[t.ID] }, category)
	if n > 0 {
		s.touch()
	}
	s.log.Debug().Int("requested", len(want)).Int("changed", n).Str("category", string(category)).Msg("bulk category change")
	return n, nil
}

// reassign sets category on every transaction matching fn. Callers hold the
// write lock.
func (s *Store) reassign(fn func(model.Transaction) bool, category model.Category) int {
	n := 0
	for si := range s.statements {
		txns := s.statements[si].Transactions
		for ti := range txns {
			if fn(txns[ti]) {
				txns[ti].Category = category
				n++
			}
		}
	}
	return n
}

// ClearAll drops every statement and custom category.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.log.Debug().Msg("finance data cleared")
}

// Ledger returns every transaction across all statements, newest first.
// Equal dates keep statement then transaction insertion order. The view is
// rebuilt on every call.
func (s *Store) Ledger() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger()
}

func (s *Store) ledger() []model.Transaction {
	var n int
	for _, st := range s.statements {
		n += len(st.Transactions)
	}
	out := make([]model.Transaction, 0, n)
	for _, st := range s.statements {
		out = append(out, st.Transactions...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// Summary aggregates the live ledger.
func (s *Store) Summary() model.Summary {
	return summary.Summarize(s.Ledger())
}

// Period returns the date range of the live ledger.
func (s *Store) Period() model.Period {
	return summary.Period(s.Ledger())
}
