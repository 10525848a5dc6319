package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tallyhq/tally/internal/id"
	"github.com/tallyhq/tally/internal/model"
)

// CategoryEntry is one row of the category registry.
type CategoryEntry struct {
	Key    model.Category
	Config model.CategoryConfig
	Custom bool
}

// known reports whether c is a default or a registered custom category.
// Callers hold a lock.
func (s *Store) known(c model.Category) bool {
	if c.IsDefault() {
		return true
	}
	_, ok := s.custom[c]
	return ok
}

// IsKnownCategory reports whether c can be assigned to a transaction.
func (s *Store) IsKnownCategory(c model.Category) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.known(c)
}

// AddCustomCategory registers a user category derived from name and returns
// its key. An empty label defaults to the trimmed name. Colors cycle through
// the custom palette.
func (s *Store) AddCustomCategory(name, label string) (model.Category, error) {
	key, err := id.CategoryKey(name)
	if err != nil {
		return "", err
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = strings.TrimSpace(name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.custom[key]; exists {
		return "", fmt.Errorf("%w: %s", ErrCategoryExists, key)
	}
	s.custom[key] = model.CategoryConfig{
		Label: label,
		Color: model.PaletteColor(len(s.custom)),
	}
	s.touch()
	s.log.Debug().Str("category", string(key)).Str("label", label).Msg("custom category added")
	return key, nil
}

// RemoveCustomCategory deletes a custom category. Transactions that held it
// move to other; the number moved is returned.
func (s *Store) RemoveCustomCategory(key model.Category) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.custom[key]; !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCategory, key)
	}
	n := s.reassign(func(t model.Transaction) bool { return t.Category == key }, model.CategoryOther)
	delete(s.custom, key)
	s.touch()
	s.log.Debug().Str("category", string(key)).Int("reassigned", n).Msg("custom category removed")
	return n, nil
}

// CategoryConfig resolves the label and color for c.
func (s *Store) CategoryConfig(c model.Category) model.CategoryConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.ResolveConfig(c, s.custom)
}

// Categories lists the defaults in their fixed order followed by custom
// categories sorted by key.
func (s *Store) Categories() []CategoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CategoryEntry, 0, len(model.DefaultCategories)+len(s.custom))
	for _, c := range model.DefaultCategories {
		cfg, _ := model.DefaultConfig(c)
		out = append(out, CategoryEntry{Key: c, Config: cfg})
	}

	keys := make([]model.Category, 0, len(s.custom))
	for k := range s.custom {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		out = append(out, CategoryEntry{Key: k, Config: s.custom[k], Custom: true})
	}
	return out
}
