package commands

import (
	"fmt"
	"strings"

	"github.com/tallyhq/tally/internal/id"
	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/model"
)

// resolveCategory accepts a category key, a custom category name or a
// label, in that order.
func resolveCategory(store *ledger.Store, arg string) (model.Category, error) {
	arg = strings.TrimSpace(arg)
	if c := model.Category(arg); store.IsKnownCategory(c) {
		return c, nil
	}
	if key, err := id.CategoryKey(arg); err == nil && store.IsKnownCategory(key) {
		return key, nil
	}
	for _, e := range store.Categories() {
		if strings.EqualFold(e.Config.Label, arg) {
			return e.Key, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ledger.ErrUnknownCategory, arg)
}
