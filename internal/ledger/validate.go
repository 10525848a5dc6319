package ledger

import (
	"fmt"

	"github.com/tallyhq/tally/internal/model"
)

// ValidationError describes a single invariant violation in stored state.
type ValidationError struct {
	Rule        int
	Subject     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("rule %d [%s]: %s", e.Rule, e.Subject, e.Description)
}

// ValidateState checks the invariants a StoredState must hold before it can
// replace a store's contents.
func ValidateState(st StoredState) []ValidationError {
	var errs []ValidationError

	// Rule 1: custom keys carry the custom prefix.
	for k := range st.CustomCategories {
		if !k.IsCustom() {
			errs = append(errs, ValidationError{
				Rule:        1,
				Subject:     string(k),
				Description: "custom category key must start with " + model.CustomPrefix,
			})
		}
	}

	seenTxn := make(map[string]bool)
	for i, stmt := range st.Statements {
		subject := stmt.FileName
		if subject == "" {
			subject = fmt.Sprintf("statement %d", i)
		}

		// Rule 2: at most one statement per file name and period.
		for _, prev := range st.Statements[:i] {
			if prev.SameSource(stmt) {
				errs = append(errs, ValidationError{
					Rule:        2,
					Subject:     subject,
					Description: fmt.Sprintf("duplicate statement for period %s to %s", stmt.Period.Start, stmt.Period.End),
				})
				break
			}
		}

		for _, t := range stmt.Transactions {
			// Rule 3: transaction IDs are unique.
			if t.ID == "" {
				errs = append(errs, ValidationError{Rule: 3, Subject: subject, Description: "transaction without id"})
			} else if seenTxn[t.ID] {
				errs = append(errs, ValidationError{Rule: 3, Subject: t.ID, Description: "duplicate transaction id"})
			}
			seenTxn[t.ID] = true

			// Rule 4: every category resolves.
			if !t.Category.IsDefault() {
				if _, ok := st.CustomCategories[t.Category]; !ok {
					errs = append(errs, ValidationError{
						Rule:        4,
						Subject:     t.ID,
						Description: fmt.Sprintf("unknown category %q", t.Category),
					})
				}
			}
		}
	}

	return errs
}
