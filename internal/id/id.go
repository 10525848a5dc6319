package id

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tallyhq/tally/internal/model"
)

const (
	transactionPrefix = "txn_"
	statementPrefix   = "stmt_"
)

// NewTransactionID returns an opaque, unique transaction ID like "txn_3f2a...".
func NewTransactionID() string {
	return transactionPrefix + compact(uuid.New())
}

// NewStatementID returns an opaque, unique statement ID like "stmt_9c1e...".
func NewStatementID() string {
	return statementPrefix + compact(uuid.New())
}

func compact(u uuid.UUID) string {
	return strings.ReplaceAll(u.String(), "-", "")
}

var lower = cases.Lower(language.Und)

// CategoryKey derives a custom category key from a display name.
// "Pet Care" -> "custom_pet_care"
func CategoryKey(name string) (model.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("category name cannot be empty")
	}

	var b strings.Builder
	inSpace := false
	for _, r := range lower.String(trimmed) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return model.Category(model.CustomPrefix + b.String()), nil
}
