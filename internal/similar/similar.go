// Package similar finds transactions that likely come from the same merchant.
package similar

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/tallyhq/tally/internal/model"
)

// maxTokens is how many leading words of a description are compared.
const maxTokens = 3

// Normalize reduces a description to a short comparable prefix: lowercase,
// digits and '#'/'*' removed, whitespace collapsed, first three words kept.
// "COSTCO #1234" -> "costco"
func Normalize(description string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '#' || r == '*' {
			return -1
		}
		return r
	}, strings.ToLower(description))

	words := strings.Fields(stripped)
	if len(words) > maxTokens {
		words = words[:maxTokens]
	}
	return strings.Join(words, " ")
}

// Match is a candidate transaction and how far its normalized description is
// from the target's.
type Match struct {
	Transaction model.Transaction
	Distance    int
}

// FindSimilar returns transactions in pool whose normalized description equals
// the target's or contains / is contained in it. The target itself and
// transactions already in newCategory are excluded. Results are ordered by
// edit distance, ties in pool order. Nothing is mutated.
func FindSimilar(target model.Transaction, pool []model.Transaction, newCategory model.Category) []Match {
	want := Normalize(target.Description)

	var matches []Match
	for _, t := range pool {
		if t.ID == target.ID || t.Category == newCategory {
			continue
		}
		got := Normalize(t.Description)
		if !related(want, got) {
			continue
		}
		matches = append(matches, Match{
			Transaction: t,
			Distance:    levenshtein.ComputeDistance(want, got),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches
}

// related applies the substring rule. An empty normalized string is a
// substring of everything, so digit-only descriptions match broadly.
func related(a, b string) bool {
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

// IDs returns the transaction IDs of matches in order.
func IDs(matches []Match) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.Transaction.ID
	}
	return ids
}
