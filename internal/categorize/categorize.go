// Package categorize assigns spending categories to transactions using an
// ordered list of keyword rules.
package categorize

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/tallyhq/tally/internal/model"
)

//go:embed rules.yaml
var embeddedRules []byte

// Rule maps any of its keywords to a category.
type Rule struct {
	Category     model.Category `yaml:"category"`
	Keywords     []string       `yaml:"keywords"`
	PositiveOnly bool           `yaml:"positive_only"` // only matches amounts > 0
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// Engine evaluates rules in order. It is immutable after construction and
// safe for concurrent use.
type Engine struct {
	rules []Rule
}

// NewEngine parses a YAML rule document.
func NewEngine(data []byte) (*Engine, error) {
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("no rules defined")
	}

	rules := make([]Rule, 0, len(rf.Rules))
	for i, r := range rf.Rules {
		if !r.Category.IsDefault() {
			return nil, fmt.Errorf("rule %d: unknown category %q", i+1, r.Category)
		}
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no keywords", i+1, r.Category)
		}
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return nil, fmt.Errorf("rule %d (%s): empty keyword", i+1, r.Category)
			}
			kws = append(kws, kw)
		}
		rules = append(rules, Rule{Category: r.Category, Keywords: kws, PositiveOnly: r.PositiveOnly})
	}
	return &Engine{rules: rules}, nil
}

var defaultEngine = mustDefault()

func mustDefault() *Engine {
	e, err := NewEngine(embeddedRules)
	if err != nil {
		panic("embedded categorization rules: " + err.Error())
	}
	return e
}

// Default returns the engine built from the embedded rule table.
func Default() *Engine {
	return defaultEngine
}

// Categorize classifies with the default engine.
func Categorize(description string, amount decimal.Decimal) model.Category {
	return defaultEngine.Categorize(description, amount)
}

// Categorize returns the first matching rule's category, or other.
func (e *Engine) Categorize(description string, amount decimal.Decimal) model.Category {
	desc := strings.ToLower(description)
	for _, r := range e.rules {
		if r.PositiveOnly && !amount.IsPositive() {
			continue
		}
		for _, kw := range r.Keywords {
			if strings.Contains(desc, kw) {
				return r.Category
			}
		}
	}
	return model.CategoryOther
}

// Rules returns a copy of the engine's rules in evaluation order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}
