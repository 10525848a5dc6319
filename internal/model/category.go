package model

import (
	"strings"
)

// Category is either a default category or a custom key of the form
// "custom_<slug>".
type Category string

// CustomPrefix marks user-created category keys.
const CustomPrefix = "custom_"

const (
	CategoryGroceries       Category = "groceries"
	CategoryDining          Category = "dining"
	CategoryTransportation  Category = "transportation"
	CategoryUtilities       Category = "utilities"
	CategoryEntertainment   Category = "entertainment"
	CategoryShopping        Category = "shopping"
	CategoryHealth          Category = "health"
	CategoryTravel          Category = "travel"
	CategorySubscriptions   Category = "subscriptions"
	CategoryHomeImprovement Category = "home_improvement"
	CategoryIncome          Category = "income"
	CategoryTransfer        Category = "transfer"
	CategoryFees            Category = "fees"
	CategoryOther           Category = "other"
)

// FallbackColor is used for categories with no known configuration.
const FallbackColor = "#9ca3af"

// CategoryConfig is the display configuration of a category.
type CategoryConfig struct {
	Label string `json:"label" yaml:"label"`
	Color string `json:"color" yaml:"color"`
}

// DefaultCategories lists the fixed categories in display order.
var DefaultCategories = []Category{
	CategoryGroceries,
	CategoryDining,
	CategoryTransportation,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryShopping,
	CategoryHealth,
	CategoryTravel,
	CategorySubscriptions,
	CategoryHomeImprovement,
	CategoryIncome,
	CategoryTransfer,
	CategoryFees,
	CategoryOther,
}

var defaultConfigs = map[Category]CategoryConfig{
	CategoryGroceries:       {Label: "Groceries", Color: "#22c55e"},
	CategoryDining:          {Label: "Dining & Restaurants", Color: "#f97316"},
	CategoryTransportation:  {Label: "Transportation", Color: "#3b82f6"},
	CategoryUtilities:       {Label: "Utilities & Bills", Color: "#8b5cf6"},
	CategoryEntertainment:   {Label: "Entertainment", Color: "#ec4899"},
	CategoryShopping:        {Label: "Shopping", Color: "#eab308"},
	CategoryHealth:          {Label: "Health & Medical", Color: "#ef4444"},
	CategoryTravel:          {Label: "Travel", Color: "#06b6d4"},
	CategorySubscriptions:   {Label: "Subscriptions", Color: "#a855f7"},
	CategoryHomeImprovement: {Label: "Home Improvement", Color: "#0ea5e9"},
	CategoryIncome:          {Label: "Income", Color: "#10b981"},
	CategoryTransfer:        {Label: "Transfers", Color: "#6b7280"},
	CategoryFees:            {Label: "Fees & Charges", Color: "#dc2626"},
	CategoryOther:           {Label: "Other", Color: FallbackColor},
}

// CustomPalette is cycled through when custom categories are created.
var CustomPalette = []string{
	"#f43f5e", // rose
	"#14b8a6", // teal
	"#f59e0b", // amber
	"#6366f1", // indigo
	"#84cc16", // lime
	"#e879f9", // fuchsia
	"#22d3ee", // cyan
	"#fb923c", // orange
}

// PaletteColor returns the palette entry for the n-th custom category.
func PaletteColor(n int) string {
	if n < 0 {
		n = -n
	}
	return CustomPalette[n%len(CustomPalette)]
}

// IsDefault reports whether c is one of the fixed categories.
func (c Category) IsDefault() bool {
	_, ok := defaultConfigs[c]
	return ok
}

// IsCustom reports whether c has the custom key prefix.
func (c Category) IsCustom() bool {
	return strings.HasPrefix(string(c), CustomPrefix) && len(c) > len(CustomPrefix)
}

// DefaultConfig returns the configuration of a default category.
func DefaultConfig(c Category) (CategoryConfig, bool) {
	cfg, ok := defaultConfigs[c]
	return cfg, ok
}

// ResolveConfig looks c up in the defaults, then in custom. Unknown
// categories get a label derived from the key and the fallback color.
func ResolveConfig(c Category, custom map[Category]CategoryConfig) CategoryConfig {
	if cfg, ok := defaultConfigs[c]; ok {
		return cfg
	}
	if cfg, ok := custom[c]; ok {
		return cfg
	}
	return CategoryConfig{
		Label: strings.TrimPrefix(string(c), CustomPrefix),
		Color: FallbackColor,
	}
}
