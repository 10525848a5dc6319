package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCategories(t *testing.T) {
	assert.Len(t, DefaultCategories, 14)
	for _, c := range DefaultCategories {
		assert.True(t, c.IsDefault(), "%s should be default", c)
		assert.False(t, c.IsCustom())
		cfg, ok := DefaultConfig(c)
		assert.True(t, ok)
		assert.NotEmpty(t, cfg.Label)
		assert.NotEmpty(t, cfg.Color)
	}
}

func TestIsCustom(t *testing.T) {
	tests := []struct {
		c    Category
		want bool
	}{
		{"custom_pets", true},
		{"custom_", false},
		{"pets", false},
		{CategoryOther, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.c.IsCustom(), "IsCustom(%q)", tt.c)
	}
}

func TestPaletteColorCycles(t *testing.T) {
	assert.Equal(t, "#f43f5e", PaletteColor(0))
	assert.Equal(t, "#fb923c", PaletteColor(7))
	assert.Equal(t, "#f43f5e", PaletteColor(8))
	assert.Equal(t, "#14b8a6", PaletteColor(9))
}

func TestResolveConfig(t *testing.T) {
	custom := map[Category]CategoryConfig{
		"custom_pets": {Label: "Pets", Color: "#f43f5e"},
	}

	assert.Equal(t, "Groceries", ResolveConfig(CategoryGroceries, custom).Label)
	assert.Equal(t, "Pets", ResolveConfig("custom_pets", custom).Label)

	// Unknown keys never fail.
	got := ResolveConfig("custom_garden", custom)
	assert.Equal(t, "garden", got.Label)
	assert.Equal(t, FallbackColor, got.Color)
}
