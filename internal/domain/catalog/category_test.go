package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		category, err := NewCategory("Office Furniture")

		require.NoError(t, err)
		assert.Equal(t, "Office Furniture", category.Name)
		assert.Equal(t, "office-furniture", category.Slug)
		assert.True(t, category.IsActive)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewCategory("")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("name too long", func(t *testing.T) {
		_, err := NewCategory(strings.Repeat("x", 101))

		require.Error(t, err)
	})
}

func TestCategorySlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Chairs", "chairs"},
		{"spaces", "Office Furniture", "office-furniture"},
		{"case folded", "OFFICE chairs", "office-chairs"},
		{"cyrillic transliterated", "Мебель", "mebel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorySlug(tt.in))
		})
	}
}
