package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inventory-automation-service/internal/models"
)

func TestCatalogItemVariant(t *testing.T) {
	cases := []struct {
		name     string
		category string
		want     string
	}{
		{"Rings Gold ABCD", "Rings", "Gold"},
		{"Rings ABCD", "Rings", ""},
		{"rings Gold ABCD", "RINGS", "Gold"},
		{"Rings Rose Gold XY12", "Rings", "Rose Gold"},
		{"Rings Gold", "Rings", "Gold"},          // no trailing tag
		{"Rings Gold abcd", "Rings", "Gold abcd"}, // lowercase token is not a tag
		{"Necklace Gold ABCD", "Rings", "Necklace Gold"},
	}

	for _, tc := range cases {
		it := models.CatalogItem{Name: tc.name, Category: tc.category}
		assert.Equal(t, tc.want, it.Variant(), "name %q category %q", tc.name, tc.category)
	}
}

func TestMatcherRequiresAllCriteria(t *testing.T) {
	catalog := []models.CatalogItem{
		{Name: "Rings Gold ABCD", Category: "Rings", PurchasePrice: 100, SellingPrice: 200},
	}
	m := NewMatcher(catalog)

	_, ok := m.Match("Rings", "Gold", 100, 200)
	assert.True(t, ok)

	// Category mismatch.
	_, ok = m.Match("Earrings", "Gold", 100, 200)
	assert.False(t, ok)

	// Purchase price out of tolerance.
	_, ok = m.Match("Rings", "Gold", 100.02, 200)
	assert.False(t, ok)

	// Selling price out of tolerance.
	_, ok = m.Match("Rings", "Gold", 100, 200.5)
	assert.False(t, ok)

	// Variant mismatch.
	_, ok = m.Match("Rings", "Silver", 100, 200)
	assert.False(t, ok)
}

func TestMatcherPriceTolerance(t *testing.T) {
	catalog := []models.CatalogItem{
		{Name: "Rings Gold ABCD", Category: "Rings", PurchasePrice: 100, SellingPrice: 200},
	}
	m := NewMatcher(catalog)

	_, ok := m.Match("Rings", "Gold", 100.01, 199.99)
	assert.True(t, ok)
}

func TestMatcherIsCaseInsensitive(t *testing.T) {
	catalog := []models.CatalogItem{
		{Name: "Rings Gold ABCD", Category: "Rings", PurchasePrice: 100, SellingPrice: 200},
	}
	m := NewMatcher(catalog)

	hit, ok := m.Match("RINGS", "gold", 100, 200)
	assert.True(t, ok)
	assert.Equal(t, "Rings Gold ABCD", hit.Name)

	_, ok = m.Match("rings", "  GOLD  ", 100, 200)
	assert.True(t, ok)
}

func TestMatcherFirstMatchWins(t *testing.T) {
	catalog := []models.CatalogItem{
		{ID: 1, Name: "Rings Gold AAAA", Category: "Rings", PurchasePrice: 100, SellingPrice: 200},
		{ID: 2, Name: "Rings Gold BBBB", Category: "Rings", PurchasePrice: 100, SellingPrice: 200},
	}
	m := NewMatcher(catalog)

	hit, ok := m.Match("Rings", "Gold", 100, 200)
	assert.True(t, ok)
	assert.Equal(t, int64(1), hit.ID)
}

func TestMatcherEmptyRawNameMatchesBareSyntheticName(t *testing.T) {
	catalog := []models.CatalogItem{
		{Name: "Rings QWER", Category: "Rings", PurchasePrice: 100, SellingPrice: 200},
	}
	m := NewMatcher(catalog)

	_, ok := m.Match("Rings", "", 100, 200)
	assert.True(t, ok)
}
