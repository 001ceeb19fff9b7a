package pipeline

import (
	"math"
	"strings"

	"inventory-automation-service/internal/models"
)

// priceTolerance is the absolute tolerance for currency comparison during
// matching. Grouping compares exact decimal strings instead.
const priceTolerance = 0.01

// Matcher resolves consolidated groups against the remote catalog snapshot
// by reversing the name-synthesis scheme: a catalog name is decomposed into
// category prefix, variant, and random tag, and the variant is compared with
// the group's raw name.
type Matcher struct {
	catalog []models.CatalogItem
}

func NewMatcher(catalog []models.CatalogItem) *Matcher {
	return &Matcher{catalog: catalog}
}

// Match returns the first catalog item satisfying all three criteria:
// case-insensitive category equality, both prices within the tolerance, and
// variant equality. When several items qualify, catalog order decides.
func (m *Matcher) Match(category, rawName string, costPrice, sellingPrice float64) (*models.CatalogItem, bool) {
	want := strings.ToLower(strings.TrimSpace(rawName))

	for i := range m.catalog {
		it := &m.catalog[i]

		if !strings.EqualFold(strings.TrimSpace(it.Category), strings.TrimSpace(category)) {
			continue
		}
		if math.Abs(it.PurchasePrice-costPrice) > priceTolerance {
			continue
		}
		if math.Abs(it.SellingPrice-sellingPrice) > priceTolerance {
			continue
		}
		if strings.ToLower(it.Variant()) != want {
			continue
		}
		return it, true
	}
	return nil, false
}
