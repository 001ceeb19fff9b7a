package pipeline

import (
	"math/rand"
	"strings"

	"inventory-automation-service/internal/models"
)

const rawRowWidth = 5

// NormalizeRawRows converts raw table cells into typed intake rows. Ragged
// rows are right-padded to five cells; blank quantities parse as zero. Price
// cells keep their exact text because grouping compares decimal strings, not
// values.
func NormalizeRawRows(rows [][]string) []models.RawIntakeRow {
	out := make([]models.RawIntakeRow, 0, len(rows))
	for _, cells := range rows {
		for len(cells) < rawRowWidth {
			cells = append(cells, "")
		}
		out = append(out, models.RawIntakeRow{
			Category:     cells[0],
			Name:         cells[1],
			CostPrice:    cells[2],
			Quantity:     ParseNumber(cells[3]),
			SellingPrice: cells[4],
		})
	}
	return out
}

// GroupRows merges rows sharing a group key, summing quantities. All other
// fields come from the first-seen row of each group; group order is insertion
// order.
func GroupRows(rows []models.RawIntakeRow) []models.RawIntakeRow {
	index := make(map[models.GroupKey]int, len(rows))
	grouped := make([]models.RawIntakeRow, 0, len(rows))

	for _, row := range rows {
		key := row.Key()
		if i, ok := index[key]; ok {
			grouped[i].Quantity += row.Quantity
			continue
		}
		index[key] = len(grouped)
		grouped = append(grouped, row)
	}
	return grouped
}

const nameTagLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// SynthesizeName builds a display name: the category, the raw name when one
// was entered, and a random 4-letter tag.
func SynthesizeName(rng *rand.Rand, category, existingName string) string {
	tag := make([]byte, 4)
	for i := range tag {
		tag[i] = nameTagLetters[rng.Intn(len(nameTagLetters))]
	}

	if name := strings.TrimSpace(existingName); name != "" {
		return category + " " + name + " " + string(tag)
	}
	return category + " " + string(tag)
}

// SynthesizeBarcode builds a barcode: a random 2-digit prefix in [13,99], a
// space, then a 4-character body made of the cost price's digits reversed,
// padded with random digits or truncated to length. Non-digit characters of
// the price (decimal point included) are dropped before reversing.
func SynthesizeBarcode(rng *rand.Rand, costPrice string) string {
	prefix := 13 + rng.Intn(87)

	var digits []byte
	for i := 0; i < len(costPrice); i++ {
		if c := costPrice[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}

	body := make([]byte, 4)
	for i := range body {
		if i < len(digits) {
			body[i] = digits[i]
		} else {
			body[i] = byte('0' + rng.Intn(10))
		}
	}

	return string([]byte{byte('0' + prefix/10), byte('0' + prefix%10), ' '}) + string(body)
}

// Consolidator runs the grouping, matching, and synthesis stage. The random
// source is injected so callers control seeding.
type Consolidator struct {
	rng *rand.Rand
}

func NewConsolidator(rng *rand.Rand) *Consolidator {
	return &Consolidator{rng: rng}
}

// Run groups the raw rows and resolves each group against the catalog.
// Matched groups adopt the catalog item's name and SKU; unmatched groups get
// a synthesized name and barcode. A generated barcode is kept on every item
// for audit.
func (c *Consolidator) Run(raw []models.RawIntakeRow, catalog []models.CatalogItem) []models.ConsolidatedItem {
	grouped := GroupRows(raw)
	matcher := NewMatcher(catalog)

	items := make([]models.ConsolidatedItem, 0, len(grouped))
	for _, row := range grouped {
		item := models.ConsolidatedItem{
			Category:     row.Category,
			RawName:      row.Name,
			CostPrice:    row.CostPrice,
			Quantity:     row.Quantity,
			SellingPrice: row.SellingPrice,
		}
		item.GeneratedBarcode = SynthesizeBarcode(c.rng, row.CostPrice)

		if hit, ok := matcher.Match(row.Category, row.Name, ParseNumber(row.CostPrice), ParseNumber(row.SellingPrice)); ok {
			item.AlreadyPresent = true
			item.DisplayName = hit.Name
			item.CatalogBarcode = hit.SKUCode
			item.RemoteQuantity = hit.Quantity
		} else {
			item.DisplayName = SynthesizeName(c.rng, row.Category, row.Name)
			item.CatalogBarcode = item.GeneratedBarcode
		}

		items = append(items, item)
	}
	return items
}
