package pipeline

import (
	"strconv"

	"inventory-automation-service/internal/models"
)

// Column layouts are a bit-exact contract with the bulk-import tool,
// including the newline in the first header.

// AddHeaders is the column order of the "add" import file.
var AddHeaders = []string{
	"Item Name*\n(mandatory field)",
	"Description",
	"Category",
	"Unit",
	"Alternate Unit",
	"Conversion Rate",
	"Item code",
	"HSN Code",
	"GST Tax Rate(%)",
	"Sales Price",
	"Sales Tax inclusive",
	"Purchase Price",
	"Purchase Tax inclusive",
	"MRP",
	"Current stock",
	"Low stock alert quantity",
	"Item type",
	"Visible on Online Store?",
}

// UpdateHeaders is the column order of the "update" import file.
var UpdateHeaders = []string{
	"Item Name*\n(mandatory field)",
	"Description",
	"Category",
	"Item code",
	"HSN Code",
	"GST Tax Rate(%)",
	"Sales Price",
	"Sales Tax inclusive",
	"Purchase Price",
	"Purchase Tax inclusive",
	"MRP",
	"Current stock",
	"Low stock alert quantity",
	"Visible on Online Store?",
}

// Static import defaults.
const (
	defaultUnit        = "PIECES"
	taxInclusive       = "Inclusive"
	itemTypeProduct    = "Product"
	storeVisibility    = "No"
	addLowStockMark    = "0"
	updateLowStockMark = "1"
)

// BuildExports partitions consolidated items into the add and update batches.
// Both batches are fully computed before the caller writes anything, so a
// failure mid-build leaves the previous tables intact.
//
// Update rows merge stock as remote on-hand plus the newly consolidated
// quantity; add rows carry the consolidated quantity alone. Quantities are
// coerced to integers for the import format.
func BuildExports(items []models.ConsolidatedItem) (add, update [][]string) {
	add = [][]string{AddHeaders}
	update = [][]string{UpdateHeaders}

	for _, item := range items {
		sell := FormatNumber(ParseNumber(item.SellingPrice))
		cost := FormatNumber(ParseNumber(item.CostPrice))
		qty := int(item.Quantity)

		if item.AlreadyPresent {
			stock := int(item.RemoteQuantity) + qty
			update = append(update, []string{
				item.DisplayName,
				"",
				item.Category,
				item.CatalogBarcode,
				"",
				"",
				sell,
				taxInclusive,
				cost,
				taxInclusive,
				sell,
				strconv.Itoa(stock),
				updateLowStockMark,
				storeVisibility,
			})
			continue
		}

		add = append(add, []string{
			item.DisplayName,
			"",
			item.Category,
			defaultUnit,
			"",
			"",
			item.CatalogBarcode,
			"",
			"",
			sell,
			taxInclusive,
			cost,
			taxInclusive,
			sell,
			strconv.Itoa(qty),
			addLowStockMark,
			itemTypeProduct,
			storeVisibility,
		})
	}

	return add, update
}
