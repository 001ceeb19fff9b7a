package pipeline

import "inventory-automation-service/internal/models"

// LabelHeaders is the column order of the label-printing table.
var LabelHeaders = []string{"Product", "Barcode", "Price"}

// BuildLabels flattens consolidated items into one label row per unit of
// stock: an item with quantity 5 yields 5 identical rows.
func BuildLabels(items []models.ConsolidatedItem) []models.LabelRow {
	var labels []models.LabelRow
	for _, item := range items {
		price := FormatNumber(ParseNumber(item.SellingPrice))
		for i := 0; i < int(item.Quantity); i++ {
			labels = append(labels, models.LabelRow{
				Product: item.DisplayName,
				Barcode: item.CatalogBarcode,
				Price:   price,
			})
		}
	}
	return labels
}
