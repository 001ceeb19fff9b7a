package pipeline

import (
	"strconv"

	"inventory-automation-service/internal/models"
)

// CatalogHeaders is the column order of the catalog snapshot table.
var CatalogHeaders = []string{
	"ID",
	"Name",
	"SKU Code",
	"Category",
	"MRP",
	"Selling Price",
	"Purchase Price",
	"Quantity",
	"Unit",
	"GST %",
	"Description",
}

// ConsolidatedHeaders is the column order of the consolidated inventory table.
var ConsolidatedHeaders = []string{
	"Category",
	"Item Name",
	"Cost Price",
	"Quantity",
	"Selling Price",
	"Generated Barcode",
	"Item Code",
	"Already Present",
	"Remote Stock",
}

func catalogTableRows(items []models.CatalogItem) [][]string {
	rows := make([][]string, 0, len(items)+1)
	rows = append(rows, CatalogHeaders)
	for _, it := range items {
		rows = append(rows, []string{
			strconv.FormatInt(it.ID, 10),
			it.Name,
			it.SKUCode,
			it.Category,
			FormatNumber(it.MRP),
			FormatNumber(it.SellingPrice),
			FormatNumber(it.PurchasePrice),
			FormatNumber(it.Quantity),
			it.Unit,
			FormatNumber(it.GSTPercentage),
			it.Description,
		})
	}
	return rows
}

func catalogFromTableRows(rows [][]string) []models.CatalogItem {
	items := make([]models.CatalogItem, 0, len(rows))
	for _, cells := range rows {
		for len(cells) < len(CatalogHeaders) {
			cells = append(cells, "")
		}
		id, _ := strconv.ParseInt(cells[0], 10, 64)
		items = append(items, models.CatalogItem{
			ID:            id,
			Name:          cells[1],
			SKUCode:       cells[2],
			Category:      cells[3],
			MRP:           ParseNumber(cells[4]),
			SellingPrice:  ParseNumber(cells[5]),
			PurchasePrice: ParseNumber(cells[6]),
			Quantity:      ParseNumber(cells[7]),
			Unit:          cells[8],
			GSTPercentage: ParseNumber(cells[9]),
			Description:   cells[10],
		})
	}
	return items
}

func consolidatedTableRows(items []models.ConsolidatedItem) [][]string {
	rows := make([][]string, 0, len(items)+1)
	rows = append(rows, ConsolidatedHeaders)
	for _, it := range items {
		rows = append(rows, []string{
			it.Category,
			it.DisplayName,
			it.CostPrice,
			FormatNumber(it.Quantity),
			it.SellingPrice,
			it.GeneratedBarcode,
			it.CatalogBarcode,
			strconv.FormatBool(it.AlreadyPresent),
			FormatNumber(it.RemoteQuantity),
		})
	}
	return rows
}

func consolidatedFromTableRows(rows [][]string) []models.ConsolidatedItem {
	items := make([]models.ConsolidatedItem, 0, len(rows))
	for _, cells := range rows {
		for len(cells) < len(ConsolidatedHeaders) {
			cells = append(cells, "")
		}
		present, _ := strconv.ParseBool(cells[7])
		items = append(items, models.ConsolidatedItem{
			Category:         cells[0],
			DisplayName:      cells[1],
			CostPrice:        cells[2],
			Quantity:         ParseNumber(cells[3]),
			SellingPrice:     cells[4],
			GeneratedBarcode: cells[5],
			CatalogBarcode:   cells[6],
			AlreadyPresent:   present,
			RemoteQuantity:   ParseNumber(cells[8]),
		})
	}
	return items
}

// InvoiceHeaders is the column order of the sales invoice table.
var InvoiceHeaders = []string{
	"ID",
	"Invoice Number",
	"Date",
	"Party",
	"Status",
	"Total Amount",
	"Amount Paid",
	"Balance",
}

func invoiceTableRows(invoices []models.SalesInvoice) [][]string {
	rows := make([][]string, 0, len(invoices)+1)
	rows = append(rows, InvoiceHeaders)
	for _, inv := range invoices {
		rows = append(rows, []string{
			strconv.FormatInt(inv.ID, 10),
			inv.VoucherNumber,
			inv.VoucherDate,
			inv.PartyName,
			inv.Status,
			FormatNumber(inv.TotalAmount),
			FormatNumber(inv.AmountPaid),
			FormatNumber(inv.BalanceAmount),
		})
	}
	return rows
}

// ExpenseHeaders is the column order of the expense table.
var ExpenseHeaders = []string{
	"ID",
	"Voucher Number",
	"Date",
	"Party",
	"Category",
	"Total Amount",
}

func expenseTableRows(expenses []models.Expense) [][]string {
	rows := make([][]string, 0, len(expenses)+1)
	rows = append(rows, ExpenseHeaders)
	for _, ex := range expenses {
		rows = append(rows, []string{
			strconv.FormatInt(ex.ID, 10),
			ex.VoucherNumber,
			ex.VoucherDate,
			ex.PartyName,
			ex.Category,
			FormatNumber(ex.TotalAmount),
		})
	}
	return rows
}
