package billbook

import (
	"bytes"
	"strconv"
	"strings"

	"inventory-automation-service/internal/models"
)

// apiFloat tolerates the billing API's habit of returning numeric fields as
// numbers, quoted strings, or null depending on endpoint version.
type apiFloat float64

func (f *apiFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = apiFloat(v)
	return nil
}

type itemsResponse struct {
	InventoryItems []apiItem `json:"inventory_items"`
	TotalCount     int       `json:"total_count"`
}

type apiItem struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	SKUCode       string   `json:"sku_code"`
	CategoryName  string   `json:"item_category_name"`
	MRP           apiFloat `json:"mrp"`
	SellingPrice  apiFloat `json:"selling_price"`
	PurchasePrice apiFloat `json:"purchase_price"`
	Quantity      apiFloat `json:"quantity"`
	Unit          string   `json:"unit"`
	GSTPercentage apiFloat `json:"gst_percentage"`
	Description   string   `json:"description"`
}

type vouchersResponse struct {
	Vouchers   []apiVoucher `json:"vouchers"`
	TotalCount int          `json:"total_count"`
}

type apiVoucher struct {
	ID            int64    `json:"id"`
	VoucherNumber string   `json:"voucher_number"`
	VoucherDate   string   `json:"voucher_date"`
	PartyName     string   `json:"party_name"`
	Status        string   `json:"status"`
	CategoryName  string   `json:"expense_category_name"`
	TotalAmount   apiFloat `json:"total_amount"`
	AmountPaid    apiFloat `json:"amount_paid"`
	BalanceAmount apiFloat `json:"balance_amount"`
}

func convertItem(it apiItem) models.CatalogItem {
	return models.CatalogItem{
		ID:            it.ID,
		Name:          it.Name,
		SKUCode:       it.SKUCode,
		Category:      it.CategoryName,
		MRP:           float64(it.MRP),
		SellingPrice:  float64(it.SellingPrice),
		PurchasePrice: float64(it.PurchasePrice),
		Quantity:      float64(it.Quantity),
		Unit:          it.Unit,
		GSTPercentage: float64(it.GSTPercentage),
		Description:   it.Description,
	}
}

func convertInvoice(v apiVoucher) models.SalesInvoice {
	return models.SalesInvoice{
		ID:            v.ID,
		VoucherNumber: v.VoucherNumber,
		VoucherDate:   v.VoucherDate,
		PartyName:     v.PartyName,
		Status:        v.Status,
		TotalAmount:   float64(v.TotalAmount),
		AmountPaid:    float64(v.AmountPaid),
		BalanceAmount: float64(v.BalanceAmount),
	}
}

func convertExpense(v apiVoucher) models.Expense {
	return models.Expense{
		ID:            v.ID,
		VoucherNumber: v.VoucherNumber,
		VoucherDate:   v.VoucherDate,
		PartyName:     v.PartyName,
		Category:      v.CategoryName,
		TotalAmount:   float64(v.TotalAmount),
	}
}
