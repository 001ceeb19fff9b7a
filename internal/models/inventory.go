package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// RawIntakeRow is one human-entered line of newly received stock, read from
// the raw intake table. Price fields are kept as the raw cell strings because
// grouping keys on the exact decimal text, not the numeric value.
type RawIntakeRow struct {
	Category     string  `json:"category"`
	Name         string  `json:"name"`
	CostPrice    string  `json:"costPrice"`
	Quantity     float64 `json:"quantity"`
	SellingPrice string  `json:"sellingPrice"`
}

// GroupKey identifies a logical item within a consolidation run. Equality is
// exact and case-sensitive on all four fields.
type GroupKey struct {
	Category     string
	RawName      string
	CostPrice    string
	SellingPrice string
}

// Key builds the grouping key for a raw intake row.
func (r RawIntakeRow) Key() GroupKey {
	return GroupKey{
		Category:     r.Category,
		RawName:      r.Name,
		CostPrice:    r.CostPrice,
		SellingPrice: r.SellingPrice,
	}
}

// ConsolidatedItem is the unit of output of a consolidation run. Immutable
// after creation; a run fully replaces the previous consolidated table.
type ConsolidatedItem struct {
	Category     string  `json:"category"`
	RawName      string  `json:"rawName"`
	CostPrice    string  `json:"costPrice"`
	Quantity     float64 `json:"quantity"`
	SellingPrice string  `json:"sellingPrice"`

	// Derived during matching/synthesis.
	DisplayName      string  `json:"displayName"`
	GeneratedBarcode string  `json:"generatedBarcode"`
	CatalogBarcode   string  `json:"catalogBarcode"`
	AlreadyPresent   bool    `json:"alreadyPresent"`
	RemoteQuantity   float64 `json:"remoteQuantity"`
}

// CatalogItem is a snapshot row of the remote billing system's product
// catalog. Externally owned and read-only; mirrored into Postgres for the
// dashboard and written to the catalog snapshot table for the pipeline.
type CatalogItem struct {
	ID            int64           `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name          string          `json:"name" gorm:"type:varchar(255);index"`
	SKUCode       string          `json:"skuCode" gorm:"type:varchar(100);index"`
	Category      string          `json:"category" gorm:"type:varchar(255);index"`
	MRP           float64         `json:"mrp"`
	SellingPrice  float64         `json:"sellingPrice"`
	PurchasePrice float64         `json:"purchasePrice"`
	Quantity      float64         `json:"quantity"`
	Unit          string          `json:"unit" gorm:"type:varchar(50)"`
	GSTPercentage float64         `json:"gstPercentage"`
	Description   string          `json:"description" gorm:"type:text"`
	SyncedAt      time.Time       `json:"syncedAt"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// Variant returns the portion of the display name that encodes the original
// raw item name: the name with a leading category prefix and a trailing
// 4-character synthetic tag stripped, trimmed. Empty when the name carries no
// middle part.
func (c CatalogItem) Variant() string {
	name := strings.TrimSpace(c.Name)
	cat := strings.TrimSpace(c.Category)

	if cat != "" && len(name) >= len(cat) && strings.EqualFold(name[:len(cat)], cat) {
		name = strings.TrimSpace(name[len(cat):])
	}

	fields := strings.Fields(name)
	if n := len(fields); n > 0 && isSyntheticTag(fields[n-1]) {
		fields = fields[:n-1]
	}
	return strings.TrimSpace(strings.Join(fields, " "))
}

// isSyntheticTag reports whether a token looks like the random 4-character
// suffix appended by name synthesis.
func isSyntheticTag(tok string) bool {
	if len(tok) != 4 {
		return false
	}
	for _, r := range tok {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// SalesInvoice is a mirrored sales voucher from the remote billing system.
type SalesInvoice struct {
	ID            int64           `json:"id" gorm:"primaryKey;autoIncrement:false"`
	VoucherNumber string          `json:"voucherNumber" gorm:"type:varchar(100);index"`
	VoucherDate   string          `json:"voucherDate" gorm:"type:varchar(20);index"`
	PartyName     string          `json:"partyName" gorm:"type:varchar(255)"`
	Status        string          `json:"status" gorm:"type:varchar(50)"`
	TotalAmount   float64         `json:"totalAmount"`
	AmountPaid    float64         `json:"amountPaid"`
	BalanceAmount float64         `json:"balanceAmount"`
	SyncedAt      time.Time       `json:"syncedAt"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// Expense is a mirrored expense voucher from the remote billing system.
type Expense struct {
	ID            int64           `json:"id" gorm:"primaryKey;autoIncrement:false"`
	VoucherNumber string          `json:"voucherNumber" gorm:"type:varchar(100);index"`
	VoucherDate   string          `json:"voucherDate" gorm:"type:varchar(20);index"`
	PartyName     string          `json:"partyName" gorm:"type:varchar(255)"`
	Category      string          `json:"category" gorm:"type:varchar(255)"`
	TotalAmount   float64         `json:"totalAmount"`
	SyncedAt      time.Time       `json:"syncedAt"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// LabelRow is one printable label line; consolidated rows are duplicated
// quantity times to produce these.
type LabelRow struct {
	Product string `json:"product"`
	Barcode string `json:"barcode"`
	Price   string `json:"price"`
}

// Request/Response models

type PipelineRequest struct {
	AutoExport    *bool `json:"autoExport,omitempty"`
	SyncDocuments bool  `json:"syncDocuments,omitempty"`
}

type SyncResult struct {
	RunID        string `json:"runId"`
	ItemCount    int    `json:"itemCount"`
	InvoiceCount int    `json:"invoiceCount,omitempty"`
	ExpenseCount int    `json:"expenseCount,omitempty"`
}

type ConsolidateResult struct {
	RunID     string `json:"runId"`
	RawRows   int    `json:"rawRows"`
	Items     int    `json:"items"`
	Matched   int    `json:"matched"`
	Unmatched int    `json:"unmatched"`
}

type ExportResult struct {
	RunID       string `json:"runId"`
	AddCount    int    `json:"addCount"`
	UpdateCount int    `json:"updateCount"`
}

type RunAllResult struct {
	RunID       string            `json:"runId"`
	Sync        SyncResult        `json:"sync"`
	Consolidate ConsolidateResult `json:"consolidate"`
	Export      ExportResult      `json:"export"`
}

type LabelsResult struct {
	RunID      string `json:"runId"`
	LabelCount int    `json:"labelCount"`
}

type ExportFile struct {
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Response models

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

type CatalogListResponse struct {
	Success    bool            `json:"success"`
	Data       []CatalogItem   `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

type ExportListResponse struct {
	Success bool         `json:"success"`
	Data    []ExportFile `json:"data"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}
