package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"inventory-automation-service/internal/models"
)

const insertBatchSize = 500

// MirrorRepository persists snapshots of the remote billing system (catalog,
// sales invoices, expenses) into Postgres for the dashboard. Each sync fully
// replaces the previous snapshot in one transaction.
type MirrorRepository struct {
	db *gorm.DB
}

func NewMirrorRepository(db *gorm.DB) *MirrorRepository {
	return &MirrorRepository{db: db}
}

// ReplaceCatalog swaps the mirrored catalog for the given items.
func (r *MirrorRepository) ReplaceCatalog(ctx context.Context, items []models.CatalogItem) error {
	now := time.Now()
	for i := range items {
		items[i].SyncedAt = now
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(&models.CatalogItem{}).Error; err != nil {
			return fmt.Errorf("clear catalog mirror: %w", err)
		}
		if len(items) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(items, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert catalog mirror: %w", err)
		}
		return nil
	})
}

// ReplaceInvoices swaps the mirrored sales invoices.
func (r *MirrorRepository) ReplaceInvoices(ctx context.Context, invoices []models.SalesInvoice) error {
	now := time.Now()
	for i := range invoices {
		invoices[i].SyncedAt = now
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(&models.SalesInvoice{}).Error; err != nil {
			return fmt.Errorf("clear invoice mirror: %w", err)
		}
		if len(invoices) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(invoices, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert invoice mirror: %w", err)
		}
		return nil
	})
}

// ReplaceExpenses swaps the mirrored expenses.
func (r *MirrorRepository) ReplaceExpenses(ctx context.Context, expenses []models.Expense) error {
	now := time.Now()
	for i := range expenses {
		expenses[i].SyncedAt = now
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(&models.Expense{}).Error; err != nil {
			return fmt.Errorf("clear expense mirror: %w", err)
		}
		if len(expenses) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(expenses, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert expense mirror: %w", err)
		}
		return nil
	})
}

// ListCatalog returns mirrored catalog items with optional category and
// name/SKU search filters, paginated.
func (r *MirrorRepository) ListCatalog(ctx context.Context, category, search string, page, limit int) ([]models.CatalogItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CatalogItem{})

	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR sku_code ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count catalog mirror: %w", err)
	}

	if page > 0 && limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}

	var items []models.CatalogItem
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list catalog mirror: %w", err)
	}
	return items, total, nil
}
