package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory-automation-service/internal/models"
)

// CatalogReader lists the mirrored remote catalog.
type CatalogReader interface {
	ListCatalog(ctx context.Context, category, search string, page, limit int) ([]models.CatalogItem, int64, error)
}

type CatalogHandler struct {
	repo            CatalogReader
	defaultPageSize int
	maxPageSize     int
}

func NewCatalogHandler(repo CatalogReader, defaultPageSize, maxPageSize int) *CatalogHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 20
	}
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &CatalogHandler{repo: repo, defaultPageSize: defaultPageSize, maxPageSize: maxPageSize}
}

// ListCatalog returns the mirrored catalog with pagination.
// GET /api/v1/catalog
func (h *CatalogHandler) ListCatalog(c *gin.Context) {
	page := 1
	limit := h.defaultPageSize

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := parseInt(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := parseInt(limitStr); err == nil && l > 0 && l <= h.maxPageSize {
			limit = l
		}
	}

	items, total, err := h.repo.ListCatalog(c.Request.Context(), c.Query("category"), c.Query("search"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "LIST_FAILED",
				Message: "Failed to list catalog items",
			},
		})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, models.CatalogListResponse{
		Success: true,
		Data:    items,
		Pagination: &models.PaginationMeta{
			Page:       page,
			Limit:      limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	})
}
