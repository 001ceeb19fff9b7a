package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory-automation-service/internal/export"
	"inventory-automation-service/internal/models"
)

// ExportStore lists and resolves saved CSV exports.
type ExportStore interface {
	List(t export.Type) ([]models.ExportFile, error)
	ListAll() ([]models.ExportFile, error)
	FilePath(t export.Type, name string) (string, error)
}

type ExportHandler struct {
	backups ExportStore
}

func NewExportHandler(backups ExportStore) *ExportHandler {
	return &ExportHandler{backups: backups}
}

// ListExports lists saved CSV exports, optionally filtered by type.
// GET /api/v1/exports?type=import_add
func (h *ExportHandler) ListExports(c *gin.Context) {
	var (
		files []models.ExportFile
		err   error
	)

	if t := c.Query("type"); t != "" {
		if !export.ValidType(t) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "INVALID_EXPORT_TYPE",
					Message: "Unknown export type: " + t,
				},
			})
			return
		}
		files, err = h.backups.List(export.Type(t))
	} else {
		files, err = h.backups.ListAll()
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "LIST_FAILED",
				Message: "Failed to list exports",
			},
		})
		return
	}

	if files == nil {
		files = []models.ExportFile{}
	}
	c.JSON(http.StatusOK, models.ExportListResponse{Success: true, Data: files})
}

// DownloadExport streams one saved CSV export.
// GET /api/v1/exports/:type/:name
func (h *ExportHandler) DownloadExport(c *gin.Context) {
	t := c.Param("type")
	name := c.Param("name")

	if !export.ValidType(t) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_EXPORT_TYPE",
				Message: "Unknown export type: " + t,
			},
		})
		return
	}

	path, err := h.backups.FilePath(export.Type(t), name)
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "NOT_FOUND",
				Message: "Export file not found",
			},
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Header("Content-Type", "text/csv")
	c.File(path)
}
