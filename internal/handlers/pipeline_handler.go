package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inventory-automation-service/internal/models"
	"inventory-automation-service/internal/pipeline"
)

// PipelineService is the part of the pipeline the HTTP layer drives.
type PipelineService interface {
	Sync(ctx context.Context, syncDocuments, autoExport bool) (*models.SyncResult, error)
	Consolidate(ctx context.Context, autoExport bool) (*models.ConsolidateResult, error)
	Export(ctx context.Context, autoExport bool) (*models.ExportResult, error)
	RunAll(ctx context.Context, syncDocuments, autoExport bool) (*models.RunAllResult, error)
	BuildLabelTable(ctx context.Context, autoExport bool) (*models.LabelsResult, error)
}

type PipelineHandler struct {
	svc               PipelineService
	defaultAutoExport bool
}

func NewPipelineHandler(svc PipelineService, defaultAutoExport bool) *PipelineHandler {
	return &PipelineHandler{svc: svc, defaultAutoExport: defaultAutoExport}
}

func (h *PipelineHandler) bindRequest(c *gin.Context) (models.PipelineRequest, bool) {
	req := models.PipelineRequest{}
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "VALIDATION_ERROR",
				Message: err.Error(),
			},
		})
		return req, false
	}
	return req, true
}

func (h *PipelineHandler) autoExport(req models.PipelineRequest) bool {
	if req.AutoExport != nil {
		return *req.AutoExport
	}
	return h.defaultAutoExport
}

// Sync pulls the remote catalog (and optionally documents) into the snapshot
// tables and database mirror.
// POST /api/v1/pipeline/sync
func (h *PipelineHandler) Sync(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	result, err := h.svc.Sync(c.Request.Context(), req.SyncDocuments, h.autoExport(req))
	if err != nil {
		h.pipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: result})
}

// Consolidate groups the raw intake table and matches it against the catalog.
// POST /api/v1/pipeline/consolidate
func (h *PipelineHandler) Consolidate(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	result, err := h.svc.Consolidate(c.Request.Context(), h.autoExport(req))
	if err != nil {
		h.pipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: result})
}

// Export builds the add and update import tables.
// POST /api/v1/pipeline/export
func (h *PipelineHandler) Export(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	result, err := h.svc.Export(c.Request.Context(), h.autoExport(req))
	if err != nil {
		h.pipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: result})
}

// RunAll executes sync, consolidate, and export in sequence.
// POST /api/v1/pipeline/run
func (h *PipelineHandler) RunAll(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	result, err := h.svc.RunAll(c.Request.Context(), req.SyncDocuments, h.autoExport(req))
	if err != nil {
		h.pipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: result})
}

// BuildLabels rebuilds the label-printing table.
// POST /api/v1/labels
func (h *PipelineHandler) BuildLabels(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	result, err := h.svc.BuildLabelTable(c.Request.Context(), h.autoExport(req))
	if err != nil {
		h.pipelineError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: result})
}

func (h *PipelineHandler) pipelineError(c *gin.Context, err error) {
	if errors.Is(err, pipeline.ErrInputMissing) {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INPUT_MISSING",
				Message: err.Error(),
			},
		})
		return
	}
	c.JSON(http.StatusBadGateway, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    "PIPELINE_FAILED",
			Message: err.Error(),
		},
	})
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}
