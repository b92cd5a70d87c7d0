package handler

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/edcenter/console-api/internal/exports"
	appErrors "github.com/edcenter/console-api/pkg/errors"
	"github.com/edcenter/console-api/pkg/export"
	"github.com/edcenter/console-api/pkg/response"
)

// ExportHandler drives the async export pipeline.
type ExportHandler struct {
	exports *exports.Service
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(service *exports.Service) *ExportHandler {
	return &ExportHandler{exports: service}
}

type debtorExportRequest struct {
	Format  export.Format `json:"format" validate:"required"`
	MinDebt float64       `json:"minDebt"`
	Search  string        `json:"search"`
}

type sheetExportRequest struct {
	Format  export.Format `json:"format" validate:"required"`
	GroupID string        `json:"groupId" validate:"required"`
	Date    string        `json:"date" validate:"required"`
	Lesson  int           `json:"lesson" validate:"required,min=1"`
}

// Debtors godoc
// @Summary Export the debtor list
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body debtorExportRequest true "Export parameters"
// @Success 202 {object} response.Envelope
// @Router /exports/debtors [post]
func (h *ExportHandler) Debtors(c *gin.Context) {
	var req debtorExportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	job, err := h.exports.RequestDebtors(c.Request.Context(), req.Format, req.MinDebt, req.Search)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Sheet godoc
// @Summary Export an attendance sheet
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body sheetExportRequest true "Export parameters"
// @Success 202 {object} response.Envelope
// @Router /exports/attendance [post]
func (h *ExportHandler) Sheet(c *gin.Context) {
	var req sheetExportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	job, err := h.exports.RequestSheet(c.Request.Context(), req.Format, req.GroupID, req.Date, req.Lesson)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Poll an export job
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	job, ok := h.exports.Job(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export job not found"))
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download serves a completed export file. The signed token is the only
// credential; no session is required.
//
// Download godoc
// @Summary Download an export
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token required"))
		return
	}
	file, format, err := h.exports.Download(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	name := filepath.Base(file.Name())
	c.DataFromReader(http.StatusOK, info.Size(), format.ContentType(), file, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", name),
	})
}
