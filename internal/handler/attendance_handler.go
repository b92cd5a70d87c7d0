package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edcenter/console-api/internal/models"
	"github.com/edcenter/console-api/internal/store"
	appErrors "github.com/edcenter/console-api/pkg/errors"
	"github.com/edcenter/console-api/pkg/response"
)

// AttendanceHandler drives the attendance sheet workflow: ensure, mark
// locally, save in one batch.
type AttendanceHandler struct {
	attendance *store.Attendance
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *store.Attendance) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

type ensureSheetRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	Date    string `json:"date" validate:"required"`
	Lesson  int    `json:"lesson" validate:"required,min=1"`
}

type markStatusRequest struct {
	Status models.AttendanceStatus `json:"status" validate:"required"`
	// A pointer so "comment omitted" and "comment": "" stay distinguishable;
	// the latter clears the stored comment.
	Comment *string `json:"comment"`
}

// Ensure godoc
// @Summary Open an attendance sheet
// @Description Fetches the sheet for (group, date, lesson); the upstream API creates it on first request
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body ensureSheetRequest true "Sheet coordinates"
// @Success 200 {object} response.Envelope
// @Router /attendance/sheets [post]
func (h *AttendanceHandler) Ensure(c *gin.Context) {
	var req ensureSheetRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sheet, err := h.attendance.EnsureSheet(c.Request.Context(), req.GroupID, req.Date, req.Lesson)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// Get godoc
// @Summary Get a cached attendance sheet
// @Tags Attendance
// @Produce json
// @Param id path string true "Sheet ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/sheets/{id} [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
	sheet, ok := h.attendance.Sheet(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "sheet not loaded"))
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// Mark godoc
// @Summary Mark one student's attendance
// @Description Local edit only; nothing is sent upstream until the sheet is saved
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Sheet ID"
// @Param studentId path string true "Student ID"
// @Param payload body markStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /attendance/sheets/{id}/entries/{studentId} [put]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req markStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.attendance.MarkStatus(c.Param("id"), c.Param("studentId"), req.Status, req.Comment); err != nil {
		response.Error(c, err)
		return
	}
	sheet, _ := h.attendance.Sheet(c.Param("id"))
	response.JSON(c, http.StatusOK, sheet, nil)
}

// Save godoc
// @Summary Save an attendance sheet
// @Description Sends the full roster upstream in one batch and closes the sheet
// @Tags Attendance
// @Produce json
// @Param id path string true "Sheet ID"
// @Success 200 {object} response.Envelope
// @Router /attendance/sheets/{id}/save [post]
func (h *AttendanceHandler) Save(c *gin.Context) {
	if err := h.attendance.SaveSheet(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	sheet, _ := h.attendance.Sheet(c.Param("id"))
	response.JSON(c, http.StatusOK, sheet, nil)
}

// Delete godoc
// @Summary Delete an attendance sheet
// @Tags Attendance
// @Produce json
// @Param id path string true "Sheet ID"
// @Success 204
// @Router /attendance/sheets/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	if err := h.attendance.DeleteSheet(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Snapshot godoc
// @Summary Attendance store snapshot
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) Snapshot(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.attendance.Snapshot(), nil)
}
