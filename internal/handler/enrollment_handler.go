package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edcenter/console-api/internal/models"
	"github.com/edcenter/console-api/internal/store"
	"github.com/edcenter/console-api/pkg/response"
)

// EnrollmentHandler exposes the enrollment store, plus the derived
// available-students view used by the enrollment form.
type EnrollmentHandler struct {
	enrollments *store.Enrollments
	students    *store.Students
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *store.Enrollments, students *store.Students) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, students: students}
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	h.enrollments.Fetch(c.Request.Context())
	response.JSON(c, http.StatusOK, h.enrollments.Snapshot(), nil)
}

// Available godoc
// @Summary Students available for enrollment
// @Description Students without an active enrollment, filtered by search text
// @Tags Enrollments
// @Produce json
// @Param search query string false "Search by name or phone"
// @Success 200 {object} response.Envelope
// @Router /enrollments/available-students [get]
func (h *EnrollmentHandler) Available(c *gin.Context) {
	ctx := c.Request.Context()
	students, err := h.students.ListAll(ctx, models.ListFilter{})
	if err != nil {
		response.Error(c, err)
		return
	}
	h.enrollments.Fetch(ctx)

	available := store.AvailableStudents(
		students,
		h.enrollments.Snapshot().Items,
		strings.TrimSpace(c.Query("search")),
	)
	response.JSON(c, http.StatusOK, available, nil)
}

// Create godoc
// @Summary Enroll a student into a group
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body models.CreateEnrollmentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req models.CreateEnrollmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	enrollment, err := h.enrollments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// UpdateStatus godoc
// @Summary Change an enrollment's status
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body models.UpdateEnrollmentRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/status [put]
func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateEnrollmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	enrollment, err := h.enrollments.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Modal godoc
// @Summary Toggle the enrollment modal
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body toggleRequest true "Modal payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/modal [put]
func (h *EnrollmentHandler) Modal(c *gin.Context) {
	var req toggleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.enrollments.SetModal(req.Open)
	response.JSON(c, http.StatusOK, h.enrollments.Snapshot(), nil)
}
