package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edcenter/console-api/internal/models"
	"github.com/edcenter/console-api/internal/store"
	"github.com/edcenter/console-api/pkg/response"
)

// AssignmentHandler exposes the teaching-assignment store.
type AssignmentHandler struct {
	assignments *store.Assignments
}

// NewAssignmentHandler constructs AssignmentHandler.
func NewAssignmentHandler(assignments *store.Assignments) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// List godoc
// @Summary List teaching assignments
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	h.assignments.Fetch(c.Request.Context())
	response.JSON(c, http.StatusOK, h.assignments.Snapshot(), nil)
}

// Create godoc
// @Summary Assign a teacher to a group
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body models.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req models.CreateAssignmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	assignment, err := h.assignments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Update godoc
// @Summary Update a teaching assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body models.UpdateAssignmentRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) Update(c *gin.Context) {
	var req models.UpdateAssignmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	assignment, err := h.assignments.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Delete godoc
// @Summary Remove a teaching assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 204
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	if err := h.assignments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Modal godoc
// @Summary Toggle the assignment modal
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body toggleRequest true "Modal payload"
// @Success 200 {object} response.Envelope
// @Router /assignments/modal [put]
func (h *AssignmentHandler) Modal(c *gin.Context) {
	var req toggleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.assignments.SetModal(req.Open)
	response.JSON(c, http.StatusOK, h.assignments.Snapshot(), nil)
}
