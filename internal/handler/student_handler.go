package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edcenter/console-api/internal/models"
	"github.com/edcenter/console-api/internal/store"
	"github.com/edcenter/console-api/pkg/response"
)

// StudentHandler exposes the student store over HTTP.
type StudentHandler struct {
	students *store.Students
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *store.Students) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Description Refreshes the student store and returns its snapshot
// @Tags Students
// @Produce json
// @Param search query string false "Search by name or phone"
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	h.students.Fetch(c.Request.Context(), listFilter(c))
	response.JSON(c, http.StatusOK, h.students.Snapshot(), nil)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body models.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req models.CreateStudentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body models.UpdateStudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req models.UpdateStudentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	student, err := h.students.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Delete godoc
// @Summary Archive student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Restore godoc
// @Summary Restore archived student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/restore [post]
func (h *StudentHandler) Restore(c *gin.Context) {
	student, err := h.students.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Select godoc
// @Summary Set the selected student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body selectRequest true "Selection payload"
// @Success 200 {object} response.Envelope
// @Router /students/selection [put]
func (h *StudentHandler) Select(c *gin.Context) {
	var req selectRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.students.Select(req.ID)
	response.JSON(c, http.StatusOK, h.students.Snapshot(), nil)
}

// Modal godoc
// @Summary Toggle a student modal
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body modalRequest true "Modal payload"
// @Success 200 {object} response.Envelope
// @Router /students/modals [put]
func (h *StudentHandler) Modal(c *gin.Context) {
	var req modalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.students.SetModal(req.Name, req.Open)
	response.JSON(c, http.StatusOK, h.students.Snapshot(), nil)
}
