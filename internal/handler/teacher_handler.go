package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edcenter/console-api/internal/models"
	"github.com/edcenter/console-api/internal/store"
	"github.com/edcenter/console-api/pkg/response"
)

// TeacherHandler exposes the teacher store over HTTP.
type TeacherHandler struct {
	teachers *store.Teachers
}

// NewTeacherHandler constructs TeacherHandler.
func NewTeacherHandler(teachers *store.Teachers) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Param search query string false "Search by name or phone"
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	h.teachers.Fetch(c.Request.Context(), listFilter(c))
	response.JSON(c, http.StatusOK, h.teachers.Snapshot(), nil)
}

// MyGroups godoc
// @Summary Groups taught by the signed-in teacher
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers/my-groups [get]
func (h *TeacherHandler) MyGroups(c *gin.Context) {
	h.teachers.FetchMyGroups(c.Request.Context())
	response.JSON(c, http.StatusOK, h.teachers.Snapshot(), nil)
}

// Create godoc
// @Summary Create teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body models.CreateTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Router /teachers [post]
func (h *TeacherHandler) Create(c *gin.Context) {
	var req models.CreateTeacherRequest
	if !bindAndValidate(c, &req) {
		return
	}
	teacher, err := h.teachers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// Update godoc
// @Summary Update teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body models.UpdateTeacherRequest true "Teacher payload"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [put]
func (h *TeacherHandler) Update(c *gin.Context) {
	var req models.UpdateTeacherRequest
	if !bindAndValidate(c, &req) {
		return
	}
	teacher, err := h.teachers.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Delete godoc
// @Summary Archive teacher
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 204
// @Router /teachers/{id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) {
	if err := h.teachers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Restore godoc
// @Summary Restore archived teacher
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/restore [post]
func (h *TeacherHandler) Restore(c *gin.Context) {
	teacher, err := h.teachers.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Select godoc
// @Summary Set the selected teacher
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body selectRequest true "Selection payload"
// @Success 200 {object} response.Envelope
// @Router /teachers/selection [put]
func (h *TeacherHandler) Select(c *gin.Context) {
	var req selectRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.teachers.Select(req.ID)
	response.JSON(c, http.StatusOK, h.teachers.Snapshot(), nil)
}

// Modal godoc
// @Summary Toggle a teacher modal
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body modalRequest true "Modal payload"
// @Success 200 {object} response.Envelope
// @Router /teachers/modals [put]
func (h *TeacherHandler) Modal(c *gin.Context) {
	var req modalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.teachers.SetModal(req.Name, req.Open)
	response.JSON(c, http.StatusOK, h.teachers.Snapshot(), nil)
}
