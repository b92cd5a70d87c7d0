package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edcenter/console-api/internal/models"
	"github.com/edcenter/console-api/internal/store"
	"github.com/edcenter/console-api/pkg/response"
)

// GroupHandler exposes the group store over HTTP.
type GroupHandler struct {
	groups *store.Groups
}

// NewGroupHandler constructs GroupHandler.
func NewGroupHandler(groups *store.Groups) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// List godoc
// @Summary List groups
// @Tags Groups
// @Produce json
// @Param search query string false "Search by name"
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	h.groups.Fetch(c.Request.Context(), listFilter(c))
	response.JSON(c, http.StatusOK, h.groups.Snapshot(), nil)
}

// Create godoc
// @Summary Create group
// @Tags Groups
// @Accept json
// @Produce json
// @Param payload body models.CreateGroupRequest true "Group payload"
// @Success 201 {object} response.Envelope
// @Router /groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	var req models.CreateGroupRequest
	if !bindAndValidate(c, &req) {
		return
	}
	group, err := h.groups.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// Update godoc
// @Summary Update group
// @Tags Groups
// @Accept json
// @Produce json
// @Param id path string true "Group ID"
// @Param payload body models.UpdateGroupRequest true "Group payload"
// @Success 200 {object} response.Envelope
// @Router /groups/{id} [put]
func (h *GroupHandler) Update(c *gin.Context) {
	var req models.UpdateGroupRequest
	if !bindAndValidate(c, &req) {
		return
	}
	group, err := h.groups.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// Delete godoc
// @Summary Delete group
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID"
// @Success 204
// @Router /groups/{id} [delete]
func (h *GroupHandler) Delete(c *gin.Context) {
	if err := h.groups.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Select godoc
// @Summary Set the selected group
// @Tags Groups
// @Accept json
// @Produce json
// @Param payload body selectRequest true "Selection payload"
// @Success 200 {object} response.Envelope
// @Router /groups/selection [put]
func (h *GroupHandler) Select(c *gin.Context) {
	var req selectRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.groups.Select(req.ID)
	response.JSON(c, http.StatusOK, h.groups.Snapshot(), nil)
}

// Modal godoc
// @Summary Toggle a group modal
// @Tags Groups
// @Accept json
// @Produce json
// @Param payload body modalRequest true "Modal payload"
// @Success 200 {object} response.Envelope
// @Router /groups/modals [put]
func (h *GroupHandler) Modal(c *gin.Context) {
	var req modalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.groups.SetModal(req.Name, req.Open)
	response.JSON(c, http.StatusOK, h.groups.Snapshot(), nil)
}
