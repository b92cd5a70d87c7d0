package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edcenter/console-api/internal/models"
	"github.com/edcenter/console-api/internal/store"
	"github.com/edcenter/console-api/pkg/response"
)

// RoomHandler exposes the room store over HTTP.
type RoomHandler struct {
	rooms *store.Rooms
}

// NewRoomHandler constructs RoomHandler.
func NewRoomHandler(rooms *store.Rooms) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List godoc
// @Summary List rooms
// @Tags Rooms
// @Produce json
// @Param search query string false "Search by name"
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	h.rooms.Fetch(c.Request.Context(), listFilter(c))
	response.JSON(c, http.StatusOK, h.rooms.Snapshot(), nil)
}

// Create godoc
// @Summary Create room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param payload body models.CreateRoomRequest true "Room payload"
// @Success 201 {object} response.Envelope
// @Router /rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	var req models.CreateRoomRequest
	if !bindAndValidate(c, &req) {
		return
	}
	room, err := h.rooms.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// Update godoc
// @Summary Update room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param payload body models.UpdateRoomRequest true "Room payload"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id} [put]
func (h *RoomHandler) Update(c *gin.Context) {
	var req models.UpdateRoomRequest
	if !bindAndValidate(c, &req) {
		return
	}
	room, err := h.rooms.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// Deactivate godoc
// @Summary Deactivate room
// @Tags Rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 204
// @Router /rooms/{id} [delete]
func (h *RoomHandler) Deactivate(c *gin.Context) {
	if err := h.rooms.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Restore godoc
// @Summary Reactivate room
// @Tags Rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Envelope
// @Router /rooms/{id}/restore [post]
func (h *RoomHandler) Restore(c *gin.Context) {
	room, err := h.rooms.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, room, nil)
}

// Select godoc
// @Summary Set the selected room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param payload body selectRequest true "Selection payload"
// @Success 200 {object} response.Envelope
// @Router /rooms/selection [put]
func (h *RoomHandler) Select(c *gin.Context) {
	var req selectRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.rooms.Select(req.ID)
	response.JSON(c, http.StatusOK, h.rooms.Snapshot(), nil)
}

// Modal godoc
// @Summary Toggle a room modal
// @Tags Rooms
// @Accept json
// @Produce json
// @Param payload body modalRequest true "Modal payload"
// @Success 200 {object} response.Envelope
// @Router /rooms/modals [put]
func (h *RoomHandler) Modal(c *gin.Context) {
	var req modalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.rooms.SetModal(req.Name, req.Open)
	response.JSON(c, http.StatusOK, h.rooms.Snapshot(), nil)
}
