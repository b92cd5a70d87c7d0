package backend

import (
	"context"
	"net/http"

	"github.com/edcenter/console-api/internal/models"
)

// ListRooms fetches one page of rooms.
func (c *Client) ListRooms(ctx context.Context, filter models.ListFilter) ([]models.Room, models.Pagination, error) {
	var payload struct {
		Items []models.Room `json:"items"`
		Meta  listMeta      `json:"meta"`
	}
	if err := c.do(ctx, http.MethodGet, "/rooms", "/rooms", listQuery(filter), nil, &payload); err != nil {
		return nil, models.Pagination{}, err
	}
	return payload.Items, toPagination(payload.Meta), nil
}

// CreateRoom registers a new room.
func (c *Client) CreateRoom(ctx context.Context, req models.CreateRoomRequest) (*models.Room, error) {
	var room models.Room
	if err := c.do(ctx, http.MethodPost, "/rooms", "/rooms", nil, req, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// UpdateRoom applies a partial update. Rooms have no hard delete upstream;
// deactivation is a PATCH with isActive=false through this same call.
func (c *Client) UpdateRoom(ctx context.Context, id string, req models.UpdateRoomRequest) (*models.Room, error) {
	var room models.Room
	if err := c.do(ctx, http.MethodPatch, "/rooms/"+id, "/rooms/:id", nil, req, &room); err != nil {
		return nil, err
	}
	return &room, nil
}
