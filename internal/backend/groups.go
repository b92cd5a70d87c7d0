package backend

import (
	"context"
	"net/http"

	"github.com/edcenter/console-api/internal/models"
)

// ListGroups fetches one page of groups.
func (c *Client) ListGroups(ctx context.Context, filter models.ListFilter) ([]models.Group, models.Pagination, error) {
	var payload struct {
		Items []models.Group `json:"items"`
		Meta  listMeta       `json:"meta"`
	}
	if err := c.do(ctx, http.MethodGet, "/groups", "/groups", listQuery(filter), nil, &payload); err != nil {
		return nil, models.Pagination{}, err
	}
	return payload.Items, toPagination(payload.Meta), nil
}

// CreateGroup registers a new group.
func (c *Client) CreateGroup(ctx context.Context, req models.CreateGroupRequest) (*models.Group, error) {
	var group models.Group
	if err := c.do(ctx, http.MethodPost, "/groups", "/groups", nil, req, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// UpdateGroup applies a partial update.
func (c *Client) UpdateGroup(ctx context.Context, id string, req models.UpdateGroupRequest) (*models.Group, error) {
	var group models.Group
	if err := c.do(ctx, http.MethodPatch, "/groups/"+id, "/groups/:id", nil, req, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteGroup removes a group record.
func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/groups/"+id, "/groups/:id", nil, nil, nil)
}
