package backend

import (
	"context"
	"net/http"

	"github.com/edcenter/console-api/internal/models"
)

// ListAssignments fetches all teaching assignments.
func (c *Client) ListAssignments(ctx context.Context) ([]models.TeachingAssignment, error) {
	var assignments []models.TeachingAssignment
	if err := c.do(ctx, http.MethodGet, "/teaching-assignments", "/teaching-assignments", nil, nil, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// CreateAssignment links a teacher to a group.
func (c *Client) CreateAssignment(ctx context.Context, req models.CreateAssignmentRequest) (*models.TeachingAssignment, error) {
	var assignment models.TeachingAssignment
	if err := c.do(ctx, http.MethodPost, "/teaching-assignments", "/teaching-assignments", nil, req, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// UpdateAssignment applies a partial update.
func (c *Client) UpdateAssignment(ctx context.Context, id string, req models.UpdateAssignmentRequest) (*models.TeachingAssignment, error) {
	var assignment models.TeachingAssignment
	if err := c.do(ctx, http.MethodPatch, "/teaching-assignments/"+id, "/teaching-assignments/:id", nil, req, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// DeleteAssignment removes a teaching assignment.
func (c *Client) DeleteAssignment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/teaching-assignments/"+id, "/teaching-assignments/:id", nil, nil, nil)
}
