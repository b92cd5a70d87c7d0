package backend

import (
	"context"
	"net/http"

	"github.com/edcenter/console-api/internal/models"
)

// ListEnrollments fetches all enrollment records.
func (c *Client) ListEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := c.do(ctx, http.MethodGet, "/enrollments", "/enrollments", nil, nil, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// CreateEnrollment links a student to a group.
func (c *Client) CreateEnrollment(ctx context.Context, req models.CreateEnrollmentRequest) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := c.do(ctx, http.MethodPost, "/enrollments", "/enrollments", nil, req, &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// UpdateEnrollment changes an enrollment's status.
func (c *Client) UpdateEnrollment(ctx context.Context, id string, req models.UpdateEnrollmentRequest) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := c.do(ctx, http.MethodPatch, "/enrollments/"+id, "/enrollments/:id", nil, req, &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}
