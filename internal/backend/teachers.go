package backend

import (
	"context"
	"net/http"

	"github.com/edcenter/console-api/internal/models"
)

// ListTeachers fetches one page of teachers.
func (c *Client) ListTeachers(ctx context.Context, filter models.ListFilter) ([]models.Teacher, models.Pagination, error) {
	var payload struct {
		Items []models.Teacher `json:"items"`
		Meta  listMeta         `json:"meta"`
	}
	if err := c.do(ctx, http.MethodGet, "/teachers", "/teachers", listQuery(filter), nil, &payload); err != nil {
		return nil, models.Pagination{}, err
	}
	return payload.Items, toPagination(payload.Meta), nil
}

// CreateTeacher registers a new teacher.
func (c *Client) CreateTeacher(ctx context.Context, req models.CreateTeacherRequest) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := c.do(ctx, http.MethodPost, "/teachers", "/teachers", nil, req, &teacher); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// UpdateTeacher applies a partial update.
func (c *Client) UpdateTeacher(ctx context.Context, id string, req models.UpdateTeacherRequest) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := c.do(ctx, http.MethodPatch, "/teachers/"+id, "/teachers/:id", nil, req, &teacher); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// DeleteTeacher removes a teacher record.
func (c *Client) DeleteTeacher(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/teachers/"+id, "/teachers/:id", nil, nil, nil)
}

// RestoreTeacher flips a soft-deleted teacher back to active.
func (c *Client) RestoreTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := c.do(ctx, http.MethodPatch, "/teachers/"+id+"/restore", "/teachers/:id/restore", nil, nil, &teacher); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// MyGroups returns the groups assigned to the authenticated teacher.
func (c *Client) MyGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := c.do(ctx, http.MethodGet, "/teachers/my-groups", "/teachers/my-groups", nil, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
