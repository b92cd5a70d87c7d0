package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/edcenter/console-api/internal/models"
)

func listQuery(filter models.ListFilter) url.Values {
	query := url.Values{}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Active != nil {
		query.Set("isActive", strconv.FormatBool(*filter.Active))
	}
	return query
}

func toPagination(meta listMeta) models.Pagination {
	return models.Pagination{
		Page:       meta.Page,
		Limit:      meta.Limit,
		Total:      meta.Total,
		TotalPages: meta.Pages,
	}
}

// ListStudents fetches one page of students.
func (c *Client) ListStudents(ctx context.Context, filter models.ListFilter) ([]models.Student, models.Pagination, error) {
	var payload struct {
		Items []models.Student `json:"items"`
		Meta  listMeta         `json:"meta"`
	}
	if err := c.do(ctx, http.MethodGet, "/students", "/students", listQuery(filter), nil, &payload); err != nil {
		return nil, models.Pagination{}, err
	}
	return payload.Items, toPagination(payload.Meta), nil
}

// CreateStudent registers a new student.
func (c *Client) CreateStudent(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodPost, "/students", "/students", nil, req, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateStudent applies a partial update.
func (c *Client) UpdateStudent(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodPatch, "/students/"+id, "/students/:id", nil, req, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// DeleteStudent removes a student record.
func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/students/"+id, "/students/:id", nil, nil, nil)
}

// RestoreStudent flips a soft-deleted student back to active.
func (c *Client) RestoreStudent(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodPatch, "/students/"+id+"/restore", "/students/:id/restore", nil, nil, &student); err != nil {
		return nil, err
	}
	return &student, nil
}
