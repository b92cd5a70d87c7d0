package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/edcenter/console-api/internal/models"
)

// GetSheet fetches the attendance sheet for a (group, date, lesson) triple.
// The upstream API creates the sheet on first request, so this call is a
// get-or-create despite being a GET on the wire. date must already be a
// canonical YYYY-MM-DD string.
func (c *Client) GetSheet(ctx context.Context, groupID, date string, lesson int) (*models.AttendanceSheet, error) {
	query := url.Values{}
	query.Set("date", date)
	query.Set("lesson", strconv.Itoa(lesson))

	var sheet models.AttendanceSheet
	err := c.do(ctx, http.MethodGet, "/teacher/attendance/group/"+groupID, "/teacher/attendance/group/:groupId", query, nil, &sheet)
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

// SaveSheet submits the full roster in one batched write.
func (c *Client) SaveSheet(ctx context.Context, sheetID string, req models.SaveSheetRequest) error {
	return c.do(ctx, http.MethodPatch, "/teacher/attendance/sheet/"+sheetID, "/teacher/attendance/sheet/:sheetId", nil, req, nil)
}

// DeleteSheet removes a sheet entirely.
func (c *Client) DeleteSheet(ctx context.Context, sheetID string) error {
	return c.do(ctx, http.MethodDelete, "/teacher/attendance/sheet/"+sheetID, "/teacher/attendance/sheet/:sheetId", nil, nil, nil)
}
