package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edcenter/console-api/internal/models"
	"github.com/edcenter/console-api/internal/store"
	"github.com/edcenter/console-api/pkg/response"
)

type stubAttendanceBackend struct {
	sheet     *models.AttendanceSheet
	saveCalls int
	lastSave  models.SaveSheetRequest
}

func (s *stubAttendanceBackend) GetSheet(_ context.Context, groupID, date string, lesson int) (*models.AttendanceSheet, error) {
	copied := *s.sheet
	copied.Students = append([]models.SheetEntry(nil), s.sheet.Students...)
	return &copied, nil
}

func (s *stubAttendanceBackend) SaveSheet(_ context.Context, sheetID string, req models.SaveSheetRequest) error {
	s.saveCalls++
	s.lastSave = req
	return nil
}

func (s *stubAttendanceBackend) DeleteSheet(_ context.Context, sheetID string) error {
	return nil
}

func attendanceRouter(backend *stubAttendanceBackend) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAttendanceHandler(store.NewAttendance(backend, nil))
	r := gin.New()
	r.POST("/attendance/sheets", h.Ensure)
	r.GET("/attendance/sheets/:id", h.Get)
	r.PUT("/attendance/sheets/:id/entries/:studentId", h.Mark)
	r.POST("/attendance/sheets/:id/save", h.Save)
	return r
}

func decodeSheet(t *testing.T, w *httptest.ResponseRecorder) models.AttendanceSheet {
	t.Helper()
	var envelope struct {
		Data models.AttendanceSheet `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestAttendanceWorkflowOverHTTP(t *testing.T) {
	backend := &stubAttendanceBackend{sheet: &models.AttendanceSheet{
		SheetID: "sh1", GroupID: "g1", Date: "2026-03-05", Lesson: 1, Status: models.SheetOpen,
		Students: []models.SheetEntry{
			{StudentID: "s1", StudentName: "Alice", Status: models.AttendanceUnknown},
			{StudentID: "s2", StudentName: "Bekzod", Status: models.AttendanceUnknown},
		},
	}}
	r := attendanceRouter(backend)

	// Ensure accepts a full timestamp and fetches the sheet.
	w := postJSON(r, "/attendance/sheets", gin.H{"groupId": "g1", "date": "2026-03-05T00:00:00+05:00", "lesson": 1})
	require.Equal(t, http.StatusOK, w.Code)
	sheet := decodeSheet(t, w)
	assert.Equal(t, "sh1", sheet.SheetID)
	assert.Equal(t, models.SheetOpen, sheet.Status)

	// Marking is a local edit; nothing reaches the backend yet.
	w = putJSON(r, "/attendance/sheets/sh1/entries/s1", gin.H{"status": "PRESENT"})
	require.Equal(t, http.StatusOK, w.Code)
	sheet = decodeSheet(t, w)
	assert.Equal(t, models.AttendancePresent, sheet.Students[0].Status)
	assert.Zero(t, backend.saveCalls)

	// Save sends the full roster in one batch and closes the sheet.
	w = postJSON(r, "/attendance/sheets/sh1/save", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sheet = decodeSheet(t, w)
	assert.Equal(t, models.SheetClosed, sheet.Status)
	assert.Equal(t, 1, backend.saveCalls)
	assert.Len(t, backend.lastSave.Items, 2)
}

func TestAttendanceMarkRejectsBadStatus(t *testing.T) {
	backend := &stubAttendanceBackend{sheet: &models.AttendanceSheet{
		SheetID: "sh1", GroupID: "g1", Date: "2026-03-05", Lesson: 1, Status: models.SheetOpen,
		Students: []models.SheetEntry{{StudentID: "s1", Status: models.AttendanceUnknown}},
	}}
	r := attendanceRouter(backend)

	w := postJSON(r, "/attendance/sheets", gin.H{"groupId": "g1", "date": "2026-03-05", "lesson": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = putJSON(r, "/attendance/sheets/sh1/entries/s1", gin.H{"status": "SLEEPING"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceEnsureRejectsBadDate(t *testing.T) {
	r := attendanceRouter(&stubAttendanceBackend{})

	w := postJSON(r, "/attendance/sheets", gin.H{"groupId": "g1", "date": "yesterday", "lesson": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceGetUnknownSheet(t *testing.T) {
	r := attendanceRouter(&stubAttendanceBackend{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/attendance/sheets/missing", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "sheet not loaded", envelope.Error.Message)
}
