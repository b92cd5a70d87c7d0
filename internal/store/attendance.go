package store

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edcenter/console-api/internal/models"
	appErrors "github.com/edcenter/console-api/pkg/errors"
)

type attendanceBackend interface {
	GetSheet(ctx context.Context, groupID, date string, lesson int) (*models.AttendanceSheet, error)
	SaveSheet(ctx context.Context, sheetID string, req models.SaveSheetRequest) error
	DeleteSheet(ctx context.Context, sheetID string) error
}

// Attendance caches attendance sheets and orchestrates the mark-then-save
// flow: a sheet is ensured once, individual statuses are edited locally with
// no network traffic, and one batched save closes the sheet.
type Attendance struct {
	state
	backend attendanceBackend
	logger  *zap.Logger

	sheets []models.AttendanceSheet
}

// NewAttendance constructs the attendance store.
func NewAttendance(backend attendanceBackend, logger *zap.Logger) *Attendance {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Attendance{backend: backend, logger: logger}
}

// AttendanceSnapshot is an immutable view of the store.
type AttendanceSnapshot struct {
	Status
	Sheets []models.AttendanceSheet `json:"sheets"`
}

// NormalizeDate reduces any incoming date or timestamp to the canonical
// YYYY-MM-DD calendar string the upstream API keys sheets by. The calendar
// date is taken literally from the leading component, never shifted through
// a timezone conversion.
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if idx := strings.IndexAny(raw, "T "); idx != -1 {
		raw = raw[:idx]
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}
	return parsed.Format("2006-01-02"), nil
}

// EnsureSheet fetches the sheet for a (group, date, lesson) triple, creating
// it server-side on first request. Despite riding on a GET, this is a
// create-or-fetch operation. The result is reconciled by sheet id: an
// existing cached sheet is replaced, otherwise the sheet is appended.
func (s *Attendance) EnsureSheet(ctx context.Context, groupID, rawDate string, lesson int) (*models.AttendanceSheet, error) {
	date, err := NormalizeDate(rawDate)
	if err != nil {
		return nil, err
	}

	s.setLoading(true)
	sheet, err := s.backend.GetSheet(ctx, groupID, date, lesson)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.logger.Warn("sheet fetch failed", zap.Error(err), zap.String("group_id", groupID), zap.String("date", date))
		s.errMsg = message(err)
		s.bump()
		return nil, err
	}
	s.errMsg = ""
	replaced := false
	for i := range s.sheets {
		if s.sheets[i].SheetID == sheet.SheetID {
			s.sheets[i] = *sheet
			replaced = true
			break
		}
	}
	if !replaced {
		s.sheets = append(s.sheets, *sheet)
	}
	s.bump()
	copied := copySheet(*sheet)
	return &copied, nil
}

// MarkStatus updates one student's status within one sheet, locally only.
// Other sheets' copies of the same student are untouched, and nothing goes
// over the wire until SaveSheet. A nil comment leaves the existing comment in
// place; a non-nil one replaces it, so an empty string clears it.
func (s *Attendance) MarkStatus(sheetID, studentID string, status models.AttendanceStatus, comment *string) error {
	if !status.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown attendance status")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sheet := s.find(sheetID)
	if sheet == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "attendance sheet not loaded")
	}
	if sheet.Status == models.SheetClosed {
		return appErrors.ErrSheetClosed
	}
	for i := range sheet.Students {
		if sheet.Students[i].StudentID == studentID {
			sheet.Students[i].Status = status
			if comment != nil {
				sheet.Students[i].Comment = *comment
			}
			s.bump()
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, "student not on sheet")
}

// SaveSheet submits the sheet's full roster in one batched write and, on
// success, transitions the local sheet to CLOSED. The batch is all-or-nothing
// so a partial failure cannot leave half the roster saved.
func (s *Attendance) SaveSheet(ctx context.Context, sheetID string) error {
	s.mu.Lock()
	sheet := s.find(sheetID)
	if sheet == nil {
		s.mu.Unlock()
		return appErrors.Clone(appErrors.ErrNotFound, "attendance sheet not loaded")
	}
	if sheet.Status == models.SheetClosed {
		s.mu.Unlock()
		return appErrors.ErrSheetClosed
	}
	items := make([]models.SheetEntry, len(sheet.Students))
	copy(items, sheet.Students)
	s.saving = true
	s.bump()
	s.mu.Unlock()

	err := s.backend.SaveSheet(ctx, sheetID, models.SaveSheetRequest{Items: items})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.errMsg = message(err)
		s.bump()
		return err
	}
	if sheet := s.find(sheetID); sheet != nil {
		sheet.Status = models.SheetClosed
	}
	s.errMsg = ""
	s.bump()
	return nil
}

// DeleteSheet removes a sheet entirely, used for correcting mistakes before
// a save.
func (s *Attendance) DeleteSheet(ctx context.Context, sheetID string) error {
	s.setSaving(true)
	err := s.backend.DeleteSheet(ctx, sheetID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.errMsg = message(err)
		s.bump()
		return err
	}
	filtered := s.sheets[:0]
	for _, sheet := range s.sheets {
		if sheet.SheetID != sheetID {
			filtered = append(filtered, sheet)
		}
	}
	s.sheets = filtered
	s.errMsg = ""
	s.bump()
	return nil
}

// Sheet returns a deep copy of one cached sheet, if loaded.
func (s *Attendance) Sheet(sheetID string) (models.AttendanceSheet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sheet := s.find(sheetID); sheet != nil {
		return copySheet(*sheet), true
	}
	return models.AttendanceSheet{}, false
}

// Snapshot returns a deep copy safe to hand to the presentation layer.
func (s *Attendance) Snapshot() AttendanceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sheets := make([]models.AttendanceSheet, len(s.sheets))
	for i, sheet := range s.sheets {
		sheets[i] = copySheet(sheet)
	}
	return AttendanceSnapshot{
		Status: s.status(),
		Sheets: sheets,
	}
}

// find returns a pointer into the cached slice. Callers must hold mu.
func (s *Attendance) find(sheetID string) *models.AttendanceSheet {
	for i := range s.sheets {
		if s.sheets[i].SheetID == sheetID {
			return &s.sheets[i]
		}
	}
	return nil
}

func (s *Attendance) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
	s.bump()
}

func (s *Attendance) setSaving(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = v
	s.bump()
}

func copySheet(sheet models.AttendanceSheet) models.AttendanceSheet {
	sheet.Students = append([]models.SheetEntry(nil), sheet.Students...)
	return sheet
}
