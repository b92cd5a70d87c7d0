package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edcenter/console-api/internal/models"
	appErrors "github.com/edcenter/console-api/pkg/errors"
)

type fakeAttendanceBackend struct {
	mu sync.Mutex

	sheet     *models.AttendanceSheet
	getErr    error
	getCalls  int
	lastGet   struct {
		groupID string
		date    string
		lesson  int
	}

	saveErr   error
	saveCalls int
	lastSave  models.SaveSheetRequest

	deleteErr error
}

func (f *fakeAttendanceBackend) GetSheet(_ context.Context, groupID, date string, lesson int) (*models.AttendanceSheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	f.lastGet.groupID = groupID
	f.lastGet.date = date
	f.lastGet.lesson = lesson
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.sheet
	copied.Students = append([]models.SheetEntry(nil), f.sheet.Students...)
	return &copied, nil
}

func (f *fakeAttendanceBackend) SaveSheet(_ context.Context, _ string, req models.SaveSheetRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	f.lastSave = req
	return f.saveErr
}

func (f *fakeAttendanceBackend) DeleteSheet(context.Context, string) error {
	return f.deleteErr
}

func comment(text string) *string {
	return &text
}

func openSheet(id, groupID, date string, lesson int, studentIDs ...string) *models.AttendanceSheet {
	sheet := &models.AttendanceSheet{
		SheetID: id,
		GroupID: groupID,
		Date:    date,
		Lesson:  lesson,
		Status:  models.SheetOpen,
	}
	for _, sid := range studentIDs {
		sheet.Students = append(sheet.Students, models.SheetEntry{
			StudentID: sid,
			Status:    models.AttendanceUnknown,
		})
	}
	return sheet
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-03-05", "2024-03-05"},
		{" 2024-03-05 ", "2024-03-05"},
		{"2024-03-05T00:00:00Z", "2024-03-05"},
		{"2024-03-05T23:59:59+05:00", "2024-03-05"},
		{"2024-03-05 10:30", "2024-03-05"},
	}
	for _, tc := range cases {
		got, err := NormalizeDate(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "yesterday", "05-03-2024", "2024-13-40"} {
		_, err := NormalizeDate(bad)
		require.Error(t, err, bad)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
	}
}

func TestEnsureSheetNormalizesDateBeforeFetch(t *testing.T) {
	backend := &fakeAttendanceBackend{sheet: openSheet("sh1", "g1", "2024-03-05", 1, "s1")}
	s := NewAttendance(backend, nil)

	// Timestamp and plain date address the same sheet.
	first, err := s.EnsureSheet(context.Background(), "g1", "2024-03-05T18:00:00+05:00", 1)
	require.NoError(t, err)
	second, err := s.EnsureSheet(context.Background(), "g1", "2024-03-05", 1)
	require.NoError(t, err)

	assert.Equal(t, first.SheetID, second.SheetID)
	assert.Equal(t, "2024-03-05", backend.lastGet.date)
	assert.Len(t, s.Snapshot().Sheets, 1)
}

func TestEnsureSheetReconcilesById(t *testing.T) {
	backend := &fakeAttendanceBackend{sheet: openSheet("sh1", "g1", "2024-03-05", 1, "s1")}
	s := NewAttendance(backend, nil)

	_, err := s.EnsureSheet(context.Background(), "g1", "2024-03-05", 1)
	require.NoError(t, err)

	// Upstream roster changed; re-ensuring replaces the cached sheet instead
	// of duplicating it.
	backend.mu.Lock()
	backend.sheet = openSheet("sh1", "g1", "2024-03-05", 1, "s1", "s2")
	backend.mu.Unlock()

	_, err = s.EnsureSheet(context.Background(), "g1", "2024-03-05", 1)
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Sheets, 1)
	assert.Len(t, snap.Sheets[0].Students, 2)
}

func TestMarkStatusIsLocalAndIsolatedPerSheet(t *testing.T) {
	backend := &fakeAttendanceBackend{sheet: openSheet("sh1", "g1", "2024-03-05", 1, "s1", "s2")}
	s := NewAttendance(backend, nil)
	_, err := s.EnsureSheet(context.Background(), "g1", "2024-03-05", 1)
	require.NoError(t, err)

	backend.mu.Lock()
	backend.sheet = openSheet("sh2", "g1", "2024-03-06", 1, "s1", "s2")
	backend.mu.Unlock()
	_, err = s.EnsureSheet(context.Background(), "g1", "2024-03-06", 1)
	require.NoError(t, err)

	require.NoError(t, s.MarkStatus("sh1", "s1", models.AttendanceAbsent, comment("sick")))

	first, ok := s.Sheet("sh1")
	require.True(t, ok)
	assert.Equal(t, models.AttendanceAbsent, first.Students[0].Status)
	assert.Equal(t, "sick", first.Students[0].Comment)
	assert.Equal(t, models.AttendanceUnknown, first.Students[1].Status)

	// The same student on the other day's sheet is untouched.
	second, ok := s.Sheet("sh2")
	require.True(t, ok)
	assert.Equal(t, models.AttendanceUnknown, second.Students[0].Status)

	// Nothing went over the wire.
	assert.Equal(t, 0, backend.saveCalls)
}

func TestMarkStatusCommentSemantics(t *testing.T) {
	backend := &fakeAttendanceBackend{sheet: openSheet("sh1", "g1", "2024-03-05", 1, "s1")}
	s := NewAttendance(backend, nil)
	_, err := s.EnsureSheet(context.Background(), "g1", "2024-03-05", 1)
	require.NoError(t, err)

	require.NoError(t, s.MarkStatus("sh1", "s1", models.AttendanceAbsent, comment("sick")))

	// A nil comment leaves the existing one in place.
	require.NoError(t, s.MarkStatus("sh1", "s1", models.AttendanceLate, nil))
	sheet, _ := s.Sheet("sh1")
	assert.Equal(t, "sick", sheet.Students[0].Comment)

	// An explicit empty comment clears it.
	require.NoError(t, s.MarkStatus("sh1", "s1", models.AttendanceLate, comment("")))
	sheet, _ = s.Sheet("sh1")
	assert.Empty(t, sheet.Students[0].Comment)
}

func TestMarkStatusValidation(t *testing.T) {
	backend := &fakeAttendanceBackend{sheet: openSheet("sh1", "g1", "2024-03-05", 1, "s1")}
	s := NewAttendance(backend, nil)
	_, err := s.EnsureSheet(context.Background(), "g1", "2024-03-05", 1)
	require.NoError(t, err)

	err = s.MarkStatus("sh1", "s1", models.AttendanceStatus("NAPPING"), nil)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	err = s.MarkStatus("missing", "s1", models.AttendancePresent, nil)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))

	err = s.MarkStatus("sh1", "ghost", models.AttendancePresent, nil)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestSaveSheetSendsFullRosterAndCloses(t *testing.T) {
	backend := &fakeAttendanceBackend{sheet: openSheet("sh1", "g1", "2024-03-05", 1, "s1", "s2", "s3")}
	s := NewAttendance(backend, nil)
	_, err := s.EnsureSheet(context.Background(), "g1", "2024-03-05", 1)
	require.NoError(t, err)

	require.NoError(t, s.MarkStatus("sh1", "s1", models.AttendancePresent, nil))
	require.NoError(t, s.MarkStatus("sh1", "s2", models.AttendanceLate, comment("traffic")))

	require.NoError(t, s.SaveSheet(context.Background(), "sh1"))

	assert.Equal(t, 1, backend.saveCalls)
	require.Len(t, backend.lastSave.Items, 3)
	assert.Equal(t, models.AttendancePresent, backend.lastSave.Items[0].Status)
	assert.Equal(t, models.AttendanceLate, backend.lastSave.Items[1].Status)
	assert.Equal(t, models.AttendanceUnknown, backend.lastSave.Items[2].Status)

	sheet, ok := s.Sheet("sh1")
	require.True(t, ok)
	assert.Equal(t, models.SheetClosed, sheet.Status)
}

func TestSaveSheetRejectsClosedSheet(t *testing.T) {
	backend := &fakeAttendanceBackend{sheet: openSheet("sh1", "g1", "2024-03-05", 1, "s1")}
	s := NewAttendance(backend, nil)
	_, err := s.EnsureSheet(context.Background(), "g1", "2024-03-05", 1)
	require.NoError(t, err)
	require.NoError(t, s.SaveSheet(context.Background(), "sh1"))

	err = s.SaveSheet(context.Background(), "sh1")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrSheetClosed))
	assert.Equal(t, 1, backend.saveCalls)

	err = s.MarkStatus("sh1", "s1", models.AttendanceExcused, nil)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrSheetClosed))
}

func TestSaveSheetFailureKeepsSheetOpen(t *testing.T) {
	backend := &fakeAttendanceBackend{
		sheet:   openSheet("sh1", "g1", "2024-03-05", 1, "s1"),
		saveErr: appErrors.Clone(appErrors.ErrBackend, "save rejected"),
	}
	s := NewAttendance(backend, nil)
	_, err := s.EnsureSheet(context.Background(), "g1", "2024-03-05", 1)
	require.NoError(t, err)

	err = s.SaveSheet(context.Background(), "sh1")
	require.Error(t, err)

	sheet, _ := s.Sheet("sh1")
	assert.Equal(t, models.SheetOpen, sheet.Status)
	assert.Equal(t, "save rejected", s.Snapshot().Error)
}

func TestDeleteSheetRemovesFromCache(t *testing.T) {
	backend := &fakeAttendanceBackend{sheet: openSheet("sh1", "g1", "2024-03-05", 1, "s1")}
	s := NewAttendance(backend, nil)
	_, err := s.EnsureSheet(context.Background(), "g1", "2024-03-05", 1)
	require.NoError(t, err)

	require.NoError(t, s.DeleteSheet(context.Background(), "sh1"))

	_, ok := s.Sheet("sh1")
	assert.False(t, ok)
	assert.Empty(t, s.Snapshot().Sheets)
}

func TestSheetReturnsDeepCopy(t *testing.T) {
	backend := &fakeAttendanceBackend{sheet: openSheet("sh1", "g1", "2024-03-05", 1, "s1")}
	s := NewAttendance(backend, nil)
	_, err := s.EnsureSheet(context.Background(), "g1", "2024-03-05", 1)
	require.NoError(t, err)

	sheet, _ := s.Sheet("sh1")
	sheet.Students[0].Status = models.AttendanceAbsent

	fresh, _ := s.Sheet("sh1")
	assert.Equal(t, models.AttendanceUnknown, fresh.Students[0].Status)
}
