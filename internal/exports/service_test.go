package exports

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edcenter/console-api/internal/backend"
	"github.com/edcenter/console-api/internal/models"
	appErrors "github.com/edcenter/console-api/pkg/errors"
	"github.com/edcenter/console-api/pkg/export"
	"github.com/edcenter/console-api/pkg/storage"
)

type fakeSource struct {
	mu        sync.Mutex
	debtors   []models.Debtor
	debtorErr error
	sheet     *models.AttendanceSheet
	sheetErr  error

	lastToken   string
	lastMinDebt float64
	lastDate    string
}

func (f *fakeSource) ListDebtors(ctx context.Context, minDebt float64) ([]models.Debtor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken = backend.TokenFrom(ctx)
	f.lastMinDebt = minDebt
	if f.debtorErr != nil {
		return nil, f.debtorErr
	}
	return f.debtors, nil
}

func (f *fakeSource) GetSheet(ctx context.Context, groupID, date string, lesson int) (*models.AttendanceSheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken = backend.TokenFrom(ctx)
	f.lastDate = date
	if f.sheetErr != nil {
		return nil, f.sheetErr
	}
	return f.sheet, nil
}

func newTestService(t *testing.T, source *fakeSource) *Service {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewService(ServiceParams{
		Source:  source,
		Storage: files,
		Signer:  storage.NewSignedURLSigner("test-secret", time.Hour),
		Workers: 1,
	})
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)
	return svc
}

func waitCompleted(t *testing.T, svc *Service, jobID string) *JobStatus {
	t.Helper()
	var status *JobStatus
	require.Eventually(t, func() bool {
		current, ok := svc.Job(jobID)
		if !ok {
			return false
		}
		status = current
		return current.State == JobCompleted || current.State == JobFailed
	}, 2*time.Second, 5*time.Millisecond)
	return status
}

func TestDebtorExportCompletesWithSignedDownload(t *testing.T) {
	source := &fakeSource{debtors: []models.Debtor{
		{StudentID: "s1", FullName: "Alice Karimova", Phone: "+998901112233", TotalDebt: 150000,
			Groups: []models.DebtorGroup{{GroupID: "g1", Name: "Math A1", Debt: 150000}}},
		{StudentID: "s2", FullName: "Bekzod Aliev", Phone: "+998907654321", TotalDebt: 90000},
	}}
	svc := newTestService(t, source)

	ctx := backend.WithToken(context.Background(), "upstream-bearer")
	status, err := svc.RequestDebtors(ctx, export.FormatCSV, 50000, "")
	require.NoError(t, err)
	assert.Equal(t, JobPending, status.State)

	done := waitCompleted(t, svc, status.ID)
	require.Equal(t, JobCompleted, done.State)
	require.NotEmpty(t, done.DownloadToken)
	assert.Equal(t, "upstream-bearer", source.lastToken)
	assert.Equal(t, float64(50000), source.lastMinDebt)

	file, format, err := svc.Download(done.DownloadToken)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, export.FormatCSV, format)

	body, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Alice Karimova")
	assert.Contains(t, string(body), "Math A1")
	assert.Contains(t, string(body), "150000.00")
}

func TestDebtorExportAppliesSearchFilter(t *testing.T) {
	source := &fakeSource{debtors: []models.Debtor{
		{StudentID: "s1", FullName: "Alice Karimova", TotalDebt: 150000},
		{StudentID: "s2", FullName: "Bekzod Aliev", TotalDebt: 90000},
	}}
	svc := newTestService(t, source)

	status, err := svc.RequestDebtors(context.Background(), export.FormatCSV, 0, "bekzod")
	require.NoError(t, err)

	done := waitCompleted(t, svc, status.ID)
	require.Equal(t, JobCompleted, done.State)

	file, _, err := svc.Download(done.DownloadToken)
	require.NoError(t, err)
	defer file.Close()
	body, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Bekzod Aliev")
	assert.NotContains(t, string(body), "Alice Karimova")
}

func TestSheetExportNormalizesDateAndRenders(t *testing.T) {
	source := &fakeSource{sheet: &models.AttendanceSheet{
		SheetID: "sh1", GroupID: "g1", Date: "2026-03-05", Lesson: 2, Status: models.SheetOpen,
		Students: []models.SheetEntry{
			{StudentID: "s1", StudentName: "Alice", Status: models.AttendancePresent},
			{StudentID: "s2", Status: models.AttendanceAbsent, Comment: "sick"},
		},
	}}
	svc := newTestService(t, source)

	status, err := svc.RequestSheet(context.Background(), export.FormatCSV, "g1", "2026-03-05T00:00:00+05:00", 2)
	require.NoError(t, err)

	done := waitCompleted(t, svc, status.ID)
	require.Equal(t, JobCompleted, done.State)
	assert.True(t, strings.HasSuffix(done.FileName, ".csv"))
	assert.Equal(t, "2026-03-05", source.lastDate)

	file, _, err := svc.Download(done.DownloadToken)
	require.NoError(t, err)
	defer file.Close()
	body, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Alice,PRESENT")
	// Entries with no cached name fall back to the student id.
	assert.Contains(t, string(body), "s2,ABSENT,sick")
}

func TestSheetExportRejectsBadDate(t *testing.T) {
	svc := newTestService(t, &fakeSource{})

	_, err := svc.RequestSheet(context.Background(), export.FormatCSV, "g1", "not-a-date", 1)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := newTestService(t, &fakeSource{})

	_, err := svc.RequestDebtors(context.Background(), export.Format("xlsx"), 0, "")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestExportFailureIsReportedOnJob(t *testing.T) {
	source := &fakeSource{debtorErr: fmt.Errorf("upstream down")}
	svc := newTestService(t, source)

	status, err := svc.RequestDebtors(context.Background(), export.FormatCSV, 0, "")
	require.NoError(t, err)

	done := waitCompleted(t, svc, status.ID)
	require.Equal(t, JobFailed, done.State)
	assert.NotEmpty(t, done.Error)
	assert.Empty(t, done.DownloadToken)
}

func TestDownloadRejectsForgedToken(t *testing.T) {
	svc := newTestService(t, &fakeSource{})

	_, _, err := svc.Download("forged.token.with.parts")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
}

func TestDownloadRejectsTokenForIncompleteJob(t *testing.T) {
	source := &fakeSource{debtorErr: fmt.Errorf("upstream down")}
	svc := newTestService(t, source)

	status, err := svc.RequestDebtors(context.Background(), export.FormatCSV, 0, "")
	require.NoError(t, err)
	done := waitCompleted(t, svc, status.ID)
	require.Equal(t, JobFailed, done.State)

	// Sign a token for the failed job directly; Download must still refuse.
	token, _, err := storage.NewSignedURLSigner("test-secret", time.Hour).Generate(status.ID, "debtors/"+status.ID+".csv")
	require.NoError(t, err)

	_, _, err = svc.Download(token)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}
