// Package exports implements the console's async export pipeline: a request
// enqueues a render job, workers pull the data from the upstream API, render
// CSV or PDF, and park the file behind a signed download URL.
package exports

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edcenter/console-api/internal/backend"
	"github.com/edcenter/console-api/internal/models"
	"github.com/edcenter/console-api/internal/store"
	appErrors "github.com/edcenter/console-api/pkg/errors"
	"github.com/edcenter/console-api/pkg/export"
	"github.com/edcenter/console-api/pkg/jobs"
	"github.com/edcenter/console-api/pkg/storage"
)

type dataSource interface {
	ListDebtors(ctx context.Context, minDebt float64) ([]models.Debtor, error)
	GetSheet(ctx context.Context, groupID, date string, lesson int) (*models.AttendanceSheet, error)
}

// JobState tracks an export job through its lifetime.
type JobState string

const (
	JobPending    JobState = "PENDING"
	JobProcessing JobState = "PROCESSING"
	JobCompleted  JobState = "COMPLETED"
	JobFailed     JobState = "FAILED"
)

// JobStatus is the pollable view of one export job.
type JobStatus struct {
	ID            string        `json:"id"`
	Type          string        `json:"type"`
	Format        export.Format `json:"format"`
	State         JobState      `json:"state"`
	FileName      string        `json:"fileName,omitempty"`
	DownloadToken string        `json:"downloadToken,omitempty"`
	ExpiresAt     *time.Time    `json:"expiresAt,omitempty"`
	Error         string        `json:"error,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

const (
	jobTypeDebtors = "debtors"
	jobTypeSheet   = "attendance-sheet"
)

type debtorPayload struct {
	minDebt       float64
	search        string
	format        export.Format
	upstreamToken string
}

type sheetPayload struct {
	groupID       string
	date          string
	lesson        int
	format        export.Format
	upstreamToken string
}

// Service coordinates export jobs.
type Service struct {
	source  dataSource
	storage *storage.LocalStorage
	signer  *storage.SignedURLSigner
	csv     export.Renderer
	pdf     export.Renderer
	logger  *zap.Logger

	queue *jobs.Queue

	mu   sync.Mutex
	byID map[string]*JobStatus
}

// ServiceParams groups constructor dependencies.
type ServiceParams struct {
	Source  dataSource
	Storage *storage.LocalStorage
	Signer  *storage.SignedURLSigner
	Workers int
	Logger  *zap.Logger
}

// NewService constructs the export service. Start must be called before
// requesting exports.
func NewService(p ServiceParams) *Service {
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	s := &Service{
		source:  p.Source,
		storage: p.Storage,
		signer:  p.Signer,
		csv:     export.NewCSVRenderer(),
		pdf:     export.NewPDFRenderer(),
		logger:  p.Logger,
		byID:    make(map[string]*JobStatus),
	}
	s.queue = jobs.NewQueue("exports", s.handle, jobs.QueueConfig{
		Workers: p.Workers,
		Logger:  p.Logger,
	})
	return s
}

// Start launches the worker pool.
func (s *Service) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the worker pool.
func (s *Service) Stop() {
	s.queue.Stop()
}

// RequestDebtors enqueues a debtor-list export. The upstream token is taken
// from ctx so the job authenticates as the requesting session.
func (s *Service) RequestDebtors(ctx context.Context, format export.Format, minDebt float64, search string) (*JobStatus, error) {
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	payload := debtorPayload{
		minDebt:       minDebt,
		search:        search,
		format:        format,
		upstreamToken: backend.TokenFrom(ctx),
	}
	return s.enqueue(ctx, jobTypeDebtors, format, payload)
}

// RequestSheet enqueues an attendance-sheet export.
func (s *Service) RequestSheet(ctx context.Context, format export.Format, groupID, rawDate string, lesson int) (*JobStatus, error) {
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	date, err := store.NormalizeDate(rawDate)
	if err != nil {
		return nil, err
	}
	payload := sheetPayload{
		groupID:       groupID,
		date:          date,
		lesson:        lesson,
		format:        format,
		upstreamToken: backend.TokenFrom(ctx),
	}
	return s.enqueue(ctx, jobTypeSheet, format, payload)
}

// Job returns the status of one export job.
func (s *Service) Job(id string) (*JobStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	copied := *status
	return &copied, true
}

// Download validates a signed token and opens the file it references.
func (s *Service) Download(token string) (*os.File, export.Format, error) {
	jobID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download link")
	}
	s.mu.Lock()
	status, ok := s.byID[jobID]
	s.mu.Unlock()
	if !ok || status.State != JobCompleted || status.FileName != relPath {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	return file, status.Format, nil
}

func (s *Service) enqueue(ctx context.Context, jobType string, format export.Format, payload interface{}) (*JobStatus, error) {
	status := &JobStatus{
		ID:        uuid.NewString(),
		Type:      jobType,
		Format:    format,
		State:     JobPending,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.byID[status.ID] = status
	s.mu.Unlock()

	// Snapshot before handing the job to the queue: a worker may start
	// mutating the shared status as soon as Enqueue returns.
	copied := *status
	err := s.queue.Enqueue(ctx, jobs.Job{ID: status.ID, Type: jobType, Payload: payload})
	if err != nil {
		s.setFailed(status.ID, "export queue unavailable")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export")
	}
	return &copied, nil
}

func (s *Service) handle(ctx context.Context, job jobs.Job) error {
	s.setState(job.ID, JobProcessing)

	var (
		table  export.Table
		format export.Format
		err    error
	)
	switch payload := job.Payload.(type) {
	case debtorPayload:
		format = payload.format
		table, err = s.debtorTable(backend.WithToken(ctx, payload.upstreamToken), payload)
	case sheetPayload:
		format = payload.format
		table, err = s.sheetTable(backend.WithToken(ctx, payload.upstreamToken), payload)
	default:
		s.setFailed(job.ID, "unknown export type")
		return nil
	}
	if err != nil {
		s.setFailed(job.ID, appErrors.FromError(err).Message)
		return err
	}

	renderer := s.csv
	if format == export.FormatPDF {
		renderer = s.pdf
	}
	data, err := renderer.Render(table)
	if err != nil {
		s.setFailed(job.ID, "failed to render export")
		return err
	}

	fileName := fmt.Sprintf("%s/%s.%s", job.Type, job.ID, format.Ext())
	if _, err := s.storage.Save(fileName, data); err != nil {
		s.setFailed(job.ID, "failed to store export")
		return err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, fileName)
	if err != nil {
		s.setFailed(job.ID, "failed to sign download link")
		return err
	}

	s.mu.Lock()
	if status, ok := s.byID[job.ID]; ok {
		status.State = JobCompleted
		status.FileName = fileName
		status.DownloadToken = token
		status.ExpiresAt = &expiresAt
		status.Error = ""
	}
	s.mu.Unlock()
	s.logger.Sugar().Infow("export completed", "job_id", job.ID, "type", job.Type, "file", fileName)
	return nil
}

func (s *Service) debtorTable(ctx context.Context, payload debtorPayload) (export.Table, error) {
	debtors, err := s.source.ListDebtors(ctx, payload.minDebt)
	if err != nil {
		return export.Table{}, err
	}
	if payload.search != "" {
		debtors = store.FilterDebtors(debtors, payload.search)
	}

	table := export.Table{
		Title:   "Debtors",
		Columns: []string{"Student", "Phone", "Total Debt", "Groups"},
	}
	for _, debtor := range debtors {
		groups := ""
		for i, group := range debtor.Groups {
			if i > 0 {
				groups += ", "
			}
			groups += group.Name
		}
		table.Rows = append(table.Rows, []string{
			debtor.FullName,
			debtor.Phone,
			strconv.FormatFloat(debtor.TotalDebt, 'f', 2, 64),
			groups,
		})
	}
	return table, nil
}

func (s *Service) sheetTable(ctx context.Context, payload sheetPayload) (export.Table, error) {
	sheet, err := s.source.GetSheet(ctx, payload.groupID, payload.date, payload.lesson)
	if err != nil {
		return export.Table{}, err
	}
	table := export.Table{
		Title:   fmt.Sprintf("Attendance %s lesson %d", sheet.Date, sheet.Lesson),
		Columns: []string{"Student", "Status", "Comment"},
	}
	for _, entry := range sheet.Students {
		name := entry.StudentName
		if name == "" {
			name = entry.StudentID
		}
		table.Rows = append(table.Rows, []string{name, string(entry.Status), entry.Comment})
	}
	return table, nil
}

func (s *Service) setState(id string, state JobState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.byID[id]; ok {
		status.State = state
	}
}

func (s *Service) setFailed(id, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.byID[id]; ok {
		status.State = JobFailed
		status.Error = message
	}
}
