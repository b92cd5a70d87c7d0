package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/edcenter/console-api/internal/models"
)

type enrollmentBackend interface {
	ListEnrollments(ctx context.Context) ([]models.Enrollment, error)
	CreateEnrollment(ctx context.Context, req models.CreateEnrollmentRequest) (*models.Enrollment, error)
	UpdateEnrollment(ctx context.Context, id string, req models.UpdateEnrollmentRequest) (*models.Enrollment, error)
}

// Enrollments caches the full enrollment list linking students to groups.
type Enrollments struct {
	state
	backend enrollmentBackend
	logger  *zap.Logger

	items []models.Enrollment

	createOpen bool
}

// NewEnrollments constructs the enrollment store.
func NewEnrollments(backend enrollmentBackend, logger *zap.Logger) *Enrollments {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enrollments{backend: backend, logger: logger}
}

// EnrollmentsSnapshot is an immutable view of the store.
type EnrollmentsSnapshot struct {
	Status
	Items           []models.Enrollment `json:"items"`
	CreateModalOpen bool                `json:"createModalOpen"`
}

// Fetch replaces the enrollment list, fail-closed on error.
func (s *Enrollments) Fetch(ctx context.Context) {
	gen := s.beginFetch()

	items, err := s.backend.ListEnrollments(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		return
	}
	s.loading = false
	if err != nil {
		s.logger.Warn("enrollment fetch failed", zap.Error(err))
		s.errMsg = message(err)
		s.items = nil
	} else {
		s.errMsg = ""
		s.items = items
	}
	s.bump()
}

// Create enrolls a student, appends the record on success and closes the
// creation modal.
func (s *Enrollments) Create(ctx context.Context, req models.CreateEnrollmentRequest) (*models.Enrollment, error) {
	s.setSaving(true)
	created, err := s.backend.CreateEnrollment(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.errMsg = message(err)
		s.bump()
		return nil, err
	}
	s.invalidateFetches()
	s.items = append(s.items, *created)
	s.createOpen = false
	s.errMsg = ""
	s.bump()
	return created, nil
}

// UpdateStatus changes an enrollment's status (pause, resume, leave) and
// replaces the cached record with the response.
func (s *Enrollments) UpdateStatus(ctx context.Context, id string, req models.UpdateEnrollmentRequest) (*models.Enrollment, error) {
	s.setSaving(true)
	updated, err := s.backend.UpdateEnrollment(ctx, id, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.errMsg = message(err)
		s.bump()
		return nil, err
	}
	s.invalidateFetches()
	for i := range s.items {
		if s.items[i].ID == updated.ID {
			s.items[i] = *updated
			break
		}
	}
	s.errMsg = ""
	s.bump()
	return updated, nil
}

// SetModal opens or closes the creation modal.
func (s *Enrollments) SetModal(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createOpen = open
	s.bump()
}

// Snapshot returns a copy safe to hand to the presentation layer.
func (s *Enrollments) Snapshot() EnrollmentsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EnrollmentsSnapshot{
		Status:          s.status(),
		Items:           append([]models.Enrollment(nil), s.items...),
		CreateModalOpen: s.createOpen,
	}
}

func (s *Enrollments) setSaving(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = v
	s.bump()
}
