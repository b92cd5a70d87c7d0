package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/edcenter/console-api/internal/models"
)

type assignmentBackend interface {
	ListAssignments(ctx context.Context) ([]models.TeachingAssignment, error)
	CreateAssignment(ctx context.Context, req models.CreateAssignmentRequest) (*models.TeachingAssignment, error)
	UpdateAssignment(ctx context.Context, id string, req models.UpdateAssignmentRequest) (*models.TeachingAssignment, error)
	DeleteAssignment(ctx context.Context, id string) error
}

// Assignments caches teacher-to-group teaching assignments.
type Assignments struct {
	state
	backend assignmentBackend
	logger  *zap.Logger

	items []models.TeachingAssignment

	createOpen bool
}

// NewAssignments constructs the assignment store.
func NewAssignments(backend assignmentBackend, logger *zap.Logger) *Assignments {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assignments{backend: backend, logger: logger}
}

// AssignmentsSnapshot is an immutable view of the store.
type AssignmentsSnapshot struct {
	Status
	Items           []models.TeachingAssignment `json:"items"`
	CreateModalOpen bool                        `json:"createModalOpen"`
}

// Fetch replaces the assignment list, fail-closed on error.
func (s *Assignments) Fetch(ctx context.Context) {
	gen := s.beginFetch()

	items, err := s.backend.ListAssignments(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		return
	}
	s.loading = false
	if err != nil {
		s.logger.Warn("assignment fetch failed", zap.Error(err))
		s.errMsg = message(err)
		s.items = nil
	} else {
		s.errMsg = ""
		s.items = items
	}
	s.bump()
}

// Create assigns a teacher to a group. Override fields are stripped when the
// assignment inherits the group schedule, since they carry no meaning then.
func (s *Assignments) Create(ctx context.Context, req models.CreateAssignmentRequest) (*models.TeachingAssignment, error) {
	if req.InheritSchedule {
		req.Overrides = nil
	}
	s.setSaving(true)
	created, err := s.backend.CreateAssignment(ctx, req)

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

// Update patches an assignment and replaces the cached record.
func (s *Assignments) Update(ctx context.Context, id string, req models.UpdateAssignmentRequest) (*models.TeachingAssignment, error) {
	if req.InheritSchedule != nil && *req.InheritSchedule {
		req.Overrides = nil
	}
	s.setSaving(true)
	updated, err := s.backend.UpdateAssignment(ctx, id, req)

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

// Delete removes an assignment upstream, then filters it out locally.
func (s *Assignments) Delete(ctx context.Context, id string) error {
	s.setSaving(true)
	err := s.backend.DeleteAssignment(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.errMsg = message(err)
		s.bump()
		return err
	}
	s.invalidateFetches()
	filtered := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	s.items = filtered
	s.errMsg = ""
	s.bump()
	return nil
}

// SetModal opens or closes the creation modal.
func (s *Assignments) SetModal(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createOpen = open
	s.bump()
}

// Snapshot returns a copy safe to hand to the presentation layer.
func (s *Assignments) Snapshot() AssignmentsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.TeachingAssignment, len(s.items))
	for i, item := range s.items {
		items[i] = item
		if item.Overrides != nil {
			override := *item.Overrides
			items[i].Overrides = &override
		}
	}
	return AssignmentsSnapshot{
		Status:          s.status(),
		Items:           items,
		CreateModalOpen: s.createOpen,
	}
}

func (s *Assignments) setSaving(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = v
	s.bump()
}
