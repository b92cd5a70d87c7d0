package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/edcenter/console-api/internal/models"
)

type studentBackend interface {
	ListStudents(ctx context.Context, filter models.ListFilter) ([]models.Student, models.Pagination, error)
	CreateStudent(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error)
	UpdateStudent(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.Student, error)
	DeleteStudent(ctx context.Context, id string) error
	RestoreStudent(ctx context.Context, id string) (*models.Student, error)
}

// Students caches the student collection and its list UI state.
type Students struct {
	state
	backend studentBackend
	logger  *zap.Logger

	items      []models.Student
	pagination models.Pagination
	filter     models.ListFilter

	selectedID  string
	createOpen  bool
	editOpen    bool
	confirmOpen bool
}

// NewStudents constructs the student store.
func NewStudents(backend studentBackend, logger *zap.Logger) *Students {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Students{backend: backend, logger: logger}
}

// StudentsSnapshot is an immutable view of the store.
type StudentsSnapshot struct {
	Status
	Items            []models.Student  `json:"items"`
	Pagination       models.Pagination `json:"pagination"`
	Search           string            `json:"search"`
	SelectedID       string            `json:"selectedId,omitempty"`
	CreateModalOpen  bool              `json:"createModalOpen"`
	EditModalOpen    bool              `json:"editModalOpen"`
	ConfirmModalOpen bool              `json:"confirmModalOpen"`
}

// Fetch replaces the collection with one page of upstream results. Failures
// clear the collection rather than showing stale rows as current, and the
// error swallowed here surfaces through the snapshot only.
func (s *Students) Fetch(ctx context.Context, filter models.ListFilter) {
	gen := s.beginFetch()
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()

	items, pagination, err := s.backend.ListStudents(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		// A newer fetch or a mutation owns the collection now.
		return
	}
	s.loading = false
	if err != nil {
		s.logger.Warn("student fetch failed", zap.Error(err))
		s.errMsg = message(err)
		s.items = nil
		s.pagination = models.Pagination{}
	} else {
		s.errMsg = ""
		s.items = items
		s.pagination = pagination
	}
	s.bump()
}

// ListAll pages through the whole upstream collection without touching the
// cached page or the UI flags. Derived views that need the full roster use
// this instead of a single capped fetch.
func (s *Students) ListAll(ctx context.Context, filter models.ListFilter) ([]models.Student, error) {
	filter.Page = 1
	if filter.Limit <= 0 {
		filter.Limit = 200
	}
	var all []models.Student
	for {
		items, pagination, err := s.backend.ListStudents(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) == 0 || pagination.TotalPages <= filter.Page {
			return all, nil
		}
		filter.Page++
	}
}

// Create posts a new student, appends the upstream record on success and
// closes the creation modal. The error is returned as well as recorded so the
// calling form can show inline feedback.
func (s *Students) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	s.setSaving(true)
	created, err := s.backend.CreateStudent(ctx, req)

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
	s.pagination.Total++
	s.createOpen = false
	s.errMsg = ""
	s.bump()
	return created, nil
}

// Update patches a student and replaces the cached entity with the upstream
// response. The collection is untouched on failure.
func (s *Students) Update(ctx context.Context, id string, req models.UpdateStudentRequest) (*models.Student, error) {
	s.setSaving(true)
	updated, err := s.backend.UpdateStudent(ctx, id, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.errMsg = message(err)
		s.bump()
		return nil, err
	}
	s.invalidateFetches()
	s.replace(*updated)
	s.editOpen = false
	s.errMsg = ""
	s.bump()
	return updated, nil
}

// Delete removes a student upstream, then filters it out locally. The call is
// issued even when the id is not cached; the confirmation modal stays open on
// failure so the user sees the outcome.
func (s *Students) Delete(ctx context.Context, id string) error {
	s.setSaving(true)
	err := s.backend.DeleteStudent(ctx, id)

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
	if len(filtered) < len(s.items) {
		s.pagination.Total--
	}
	s.items = filtered
	s.confirmOpen = false
	s.selectedID = ""
	s.errMsg = ""
	s.bump()
	return nil
}

// Restore flips a soft-deleted student back and merges the upstream record in
// place, keeping its position in the collection.
func (s *Students) Restore(ctx context.Context, id string) (*models.Student, error) {
	s.setSaving(true)
	restored, err := s.backend.RestoreStudent(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.errMsg = message(err)
		s.bump()
		return nil, err
	}
	s.invalidateFetches()
	s.replace(*restored)
	s.errMsg = ""
	s.bump()
	return restored, nil
}

// Select marks a row as the target for edit/delete modals.
func (s *Students) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
	s.bump()
}

// SetModal opens or closes one of the store's modals ("create", "edit",
// "confirm"). Unknown names are ignored.
func (s *Students) SetModal(name string, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch name {
	case "create":
		s.createOpen = open
	case "edit":
		s.editOpen = open
	case "confirm":
		s.confirmOpen = open
	default:
		return
	}
	s.bump()
}

// Snapshot returns a copy safe to hand to the presentation layer.
func (s *Students) Snapshot() StudentsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]models.Student, len(s.items))
	for i, item := range s.items {
		items[i] = item
		if item.Groups != nil {
			items[i].Groups = append([]string(nil), item.Groups...)
		}
	}
	return StudentsSnapshot{
		Status:           s.status(),
		Items:            items,
		Pagination:       s.pagination,
		Search:           s.filter.Search,
		SelectedID:       s.selectedID,
		CreateModalOpen:  s.createOpen,
		EditModalOpen:    s.editOpen,
		ConfirmModalOpen: s.confirmOpen,
	}
}

func (s *Students) setSaving(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = v
	s.bump()
}

// replace swaps the entity with a matching id; unknown ids are appended so a
// restore of a row outside the current page still lands somewhere visible.
// Callers must hold mu.
func (s *Students) replace(student models.Student) {
	for i := range s.items {
		if s.items[i].ID == student.ID {
			s.items[i] = student
			return
		}
	}
	s.items = append(s.items, student)
}
