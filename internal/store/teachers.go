package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/edcenter/console-api/internal/models"
)

type teacherBackend interface {
	ListTeachers(ctx context.Context, filter models.ListFilter) ([]models.Teacher, models.Pagination, error)
	CreateTeacher(ctx context.Context, req models.CreateTeacherRequest) (*models.Teacher, error)
	UpdateTeacher(ctx context.Context, id string, req models.UpdateTeacherRequest) (*models.Teacher, error)
	DeleteTeacher(ctx context.Context, id string) error
	RestoreTeacher(ctx context.Context, id string) (*models.Teacher, error)
	MyGroups(ctx context.Context) ([]models.Group, error)
}

// Teachers caches the teacher collection, headline counts and the
// teacher-scoped group list.
type Teachers struct {
	state
	backend teacherBackend
	logger  *zap.Logger

	items      []models.Teacher
	pagination models.Pagination
	filter     models.ListFilter
	stats      models.TeacherStats

	myGroups    []models.Group
	myGroupsGen uint64

	selectedID  string
	createOpen  bool
	editOpen    bool
	confirmOpen bool
}

// NewTeachers constructs the teacher store.
func NewTeachers(backend teacherBackend, logger *zap.Logger) *Teachers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Teachers{backend: backend, logger: logger}
}

// TeachersSnapshot is an immutable view of the store. Inactive count is not
// stored anywhere; it is always TeacherStats.Inactive() so the counts cannot
// drift apart.
type TeachersSnapshot struct {
	Status
	Items            []models.Teacher    `json:"items"`
	Pagination       models.Pagination   `json:"pagination"`
	Stats            models.TeacherStats `json:"stats"`
	MyGroups         []models.Group      `json:"myGroups,omitempty"`
	Search           string              `json:"search"`
	SelectedID       string              `json:"selectedId,omitempty"`
	CreateModalOpen  bool                `json:"createModalOpen"`
	EditModalOpen    bool                `json:"editModalOpen"`
	ConfirmModalOpen bool                `json:"confirmModalOpen"`
}

// Fetch replaces the collection with one page of upstream results, fail-closed
// on error. Unfiltered fetches refresh the total count; active-filtered
// fetches refresh the active count.
func (s *Teachers) Fetch(ctx context.Context, filter models.ListFilter) {
	gen := s.beginFetch()
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()

	items, pagination, err := s.backend.ListTeachers(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		return
	}
	s.loading = false
	if err != nil {
		s.logger.Warn("teacher fetch failed", zap.Error(err))
		s.errMsg = message(err)
		s.items = nil
		s.pagination = models.Pagination{}
	} else {
		s.errMsg = ""
		s.items = items
		s.pagination = pagination
		switch {
		case filter.Active == nil:
			s.stats.Total = pagination.Total
		case *filter.Active:
			s.stats.Active = pagination.Total
		}
	}
	s.bump()
}

// FetchMyGroups loads the groups assigned to the signed-in teacher. Guarded
// by its own generation counter so teacher list fetches do not invalidate it.
func (s *Teachers) FetchMyGroups(ctx context.Context) {
	s.mu.Lock()
	s.myGroupsGen++
	gen := s.myGroupsGen
	s.mu.Unlock()

	groups, err := s.backend.MyGroups(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.myGroupsGen {
		return
	}
	if err != nil {
		s.logger.Warn("my-groups fetch failed", zap.Error(err))
		s.errMsg = message(err)
		s.myGroups = nil
	} else {
		s.myGroups = groups
	}
	s.bump()
}

// Create posts a new teacher, appends it on success and closes the modal.
func (s *Teachers) Create(ctx context.Context, req models.CreateTeacherRequest) (*models.Teacher, error) {
	s.setSaving(true)
	created, err := s.backend.CreateTeacher(ctx, req)

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
	s.stats.Total++
	if created.IsActive {
		s.stats.Active++
	}
	s.createOpen = false
	s.errMsg = ""
	s.bump()
	return created, nil
}

// Update patches a teacher and replaces the cached entity with the response.
func (s *Teachers) Update(ctx context.Context, id string, req models.UpdateTeacherRequest) (*models.Teacher, error) {
	s.setSaving(true)
	updated, err := s.backend.UpdateTeacher(ctx, id, req)

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

// Delete removes a teacher upstream, then filters it out locally.
func (s *Teachers) Delete(ctx context.Context, id string) error {
	s.setSaving(true)
	err := s.backend.DeleteTeacher(ctx, id)

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
	removed := false
	removedActive := false
	for _, item := range s.items {
		if item.ID != id {
			filtered = append(filtered, item)
			continue
		}
		removed = true
		removedActive = item.IsActive
	}
	if removed {
		s.pagination.Total--
		s.stats.Total--
		// Keep active+inactive summing to total when an active teacher goes.
		if removedActive {
			s.stats.Active--
		}
	}
	s.items = filtered
	s.confirmOpen = false
	s.selectedID = ""
	s.errMsg = ""
	s.bump()
	return nil
}

// Restore flips a soft-deleted teacher back in place.
func (s *Teachers) Restore(ctx context.Context, id string) (*models.Teacher, error) {
	s.setSaving(true)
	restored, err := s.backend.RestoreTeacher(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.errMsg = message(err)
		s.bump()
		return nil, err
	}
	s.invalidateFetches()
	wasActive := false
	for i := range s.items {
		if s.items[i].ID == restored.ID {
			wasActive = s.items[i].IsActive
			break
		}
	}
	s.replace(*restored)
	if restored.IsActive && !wasActive {
		s.stats.Active++
	}
	s.errMsg = ""
	s.bump()
	return restored, nil
}

// Select marks a row as the target for edit/delete modals.
func (s *Teachers) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
	s.bump()
}

// SetModal opens or closes one of the store's modals.
func (s *Teachers) SetModal(name string, open bool) {
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
func (s *Teachers) Snapshot() TeachersSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TeachersSnapshot{
		Status:           s.status(),
		Items:            append([]models.Teacher(nil), s.items...),
		Pagination:       s.pagination,
		Stats:            s.stats,
		MyGroups:         append([]models.Group(nil), s.myGroups...),
		Search:           s.filter.Search,
		SelectedID:       s.selectedID,
		CreateModalOpen:  s.createOpen,
		EditModalOpen:    s.editOpen,
		ConfirmModalOpen: s.confirmOpen,
	}
}

func (s *Teachers) setSaving(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = v
	s.bump()
}

func (s *Teachers) replace(teacher models.Teacher) {
	for i := range s.items {
		if s.items[i].ID == teacher.ID {
			s.items[i] = teacher
			return
		}
	}
	s.items = append(s.items, teacher)
}
