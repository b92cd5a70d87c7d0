package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/edcenter/console-api/internal/models"
)

type groupBackend interface {
	ListGroups(ctx context.Context, filter models.ListFilter) ([]models.Group, models.Pagination, error)
	CreateGroup(ctx context.Context, req models.CreateGroupRequest) (*models.Group, error)
	UpdateGroup(ctx context.Context, id string, req models.UpdateGroupRequest) (*models.Group, error)
	DeleteGroup(ctx context.Context, id string) error
}

// Groups caches the group collection and its list UI state.
type Groups struct {
	state
	backend groupBackend
	logger  *zap.Logger

	items      []models.Group
	pagination models.Pagination
	filter     models.ListFilter

	selectedID  string
	createOpen  bool
	editOpen    bool
	confirmOpen bool
}

// NewGroups constructs the group store.
func NewGroups(backend groupBackend, logger *zap.Logger) *Groups {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Groups{backend: backend, logger: logger}
}

// GroupsSnapshot is an immutable view of the store.
type GroupsSnapshot struct {
	Status
	Items            []models.Group    `json:"items"`
	Pagination       models.Pagination `json:"pagination"`
	Search           string            `json:"search"`
	SelectedID       string            `json:"selectedId,omitempty"`
	CreateModalOpen  bool              `json:"createModalOpen"`
	EditModalOpen    bool              `json:"editModalOpen"`
	ConfirmModalOpen bool              `json:"confirmModalOpen"`
}

// Fetch replaces the collection with upstream results, fail-closed on error.
func (s *Groups) Fetch(ctx context.Context, filter models.ListFilter) {
	gen := s.beginFetch()
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()

	items, pagination, err := s.backend.ListGroups(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		return
	}
	s.loading = false
	if err != nil {
		s.logger.Warn("group fetch failed", zap.Error(err))
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

// Create posts a new group, appends it on success and closes the modal.
func (s *Groups) Create(ctx context.Context, req models.CreateGroupRequest) (*models.Group, error) {
	s.setSaving(true)
	created, err := s.backend.CreateGroup(ctx, req)

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

// Update patches a group and replaces the cached entity with the response.
func (s *Groups) Update(ctx context.Context, id string, req models.UpdateGroupRequest) (*models.Group, error) {
	s.setSaving(true)
	updated, err := s.backend.UpdateGroup(ctx, id, req)

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
	s.editOpen = false
	s.errMsg = ""
	s.bump()
	return updated, nil
}

// Delete removes a group upstream, then filters it out locally.
func (s *Groups) Delete(ctx context.Context, id string) error {
	s.setSaving(true)
	err := s.backend.DeleteGroup(ctx, id)

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

// Select marks a row as the target for edit/delete modals.
func (s *Groups) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
	s.bump()
}

// SetModal opens or closes one of the store's modals.
func (s *Groups) SetModal(name string, open bool) {
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
func (s *Groups) Snapshot() GroupsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return GroupsSnapshot{
		Status:           s.status(),
		Items:            append([]models.Group(nil), s.items...),
		Pagination:       s.pagination,
		Search:           s.filter.Search,
		SelectedID:       s.selectedID,
		CreateModalOpen:  s.createOpen,
		EditModalOpen:    s.editOpen,
		ConfirmModalOpen: s.confirmOpen,
	}
}

func (s *Groups) setSaving(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = v
	s.bump()
}
