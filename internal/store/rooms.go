package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/edcenter/console-api/internal/models"
)

type roomBackend interface {
	ListRooms(ctx context.Context, filter models.ListFilter) ([]models.Room, models.Pagination, error)
	CreateRoom(ctx context.Context, req models.CreateRoomRequest) (*models.Room, error)
	UpdateRoom(ctx context.Context, id string, req models.UpdateRoomRequest) (*models.Room, error)
}

// Rooms caches the room collection. Rooms are never hard-deleted; removal is
// a soft-delete PATCH flipping isActive off, and restore flips it back.
type Rooms struct {
	state
	backend roomBackend
	logger  *zap.Logger

	items      []models.Room
	pagination models.Pagination
	filter     models.ListFilter

	selectedID  string
	createOpen  bool
	editOpen    bool
	confirmOpen bool
}

// NewRooms constructs the room store.
func NewRooms(backend roomBackend, logger *zap.Logger) *Rooms {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rooms{backend: backend, logger: logger}
}

// RoomsSnapshot is an immutable view of the store.
type RoomsSnapshot struct {
	Status
	Items            []models.Room     `json:"items"`
	Pagination       models.Pagination `json:"pagination"`
	Search           string            `json:"search"`
	SelectedID       string            `json:"selectedId,omitempty"`
	CreateModalOpen  bool              `json:"createModalOpen"`
	EditModalOpen    bool              `json:"editModalOpen"`
	ConfirmModalOpen bool              `json:"confirmModalOpen"`
}

// Fetch replaces the collection with upstream results, fail-closed on error.
func (s *Rooms) Fetch(ctx context.Context, filter models.ListFilter) {
	gen := s.beginFetch()
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()

	items, pagination, err := s.backend.ListRooms(ctx, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		return
	}
	s.loading = false
	if err != nil {
		s.logger.Warn("room fetch failed", zap.Error(err))
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

// Create posts a new room, appends it on success and closes the modal.
func (s *Rooms) Create(ctx context.Context, req models.CreateRoomRequest) (*models.Room, error) {
	s.setSaving(true)
	created, err := s.backend.CreateRoom(ctx, req)

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

// Update patches a room and replaces the cached entity with the response.
func (s *Rooms) Update(ctx context.Context, id string, req models.UpdateRoomRequest) (*models.Room, error) {
	s.setSaving(true)
	updated, err := s.backend.UpdateRoom(ctx, id, req)

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

// Deactivate soft-deletes a room. The room is filtered out of the cached
// collection like a deletion, though upstream it merely flips isActive.
func (s *Rooms) Deactivate(ctx context.Context, id string) error {
	inactive := false
	s.setSaving(true)
	_, err := s.backend.UpdateRoom(ctx, id, models.UpdateRoomRequest{IsActive: &inactive})

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

// Restore flips a deactivated room back and merges it in place.
func (s *Rooms) Restore(ctx context.Context, id string) (*models.Room, error) {
	active := true
	s.setSaving(true)
	restored, err := s.backend.UpdateRoom(ctx, id, models.UpdateRoomRequest{IsActive: &active})

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
func (s *Rooms) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
	s.bump()
}

// SetModal opens or closes one of the store's modals.
func (s *Rooms) SetModal(name string, open bool) {
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
func (s *Rooms) Snapshot() RoomsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RoomsSnapshot{
		Status:           s.status(),
		Items:            append([]models.Room(nil), s.items...),
		Pagination:       s.pagination,
		Search:           s.filter.Search,
		SelectedID:       s.selectedID,
		CreateModalOpen:  s.createOpen,
		EditModalOpen:    s.editOpen,
		ConfirmModalOpen: s.confirmOpen,
	}
}

func (s *Rooms) setSaving(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = v
	s.bump()
}

func (s *Rooms) replace(room models.Room) {
	for i := range s.items {
		if s.items[i].ID == room.ID {
			s.items[i] = room
			return
		}
	}
	s.items = append(s.items, room)
}
