package models

// Room mirrors a room record owned by the upstream API.
type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity,omitempty"`
	IsActive bool   `json:"isActive"`
}

// CreateRoomRequest holds payload for creating rooms.
type CreateRoomRequest struct {
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity" validate:"gte=0"`
}

// UpdateRoomRequest holds a partial room update. Soft deletion travels through
// the same PATCH with IsActive=false.
type UpdateRoomRequest struct {
	Name     *string `json:"name,omitempty"`
	Capacity *int    `json:"capacity,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}
