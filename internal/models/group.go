package models

// Group mirrors a class group owned by the upstream API.
type Group struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	RoomID      string  `json:"roomId,omitempty"`
	Capacity    int     `json:"capacity"`
	MonthlyFee  float64 `json:"monthlyFee"`
	DaysPattern string  `json:"daysPattern,omitempty"`
	StartTime   string  `json:"startTime,omitempty"`
	EndTime     string  `json:"endTime,omitempty"`
	IsActive    bool    `json:"isActive"`
}

// CreateGroupRequest holds payload for creating groups.
type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required"`
	RoomID      string  `json:"roomId,omitempty"`
	Capacity    int     `json:"capacity" validate:"gte=0"`
	MonthlyFee  float64 `json:"monthlyFee" validate:"gte=0"`
	DaysPattern string  `json:"daysPattern,omitempty"`
	StartTime   string  `json:"startTime,omitempty"`
	EndTime     string  `json:"endTime,omitempty"`
}

// UpdateGroupRequest holds a partial group update.
type UpdateGroupRequest struct {
	Name        *string  `json:"name,omitempty"`
	RoomID      *string  `json:"roomId,omitempty"`
	Capacity    *int     `json:"capacity,omitempty"`
	MonthlyFee  *float64 `json:"monthlyFee,omitempty"`
	DaysPattern *string  `json:"daysPattern,omitempty"`
	StartTime   *string  `json:"startTime,omitempty"`
	EndTime     *string  `json:"endTime,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
}
