package models

// ScheduleOverride carries assignment-specific schedule fields. Only
// meaningful when the assignment does not inherit the group schedule.
type ScheduleOverride struct {
	DaysPattern string `json:"daysPattern,omitempty"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
}

// TeachingAssignment links a teacher to a group.
type TeachingAssignment struct {
	ID              string            `json:"id"`
	TeacherID       string            `json:"teacherId"`
	GroupID         string            `json:"groupId"`
	Role            string            `json:"role,omitempty"`
	InheritSchedule bool              `json:"inheritSchedule"`
	Overrides       *ScheduleOverride `json:"overrides,omitempty"`
}

// CreateAssignmentRequest holds payload for assigning a teacher to a group.
type CreateAssignmentRequest struct {
	TeacherID       string            `json:"teacherId" validate:"required"`
	GroupID         string            `json:"groupId" validate:"required"`
	Role            string            `json:"role,omitempty"`
	InheritSchedule bool              `json:"inheritSchedule"`
	Overrides       *ScheduleOverride `json:"overrides,omitempty"`
}

// UpdateAssignmentRequest holds a partial assignment update.
type UpdateAssignmentRequest struct {
	Role            *string           `json:"role,omitempty"`
	InheritSchedule *bool             `json:"inheritSchedule,omitempty"`
	Overrides       *ScheduleOverride `json:"overrides,omitempty"`
}
