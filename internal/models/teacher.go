package models

// Teacher mirrors a teacher record owned by the upstream API.
type Teacher struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"isActive"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// CreateTeacherRequest holds payload for creating teachers.
type CreateTeacherRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

// UpdateTeacherRequest holds a partial teacher update.
type UpdateTeacherRequest struct {
	FullName *string `json:"fullName,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	PhotoURL *string `json:"photoUrl,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// TeacherStats summarises the cached teacher collection. Total and Active are
// stored once; Inactive is always derived so the two counts cannot drift.
type TeacherStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// Inactive returns the derived inactive count.
func (s TeacherStats) Inactive() int {
	return s.Total - s.Active
}
