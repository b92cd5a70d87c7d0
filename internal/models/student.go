package models

// Student mirrors a student record owned by the upstream API.
type Student struct {
	ID          string   `json:"id"`
	FullName    string   `json:"fullName"`
	Phone       string   `json:"phone"`
	DateOfBirth string   `json:"dateOfBirth,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	IsActive    bool     `json:"isActive"`
	Groups      []string `json:"groups,omitempty"`
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
}

// UpdateStudentRequest holds a partial update; nil fields are omitted from the PATCH.
type UpdateStudentRequest struct {
	FullName    *string `json:"fullName,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	DateOfBirth *string `json:"dateOfBirth,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}
