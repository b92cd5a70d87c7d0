package models

// EnrollmentStatus enumerates the lifecycle of a student/group link.
type EnrollmentStatus string

const (
	EnrollmentActive EnrollmentStatus = "ACTIVE"
	EnrollmentPaused EnrollmentStatus = "PAUSED"
	EnrollmentLeft   EnrollmentStatus = "LEFT"
)

// Valid returns true when the status is a supported value.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentActive, EnrollmentPaused, EnrollmentLeft:
		return true
	default:
		return false
	}
}

// Enrollment links a student to a group. LeaveDate is only set when the
// status is LEFT.
type Enrollment struct {
	ID        string           `json:"id"`
	StudentID string           `json:"studentId"`
	GroupID   string           `json:"groupId"`
	Status    EnrollmentStatus `json:"status"`
	JoinDate  string           `json:"joinDate,omitempty"`
	LeaveDate *string          `json:"leaveDate,omitempty"`
}

// CreateEnrollmentRequest holds payload for enrolling a student.
type CreateEnrollmentRequest struct {
	StudentID string `json:"studentId" validate:"required"`
	GroupID   string `json:"groupId" validate:"required"`
	JoinDate  string `json:"joinDate,omitempty"`
}

// UpdateEnrollmentRequest changes the enrollment status.
type UpdateEnrollmentRequest struct {
	Status    EnrollmentStatus `json:"status" validate:"required"`
	LeaveDate *string          `json:"leaveDate,omitempty"`
}
