package store

import (
	"strings"

	"github.com/edcenter/console-api/internal/models"
)

// AvailableStudents computes the students an enrollment form may offer: every
// student minus those with an ACTIVE enrollment, minus those failing the
// search filter. This is a derived view over two stores' snapshots, never
// stored itself, so it can't go stale against either input.
func AvailableStudents(students []models.Student, enrollments []models.Enrollment, search string) []models.Student {
	enrolled := make(map[string]struct{}, len(enrollments))
	for _, enrollment := range enrollments {
		if enrollment.Status == models.EnrollmentActive {
			enrolled[enrollment.StudentID] = struct{}{}
		}
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Student, 0, len(students))
	for _, student := range students {
		if _, taken := enrolled[student.ID]; taken {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(student.FullName), needle) &&
			!strings.Contains(strings.ToLower(student.Phone), needle) {
			continue
		}
		out = append(out, student)
	}
	return out
}
