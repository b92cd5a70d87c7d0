package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edcenter/console-api/internal/models"
)

func TestAvailableStudentsExcludesActiveEnrollments(t *testing.T) {
	students := []models.Student{
		{ID: "s1", FullName: "Aida", Phone: "111"},
		{ID: "s2", FullName: "Bek", Phone: "222"},
		{ID: "s3", FullName: "Dana", Phone: "333"},
	}
	enrollments := []models.Enrollment{
		{ID: "e1", StudentID: "s1", GroupID: "g1", Status: models.EnrollmentActive},
		{ID: "e2", StudentID: "s2", GroupID: "g1", Status: models.EnrollmentPaused},
		{ID: "e3", StudentID: "s3", GroupID: "g2", Status: models.EnrollmentLeft},
	}

	available := AvailableStudents(students, enrollments, "")

	require.Len(t, available, 2)
	assert.Equal(t, "s2", available[0].ID)
	assert.Equal(t, "s3", available[1].ID)
}

func TestAvailableStudentsSearchFilter(t *testing.T) {
	students := []models.Student{
		{ID: "s1", FullName: "Aida Karimova", Phone: "998901112233"},
		{ID: "s2", FullName: "Bek Tashkentov", Phone: "998907654321"},
	}

	byName := AvailableStudents(students, nil, "aida")
	require.Len(t, byName, 1)
	assert.Equal(t, "s1", byName[0].ID)

	byPhone := AvailableStudents(students, nil, "7654")
	require.Len(t, byPhone, 1)
	assert.Equal(t, "s2", byPhone[0].ID)

	assert.Empty(t, AvailableStudents(students, nil, "zilola"))
}

func TestAvailableStudentsRecomputesFromInputs(t *testing.T) {
	students := []models.Student{{ID: "s1", FullName: "Aida"}}

	require.Len(t, AvailableStudents(students, nil, ""), 1)

	// Once the enrollment lands, a fresh computation reflects it immediately.
	enrollments := []models.Enrollment{{ID: "e1", StudentID: "s1", Status: models.EnrollmentActive}}
	assert.Empty(t, AvailableStudents(students, enrollments, ""))
}
