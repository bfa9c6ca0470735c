package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/edutrack/internal/app/models"
	"github.com/yigit/edutrack/internal/pkg/apperrors"
)

func TestStudentLifecycle(t *testing.T) {
	db := newFakeDB()
	svc := NewStudentService(&fakeStudentRepo{db}, zerolog.Nop())
	ctx := context.Background()

	phone := "555-0100"
	student := &models.Student{Name: "Ada", Email: "ada@example.edu", Phone: &phone}
	require.NoError(t, svc.CreateStudent(ctx, student))
	assert.NotZero(t, student.ID)

	err := svc.CreateStudent(ctx, &models.Student{Name: "Copy", Email: "ada@example.edu"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Equal(t, "Email already registered", err.Error())

	name := "Ada Lovelace"
	updated, err := svc.UpdateStudent(ctx, student.ID, models.StudentPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, "ada@example.edu", updated.Email)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)

	// Re-submitting its own email is not a conflict.
	email := "ada@example.edu"
	_, err = svc.UpdateStudent(ctx, student.ID, models.StudentPatch{Email: &email})
	assert.NoError(t, err)

	list, err := svc.ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteStudent(ctx, student.ID))
	_, err = svc.GetStudent(ctx, student.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestUpdateStudentRejections(t *testing.T) {
	db := newFakeDB()
	svc := NewStudentService(&fakeStudentRepo{db}, zerolog.Nop())
	ctx := context.Background()

	first := &models.Student{Name: "Ada", Email: "ada@example.edu"}
	second := &models.Student{Name: "Grace", Email: "grace@example.edu"}
	require.NoError(t, svc.CreateStudent(ctx, first))
	require.NoError(t, svc.CreateStudent(ctx, second))

	_, err := svc.UpdateStudent(ctx, first.ID, models.StudentPatch{})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.Equal(t, "No fields to update", err.Error())

	taken := "grace@example.edu"
	_, err = svc.UpdateStudent(ctx, first.ID, models.StudentPatch{Email: &taken})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	_, err = svc.UpdateStudent(ctx, 999, models.StudentPatch{})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, "Student with ID 999 not found", err.Error())

	err = svc.DeleteStudent(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestDeleteStudentReleasesSeats(t *testing.T) {
	db := newFakeDB()
	enrollments := NewEnrollmentService(&fakeEnrollmentRepo{db}, &fakeStudentRepo{db}, &fakeCourseRepo{db}, zerolog.Nop())
	students := NewStudentService(&fakeStudentRepo{db}, zerolog.Nop())
	ctx := context.Background()

	course := db.addCourse("CS300", 2, 0, models.CourseStatusActive)
	leaving := db.addStudent("leaving")
	staying := db.addStudent("staying")
	_, err := enrollments.CreateEnrollment(ctx, leaving, course)
	require.NoError(t, err)
	_, err = enrollments.CreateEnrollment(ctx, staying, course)
	require.NoError(t, err)

	require.NoError(t, students.DeleteStudent(ctx, leaving))

	assert.Equal(t, 1, db.course(course).CurrentEnrollment)
	assert.Equal(t, 1, db.countEnrollments(course))
}
