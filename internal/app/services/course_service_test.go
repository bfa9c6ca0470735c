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

func TestCourseLifecycle(t *testing.T) {
	db := newFakeDB()
	svc := NewCourseService(&fakeCourseRepo{db}, zerolog.Nop())
	ctx := context.Background()

	course := &models.Course{CourseCode: "CS101", CourseName: "Intro", Credits: 3, MaxCapacity: 30, CurrentEnrollment: 7}
	require.NoError(t, svc.CreateCourse(ctx, course))
	assert.Equal(t, models.CourseStatusActive, course.Status)
	assert.Zero(t, course.CurrentEnrollment)

	err := svc.CreateCourse(ctx, &models.Course{CourseCode: "CS101", CourseName: "Again"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Equal(t, "Course code already exists", err.Error())

	inactive := models.CourseStatusInactive
	updated, err := svc.UpdateCourse(ctx, course.ID, models.CoursePatch{Status: &inactive})
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusInactive, updated.Status)
	assert.Equal(t, "Intro", updated.CourseName)

	active, err := svc.ListCourses(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := svc.ListCourses(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, svc.DeleteCourse(ctx, course.ID))
	_, err = svc.GetCourse(ctx, course.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestUpdateCourseRejections(t *testing.T) {
	db := newFakeDB()
	svc := NewCourseService(&fakeCourseRepo{db}, zerolog.Nop())
	ctx := context.Background()

	first := &models.Course{CourseCode: "CS101", CourseName: "Intro", MaxCapacity: 10}
	second := &models.Course{CourseCode: "CS102", CourseName: "Data", MaxCapacity: 10}
	require.NoError(t, svc.CreateCourse(ctx, first))
	require.NoError(t, svc.CreateCourse(ctx, second))

	_, err := svc.UpdateCourse(ctx, first.ID, models.CoursePatch{})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	code := "CS102"
	_, err = svc.UpdateCourse(ctx, first.ID, models.CoursePatch{CourseCode: &code})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	_, err = svc.UpdateCourse(ctx, 999, models.CoursePatch{CourseCode: &code})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, "Course with ID 999 not found", err.Error())

	bogus := models.CourseStatus("archived")
	_, err = svc.UpdateCourse(ctx, first.ID, models.CoursePatch{Status: &bogus})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	assert.ErrorIs(t, svc.DeleteCourse(ctx, 999), apperrors.ErrResourceNotFound)
}
