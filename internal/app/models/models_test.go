package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseCapacity(t *testing.T) {
	c := &Course{MaxCapacity: 2, CurrentEnrollment: 1, Status: CourseStatusActive}
	assert.True(t, c.IsActive())
	assert.False(t, c.IsFull())

	c.CurrentEnrollment = 2
	assert.True(t, c.IsFull())

	c.Status = CourseStatusInactive
	assert.False(t, c.IsActive())
}

func TestPatchIsEmpty(t *testing.T) {
	grade := "A"
	assert.True(t, EnrollmentPatch{}.IsEmpty())
	assert.False(t, EnrollmentPatch{Grade: &grade}.IsEmpty())

	name := "Grace"
	assert.True(t, StudentPatch{}.IsEmpty())
	assert.False(t, StudentPatch{Name: &name}.IsEmpty())

	credits := 4
	assert.True(t, CoursePatch{}.IsEmpty())
	assert.False(t, CoursePatch{Credits: &credits}.IsEmpty())
}

func TestStatusValid(t *testing.T) {
	assert.True(t, CourseStatusInactive.Valid())
	assert.False(t, CourseStatus("archived").Valid())
	assert.True(t, EnrollmentStatusDropped.Valid())
	assert.False(t, EnrollmentStatus("").Valid())
}
