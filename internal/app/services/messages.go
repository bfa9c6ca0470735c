package services

import (
	"fmt"

	"github.com/yigit/edutrack/internal/pkg/apperrors"
)

// Caller-facing messages shared by the services.
const (
	msgNoFieldsToUpdate  = "No fields to update"
	msgCourseNotActive   = "Course is not active"
	msgCourseFull        = "Course is full"
	msgAlreadyEnrolled   = "Student is already enrolled in this course"
	msgEmailRegistered   = "Email already registered"
	msgCourseCodeExists  = "Course code already exists"
	msgInvalidCredential = "Invalid credentials"
)

func studentNotFound(id int64) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("Student with ID %d not found", id))
}

func courseNotFound(id int64) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("Course with ID %d not found", id))
}

func enrollmentNotFound(id int64) error {
	return apperrors.NewResourceNotFoundError(fmt.Sprintf("Enrollment with ID %d not found", id))
}
