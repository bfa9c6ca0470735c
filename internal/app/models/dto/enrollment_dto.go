package dto

import "github.com/yigit/edutrack/internal/app/models"

// CreateEnrollmentRequest represents an enrollment request
type CreateEnrollmentRequest struct {
	StudentID int64 `json:"student_id" binding:"required,gt=0" example:"1"`
	CourseID  int64 `json:"course_id" binding:"required,gt=0" example:"1"`
}

// UpdateEnrollmentRequest represents a grade/status update; absent or null
// fields are left unchanged
type UpdateEnrollmentRequest struct {
	Grade  *string `json:"grade" binding:"omitempty,max=5" example:"A"`
	Status *string `json:"status" binding:"omitempty,oneof=enrolled completed dropped" example:"completed"`
}

// ToPatch converts the request into a model patch
func (r UpdateEnrollmentRequest) ToPatch() models.EnrollmentPatch {
	patch := models.EnrollmentPatch{Grade: r.Grade}
	if r.Status != nil {
		status := models.EnrollmentStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}
