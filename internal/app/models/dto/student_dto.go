package dto

import "github.com/yigit/edutrack/internal/app/models"

// CreateStudentRequest represents student intake data
type CreateStudentRequest struct {
	Name  string  `json:"name" binding:"required,notblank,max=100" example:"Ada Lovelace"`
	Email string  `json:"email" binding:"required,email,max=255" example:"ada@example.edu"`
	Phone *string `json:"phone" binding:"omitempty,max=20" example:"+1-555-0100"`
}

// UpdateStudentRequest represents a partial student update; absent or null
// fields are left unchanged
type UpdateStudentRequest struct {
	Name  *string `json:"name" binding:"omitempty,notblank,max=100"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
	Phone *string `json:"phone" binding:"omitempty,max=20"`
}

// ToPatch converts the request into a model patch
func (r UpdateStudentRequest) ToPatch() models.StudentPatch {
	return models.StudentPatch{
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
	}
}
