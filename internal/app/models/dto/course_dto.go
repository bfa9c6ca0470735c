package dto

import "github.com/yigit/edutrack/internal/app/models"

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	CourseCode  string  `json:"course_code" binding:"required,notblank,max=20" example:"CS101"`
	CourseName  string  `json:"course_name" binding:"required,notblank,max=200" example:"Intro to Programming"`
	Description *string `json:"description" example:"Variables, control flow and functions"`
	Credits     *int    `json:"credits" binding:"omitempty,min=0,max=30" example:"3"`
	Instructor  *string `json:"instructor" binding:"omitempty,max=100" example:"Dr. Hopper"`
	MaxCapacity *int    `json:"max_capacity" binding:"omitempty,min=0" example:"50"`
}

// Defaults applied when a create request omits the field.
const (
	DefaultCourseCredits     = 3
	DefaultCourseMaxCapacity = 50
)

// ToModel converts the request into a new active course
func (r CreateCourseRequest) ToModel() *models.Course {
	course := &models.Course{
		CourseCode:  r.CourseCode,
		CourseName:  r.CourseName,
		Description: r.Description,
		Credits:     DefaultCourseCredits,
		Instructor:  r.Instructor,
		MaxCapacity: DefaultCourseMaxCapacity,
		Status:      models.CourseStatusActive,
	}
	if r.Credits != nil {
		course.Credits = *r.Credits
	}
	if r.MaxCapacity != nil {
		course.MaxCapacity = *r.MaxCapacity
	}
	return course
}

// UpdateCourseRequest represents a partial course update
type UpdateCourseRequest struct {
	CourseCode  *string `json:"course_code" binding:"omitempty,notblank,max=20"`
	CourseName  *string `json:"course_name" binding:"omitempty,notblank,max=200"`
	Description *string `json:"description"`
	Credits     *int    `json:"credits" binding:"omitempty,min=0,max=30"`
	Instructor  *string `json:"instructor" binding:"omitempty,max=100"`
	MaxCapacity *int    `json:"max_capacity" binding:"omitempty,min=0"`
	Status      *string `json:"status" binding:"omitempty,oneof=active inactive" example:"inactive"`
}

// ToPatch converts the request into a model patch
func (r UpdateCourseRequest) ToPatch() models.CoursePatch {
	patch := models.CoursePatch{
		CourseCode:  r.CourseCode,
		CourseName:  r.CourseName,
		Description: r.Description,
		Credits:     r.Credits,
		Instructor:  r.Instructor,
		MaxCapacity: r.MaxCapacity,
	}
	if r.Status != nil {
		status := models.CourseStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}
