package models

// Course represents a course students can enroll in.
type Course struct {
	ID                int64        `json:"course_id" db:"course_id" example:"1"`
	CourseCode        string       `json:"course_code" db:"course_code" example:"CS101"`
	CourseName        string       `json:"course_name" db:"course_name" example:"Intro to Programming"`
	Description       *string      `json:"description" db:"description"`
	Credits           int          `json:"credits" db:"credits" example:"3"`
	Instructor        *string      `json:"instructor" db:"instructor" example:"Dr. Hopper"`
	MaxCapacity       int          `json:"max_capacity" db:"max_capacity" example:"50"`
	CurrentEnrollment int          `json:"current_enrollment" db:"current_enrollment" example:"12"`
	Status            CourseStatus `json:"status" db:"status" example:"active"`
}

// IsActive reports whether new enrollments may target the course.
func (c *Course) IsActive() bool {
	return c.Status == CourseStatusActive
}

// IsFull reports whether the occupancy counter has reached capacity.
func (c *Course) IsFull() bool {
	return c.CurrentEnrollment >= c.MaxCapacity
}

// CoursePatch holds the fields of a partial course update. nil means unchanged.
type CoursePatch struct {
	CourseCode  *string
	CourseName  *string
	Description *string
	Credits     *int
	Instructor  *string
	MaxCapacity *int
	Status      *CourseStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p CoursePatch) IsEmpty() bool {
	return p.CourseCode == nil && p.CourseName == nil && p.Description == nil &&
		p.Credits == nil && p.Instructor == nil && p.MaxCapacity == nil && p.Status == nil
}
