package models

import "time"

// Enrollment links one student to one course.
type Enrollment struct {
	ID             int64            `json:"enrollment_id" db:"enrollment_id" example:"1"`
	StudentID      int64            `json:"student_id" db:"student_id" example:"1"`
	CourseID       int64            `json:"course_id" db:"course_id" example:"1"`
	EnrollmentDate time.Time        `json:"enrollment_date" db:"enrollment_date"`
	Grade          *string          `json:"grade" db:"grade" example:"A"`
	Status         EnrollmentStatus `json:"status" db:"status" example:"enrolled"`
}

// EnrollmentDetail enriches Enrollment with student and course display fields.
type EnrollmentDetail struct {
	Enrollment
	StudentName  string  `json:"student_name" db:"student_name"`
	StudentEmail string  `json:"student_email" db:"student_email"`
	StudentPhone *string `json:"student_phone" db:"student_phone"`
	CourseCode   string  `json:"course_code" db:"course_code"`
	CourseName   string  `json:"course_name" db:"course_name"`
	Credits      int     `json:"credits" db:"credits"`
	Instructor   *string `json:"instructor" db:"instructor"`
}

// EnrollmentFilter scopes an enrollment listing. Zero values mean unscoped.
type EnrollmentFilter struct {
	StudentID int64
	CourseID  int64
}

// EnrollmentPatch holds the mutable enrollment fields. nil means unchanged.
type EnrollmentPatch struct {
	Grade  *string
	Status *EnrollmentStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p EnrollmentPatch) IsEmpty() bool {
	return p.Grade == nil && p.Status == nil
}
