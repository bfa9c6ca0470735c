package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID               int64     `json:"student_id" db:"student_id" example:"1"`
	Name             string    `json:"name" db:"name" example:"Ada Lovelace"`
	Email            string    `json:"email" db:"email" example:"ada@example.edu"`
	Phone            *string   `json:"phone" db:"phone" example:"+1-555-0100"`
	RegistrationDate time.Time `json:"registration_date" db:"registration_date"`
}

// StudentPatch holds the fields of a partial student update. A nil field is
// left unchanged; there is no way to clear a column through a patch.
type StudentPatch struct {
	Name  *string
	Email *string
	Phone *string
}

// IsEmpty reports whether the patch changes nothing.
func (p StudentPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil
}
