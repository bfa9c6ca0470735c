package models

import "time"

// Admin is an account allowed to manage the course catalogue.
type Admin struct {
	ID           int64     `json:"id" db:"admin_id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Principal is the identity behind a validated admin token.
type Principal struct {
	Username  string
	SessionID string
	ExpiresAt time.Time
}
