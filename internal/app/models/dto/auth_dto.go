package dto

import "time"

// LoginRequest represents admin credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"secret"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token     string    `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	TokenType string    `json:"token_type" example:"Bearer"`
	ExpiresAt time.Time `json:"expires_at" example:"2025-04-23T20:01:05Z"`
	Username  string    `json:"username" example:"admin"`
}
