package session

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when no session is stored under an id.
var ErrSessionNotFound = errors.New("session not found")

// Session is an authenticated admin login.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store keeps admin sessions between requests.
type Store interface {
	Save(ctx context.Context, s Session) error
	// Get returns ErrSessionNotFound for unknown or revoked ids.
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
