package services

import (
	"context"
	"time"

	"github.com/yigit/edutrack/internal/pkg/apperrors"
)

// Pinger is implemented by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService reports whether the datastore is reachable
type HealthService struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthService creates a new HealthService
func NewHealthService(db Pinger) *HealthService {
	return &HealthService{db: db, timeout: 3 * time.Second}
}

// Check pings the datastore
func (s *HealthService) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		return apperrors.NewUnavailableError("Service unhealthy: database unreachable")
	}
	return nil
}
