package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/edutrack/internal/app/models"
	"github.com/yigit/edutrack/internal/app/models/dto"
	"github.com/yigit/edutrack/internal/app/repositories"
	"github.com/yigit/edutrack/internal/pkg/apperrors"
	"github.com/yigit/edutrack/internal/pkg/auth"
	"github.com/yigit/edutrack/internal/pkg/session"
)

// AuthService handles admin login and session validation
type AuthService struct {
	adminRepo  AdminRepository
	jwtService *auth.JWTService
	sessions   session.Store
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	adminRepo AdminRepository,
	jwtService *auth.JWTService,
	sessions session.Store,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		jwtService: jwtService,
		sessions:   sessions,
		logger:     logger,
		now:        time.Now,
	}
}

// Login checks the credentials and opens a session
func (s *AuthService) Login(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.logger.Warn().Str("username", username).Msg("Login attempt for unknown admin")
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, msgInvalidCredential)
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if !auth.CheckPassword(admin.PasswordHash, password) {
		s.logger.Warn().Str("username", username).Msg("Login attempt with wrong password")
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, msgInvalidCredential)
	}

	issued, err := s.jwtService.GenerateToken(admin.Username)
	if err != nil {
		return nil, err
	}

	sess := session.Session{ID: issued.SessionID, Username: admin.Username, ExpiresAt: issued.ExpiresAt}
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("Failed to store session")
		return nil, apperrors.NewUnavailableError("Session store unavailable")
	}

	s.logger.Info().Str("username", admin.Username).Time("expiresAt", issued.ExpiresAt).Msg("Admin logged in")
	return &dto.LoginResponse{
		Token:     issued.Token,
		TokenType: "Bearer",
		ExpiresAt: issued.ExpiresAt,
		Username:  admin.Username,
	}, nil
}

// Validate resolves a bearer token to the principal of its live session.
// An expired session is removed from the store.
func (s *AuthService) Validate(ctx context.Context, token string) (*models.Principal, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			s.revoke(ctx, claims.ID)
			return nil, apperrors.NewCustomError(apperrors.ErrTokenExpired, "Token expired")
		}
		return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Invalid or expired token")
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Invalid or expired token")
		}
		s.logger.Error().Err(err).Msg("Failed to read session")
		return nil, apperrors.NewUnavailableError("Session store unavailable")
	}

	if sess.Expired(s.now()) {
		s.revoke(ctx, sess.ID)
		return nil, apperrors.NewCustomError(apperrors.ErrTokenExpired, "Token expired")
	}
	if sess.Username != claims.Username {
		return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Invalid or expired token")
	}

	return &models.Principal{
		Username:  sess.Username,
		SessionID: sess.ID,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

// Logout revokes a session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Error().Err(err).Msg("Failed to revoke session")
		return apperrors.NewUnavailableError("Session store unavailable")
	}
	return nil
}

func (s *AuthService) revoke(ctx context.Context, sessionID string) {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to remove expired session")
	}
}
