package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/edutrack/internal/app/models"
	"github.com/yigit/edutrack/internal/pkg/dberrors"
	"github.com/yigit/edutrack/internal/pkg/logger"
)

// AdminRepository handles admin account database operations
type AdminRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// GetByUsername retrieves an admin by username
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	sql, args, err := r.sb.Select("admin_id", "username", "password_hash", "created_at").
		From("admins").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	var admin models.Admin
	err = r.db.QueryRow(ctx, sql, args...).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("username", username).Msg("Error retrieving admin")
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}
	return &admin, nil
}

// Create inserts an admin account
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	sql, args, err := r.sb.Insert("admins").
		Columns("username", "password_hash").
		Values(admin.Username, admin.PasswordHash).
		Suffix("RETURNING admin_id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create admin query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "admins_username_key") {
			return ErrUsernameExists
		}
		logger.Error().Err(err).Str("username", admin.Username).Msg("Error creating admin")
		return fmt.Errorf("error creating admin: %w", err)
	}

	logger.Info().Str("username", admin.Username).Msg("Admin account created")
	return nil
}
