package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/edutrack/internal/app/models"
	appRepos "github.com/yigit/edutrack/internal/app/repositories"
	"github.com/yigit/edutrack/internal/pkg/auth"
)

// AdminStore is the subset of the admin repository the seeder needs
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (*appModels.Admin, error)
	Create(ctx context.Context, admin *appModels.Admin) error
}

// DefaultAdmin describes the account created on first start.
type DefaultAdmin struct {
	Username string
	Password string
}

// CreateDefaultAdmin creates the configured admin account if it doesn't exist.
// An empty password disables seeding.
func CreateDefaultAdmin(ctx context.Context, admins AdminStore, def DefaultAdmin, lgr zerolog.Logger) error {
	if def.Username == "" || def.Password == "" {
		lgr.Warn().Msg("No default admin credentials configured, skipping admin seed")
		return nil
	}

	_, err := admins.GetByUsername(ctx, def.Username)
	if err == nil {
		lgr.Debug().Str("username", def.Username).Msg("Default admin already present")
		return nil
	}
	if !errors.Is(err, appRepos.ErrNotFound) {
		return fmt.Errorf("failed to look up default admin: %w", err)
	}

	hash, err := auth.HashPassword(def.Password)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	admin := &appModels.Admin{Username: def.Username, PasswordHash: hash}
	err = admins.Create(ctx, admin)
	if errors.Is(err, appRepos.ErrUsernameExists) {
		// Another instance seeded it first.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	lgr.Info().Str("username", def.Username).Msg("Default admin created")
	return nil
}
