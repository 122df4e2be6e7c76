package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/techhub/server/internal/app/models"
	appRepos "github.com/techhub/server/internal/app/repositories"
	"github.com/techhub/server/internal/pkg/apperrors"
	"github.com/techhub/server/internal/pkg/auth"
	"github.com/techhub/server/internal/pkg/validation"
)

// Admin describes the administrator account created at startup.
type Admin struct {
	Name     string
	Email    string
	Password string
}

// CreateDefaultData makes sure the configured administrator exists. Admins
// cannot sign up through the API, so this is the only way to get one.
// An empty email disables seeding.
func CreateDefaultData(ctx context.Context, users appRepos.IUserRepository, admin Admin, lgr zerolog.Logger) error {
	email := validation.NormalizeEmail(admin.Email)
	if email == "" {
		lgr.Debug().Msg("No admin account configured, skipping seed")
		return nil
	}
	if len(admin.Password) < 6 {
		return fmt.Errorf("admin password must be at least 6 characters")
	}

	exists, err := users.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("checking admin account: %w", err)
	}
	if exists {
		lgr.Info().Str("email", email).Msg("Admin account already present")
		return nil
	}

	hashed, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	name := validation.CleanText(admin.Name)
	if name == "" {
		name = "Administrator"
	}

	user := &appModels.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     appModels.RoleAdmin,
		Skills:   []string{},
		IsActive: true,
	}
	if err := users.Create(ctx, user); err != nil {
		// Another instance seeded concurrently.
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return fmt.Errorf("creating admin account: %w", err)
	}

	lgr.Info().Int64("userID", user.ID).Str("email", email).Msg("Admin account created")
	return nil
}
