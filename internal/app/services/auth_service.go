package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/techhub/server/internal/app/models"
	"github.com/techhub/server/internal/app/models/dto"
	"github.com/techhub/server/internal/app/repositories"
	"github.com/techhub/server/internal/pkg/apperrors"
	"github.com/techhub/server/internal/pkg/auth"
	"github.com/techhub/server/internal/pkg/email"
	"github.com/techhub/server/internal/pkg/metrics"
)

// AuthService handles authentication and account operations
type AuthService struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	mailer     email.EmailService
	logger     zerolog.Logger

	hashCost int
	// dispatch runs fire-and-forget work such as notification mail.
	dispatch func(func())
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	jwtService *auth.JWTService,
	mailer email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		mailer:     mailer,
		logger:     logger,
		hashCost:   auth.BcryptCost,
		dispatch:   func(f func()) { go f() },
	}
}

var errInvalidLogin = apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Invalid email or password")

// Signup creates a member or chapter leader account and signs them in.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResult, error) {
	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "User already exists with this email")
	}

	hashedPassword, err := auth.HashPasswordWithCost(req.Password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     models.RoleType(req.Role),
		Skills:   []string{},
		IsActive: true,
	}
	if user.Role == models.RoleChapterLeader {
		user.Chapter = req.Chapter
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "User already exists with this email")
		}
		return nil, err
	}

	token, _, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	metrics.SignupsTotal.WithLabelValues(string(user.Role)).Inc()
	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User signed up")

	name, addr := user.Name, user.Email
	s.dispatch(func() {
		if err := s.mailer.SendWelcomeEmail(addr, name); err != nil {
			s.logger.Error().Err(err).Str("email", addr).Msg("Failed to send welcome email")
		}
	})

	return &dto.AuthResult{Token: token, User: user}, nil
}

// Login checks credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			return nil, errInvalidLogin
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		s.logger.Warn().Int64("userID", user.ID).Msg("Login with wrong password")
		return nil, errInvalidLogin
	}

	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("disabled").Inc()
		return nil, apperrors.NewCustomError(apperrors.ErrAccountDisabled, "Account has been deactivated")
	}

	token, _, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login time")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &dto.AuthResult{Token: token, User: user}, nil
}

// GetMe returns the account of the authenticated user.
func (s *AuthService) GetMe(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("User not found")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a partial profile update.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(user)
	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", userID).Msg("Profile updated")
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.GetMe(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.NewCustomError(apperrors.ErrIncorrectPassword, "Current password is incorrect")
	}

	hashedPassword, err := auth.HashPasswordWithCost(req.NewPassword, s.hashCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", userID).Msg("Password changed")
	return nil
}

// Deactivate disables the account. Existing tokens stop working because the
// auth middleware reloads the user on every request.
func (s *AuthService) Deactivate(ctx context.Context, userID int64) error {
	if err := s.userRepo.SetActive(ctx, userID, false); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.NewResourceNotFoundError("User not found")
		}
		return err
	}
	s.logger.Info().Int64("userID", userID).Msg("Account deactivated")
	return nil
}

// ResolveUser loads the active user behind token claims.
func (s *AuthService) ResolveUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "User no longer exists")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewCustomError(apperrors.ErrAccountDisabled, "Account has been deactivated")
	}
	return user, nil
}
