// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/techhub/server/internal/app/models"
	"github.com/techhub/server/internal/app/models/dto"
	"github.com/techhub/server/internal/middleware"
)

// AuthService is the account API the controller relies on.
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResult, error)
	GetMe(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error
	Deactivate(ctx context.Context, userID int64) error
}

// AuthController handles authentication related operations
type AuthController struct {
	authService AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Signup handles POST /api/auth/signup
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	result, err := c.authService.Signup(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.AuthResponse{
		Success: true,
		Message: "User registered successfully",
		Token:   result.Token,
		User:    dto.NewUserResponse(result.User),
	})
}

// Login handles POST /api/auth/login
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   result.Token,
		User:    dto.NewUserResponse(result.User),
	})
}

// GetMe handles GET /api/auth/me
func (c *AuthController) GetMe(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	user, err := c.authService.GetMe(ctx.Request.Context(), actor.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UserEnvelope{Success: true, User: dto.NewUserResponse(user)})
}

// UpdateProfile handles PUT /api/auth/profile
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	var req dto.UpdateProfileRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	user, err := c.authService.UpdateProfile(ctx.Request.Context(), actor.UserID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UserEnvelope{
		Success: true,
		Message: "Profile updated successfully",
		User:    dto.NewUserResponse(user),
	})
}

// ChangePassword handles PUT /api/auth/change-password
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	var req dto.ChangePasswordRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	if err := c.authService.ChangePassword(ctx.Request.Context(), actor.UserID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Password changed successfully"))
}

// Deactivate handles PUT /api/auth/deactivate
func (c *AuthController) Deactivate(ctx *gin.Context) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		unauthorized(ctx)
		return
	}

	if err := c.authService.Deactivate(ctx.Request.Context(), actor.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Account deactivated successfully"))
}

func unauthorized(ctx *gin.Context) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Not authorized, no token")))
}
