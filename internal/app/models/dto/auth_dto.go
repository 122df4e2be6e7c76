package dto

import (
	"github.com/techhub/server/internal/app/models"
	"github.com/techhub/server/internal/pkg/validation"
)

// SignupRequest represents the signup request body
type SignupRequest struct {
	Name     string `json:"name" validate:"min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
	Role     string `json:"role" validate:"oneof=member chapter_leader"`
	Chapter  string `json:"chapter" validate:"required_if=Role chapter_leader"`
}

// Normalize trims input, lower-cases the email and defaults the role.
func (r *SignupRequest) Normalize() {
	r.Name = validation.CleanText(r.Name)
	r.Email = validation.NormalizeEmail(r.Email)
	r.Role = validation.CleanText(r.Role)
	if r.Role == "" {
		r.Role = string(models.RoleMember)
	}
	r.Chapter = validation.CleanText(r.Chapter)
}

func (r *SignupRequest) ValidationMessages() validation.Messages {
	return validation.Messages{
		"name":     "Name must be between 2 and 50 characters",
		"email":    "Please provide a valid email",
		"password": "Password must be at least 6 characters long",
		"role":     "Role must be either member or chapter_leader",
		"chapter":  "Chapter is required for chapter leaders",
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = validation.NormalizeEmail(r.Email)
}

func (r *LoginRequest) ValidationMessages() validation.Messages {
	return validation.Messages{
		"email":    "Please provide a valid email",
		"password": "Password is required",
	}
}

// AuthResult is what the auth service hands back after signup or login.
type AuthResult struct {
	Token string
	User  *models.User
}

// AuthResponse is the signup/login envelope.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}
