package dto

import (
	"time"

	"github.com/techhub/server/internal/app/models"
	"github.com/techhub/server/internal/pkg/validation"
)

// UserResponse is the public view of a user.
type UserResponse struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Role        models.RoleType    `json:"role"`
	Chapter     string             `json:"chapter,omitempty"`
	Bio         string             `json:"bio,omitempty"`
	Skills      []string           `json:"skills"`
	SocialLinks models.SocialLinks `json:"socialLinks"`
	Avatar      string             `json:"avatar,omitempty"`
	IsActive    bool               `json:"isActive"`
	LastLoginAt *time.Time         `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// NewUserResponse converts a user model into its response shape.
func NewUserResponse(u *models.User) UserResponse {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Chapter:     u.Chapter,
		Bio:         u.Bio,
		Skills:      skills,
		SocialLinks: u.SocialLinks,
		Avatar:      u.Avatar,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// UserEnvelope wraps a single user.
type UserEnvelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    UserResponse `json:"user"`
}

// SocialLinksRequest carries optional profile links; each is checked on its own.
type SocialLinksRequest struct {
	Github   *string `json:"github" validate:"omitempty,weburl"`
	LinkedIn *string `json:"linkedin" validate:"omitempty,weburl"`
	Twitter  *string `json:"twitter" validate:"omitempty,weburl"`
	Website  *string `json:"website" validate:"omitempty,weburl"`
}

// UpdateProfileRequest is a partial update; nil fields are left untouched.
type UpdateProfileRequest struct {
	Name        *string             `json:"name" validate:"omitempty,min=2,max=50"`
	Bio         *string             `json:"bio" validate:"omitempty,max=500"`
	Skills      []string            `json:"skills" validate:"omitempty,dive,min=1,max=50"`
	SocialLinks *SocialLinksRequest `json:"socialLinks"`
	Avatar      *string             `json:"avatar" validate:"omitempty,weburl"`
}

func (r *UpdateProfileRequest) Normalize() {
	trimPtr(r.Name)
	trimPtr(r.Bio)
	trimPtr(r.Avatar)
	for i := range r.Skills {
		r.Skills[i] = validation.CleanText(r.Skills[i])
	}
	if r.SocialLinks != nil {
		trimPtr(r.SocialLinks.Github)
		trimPtr(r.SocialLinks.LinkedIn)
		trimPtr(r.SocialLinks.Twitter)
		trimPtr(r.SocialLinks.Website)
	}
}

func (r *UpdateProfileRequest) ValidationMessages() validation.Messages {
	return validation.Messages{
		"name":                 "Name must be between 2 and 50 characters",
		"bio":                  "Bio cannot be more than 500 characters",
		"skills.*":             "Each skill must be between 1 and 50 characters",
		"socialLinks.github":   "GitHub URL must be valid",
		"socialLinks.linkedin": "LinkedIn URL must be valid",
		"socialLinks.twitter":  "Twitter URL must be valid",
		"socialLinks.website":  "Website URL must be valid",
		"avatar":               "Avatar URL must be valid",
	}
}

// ApplyTo copies the present fields onto u.
func (r *UpdateProfileRequest) ApplyTo(u *models.User) {
	if r.Name != nil {
		u.Name = *r.Name
	}
	if r.Bio != nil {
		u.Bio = *r.Bio
	}
	if r.Skills != nil {
		u.Skills = append([]string{}, r.Skills...)
	}
	if r.Avatar != nil {
		u.Avatar = *r.Avatar
	}
	if l := r.SocialLinks; l != nil {
		if l.Github != nil {
			u.SocialLinks.Github = *l.Github
		}
		if l.LinkedIn != nil {
			u.SocialLinks.LinkedIn = *l.LinkedIn
		}
		if l.Twitter != nil {
			u.SocialLinks.Twitter = *l.Twitter
		}
		if l.Website != nil {
			u.SocialLinks.Website = *l.Website
		}
	}
}

// ChangePasswordRequest represents the change-password body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
}

func (r *ChangePasswordRequest) ValidationMessages() validation.Messages {
	return validation.Messages{
		"currentPassword": "Current password is required",
		"newPassword":     "New password must be at least 6 characters long",
		"confirmPassword": "Password confirmation does not match password",
	}
}

func trimPtr(s *string) {
	if s != nil {
		*s = validation.CleanText(*s)
	}
}
