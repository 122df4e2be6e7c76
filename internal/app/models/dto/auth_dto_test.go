package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techhub/server/internal/app/models"
	"github.com/techhub/server/internal/pkg/apperrors"
	"github.com/techhub/server/internal/pkg/validation"
)

func validationOf(t *testing.T, req interface{}) *apperrors.ValidationError {
	t.Helper()
	err := validation.Request(req)
	require.Error(t, err)
	verr, ok := apperrors.AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	return verr
}

func TestSignupRequestValidation(t *testing.T) {
	t.Run("minimal member signup is accepted", func(t *testing.T) {
		req := &SignupRequest{Name: "Al", Email: "a@b.com", Password: "secret1", Role: "member"}
		assert.NoError(t, validation.Request(req))
	})

	t.Run("one character name is rejected", func(t *testing.T) {
		req := &SignupRequest{Name: "A", Email: "a@b.com", Password: "secret1", Role: "member"}
		verr := validationOf(t, req)
		assert.Equal(t, "Name must be between 2 and 50 characters", verr.Message("name"))
	})

	t.Run("name over fifty characters is rejected", func(t *testing.T) {
		req := &SignupRequest{Name: strings.Repeat("n", 51), Email: "a@b.com", Password: "secret1"}
		assert.True(t, validationOf(t, req).Has("name"))
	})

	t.Run("chapter leader without chapter is rejected", func(t *testing.T) {
		req := &SignupRequest{Name: "Grace", Email: "g@b.com", Password: "secret1", Role: "chapter_leader", Chapter: "   "}
		verr := validationOf(t, req)
		assert.Equal(t, "Chapter is required for chapter leaders", verr.Message("chapter"))
	})

	t.Run("member is accepted with or without chapter", func(t *testing.T) {
		assert.NoError(t, validation.Request(&SignupRequest{Name: "Al", Email: "a@b.com", Password: "secret1", Role: "member"}))
		assert.NoError(t, validation.Request(&SignupRequest{Name: "Al", Email: "a@b.com", Password: "secret1", Role: "member", Chapter: "berlin"}))
	})

	t.Run("chapter leader with chapter is accepted", func(t *testing.T) {
		req := &SignupRequest{Name: "Grace", Email: "g@b.com", Password: "secret1", Role: "chapter_leader", Chapter: "berlin"}
		assert.NoError(t, validation.Request(req))
	})

	t.Run("admin cannot be self-assigned", func(t *testing.T) {
		req := &SignupRequest{Name: "Eve", Email: "e@b.com", Password: "secret1", Role: "admin"}
		verr := validationOf(t, req)
		assert.Equal(t, "Role must be either member or chapter_leader", verr.Message("role"))
	})

	t.Run("bad email and short password", func(t *testing.T) {
		req := &SignupRequest{Name: "Al", Email: "not-an-email", Password: "12345"}
		verr := validationOf(t, req)
		assert.Equal(t, "Please provide a valid email", verr.Message("email"))
		assert.Equal(t, "Password must be at least 6 characters long", verr.Message("password"))
	})

	t.Run("normalization", func(t *testing.T) {
		req := &SignupRequest{Name: "  Ada Lovelace ", Email: " Ada@Example.COM ", Password: "secret1"}
		require.NoError(t, validation.Request(req))
		assert.Equal(t, "Ada Lovelace", req.Name)
		assert.Equal(t, "ada@example.com", req.Email)
		assert.Equal(t, string(models.RoleMember), req.Role)
	})
}

func TestLoginRequestValidation(t *testing.T) {
	assert.NoError(t, validation.Request(&LoginRequest{Email: "A@B.com", Password: "x"}))

	verr := validationOf(t, &LoginRequest{Email: "a@b.com"})
	assert.Equal(t, "Password is required", verr.Message("password"))

	verr = validationOf(t, &LoginRequest{Email: "nope", Password: "secret"})
	assert.Equal(t, "Please provide a valid email", verr.Message("email"))
}

func strPtr(s string) *string { return &s }

func TestUpdateProfileRequest(t *testing.T) {
	t.Run("all fields optional", func(t *testing.T) {
		assert.NoError(t, validation.Request(&UpdateProfileRequest{}))
	})

	t.Run("each social link checked independently", func(t *testing.T) {
		req := &UpdateProfileRequest{SocialLinks: &SocialLinksRequest{
			Github:  strPtr("github.com/ada"),
			Twitter: strPtr("not a url"),
			Website: strPtr("https://ada.dev"),
		}}
		verr := validationOf(t, req)
		assert.Equal(t, "Twitter URL must be valid", verr.Message("socialLinks.twitter"))
		assert.False(t, verr.Has("socialLinks.github"))
		assert.False(t, verr.Has("socialLinks.website"))
	})

	t.Run("bio and skills limits", func(t *testing.T) {
		req := &UpdateProfileRequest{
			Bio:    strPtr(strings.Repeat("b", 501)),
			Skills: []string{"go", strings.Repeat("s", 51)},
		}
		verr := validationOf(t, req)
		assert.Equal(t, "Bio cannot be more than 500 characters", verr.Message("bio"))
		assert.Equal(t, "Each skill must be between 1 and 50 characters", verr.Message("skills[1]"))
	})

	t.Run("blank name is rejected when present", func(t *testing.T) {
		verr := validationOf(t, &UpdateProfileRequest{Name: strPtr("   ")})
		assert.True(t, verr.Has("name"))
	})

	t.Run("apply copies only present fields", func(t *testing.T) {
		user := &models.User{Name: "Ada", Bio: "old", Skills: []string{"c"}, SocialLinks: models.SocialLinks{Github: "github.com/old"}}
		req := &UpdateProfileRequest{
			Bio:         strPtr("new"),
			SocialLinks: &SocialLinksRequest{Website: strPtr("ada.dev")},
		}
		req.ApplyTo(user)

		assert.Equal(t, "Ada", user.Name)
		assert.Equal(t, "new", user.Bio)
		assert.Equal(t, []string{"c"}, user.Skills)
		assert.Equal(t, "github.com/old", user.SocialLinks.Github)
		assert.Equal(t, "ada.dev", user.SocialLinks.Website)
	})
}

func TestChangePasswordRequest(t *testing.T) {
	assert.NoError(t, validation.Request(&ChangePasswordRequest{CurrentPassword: "old", NewPassword: "secret1", ConfirmPassword: "secret1"}))

	verr := validationOf(t, &ChangePasswordRequest{NewPassword: "secret1", ConfirmPassword: "secret2"})
	assert.Equal(t, "Current password is required", verr.Message("currentPassword"))
	assert.Equal(t, "Password confirmation does not match password", verr.Message("confirmPassword"))

	verr = validationOf(t, &ChangePasswordRequest{CurrentPassword: "old", NewPassword: "123", ConfirmPassword: "123"})
	assert.Equal(t, "New password must be at least 6 characters long", verr.Message("newPassword"))
}
