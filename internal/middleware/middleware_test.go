package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techhub/server/internal/app/models"
	"github.com/techhub/server/internal/app/models/dto"
	"github.com/techhub/server/internal/pkg/apperrors"
	"github.com/techhub/server/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"custom not found", apperrors.NewResourceNotFoundError("User not found"), 404, dto.ErrorCodeResourceNotFound, "User not found"},
		{"event not found", apperrors.NewCustomError(apperrors.ErrEventNotFound, "Event not found"), 404, dto.ErrorCodeResourceNotFound, "Event not found"},
		{"forbidden", apperrors.NewForbiddenError("Not authorized to manage this event"), 403, dto.ErrorCodeForbidden, "Not authorized to manage this event"},
		{"credentials", apperrors.ErrInvalidCredentials, 401, dto.ErrorCodeInvalidCredentials, "Invalid email or password"},
		{"expired", apperrors.ErrTokenExpired, 401, dto.ErrorCodeExpiredToken, "Token has expired"},
		{"disabled", apperrors.NewCustomError(apperrors.ErrAccountDisabled, "Account has been deactivated"), 401, dto.ErrorCodeAccountDisabled, "Account has been deactivated"},
		{"email taken", apperrors.ErrEmailAlreadyExists, 409, dto.ErrorCodeResourceAlreadyExists, "User already exists with this email"},
		{"event full", apperrors.NewCustomError(apperrors.ErrEventFull, "Event is full"), 409, dto.ErrorCodeConflict, "Event is full"},
		{"deadline", apperrors.ErrRegistrationDeadline, 400, dto.ErrorCodeBadRequest, "Registration deadline has passed"},
		{"wrong password", apperrors.ErrIncorrectPassword, 400, dto.ErrorCodeBadRequest, "Current password is incorrect"},
		{"wrapped sentinel", fmt.Errorf("loading: %w", apperrors.ErrUserNotFound), 404, dto.ErrorCodeResourceNotFound, "User not found"},
		{"unknown", errors.New("connection reset"), 500, dto.ErrorCodeInternalServer, "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { HandleAPIError(c, tt.err) })

			w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, w.Code)

			resp := decode(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Message)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleAPIErrorValidation(t *testing.T) {
	verr := apperrors.NewValidationError().
		Add("endDate", "End date must be after start date").
		Add("location.venue", "Venue is required for physical events")

	r := gin.New()
	r.GET("/", func(c *gin.Context) { HandleAPIError(c, fmt.Errorf("create: %w", verr)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode(t, w)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "location.venue", resp.Errors[1].Field)
}

func TestBindAndValidate(t *testing.T) {
	newRouter := func() *gin.Engine {
		r := gin.New()
		r.Use(BodyLimit(256))
		r.POST("/", func(c *gin.Context) {
			var req dto.SignupRequest
			if !BindAndValidate(c, &req) {
				return
			}
			c.JSON(http.StatusOK, req)
		})
		return r
	}

	t.Run("valid body is normalized", func(t *testing.T) {
		body := `{"name":"  Al ","email":"AL@Example.COM","password":"secret1","role":"member"}`
		w := serve(newRouter(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got dto.SignupRequest
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Al", got.Name)
		assert.Equal(t, "al@example.com", got.Email)
	})

	t.Run("field errors", func(t *testing.T) {
		body := `{"name":"A","email":"a@b.com","password":"secret1","role":"chapter_leader"}`
		w := serve(newRouter(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := decode(t, w)
		fields := map[string]string{}
		for _, f := range resp.Errors {
			fields[f.Field] = f.Message
		}
		assert.Equal(t, "Name must be between 2 and 50 characters", fields["name"])
		assert.Equal(t, "Chapter is required for chapter leaders", fields["chapter"])
	})

	t.Run("malformed json", func(t *testing.T) {
		w := serve(newRouter(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrorCodeBadRequest, decode(t, w).Error.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		w := serve(newRouter(), httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Request body is required", decode(t, w).Message)
	})

	t.Run("oversized body", func(t *testing.T) {
		body := `{"name":"` + strings.Repeat("a", 400) + `"}`
		w := serve(newRouter(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, dto.ErrorCodePayloadTooLarge, decode(t, w).Error.Code)
	})
}

type stubResolver struct {
	users map[int64]*models.User
}

func (s stubResolver) ResolveUser(_ context.Context, id int64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrTokenInvalid, "User no longer exists")
	}
	if !u.IsActive {
		return nil, apperrors.NewCustomError(apperrors.ErrAccountDisabled, "Account has been deactivated")
	}
	return u, nil
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "s3cret", AccessTokenExp: time.Hour, TokenIssuer: "techhub"})
	leader := &models.User{ID: 5, Email: "lead@example.com", Role: models.RoleChapterLeader, IsActive: true}
	member := &models.User{ID: 9, Email: "mem@example.com", Role: models.RoleMember, IsActive: true}
	gone := &models.User{ID: 11, Email: "gone@example.com", Role: models.RoleMember, IsActive: false}
	m := NewAuthMiddleware(jwtService, stubResolver{users: map[int64]*models.User{5: leader, 9: member, 11: gone}})

	token := func(u *models.User) string {
		tok, _, err := jwtService.GenerateToken(u)
		require.NoError(t, err)
		return "Bearer " + tok
	}

	r := gin.New()
	r.GET("/private", m.JWTAuth(), func(c *gin.Context) {
		actor, ok := GetActor(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": actor.UserID, "role": actor.Role})
	})
	r.POST("/organize", m.JWTAuth(), m.RoleRequired(models.RoleChapterLeader, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/optional", m.OptionalAuth(), func(c *gin.Context) {
		_, ok := GetActor(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	request := func(method, path, authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		return serve(r, req)
	}

	t.Run("missing token", func(t *testing.T) {
		w := request(http.MethodGet, "/private", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrorCodeTokenNotFound, decode(t, w).Error.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := request(http.MethodGet, "/private", "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrorCodeInvalidToken, decode(t, w).Error.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := request(http.MethodGet, "/private", token(member))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":9,"role":"member"}`, w.Body.String())
	})

	t.Run("deactivated user", func(t *testing.T) {
		w := request(http.MethodGet, "/private", token(gone))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Account has been deactivated", decode(t, w).Message)
	})

	t.Run("role allowed", func(t *testing.T) {
		w := request(http.MethodPost, "/organize", token(leader))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("role denied", func(t *testing.T) {
		w := request(http.MethodPost, "/organize", token(member))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "User role member is not authorized to access this route", decode(t, w).Message)
	})

	t.Run("optional auth", func(t *testing.T) {
		assert.JSONEq(t, `{"authenticated":false}`, request(http.MethodGet, "/optional", "").Body.String())
		assert.JSONEq(t, `{"authenticated":false}`, request(http.MethodGet, "/optional", "Bearer junk").Body.String())
		assert.JSONEq(t, `{"authenticated":true}`, request(http.MethodGet, "/optional", token(leader)).Body.String())
	})
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000/"}, zerolog.Nop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = serve(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), SecurityHeaders(false))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Header().Get("X-Request-ID")
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "5f0c6c1e-8d55-4b54-9d0e-6a2b0c1d2e3f")
	w = serve(r, req)
	assert.Equal(t, "5f0c6c1e-8d55-4b54-9d0e-6a2b0c1d2e3f", w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "<script>")
	w = serve(r, req)
	assert.NotEqual(t, "<script>", w.Header().Get("X-Request-ID"))
}

func TestNotFoundAndRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zerolog.Nop()))
	r.NoRoute(NotFound())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/nope?x=1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Route /api/nope?x=1 not found", resp.Message)
	assert.Equal(t, dto.ErrorCodeRouteNotFound, resp.Error.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error", decode(t, w).Message)
}

func TestRateLimit(t *testing.T) {
	store := NewLimiterStore(RateLimitConfig{Requests: 2, Window: time.Minute})

	r := gin.New()
	r.Use(RateLimit(store))
	r.GET("/api/events", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/api/events", nil)).Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Equal(t, dto.ErrorCodeRateLimited, decode(t, w).Error.Code)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	}

	other := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	other.RemoteAddr = "10.1.2.3:4567"
	assert.Equal(t, http.StatusOK, serve(r, other).Code)
}

func TestLimiterStoreCleanup(t *testing.T) {
	store := NewLimiterStore(RateLimitConfig{Requests: 10, Window: time.Minute})
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.get("1.1.1.1")
	now = now.Add(30 * time.Second)
	store.get("2.2.2.2")
	now = now.Add(45 * time.Second)

	store.Cleanup()
	assert.Equal(t, 1, store.Len())
}
