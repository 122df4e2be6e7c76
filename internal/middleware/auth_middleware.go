package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	authz "github.com/techhub/server/internal/app/auth"
	"github.com/techhub/server/internal/app/models"
	"github.com/techhub/server/internal/app/models/dto"
	"github.com/techhub/server/internal/pkg/auth"
)

// Context keys set by JWTAuth and OptionalAuth.
const (
	UserIDKey   = "userID"
	EmailKey    = "email"
	RoleTypeKey = "roleType"
	userKey     = "user"
)

// UserResolver loads the account behind a token and rejects deleted or
// deactivated users.
type UserResolver interface {
	ResolveUser(ctx context.Context, userID int64) (*models.User, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      UserResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (*models.User, error) {
	tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		return nil, err
	}

	claims, err := m.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	// The stored role wins over the claim so role changes apply immediately.
	return m.users.ResolveUser(c.Request.Context(), claims.UserID)
}

func setUser(c *gin.Context, user *models.User) {
	c.Set(UserIDKey, user.ID)
	c.Set(EmailKey, user.Email)
	c.Set(RoleTypeKey, user.Role)
	c.Set(userKey, user)
}

// JWTAuth rejects requests without a valid bearer token for an active user.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.authenticate(c)
		if err != nil {
			HandleAPIError(c, err)
			return
		}
		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is sent and lets
// anonymous requests through otherwise.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if user, err := m.authenticate(c); err == nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

// RoleRequired lets the request through when the caller holds one of roles.
// It must run after JWTAuth.
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(RoleTypeKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Not authorized, no token")))
			return
		}

		roleType, _ := role.(models.RoleType)
		for _, allowed := range roles {
			if roleType == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeForbidden,
				"User role "+string(roleType)+" is not authorized to access this route")))
	}
}

// GetActor returns the authenticated caller, if any.
func GetActor(c *gin.Context) (authz.Actor, bool) {
	id, ok := c.Get(UserIDKey)
	if !ok {
		return authz.Actor{}, false
	}
	userID, ok := id.(int64)
	if !ok {
		return authz.Actor{}, false
	}
	role, _ := c.Get(RoleTypeKey)
	roleType, _ := role.(models.RoleType)
	return authz.Actor{UserID: userID, Role: roleType}, true
}

// GetUser returns the user loaded by JWTAuth or OptionalAuth.
func GetUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
