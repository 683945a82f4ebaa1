package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tutorhub/selection/internal/app/models"
	"github.com/tutorhub/selection/internal/app/models/dto"
	"github.com/tutorhub/selection/internal/app/repositories"
	"github.com/tutorhub/selection/internal/pkg/apperrors"
	"github.com/tutorhub/selection/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// AccountLookup loads the account behind a token
type AccountLookup interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      AccountLookup
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, users AccountLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			errorCode, details := dto.ErrorCodeInvalidToken, "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode, details = dto.ErrorCodeExpiredToken, "Token has expired"
			}
			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(details)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		// Blocking takes effect on the next request, not when the token expires.
		user, err := m.users.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed").
					WithDetails("Account no longer exists")
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
				return
			}
			HandleAPIError(c, err)
			return
		}
		if user.IsBlocked {
			HandleAPIError(c, apperrors.ErrAccountDisabled)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// RoleRequired middleware to check if user has one of the allowed roles
func (m *AuthMiddleware) RoleRequired(allowed ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CurrentRole(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("User role not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		for _, r := range allowed {
			if r == role {
				c.Next()
				return
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
			WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}

// CurrentRole returns the role JWTAuth stored on the context
func CurrentRole(c *gin.Context) (models.RoleType, bool) {
	v, ok := c.Get(ContextRole)
	if !ok {
		return "", false
	}
	role, ok := v.(models.RoleType)
	return role, ok
}

// CurrentEmail returns the email JWTAuth stored on the context
func CurrentEmail(c *gin.Context) string {
	return c.GetString(ContextEmail)
}

// CurrentUserID returns the user id JWTAuth stored on the context
func CurrentUserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}
