package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yigit/edutrack/internal/app/models"
	"github.com/yigit/edutrack/internal/pkg/apperrors"
	"github.com/yigit/edutrack/internal/pkg/auth"
)

const principalKey = "principal"

// TokenValidator resolves a bearer token to the admin behind it
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*models.Principal, error)
}

// AuthMiddleware guards admin-only routes
type AuthMiddleware struct {
	validator TokenValidator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// AdminAuth requires a valid admin bearer token
func (m *AuthMiddleware) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, auth.ErrMissingHeader) {
				HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrTokenMissing, "Authorization header missing"))
				return
			}
			HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrInvalidFormat, "Invalid authorization header format"))
			return
		}

		principal, err := m.validator.Validate(c.Request.Context(), token)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// GetPrincipal returns the admin authenticated by AdminAuth
func GetPrincipal(c *gin.Context) (*models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	principal, ok := v.(*models.Principal)
	return principal, ok
}
