package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const (
	userIDKey   = "user_id"
	usernameKey = "username"
	claimsKey   = "token_claims"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// AuthMiddleware resolves the caller from the Authorization header. Requests
// without the header pass through as anonymous; a malformed, expired or
// revoked token is rejected with 401 on every route.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || (parts[0] != "Token" && parts[0] != "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authorization header format."})
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			if !errors.Is(err, service.ErrInvalidToken) {
				logger.Error(c.Request.Context()).Err(err).Msg("token validation failed")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token."})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(usernameKey, claims.Username)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests. It must run after AuthMiddleware.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Viewer(c).IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}
		c.Next()
	}
}

// Viewer returns the caller of the current request.
func Viewer(c *gin.Context) types.Viewer {
	if id, ok := c.Get(userIDKey); ok {
		if userID, ok := id.(uint); ok {
			return types.UserViewer(userID)
		}
	}
	return types.Anonymous()
}

// Claims returns the validated token of the current request, or nil.
func Claims(c *gin.Context) *types.TokenClaims {
	if v, ok := c.Get(claimsKey); ok {
		claims, _ := v.(*types.TokenClaims)
		return claims
	}
	return nil
}
