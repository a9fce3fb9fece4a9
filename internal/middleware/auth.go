package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/edtech-scanner/app-auth/internal/models"
	"github.com/edtech-scanner/app-auth/internal/observability"
	"github.com/edtech-scanner/app-auth/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireAuth validates the bearer token on protected routes. A token
// must carry a valid signature, be unexpired, and not appear in the
// revocation registry.
func RequireAuth(tokens *services.TokenService, blacklist *services.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}
		token := parts[1]

		claims, err := tokens.Parse(token)
		if err != nil {
			observability.Logger().Debug("rejected session token",
				zap.String("token", observability.MaskToken(token)),
				zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		revoked, err := blacklist.IsRevoked(c.Request.Context(), token)
		if err != nil {
			observability.Logger().Error("failed to check token revocation", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate token"})
			c.Abort()
			return
		}
		if revoked {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Set("token", token)
		c.Next()
	}
}

// ClaimsFromContext returns the session claims stored by RequireAuth
func ClaimsFromContext(c *gin.Context) (*models.SessionClaims, error) {
	value, exists := c.Get("claims")
	if !exists {
		return nil, fmt.Errorf("claims not found")
	}

	claims, ok := value.(*models.SessionClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims type")
	}
	return claims, nil
}

// SubjectFromContext returns the authenticated subject ID
func SubjectFromContext(c *gin.Context) (string, error) {
	claims, err := ClaimsFromContext(c)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// TokenFromContext returns the raw bearer token stored by RequireAuth
func TokenFromContext(c *gin.Context) (string, error) {
	value, exists := c.Get("token")
	if !exists {
		return "", fmt.Errorf("token not found")
	}

	token, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("invalid token type")
	}
	return token, nil
}
