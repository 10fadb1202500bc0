package middleware

import (
	"net/http"
	"strings"

	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/token"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Identity is the authenticated caller extracted from a session credential
type Identity struct {
	UserID         string
	GitHubUsername string
	Role           string
}

// RequireAuth verifies the Authorization bearer token and stores the caller
// identity in the request context. Requests without a valid credential are
// rejected with 401.
func RequireAuth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unauthorized",
				"message": "Authorization header required",
			})
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unauthorized",
				"message": "Authorization header must use Bearer scheme",
			})
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unauthorized",
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(identityKey, Identity{
			UserID:         claims.UserID,
			GitHubUsername: claims.GitHubUsername,
			Role:           claims.Role,
		})
		c.Next()
	}
}

// RequireAdmin rejects callers whose credential does not carry the admin
// role. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok || identity.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "forbidden",
				"message": "Admin access required",
			})
			return
		}
		c.Next()
	}
}

// GetIdentity returns the caller identity set by RequireAuth
func GetIdentity(c *gin.Context) (Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}
