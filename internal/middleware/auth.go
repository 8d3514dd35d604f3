// Package middleware provides HTTP middleware for the expense service.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafaelmolinari2019/expensaflow-app/internal/models"
	"github.com/rafaelmolinari2019/expensaflow-app/internal/service"
)

// identityKey is the gin context key the authenticated identity is
// stored under for the duration of a request.
const identityKey = "identity"

// RequireAuth returns middleware that validates the bearer token and
// attaches the caller's identity to the request context.
//
// A missing token yields 401; a token that fails signature or expiry
// checks yields 403. The two outcomes are deliberately distinct.
func RequireAuth(jwtService service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}

		c.Set(identityKey, models.Identity{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// RequireOperation returns middleware that rejects callers whose role is
// not permitted to perform op. Must run after RequireAuth.
func RequireOperation(op models.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			return
		}
		if !models.Allowed(ident.Role, op) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}

// IdentityFrom retrieves the authenticated identity set by RequireAuth.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	ident, ok := value.(models.Identity)
	return ident, ok
}

func extractBearerToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	parts := strings.Split(bearerToken, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
