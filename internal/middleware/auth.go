package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/jwt"

	"github.com/eimonte/estate/internal/domain"
	"github.com/eimonte/estate/internal/pkg"
)

const (
	userIDContextKey = "auth_user_id"
	rolesContextKey  = "auth_roles"
)

// Auth returns a gin middleware that authenticates requests with a bearer
// token. It extracts the token from the Authorization header, validates
// signature and expiry, and stores the identity on the context. Missing,
// malformed, invalid, or expired tokens abort the request with 401.
func Auth(jwtService jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c, "authentication required")
			return
		}

		parsed, err := jwtService.ValidateAndParse(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(userIDContextKey, parsed.UserID)
		c.Set(rolesContextKey, parsed.Roles)
		c.Next()
	}
}

// RequireAdmin returns a gin middleware that allows the request through only
// when the authenticated identity carries the admin role. It must be placed
// after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(GetRoles(c), domain.RoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, pkg.Response{
				Success: false,
				Message: "admin access required",
			})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id stored by Auth, or "".
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get(userIDContextKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetRoles returns the authenticated identity's roles stored by Auth.
func GetRoles(c *gin.Context) []string {
	if v, ok := c.Get(rolesContextKey); ok {
		if roles, ok := v.([]string); ok {
			return roles
		}
	}
	return nil
}

func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, pkg.Response{
		Success: false,
		Message: message,
	})
}
