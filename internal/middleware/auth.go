package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hack2025/volunteer-hub/internal/utils"
	"github.com/hack2025/volunteer-hub/pkg/response"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// AuthRequired is a middleware that checks for a valid session token. The
// token subject is the identity-provider user id.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Unauthorized")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID())
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// OptionalAuth records the caller when a valid token is present and lets
// anonymous requests through untouched.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := utils.ParseToken(parts[1]); err == nil {
				c.Set(ContextUserID, claims.UserID())
				c.Set(ContextRole, claims.Role)
			}
		}
		c.Next()
	}
}

// AdminRequired lets through callers whose organization role is adminRole.
func AdminRequired(adminRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != adminRole || adminRole == "" {
			response.Forbidden(c, "admin access required")
			return
		}
		c.Next()
	}
}

// GetUserID gets the current user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// GetRole gets the current user role from context
func GetRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}
