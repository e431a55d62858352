package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"schoolhub_backend/internal/auth"
	"schoolhub_backend/internal/logger"
	"schoolhub_backend/internal/models"
)

// userLoader resolves a token subject to the live account row. Wired once at
// startup; when set, suspended and deleted accounts fail closed instead of
// riding out the token TTL.
var userLoader func(id string) (*models.User, error)

func SetUserLoader(fn func(id string) (*models.User, error)) {
	userLoader = fn
}

// AuthMiddleware verifies the bearer token, loads the account behind it, and
// stores the caller's identity in the gin context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		role := claims.Role
		schoolID := claims.SchoolID
		if userLoader != nil {
			user, err := userLoader(claims.UserID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
				return
			}
			if user.Status == models.UserStatusSuspended {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account suspended"})
				return
			}
			// The stored row wins over the claims if the role or school
			// changed since the token was issued.
			role = string(user.Role)
			schoolID = user.SchoolID
		}

		c.Set("userID", claims.UserID)
		c.Set("role", role)
		c.Set("schoolID", schoolID)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRoles gates the route to the listed roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}

		roleStr, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: invalid role type"})
			return
		}

		if !roleSet[models.UserRole(roleStr)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient role"})
			return
		}

		c.Next()
	}
}

// GetUserID extracts the caller's user ID from the gin context.
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}
	id, _ := userID.(string)
	return id
}

// GetUserRole extracts the caller's role from the gin context.
func GetUserRole(c *gin.Context) models.UserRole {
	roleVal, exists := c.Get("role")
	if !exists {
		return ""
	}
	role, _ := roleVal.(string)
	return models.UserRole(role)
}

// GetSchoolID extracts the caller's school from the gin context.
func GetSchoolID(c *gin.Context) string {
	schoolID, exists := c.Get("schoolID")
	if !exists {
		return ""
	}
	id, _ := schoolID.(string)
	return id
}
