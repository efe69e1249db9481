package middlewares

import (
	"net/http"
	"strings"

	"github.com/soumaisfe-svg/vida-fit-control-1/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the Bearer JWT and stores userID/email/role on the
// request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := utils.ParseJWT(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		id, ok := claims["userId"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "userId claim missing"})
			return
		}

		c.Set("userID", uint(id))
		if email, _ := claims["email"].(string); email != "" {
			c.Set("email", email)
		}
		if role, _ := claims["role"].(string); role != "" {
			c.Set("role", role)
		}

		c.Next()
	}
}

// RequireAdmin gates the admin dashboard routes on the role claim. Master
// access is an entitlement on the user record, never a literal credential
// comparison.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
