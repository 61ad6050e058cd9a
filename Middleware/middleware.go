package Middleware

import (
	"net/http"

	"HospitalMS/Models"
	"HospitalMS/Utils/Token"

	"github.com/gin-gonic/gin"
)

// JwtAuthMiddleware validates the session token, loads the account once
// and stores identity and role in the request context. Handlers never
// read ambient state; everything comes from the context.
func JwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := Token.TokenValid(c); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		userID, err := Token.ExtractTokenID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		user, err := Models.GetUserByID(Models.DB, userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is inactive. Contact the administrator."})
			c.Abort()
			return
		}
		if user.IsBlacklisted {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is blacklisted. Contact the administrator."})
			c.Abort()
			return
		}

		c.Set("userID", user.ID)
		c.Set("role", user.Role)
		c.Set("currentUser", user)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "User role not found"})
			c.Abort()
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to view this page"})
		c.Abort()
	}
}

// CurrentUser returns the account loaded by JwtAuthMiddleware.
func CurrentUser(c *gin.Context) (Models.User, bool) {
	value, exists := c.Get("currentUser")
	if !exists {
		return Models.User{}, false
	}
	user, ok := value.(Models.User)
	return user, ok
}
