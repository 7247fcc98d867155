package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BeastofOne/soggy-potatoes/auth"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

// ValidateToken rejects requests without a valid JWT and stores the caller's
// user id in the context.
func ValidateToken(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
		c.Abort()
		return
	}

	claims, err := auth.ParseToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		c.Abort()
		return
	}

	c.Set("user_id", claims.UserID)
	c.Next()
}

// OptionalToken sets user_id when a valid token is present but lets
// anonymous requests through. Cart routes use it so guests can shop with a
// session key instead.
func OptionalToken(c *gin.Context) {
	if tokenString := bearerToken(c); tokenString != "" {
		if claims, err := auth.ParseToken(tokenString); err == nil {
			c.Set("user_id", claims.UserID)
		}
	}
	c.Next()
}

// UserID returns the authenticated user's id from the context.
func UserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}
