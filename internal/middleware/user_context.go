package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// userContextKey is where RequireUser stores the resolved user ID.
const userContextKey = "userID"

// RequireUser resolves the acting user from the X-User-ID header set by
// the upstream gateway, which terminates authentication. Requests without
// a parseable user are rejected.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-ID")
		if raw == "" {
			raw = c.Query("user_id")
		}
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || userID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid user identity"})
			c.Abort()
			return
		}

		c.Set(userContextKey, uint(userID))
		c.Next()
	}
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get(userContextKey)
	if !exists {
		return 0
	}
	return userID.(uint)
}
