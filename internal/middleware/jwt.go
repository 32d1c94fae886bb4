package middleware

import (
	"net/http"                   // HTTP status codes
	"room_finder/internal/utils" // JWT utility functions
	"strings"                    // String manipulation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// JWTAuthMiddleware validates JWT tokens and extracts the profile id.
// Tokens on the sign-out denylist are rejected even though they would
// still verify, so a signed-out session cannot keep acting.
func JWTAuthMiddleware(secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You must be signed in"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}
		// Live session check: a parsed token is only a snapshot, sign-out may
		// have revoked it since it was issued
		if rdb != nil {
			revoked, err := utils.IsTokenRevoked(c.Request.Context(), rdb, claims.TokenID)
			if err == nil && revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has been signed out"})
				return
			}
		}
		c.Set("userID", claims.UserID) // Store profile id in context
		c.Set("claims", claims)        // Store full claims for sign-out
		c.Next()                       // Proceed to the next handler
	}
}
