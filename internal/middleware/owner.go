package middleware

import (
	"net/http"                    // HTTP status codes
	"room_finder/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// OwnerOnlyMiddleware checks the profile's role from the database on each request
func OwnerOnlyMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get profile id from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You must be signed in"})
			return
		}
		var profile domain.Profile // Fetch profile from database
		if err := db.First(&profile, "id = ?", userID).Error; err != nil {
			// If profile not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Owner account required"})
			return
		}
		// Check if the profile role is owner
		if profile.Role != domain.RoleOwner {
			// If not an owner, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Owner account required"})
			return
		}
		// If owner, proceed to the next handler
		c.Next()
	}
}
