package api

import (
	"context"                     // Context for Redis operations
	"net/http"                    // HTTP status codes
	"room_finder/internal/domain" // Importing domain models
	"room_finder/internal/utils"  // Utility functions
	"strings"                     // Filter normalization
	"time"                        // Cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// SearchRoomsHandler composes the public listing query from the optional
// filter parameters. Every supplied filter narrows the result set; absent
// parameters impose no constraint. All matching rows come back newest
// first in one response, an empty (never null) list on zero matches.
func SearchRoomsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		location := c.Query("location")         // Substring filter against title and location
		minPrice := c.Query("minPrice")         // Inclusive lower price bound
		maxPrice := c.Query("maxPrice")         // Inclusive upper price bound
		propertyType := c.Query("propertyType") // Exact property type match
		preference := c.Query("preference")     // Exact tenant preference match
		unfiltered := location == "" && minPrice == "" && maxPrice == "" && propertyType == "" && preference == ""

		ctx := context.Background() // Context for Redis operations
		// The unfiltered landing view is the one cached; listing writes
		// invalidate it so removals show on the next load
		if unfiltered && rdb != nil {
			var cached []domain.Room
			if found, err := utils.GetCache(ctx, rdb, utils.AllRoomsKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, gin.H{"rooms": cached, "count": len(cached), "cached": true})
				return
			}
		}

		q := db.Model(&domain.Room{}) // Base query over the listing collection
		// Partial, case-insensitive containment against title OR location
		if location != "" {
			needle := "%" + strings.ToLower(location) + "%"
			q = q.Where("(LOWER(title) LIKE ? OR LOWER(location) LIKE ?)", needle, needle)
		}
		// Price bounds go through as supplied; the engine's coercion rules
		// decide what a non-numeric bound means
		if minPrice != "" {
			q = q.Where("price >= ?", minPrice)
		}
		if maxPrice != "" {
			q = q.Where("price <= ?", maxPrice)
		}
		// Exact enum matches
		if propertyType != "" {
			q = q.Where("property_type = ?", propertyType)
		}
		if preference != "" {
			q = q.Where("tenant_preference = ?", preference)
		}

		rooms := make([]domain.Room, 0) // Empty, not absent, on zero matches
		if err := q.Order("created_at DESC").Find(&rooms).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
			return
		}
		// Cache the landing view for the next unfiltered read
		if unfiltered && rdb != nil {
			_ = utils.SetCache(ctx, rdb, utils.AllRoomsKey, rooms, 60*time.Second)
		}
		// The rendered count is the only signal distinguishing "no rooms
		// exist" from "nothing matched"
		c.JSON(http.StatusOK, gin.H{"rooms": rooms, "count": len(rooms), "cached": false})
	}
}

// RoomDetailHandler returns one listing joined with its owning profile
func RoomDetailHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var room domain.Room // Listing plus its owner
		if err := db.Preload("Owner").First(&room, "id = ?", c.Param("id")).Error; err != nil {
			// If the listing is absent, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrNotFound.Error()})
			return
		}
		// The detail view shows the owner's name and contact email
		c.JSON(http.StatusOK, gin.H{
			"room": room, // Full listing
			"owner": gin.H{
				"full_name": room.Owner.FullName, // Owner display name
				"email":     room.Owner.Email,    // Owner contact email
			},
		})
	}
}
