package api

import (
	"context"                      // Context for Redis operations
	"mime/multipart"               // Uploaded file parts
	"net/http"                     // HTTP status codes
	"room_finder/internal/domain"  // Importing domain models
	"room_finder/internal/storage" // Object storage for listing images
	"room_finder/internal/utils"   // Utility functions
	"strconv"                      // Price coercion
	"time"                         // Cache TTL and guard lifetime

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/google/uuid"       // Listing id generation
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// RoomForm carries the listing form fields. Required-field enforcement is
// binding-level only; price arrives as text and is coerced with no range
// check, matching the minimal-validation policy of the form.
type RoomForm struct {
	Title            string `form:"title" json:"title" binding:"required"`                         // Listing title
	Description      string `form:"description" json:"description"`                                // Optional description
	Address          string `form:"address" json:"address" binding:"required"`                     // Full street address
	Location         string `form:"location" json:"location" binding:"required"`                   // City/area used by search
	Price            string `form:"price" json:"price" binding:"required"`                         // Monthly rent, coerced to float
	PropertyType     string `form:"property_type" json:"property_type" binding:"required"`         // Property type selection
	TenantPreference string `form:"tenant_preference" json:"tenant_preference" binding:"required"` // Tenant preference selection
	ContactNumber    string `form:"contact_number" json:"contact_number" binding:"required"`       // Owner contact phone
}

// invalidateListingViews drops the cached owner dashboard and public
// listing views so the next read reflects the write
func invalidateListingViews(ctx context.Context, rdb *redis.Client, ownerID string) {
	if rdb == nil {
		return // No cache wired
	}
	_ = utils.DeleteCache(ctx, rdb, utils.AllRoomsKey)                 // Public landing view
	_ = utils.DeleteCache(ctx, rdb, utils.OwnerRoomsKeyPrefix+ownerID) // Owner dashboard view
}

// OwnerRoomsHandler returns the caller's own listings, newest first
func OwnerRoomsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get profile id from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrAuthentication.Error()})
			return
		}
		ctx := context.Background()                             // Context for Redis operations
		cacheKey := utils.OwnerRoomsKeyPrefix + userID.(string) // Dashboard cache key
		// Serve the cached dashboard view when present
		if rdb != nil {
			var cached []domain.Room
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, gin.H{"rooms": cached, "count": len(cached), "cached": true})
				return
			}
		}
		rooms := make([]domain.Room, 0) // The caller's listings
		if err := db.Where("owner_id = ?", userID).Order("created_at DESC").Find(&rooms).Error; err != nil {
			// If fetching fails, return error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch your listings"})
			return
		}
		// Cache the dashboard for the next load
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, rooms, 60*time.Second)
		}
		c.JSON(http.StatusOK, gin.H{"rooms": rooms, "count": len(rooms), "cached": false})
	}
}

// CreateRoomHandler accepts the listing form plus zero or more image
// files. Files upload sequentially, each awaited in full; the first
// failure aborts the whole submission and no row is written. Only after
// every upload succeeds does exactly one insert carry all fields plus the
// accumulated URLs in submission order.
func CreateRoomHandler(db *gorm.DB, rdb *redis.Client, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get profile id from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrAuthentication.Error()})
			return
		}
		ownerID := userID.(string) // The authenticated owner
		var form RoomForm          // Bind the multipart form fields
		if err := c.ShouldBind(&form); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "All required fields must be filled"})
			return
		}
		// Coerce price as text to float; out-of-range or malformed input
		// passes through uncorrected
		price, _ := strconv.ParseFloat(form.Price, 64)

		// Collect the selected image files, if any
		var files []*multipart.FileHeader
		if mf, err := c.MultipartForm(); err == nil && mf != nil {
			for _, fh := range mf.File["images"] {
				files = append(files, fh)
			}
		}
		// Sequential uploads: deterministic abort on the first failure, at
		// the cost of latency linear in the file count
		imageURLs := make([]string, 0, len(files))   // Empty, not absent, with zero files
		objectPaths := make([]string, 0, len(files)) // Stored paths, kept for rollback
		for _, fh := range files {
			objectPath := storage.ObjectPath(ownerID, fh.Filename) // Owner-scoped randomized path
			f, err := fh.Open()                                    // Open the uploaded part
			if err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": domain.ErrUpload.Error()})
				return
			}
			err = store.Upload(c.Request.Context(), objectPath, f) // Push the raw bytes to storage
			_ = f.Close()
			if err != nil {
				// Abort the entire submission; already-uploaded blobs stay
				// in storage but no row is written
				logrus.WithFields(logrus.Fields{
					"owner_id": ownerID,     // Submitting owner
					"file":     fh.Filename, // Failing file
					"error":    err.Error(), // Error message
				}).Error("Image upload failed") // Log the aborted submission
				c.JSON(http.StatusBadGateway, gin.H{"error": domain.ErrUpload.Error()})
				return
			}
			imageURLs = append(imageURLs, store.PublicURL(objectPath)) // URL in submission order
			objectPaths = append(objectPaths, objectPath)              // Remembered for rollback
		}

		room := domain.Room{
			ID:               uuid.NewString(),      // Listing id, assigned at creation
			OwnerID:          ownerID,               // Owning profile
			Title:            form.Title,            // Listing title
			Description:      form.Description,      // Optional description
			Address:          form.Address,          // Full address
			Location:         form.Location,         // City/area
			Price:            price,                 // Coerced monthly rent
			PropertyType:     form.PropertyType,     // Property type selection
			TenantPreference: form.TenantPreference, // Tenant preference selection
			ContactNumber:    form.ContactNumber,    // Contact phone
			Images:           imageURLs,             // Public URLs in submission order
		}
		// Exactly one insert after all uploads succeeded
		if err := db.Create(&room).Error; err != nil {
			// Roll the uploaded blobs back so nothing unreferenced leaks
			for _, p := range objectPaths {
				_ = store.Delete(c.Request.Context(), p)
			}
			logrus.WithFields(logrus.Fields{
				"owner_id": ownerID,     // Submitting owner
				"error":    err.Error(), // Error message
			}).Error("Failed to create listing") // Log the failed insert
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save the listing"})
			return
		}
		// Log successful creation
		logrus.WithFields(logrus.Fields{
			"owner_id": ownerID,        // Submitting owner
			"room_id":  room.ID,        // New listing id
			"images":   len(imageURLs), // Uploaded image count
		}).Info("Listing created") // Log listing creation
		// Refresh the dashboard and public views
		invalidateListingViews(context.Background(), rdb, ownerID)
		// Return the created listing
		c.JSON(http.StatusCreated, gin.H{"room": room})
	}
}

// GetOwnedRoomHandler fetches one listing for edit pre-population.
// Missing optional fields come back as their zero values.
func GetOwnedRoomHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var room domain.Room // Listing to pre-populate the form with
		if err := db.First(&room, "id = ?", c.Param("id")).Error; err != nil {
			// If the listing is absent, the form surfaces a fetch failure
			c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrNotFound.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": room})
	}
}

// UpdateRoomHandler performs exactly one update of the mutable fields.
// Images are not re-uploaded or changed by the edit flow. The owner scope
// on the query stands in for the row-level policy: a submission against
// someone else's listing matches zero rows and surfaces as a generic
// error, never a crash.
func UpdateRoomHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get profile id from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrAuthentication.Error()})
			return
		}
		var form RoomForm // Bind the edit form fields
		if err := c.ShouldBind(&form); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "All required fields must be filled"})
			return
		}
		price, _ := strconv.ParseFloat(form.Price, 64) // Same pass-through coercion as create

		// Resolve the target under the owner scope first. The driver's
		// affected-row count cannot tell "absent or someone else's" from
		// "matched but nothing changed", so an unchanged submission would
		// otherwise misreport as missing.
		var room domain.Room
		if err := db.Where("id = ? AND owner_id = ?", c.Param("id"), userID).First(&room).Error; err != nil {
			// Absent listing or someone else's, surfaced as a generic error
			c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrNotFound.Error()})
			return
		}
		// One update of the mutable fields; map form so emptied optional
		// fields overwrite too
		res := db.Model(&domain.Room{}).
			Where("id = ? AND owner_id = ?", c.Param("id"), userID).
			Updates(map[string]any{
				"title":             form.Title,            // Listing title
				"description":       form.Description,      // Optional description
				"address":           form.Address,          // Full address
				"location":          form.Location,         // City/area
				"price":             price,                 // Coerced monthly rent
				"property_type":     form.PropertyType,     // Property type selection
				"tenant_preference": form.TenantPreference, // Tenant preference selection
				"contact_number":    form.ContactNumber,    // Contact phone
			})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update the listing"})
			return
		}
		// Refresh the dashboard and public views
		invalidateListingViews(context.Background(), rdb, userID.(string))
		c.JSON(http.StatusOK, gin.H{"message": "Listing updated"})
	}
}

// DeleteRoomHandler removes one listing owned by the caller. Destructive
// intent must be confirmed explicitly via the confirm parameter; without
// it nothing is deleted. A short-lived guard rejects a second invocation
// for the same id while one is in flight.
func DeleteRoomHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get profile id from context
		// Check if userID exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": domain.ErrAuthentication.Error()})
			return
		}
		// Declining (or omitting) confirmation leaves the record untouched
		if c.Query("confirm") != "true" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Deletion must be confirmed"})
			return
		}
		id := c.Param("id")         // Listing to delete
		ctx := context.Background() // Context for Redis operations
		// Block a second invocation for the same id while this one runs
		if rdb != nil {
			ok, err := utils.AcquireGuard(ctx, rdb, utils.DeleteGuardPrefix+id, 30*time.Second)
			if err == nil && !ok {
				c.JSON(http.StatusConflict, gin.H{"error": "Deletion already in progress"})
				return
			}
			defer func() { _ = utils.DeleteCache(ctx, rdb, utils.DeleteGuardPrefix+id) }()
		}
		// One delete, scoped to the owner
		res := db.Where("id = ? AND owner_id = ?", id, userID).Delete(&domain.Room{})
		if res.Error != nil {
			logrus.WithFields(logrus.Fields{
				"owner_id": userID,            // Requesting owner
				"room_id":  id,                // Target listing
				"error":    res.Error.Error(), // Error message
			}).Error("Failed to delete listing") // Log the failed delete
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete the listing"})
			return
		}
		// Zero matched rows: absent listing or someone else's
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrNotFound.Error()})
			return
		}
		// Log successful deletion
		logrus.WithFields(logrus.Fields{
			"owner_id": userID, // Requesting owner
			"room_id":  id,     // Deleted listing
		}).Info("Listing deleted") // Log listing deletion
		// Refresh the dashboard and public views so the removal shows on
		// the next load of either
		invalidateListingViews(ctx, rdb, userID.(string))
		c.JSON(http.StatusOK, gin.H{"message": "Listing deleted"})
	}
}
