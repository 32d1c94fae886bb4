package api

import (
	"mime"                         // Content type by extension
	"net/http"                     // HTTP status codes
	"path/filepath"                // Extension extraction
	"room_finder/internal/domain"  // Importing domain models
	"room_finder/internal/storage" // Object storage for listing images
	"strings"                      // Path trimming

	"github.com/gin-gonic/gin" // Gin web framework
)

// MediaHandler resolves the public URL contract: it streams a stored
// image blob back out of object storage by its owner-scoped path.
func MediaHandler(store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		objectPath := strings.TrimPrefix(c.Param("path"), "/") // Stored path under /media/
		data, err := store.Open(c.Request.Context(), objectPath)
		if err != nil {
			// Unknown path, nothing to serve
			c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrNotFound.Error()})
			return
		}
		// Content type from the stored extension
		contentType := mime.TypeByExtension(filepath.Ext(objectPath))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.Data(http.StatusOK, contentType, data) // Raw blob bytes
	}
}
