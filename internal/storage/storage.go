package storage

import (
	"context" // Context for storage operations
	"fmt"     // Path formatting
	"io"      // Blob streaming
	"path"    // Extension handling
	"strings" // URL assembly

	"github.com/google/uuid" // Random storage tokens
)

// Store persists uploaded image blobs and resolves their public URLs.
// Uploads within one listing submission run sequentially; the first
// failure aborts the whole submission before any database write.
type Store interface {
	Upload(ctx context.Context, objectPath string, data io.Reader) error // Write one blob under the given path
	Open(ctx context.Context, objectPath string) ([]byte, error)         // Read a stored blob back
	Delete(ctx context.Context, objectPath string) error                 // Remove a stored blob, used to roll back an aborted submission
	PublicURL(objectPath string) string                                  // Stable public URL for a stored path
}

// ObjectPath derives a randomized storage path scoped under the owner's
// identity: {ownerID}/{randomToken}.{extension}. Scoping prevents filename
// collisions and cross-tenant path guessing.
func ObjectPath(ownerID, filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")             // Extension without the dot
	return fmt.Sprintf("%s/%s.%s", ownerID, uuid.NewString(), ext) // Owner-scoped random path
}

// publicURL joins a base URL with the media route for a stored path
func publicURL(baseURL, objectPath string) string {
	return strings.TrimRight(baseURL, "/") + "/media/" + objectPath
}
