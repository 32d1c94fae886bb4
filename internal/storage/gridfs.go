package storage

import (
	"bytes"   // Download buffer
	"context" // Context for Mongo operations
	"io"      // Blob streaming

	"go.mongodb.org/mongo-driver/bson"          // Filename filter for deletes
	"go.mongodb.org/mongo-driver/mongo"         // Mongo client
	"go.mongodb.org/mongo-driver/mongo/gridfs"  // GridFS bucket
	"go.mongodb.org/mongo-driver/mongo/options" // Bucket options
)

// GridFS stores image blobs in a Mongo GridFS bucket. The bucket filename
// is the owner-scoped object path, so public URLs stay stable.
type GridFS struct {
	bucket  *gridfs.Bucket // GridFS bucket holding the blobs
	baseURL string         // Public base URL for served media
}

// NewGridFS opens the room-images bucket on the given database
func NewGridFS(db *mongo.Database, baseURL string) (*GridFS, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("room-images"))
	if err != nil {
		return nil, err // Bucket creation failed
	}
	return &GridFS{bucket: bucket, baseURL: baseURL}, nil
}

// Upload streams one blob into the bucket under the given path
func (s *GridFS) Upload(ctx context.Context, objectPath string, data io.Reader) error {
	stream, err := s.bucket.OpenUploadStream(objectPath) // Open an upload stream named by the path
	if err != nil {
		return err // Stream open failed
	}
	// Copy the raw bytes into the bucket
	if _, err := io.Copy(stream, data); err != nil {
		_ = stream.Close() // Best-effort close, the upload already failed
		return err
	}
	return stream.Close() // Commit the upload
}

// Open reads a stored blob back by its path
func (s *GridFS) Open(ctx context.Context, objectPath string) ([]byte, error) {
	var buf bytes.Buffer // Download buffer
	// Download by filename, which is the object path
	if _, err := s.bucket.DownloadToStreamByName(objectPath, &buf); err != nil {
		return nil, err // Blob absent or download failed
	}
	return buf.Bytes(), nil // Raw blob bytes
}

// Delete removes every stored revision of a path. Used to roll back the
// blobs of a submission whose final insert failed.
func (s *GridFS) Delete(ctx context.Context, objectPath string) error {
	cursor, err := s.bucket.Find(bson.M{"filename": objectPath}) // Look the file ids up by name
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		var file struct {
			ID any `bson:"_id"` // GridFS file id
		}
		if err := cursor.Decode(&file); err != nil {
			return err
		}
		if err := s.bucket.Delete(file.ID); err != nil {
			return err // Leave remaining revisions for a later sweep
		}
	}
	return cursor.Err()
}

// PublicURL returns the stable public URL for a stored path
func (s *GridFS) PublicURL(objectPath string) string {
	return publicURL(s.baseURL, objectPath)
}
