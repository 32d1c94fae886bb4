package storage

import (
	"context" // Context for interface parity
	"errors"  // Failure injection error
	"io"      // Blob reading
	"strings" // Failure pattern matching
	"sync"    // Map guarding
)

// ErrUploadRejected is returned by Memory when a path matches its
// configured failure pattern.
var ErrUploadRejected = errors.New("storage rejected the upload")

// Memory keeps blobs in a map. It backs local development when no Mongo
// is configured and lets tests inject upload failures deterministically.
type Memory struct {
	mu      sync.Mutex        // Guards the blob map
	blobs   map[string][]byte // Stored blobs by path
	baseURL string            // Public base URL for served media

	// FailPattern rejects any upload whose original path contains it
	FailPattern string
}

// NewMemory returns an empty in-memory store
func NewMemory(baseURL string) *Memory {
	return &Memory{blobs: make(map[string][]byte), baseURL: baseURL}
}

// Upload stores one blob, or fails when the path matches FailPattern
func (s *Memory) Upload(ctx context.Context, objectPath string, data io.Reader) error {
	if s.FailPattern != "" && strings.Contains(objectPath, s.FailPattern) {
		return ErrUploadRejected // Injected failure
	}
	b, err := io.ReadAll(data) // Drain the blob
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[objectPath] = b // Keep the blob
	return nil
}

// Open reads a stored blob back by its path
func (s *Memory) Open(ctx context.Context, objectPath string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[objectPath]
	if !ok {
		return nil, errors.New("blob not found") // Path was never stored
	}
	return b, nil
}

// Delete removes one stored blob; unknown paths are a no-op
func (s *Memory) Delete(ctx context.Context, objectPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, objectPath)
	return nil
}

// PublicURL returns the stable public URL for a stored path
func (s *Memory) PublicURL(objectPath string) string {
	return publicURL(s.baseURL, objectPath)
}

// Len reports how many blobs are stored
func (s *Memory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}
