package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cached view keys. Writes to a listing invalidate both the owner's
// dashboard view and the public listing view.
const (
	AllRoomsKey         = "rooms:all"       // Unfiltered public listing view
	OwnerRoomsKeyPrefix = "rooms:owner:"    // Per-owner dashboard view, suffixed with the owner id
	RevokedTokenPrefix  = "auth:revoked:"   // Sign-out denylist, suffixed with the token id
	DeleteGuardPrefix   = "rooms:deleting:" // In-flight deletion guard, suffixed with the listing id
)

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes a key from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err() // Delete key from Redis
}

// AcquireGuard takes a short-lived exclusive marker via SETNX. It returns
// false when the marker is already held, blocking a second invocation of
// the same operation while one is in flight.
func AcquireGuard(ctx context.Context, rdb *redis.Client, key string, ttl time.Duration) (bool, error) {
	return rdb.SetNX(ctx, key, 1, ttl).Result() // Set only if not already present
}

// RevokeToken marks a token id as signed out until its natural expiry
func RevokeToken(ctx context.Context, rdb *redis.Client, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Already expired, nothing to deny
	}
	return rdb.Set(ctx, RevokedTokenPrefix+tokenID, 1, ttl).Err() // Denylist entry lives as long as the token would
}

// IsTokenRevoked reports whether a token id is on the sign-out denylist
func IsTokenRevoked(ctx context.Context, rdb *redis.Client, tokenID string) (bool, error) {
	err := rdb.Get(ctx, RevokedTokenPrefix+tokenID).Err() // Probe the denylist
	if err == redis.Nil {
		return false, nil // Not revoked
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, nil // Revoked
}
