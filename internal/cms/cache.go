package cms

import (
	"context"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Cache stores raw query results. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached payload and whether it was found and still fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key, queryName string, payload []byte, ttl time.Duration) error
}

// CacheKey derives the cache key of a (query, params) pair under a perspective.
func CacheKey(queryText string, params Params, perspective string) (string, error) {
	encoded, err := params.canonical()
	if err != nil {
		return "", err
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	h.Write([]byte(perspective))
	h.Write([]byte{0})
	h.Write([]byte(queryText))
	h.Write([]byte{0})
	h.Write(encoded)
	return hex.EncodeToString(h.Sum(nil)), nil
}
