package cache

import (
	"context"
	"time"
)

// Store is a key/value store with per-entry expiration. Implementations are
// safe for concurrent use; callers perform no coalescing, so two concurrent
// misses on the same key may both fall through to the source of truth.
type Store interface {
	// Get returns the value for key and whether a live entry was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl. A non-positive ttl is rejected by
	// implementations rather than interpreted as "no expiry".
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
