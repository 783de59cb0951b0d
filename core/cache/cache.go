package cache

import (
	"context"
	"time"
)

// Cache is the listing response cache consumed by the event query path.
// Implementations must treat entries as disposable: a miss is always safe,
// callers recompute and re-set.
type Cache interface {
	// Get returns the stored value and whether the key was present and
	// not yet expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every entry whose key starts with prefix. Used
	// as the invalidation signal after event/reminder mutations.
	DeletePrefix(ctx context.Context, prefix string) error
}
