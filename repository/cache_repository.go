package repository

import (
	"context"
	"encoding/json"
	"time"
)

// GetOptions controls a single cache read.
type GetOptions struct {
	// MaxAge overrides the entry's own TTL for the expiry check when > 0.
	MaxAge time.Duration
	// UseDurable also consults the durable store on a memory miss.
	UseDurable bool
	// Decrypt transparently decrypts the stored payload before returning it.
	Decrypt bool
}

// SetOptions controls a single cache write.
type SetOptions struct {
	// TTL for the entry; the service default applies when 0.
	TTL time.Duration
	// UseDurable also writes to the durable store.
	UseDurable bool
	// Encrypt transparently encrypts the payload before storage.
	Encrypt bool
}

// Lookup is the outcome of a cache read. A miss is not an error:
// Found is false and Data is nil.
type Lookup struct {
	Found bool
	Data  json.RawMessage
}

// CacheRepository defines the interface for tiered cache operations.
type CacheRepository interface {
	Get(ctx context.Context, key string, opts GetOptions) (Lookup, error)
	Set(ctx context.Context, key string, data any, opts SetOptions) error
}
