package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys that already produced a committed
// mutation so that client retries do not repeat side effects.
type IdempotencyStore interface {
	// MarkProcessed records a key with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been recorded
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a recorded key suppresses replays. Default: 24 hours
	TTL time.Duration

	// Enabled determines whether Idempotency-Key headers are honoured
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
