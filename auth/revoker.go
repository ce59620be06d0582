package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker is a best-effort denylist of logged-out tokens. Entries only need
// to outlive the token's own expiry, so every write carries a TTL.
type Revoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// RedisRevoker implements Revoker on a Redis keyspace.
type RedisRevoker struct {
	client *redis.Client
	prefix string
}

// NewRedisRevoker creates a Redis-backed token revocation list.
func NewRedisRevoker(client *redis.Client, prefix string) *RedisRevoker {
	if prefix == "" {
		prefix = "revoked:"
	}
	return &RedisRevoker{client: client, prefix: prefix}
}

// Revoke marks the token as logged out until it would have expired anyway.
func (r *RedisRevoker) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+token, "1", ttl).Err(); err != nil {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token has been logged out.
func (r *RedisRevoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	err := r.client.Get(ctx, r.prefix+token).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("auth: check revoked token: %w", err)
	}
	return true, nil
}
