package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records revoked token IDs until the tokens would have expired.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	Revoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisDenylist stores revoked token IDs as expiring Redis keys.
type RedisDenylist struct {
	rdb    redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewRedisDenylist uses rdb with keys "<prefix><jti>".
func NewRedisDenylist(rdb redis.Cmdable, prefix string) *RedisDenylist {
	return &RedisDenylist{rdb: rdb, prefix: prefix, now: time.Now}
}

// Revoke marks tokenID revoked. Already-expired tokens are not stored.
func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.rdb.Set(ctx, d.prefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	return nil
}

// Revoked reports whether tokenID has been revoked.
func (d *RedisDenylist) Revoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, d.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("auth: check denylist: %w", err)
	}
	return n > 0, nil
}
