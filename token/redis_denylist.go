package token

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDenylistPrefix = "denylist:access:"

var _ Denylist = (*RedisDenylist)(nil)

// RedisDenylist shares revocations between server instances. Each entry expires
// with the token it denies, so no cleanup is needed.
type RedisDenylist struct {
	client  *redis.Client
	prefix  string
	nowFunc func() time.Time
}

func NewRedisDenylist(client *redis.Client, prefix string, now func() time.Time) *RedisDenylist {
	if prefix == "" {
		prefix = defaultDenylistPrefix
	}
	if now == nil {
		now = time.Now
	}
	return &RedisDenylist{client: client, prefix: prefix, nowFunc: now}
}

func (d *RedisDenylist) Deny(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(d.nowFunc())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.prefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("[RedisDenylist Deny] %w", err)
	}
	return nil
}

func (d *RedisDenylist) IsDenied(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, d.prefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("[RedisDenylist IsDenied] %w", err)
	}
	return n > 0, nil
}
