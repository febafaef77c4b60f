package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	apperrors "github.com/jrsteele09/storefront-client/internal/errors"
	"github.com/jrsteele09/storefront-client/sessions"
	"github.com/redis/go-redis/v9"
)

var _ sessions.Repo = (*RedisRepo)(nil)

// RedisRepo stores sessions as JSON under "<prefix><key>". A zero ttl keeps them until deleted.
type RedisRepo struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a Redis backed repo. An empty prefix defaults to "session:".
func New(client *redis.Client, prefix string, ttl time.Duration) *RedisRepo {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisRepo{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisRepo) redisKey(key string) string {
	return r.prefix + key
}

func (r *RedisRepo) Load(ctx context.Context, key string) (*sessions.Session, error) {
	b, err := r.client.Get(ctx, r.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, apperrors.Wrapf(err, "[RedisRepo Load] %s", key)
	}

	var s sessions.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, apperrors.Wrapf(err, "[RedisRepo Load] decode %s", key)
	}
	return &s, nil
}

func (r *RedisRepo) Save(ctx context.Context, key string, session *sessions.Session) error {
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return apperrors.Wrapf(r.client.Set(ctx, r.redisKey(key), b, r.ttl).Err(), "[RedisRepo Save] %s", key)
}

func (r *RedisRepo) Delete(ctx context.Context, key string) error {
	return apperrors.Wrapf(r.client.Del(ctx, r.redisKey(key)).Err(), "[RedisRepo Delete] %s", key)
}
