package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of *redis.Client used by RedisSlot.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisSlot stores the payload under a single key without expiry.
type RedisSlot struct {
	client RedisClient
	key    string
}

// OpenRedis creates a client for the given address. The connection is lazy.
func OpenRedis(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB})
}

// NewRedisSlot binds a slot to key.
func NewRedisSlot(client RedisClient, key string) *RedisSlot {
	return &RedisSlot{client: client, key: key}
}

func (rs *RedisSlot) Read(ctx context.Context) ([]byte, error) {
	payload, err := rs.client.Get(ctx, rs.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache key %q: %w", rs.key, err)
	}

	return payload, nil
}

func (rs *RedisSlot) Write(ctx context.Context, payload []byte) error {
	if err := rs.client.Set(ctx, rs.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %q: %w", rs.key, err)
	}

	return nil
}

func (rs *RedisSlot) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

func (rs *RedisSlot) Close() error {
	return rs.client.Close()
}
