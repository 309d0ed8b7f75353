package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/UnknownOlympus/pakketpunt/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis is an in-memory RedisClient.
type fakeRedis struct {
	values map[string]string
	err    error
	ttl    time.Duration
	closed bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	val, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = string(value.([]byte))
	f.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Ping(_ context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.err)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisSlot(t *testing.T) {
	ctx := t.Context()

	t.Run("missing key reads as empty slot", func(t *testing.T) {
		slot := store.NewRedisSlot(newFakeRedis(), store.DefaultSlotName)

		payload, err := slot.Read(ctx)

		require.NoError(t, err)
		assert.Nil(t, payload)
	})

	t.Run("write then read without expiry", func(t *testing.T) {
		client := newFakeRedis()
		slot := store.NewRedisSlot(client, store.DefaultSlotName)

		require.NoError(t, slot.Write(ctx, []byte(`{"7":{"lat":52,"lng":5}}`)))
		payload, err := slot.Read(ctx)

		require.NoError(t, err)
		assert.JSONEq(t, `{"7":{"lat":52,"lng":5}}`, string(payload))
		assert.Contains(t, client.values, store.DefaultSlotName)
		assert.Zero(t, client.ttl)
	})

	t.Run("errors are wrapped", func(t *testing.T) {
		client := newFakeRedis()
		client.err = assert.AnError
		slot := store.NewRedisSlot(client, "points")

		_, err := slot.Read(ctx)
		require.ErrorIs(t, err, assert.AnError)

		err = slot.Write(ctx, []byte(`{}`))
		require.ErrorIs(t, err, assert.AnError)

		require.ErrorIs(t, slot.Ping(ctx), assert.AnError)
	})

	t.Run("close closes the client", func(t *testing.T) {
		client := newFakeRedis()
		slot := store.NewRedisSlot(client, "points")

		require.NoError(t, slot.Close())
		assert.True(t, client.closed)
	})
}
