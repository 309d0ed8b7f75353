// Package store persists the geocode cache payload in a single named
// key-value slot. Backends: local file, Redis key or Postgres row.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// DefaultSlotName is the slot the locator page has always used.
const DefaultSlotName = "packagePointsGeocoded"

// Backend names accepted by NewSlot.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// ErrUnsupportedBackend is returned by NewSlot for unknown backend names.
var ErrUnsupportedBackend = errors.New("unsupported cache backend")

// Slot is one named value in durable key-value storage.
// Read returns a nil payload and no error when the slot was never written.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, payload []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Options selects and configures a slot backend.
type Options struct {
	Backend  string
	Name     string
	Dir      string // file backend
	Redis    RedisOptions
	Postgres PostgresOptions
}

// RedisOptions holds the connection settings for the redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// PostgresOptions holds the connection settings for the postgres backend.
type PostgresOptions struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// NewSlot opens the slot described by opts.
func NewSlot(ctx context.Context, opts Options, log *slog.Logger) (Slot, error) {
	name := opts.Name
	if name == "" {
		name = DefaultSlotName
	}

	switch opts.Backend {
	case BackendFile, "":
		slot, err := NewFileSlot(opts.Dir, name)
		if err != nil {
			return nil, err
		}
		return slot, nil
	case BackendRedis:
		client := OpenRedis(opts.Redis)
		slot := NewRedisSlot(client, name)
		if err := slot.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", opts.Redis.Addr, err)
		}
		return slot, nil
	case BackendPostgres:
		pool, err := NewDatabase(ctx, opts.Postgres)
		if err != nil {
			return nil, err
		}
		slot := NewPostgresSlot(pool, name, log)
		if err = slot.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return slot, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, opts.Backend)
	}
}
