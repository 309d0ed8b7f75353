// Package cache keeps resolved coordinates per pickup point identity.
//
// The cache only grows: an identity is written at most once and entries are
// never removed. Every accepted write persists the whole mapping to the slot
// as a flat JSON object keyed by the stringified identity.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/pakketpunt/internal/models"
)

// Slot is the durable storage behind the cache.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, payload []byte) error
}

// Cache maps pickup point identity to resolved coordinates.
type Cache struct {
	mu      sync.RWMutex
	entries map[int]models.Coordinates
	slot    Slot
	log     *slog.Logger
}

// Open loads previously persisted entries from slot. A payload that cannot be
// decoded is treated as an empty cache. Only a failing read is an error.
func Open(ctx context.Context, slot Slot, log *slog.Logger) (*Cache, error) {
	payload, err := slot.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load geocode cache: %w", err)
	}

	entries, err := decode(payload)
	if err != nil {
		log.WarnContext(ctx, "Stored geocodes could not be parsed, starting with an empty cache", "error", err)
		entries = make(map[int]models.Coordinates)
	}

	log.InfoContext(ctx, "Geocode cache loaded", "entries", len(entries))

	return &Cache{entries: entries, slot: slot, log: log}, nil
}

func decode(payload []byte) (map[int]models.Coordinates, error) {
	entries := make(map[int]models.Coordinates)
	if len(payload) == 0 {
		return entries, nil
	}

	var stored map[int]models.Coordinates
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, err
	}
	for id, coords := range stored {
		entries[id] = coords
	}

	return entries, nil
}

// Put records coords for id unless id already has an entry or coords are not
// valid. It reports whether the entry was added. Accepted writes are persisted
// before Put returns; a persistence failure is logged and the entry stays in memory.
func (c *Cache) Put(ctx context.Context, id int, coords models.Coordinates) bool {
	if !coords.Valid() {
		c.log.WarnContext(ctx, "Refusing invalid coordinates", "id", id, "lat", coords.Latitude, "lng", coords.Longitude)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; ok {
		return false
	}
	c.entries[id] = coords

	// An accepted entry is written even when the caller is shutting down.
	if err := c.persist(context.WithoutCancel(ctx)); err != nil {
		c.log.ErrorContext(ctx, "Failed to persist geocode cache", "id", id, "error", err)
	}

	return true
}

// persist must be called with mu held.
func (c *Cache) persist(ctx context.Context) error {
	payload, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("failed to encode geocode cache: %w", err)
	}

	return c.slot.Write(ctx, payload)
}

// Get returns the coordinates for id.
func (c *Cache) Get(id int) (models.Coordinates, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	coords, ok := c.entries[id]

	return coords, ok
}

// Has reports whether id has been resolved.
func (c *Cache) Has(id int) bool {
	_, ok := c.Get(id)
	return ok
}

// Len returns the number of resolved identities.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Snapshot returns a copy of all entries.
func (c *Cache) Snapshot() map[int]models.Coordinates {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[int]models.Coordinates, len(c.entries))
	for id, coords := range c.entries {
		out[id] = coords
	}

	return out
}
