package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/UnknownOlympus/pakketpunt/internal/geocoding"
	"github.com/UnknownOlympus/pakketpunt/internal/metrics"
	"github.com/UnknownOlympus/pakketpunt/internal/models"
)

// Defaults for the batch resolver. Groups keep the sustained request rate
// against the public lookup service low while parallelising within a group.
const (
	DefaultGroupSize  = 8
	DefaultGroupDelay = 500 * time.Millisecond
	DefaultMaxPoints  = 120
)

const idlePollInterval = 20 * time.Millisecond

// ErrAlreadyRunning is returned by Run while another run is in progress.
var ErrAlreadyRunning = errors.New("geocoding run already in progress")

// Catalog supplies the addresses eligible for geocoding, in identity order.
type Catalog interface {
	Head(n int) []models.Address
}

// Cache is the resolution cache the service fills.
type Cache interface {
	Has(id int) bool
	Put(ctx context.Context, id int, coords models.Coordinates) bool
	Len() int
}

// Options tunes the batch resolver. A zero GroupSize or MaxPoints and a
// negative GroupDelay fall back to the defaults.
type Options struct {
	GroupSize  int           // Lookups issued concurrently per group
	GroupDelay time.Duration // Pause between two groups
	MaxPoints  int           // Only the first MaxPoints addresses are geocoded
	// Progress, when set, is called after every lookup. It may be called concurrently.
	Progress func(addr models.Address, resolved bool)
}

// Report summarises one resolver run.
type Report struct {
	Pending  int `json:"pending"`  // Addresses without coordinates when the run started
	Groups   int `json:"groups"`   // Groups processed
	Resolved int `json:"resolved"` // New cache entries
	Failed   int `json:"failed"`   // Lookups that produced no entry
}

// GeocodingService resolves catalog addresses that are missing from the cache,
// in sequential groups of concurrent lookups.
type GeocodingService struct {
	log          *slog.Logger       // Logger for logging service activities
	catalog      Catalog            // Source of addresses
	cache        Cache              // Resolution cache
	provider     geocoding.Provider // Geocoding provider for external geocoding services
	providerName string             // Name of the provider for metrics labeling
	metrics      *metrics.Metrics   // Metrics for tracking service performance
	opts         Options

	running atomic.Bool
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewGeocodingService creates a new instance of GeocodingService.
func NewGeocodingService(
	log *slog.Logger,
	catalog Catalog,
	cache Cache,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
	opts Options,
) *GeocodingService {
	if opts.GroupSize <= 0 {
		opts.GroupSize = DefaultGroupSize
	}
	if opts.GroupDelay < 0 {
		opts.GroupDelay = DefaultGroupDelay
	}
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = DefaultMaxPoints
	}

	metrics.CacheEntries.Set(float64(cache.Len()))

	return &GeocodingService{
		log:          log,
		catalog:      catalog,
		cache:        cache,
		provider:     provider,
		providerName: providerName,
		metrics:      metrics,
		opts:         opts,
		sleep:        sleepContext,
	}
}

// Running reports whether a run is in progress.
func (gs *GeocodingService) Running() bool {
	return gs.running.Load()
}

// Pending returns the first MaxPoints addresses that have no cached coordinates.
func (gs *GeocodingService) Pending() []models.Address {
	var pending []models.Address
	for _, addr := range gs.catalog.Head(gs.opts.MaxPoints) {
		if !gs.cache.Has(addr.ID) {
			pending = append(pending, addr)
		}
	}

	return pending
}

// Start runs the resolver once in the background. It returns ErrAlreadyRunning
// if a run is in progress.
func (gs *GeocodingService) Start(ctx context.Context) error {
	if !gs.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	go func() {
		defer gs.running.Store(false)
		if _, err := gs.run(ctx); err != nil {
			gs.log.WarnContext(ctx, "Geocoding run stopped early", "error", err)
		}
	}()

	return nil
}

// Wait blocks until no run is in progress or ctx is done.
func (gs *GeocodingService) Wait(ctx context.Context) error {
	ticker := time.NewTicker(idlePollInterval)
	defer ticker.Stop()

	for gs.Running() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("geocoding run still in progress: %w", ctx.Err())
		case <-ticker.C:
		}
	}

	return nil
}

// Run geocodes every pending address and returns once all groups are done.
// Per-address failures never abort the run; only a cancelled context does,
// and only between groups.
func (gs *GeocodingService) Run(ctx context.Context) (Report, error) {
	if !gs.running.CompareAndSwap(false, true) {
		return Report{}, ErrAlreadyRunning
	}
	defer gs.running.Store(false)

	return gs.run(ctx)
}

func (gs *GeocodingService) run(ctx context.Context) (Report, error) {
	pending := gs.Pending()
	report := Report{Pending: len(pending)}

	if len(pending) == 0 {
		gs.log.InfoContext(ctx, "All package points already geocoded.")
		gs.metrics.RunsTotal.WithLabelValues("noop").Inc()
		return report, nil
	}

	gs.log.InfoContext(
		ctx,
		"Found package points to geocode.",
		"pending", len(pending),
		"group_size", gs.opts.GroupSize,
	)

	for start := 0; start < len(pending); start += gs.opts.GroupSize {
		end := min(start+gs.opts.GroupSize, len(pending))

		resolved := gs.processGroup(ctx, pending[start:end])
		report.Groups++
		report.Resolved += resolved
		report.Failed += end - start - resolved
		gs.metrics.GroupsTotal.Inc()

		if end == len(pending) {
			break
		}
		if err := gs.sleep(ctx, gs.opts.GroupDelay); err != nil {
			gs.metrics.RunsTotal.WithLabelValues("interrupted").Inc()
			return report, fmt.Errorf("geocoding run interrupted after %d groups: %w", report.Groups, err)
		}
	}

	gs.log.InfoContext(
		ctx,
		"Geocoding run finished",
		"resolved", report.Resolved,
		"failed", report.Failed,
		"groups", report.Groups,
	)
	gs.metrics.RunsTotal.WithLabelValues("completed").Inc()

	return report, nil
}

// processGroup looks up every address of the group concurrently and waits for
// all of them. It returns the number of new cache entries.
func (gs *GeocodingService) processGroup(ctx context.Context, group []models.Address) int {
	var (
		wgr      sync.WaitGroup
		resolved atomic.Int64
	)

	for _, addr := range group {
		wgr.Add(1)
		go func(addr models.Address) {
			defer wgr.Done()
			ok := gs.resolve(ctx, addr)
			if ok {
				resolved.Add(1)
			}
			if gs.opts.Progress != nil {
				gs.opts.Progress(addr, ok)
			}
		}(addr)
	}

	wgr.Wait()

	return int(resolved.Load())
}

// resolve performs a single lookup for addr. Failures are logged and counted,
// never retried.
func (gs *GeocodingService) resolve(ctx context.Context, addr models.Address) bool {
	gs.metrics.InflightLookups.Inc()
	defer gs.metrics.InflightLookups.Dec()

	gs.log.DebugContext(ctx, "Geocoding package point", "id", addr.ID, "name", addr.Name)

	startTime := time.Now()
	coords, err := gs.provider.Geocode(ctx, addr.Address)
	gs.metrics.RequestSeconds.WithLabelValues(gs.providerName).Observe(time.Since(startTime).Seconds())

	if err != nil {
		if geocoding.IsNotFound(err) {
			gs.log.DebugContext(ctx, "No coordinates found", "id", addr.ID, "address", addr.Address)
			gs.metrics.LookupsTotal.WithLabelValues("not_found").Inc()
			return false
		}
		gs.log.WarnContext(ctx, "Geocoding failed", "id", addr.ID, "name", addr.Name, "error", err)
		gs.metrics.LookupsTotal.WithLabelValues("failure").Inc()
		gs.metrics.APIErrors.Inc()
		return false
	}

	if coords == nil || !coords.Valid() {
		gs.log.WarnContext(ctx, "Provider returned unusable coordinates", "id", addr.ID, "coords", coords)
		gs.metrics.LookupsTotal.WithLabelValues("invalid").Inc()
		return false
	}

	if !gs.cache.Put(ctx, addr.ID, *coords) {
		gs.metrics.LookupsTotal.WithLabelValues("duplicate").Inc()
		return false
	}

	gs.metrics.LookupsTotal.WithLabelValues("success").Inc()
	gs.metrics.CacheEntries.Set(float64(gs.cache.Len()))

	return true
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
