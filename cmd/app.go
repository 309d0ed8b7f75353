package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/pakketpunt/internal/cache"
	"github.com/UnknownOlympus/pakketpunt/internal/catalog"
	"github.com/UnknownOlympus/pakketpunt/internal/config"
	"github.com/UnknownOlympus/pakketpunt/internal/geocoding"
	"github.com/UnknownOlympus/pakketpunt/internal/metrics"
	"github.com/UnknownOlympus/pakketpunt/internal/models"
	"github.com/UnknownOlympus/pakketpunt/internal/service"
	"github.com/UnknownOlympus/pakketpunt/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// app bundles everything the commands share.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	reg      *prometheus.Registry
	catalog  *catalog.Catalog
	slot     store.Slot
	cache    *cache.Cache
	resolver *service.GeocodingService
}

// newApp loads configuration and wires catalog, cache slot, provider and resolver.
// progress may be nil.
func newApp(ctx context.Context, progress func(models.Address, bool)) (*app, error) {
	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	cat, err := catalog.Load()
	if err != nil {
		return nil, err
	}
	logger.DebugContext(ctx, "Catalog loaded", "points", cat.Len())

	slot, err := store.NewSlot(ctx, store.Options{
		Backend: cfg.Cache.Backend,
		Name:    cfg.Cache.Slot,
		Dir:     cfg.Cache.Dir,
		Redis: store.RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		},
		Postgres: store.PostgresOptions{
			Host:     cfg.Cache.Database.Host,
			Port:     cfg.Cache.Database.Port,
			User:     cfg.Cache.Database.User,
			Password: cfg.Cache.Database.Password,
			Name:     cfg.Cache.Database.Name,
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache slot: %w", err)
	}

	geoCache, err := cache.Open(ctx, slot, logger)
	if err != nil {
		_ = slot.Close()
		return nil, err
	}

	geoProvider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Provider.Type),
		APIKey:    cfg.Provider.APIKey,
		RateLimit: cfg.Provider.RateLimit,
		BaseURL:   cfg.Provider.BaseURL,
		Logger:    logger,
	})
	if err != nil {
		_ = slot.Close()
		return nil, fmt.Errorf("failed to create geocoding provider: %w", err)
	}
	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Provider.Type)

	resolver := service.NewGeocodingService(
		logger,
		cat,
		geoCache,
		geoProvider,
		cfg.Provider.Type, // Provider name for metrics
		appMetrics,
		service.Options{
			GroupSize:  cfg.Resolver.GroupSize,
			GroupDelay: cfg.Resolver.GroupDelay,
			MaxPoints:  cfg.Resolver.MaxPoints,
			Progress:   progress,
		},
	)

	return &app{
		cfg:      cfg,
		log:      logger,
		reg:      reg,
		catalog:  cat,
		slot:     slot,
		cache:    geoCache,
		resolver: resolver,
	}, nil
}

func (a *app) Close() {
	if err := a.slot.Close(); err != nil {
		a.log.Error("failed to close cache slot", "error", err)
	}
}
