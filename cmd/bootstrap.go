package cmd

import (
	"context"
	"fmt"
	"time"

	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/logger"
	"catalog-sync/core/metrics"
	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/catalog/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// environment holds what every command needs once configuration is loaded.
type environment struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	service  *catalog.Service
}

// bootstrap loads configuration and connects the database, the bucket and the catalog.
func bootstrap(ctx context.Context) (*environment, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.Migrate(db); err != nil {
		return nil, err
	}
	l.Debug("Connected to database", zap.String("driver", cfg.Database.Driver))

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}
	bucketCtx, cancel := context.WithTimeout(ctx, time.Duration(max(cfg.Storage.TimeoutSeconds, 1))*time.Second)
	defer cancel()
	if err := storage.EnsureBucket(bucketCtx, client, cfg.Storage); err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.NewSyncMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	svc := catalog.NewService(catalog.Dependencies{
		DB:          db,
		Storage:     client,
		Bucket:      cfg.Storage.Bucket,
		MediaPrefix: cfg.Storage.MediaPrefix,
		Catalog:     cfg.Catalog,
		Metrics:     m,
		Logger:      l,
	})

	return &environment{cfg: cfg, logger: l, registry: registry, service: svc}, nil
}
