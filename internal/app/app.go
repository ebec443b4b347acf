// Package app wires configuration, storage and services together for the
// server and the command line tool.
package app

import (
	"alcyxob/fitplan/internal/api"
	"alcyxob/fitplan/internal/backup"
	"alcyxob/fitplan/internal/cache"
	"alcyxob/fitplan/internal/config"
	"alcyxob/fitplan/internal/layout"
	"alcyxob/fitplan/internal/metrics"
	"alcyxob/fitplan/internal/planner"
	"alcyxob/fitplan/internal/repository"
	"alcyxob/fitplan/internal/repository/local"
	"alcyxob/fitplan/internal/repository/mongo"
	"alcyxob/fitplan/internal/service"
	"alcyxob/fitplan/internal/storage"
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const metricsNamespace = "fitplan"

type App struct {
	Config   config.Config
	Store    repository.DataStore
	Metrics  *metrics.Manager
	Registry *prometheus.Registry
	Services api.Services
}

// OpenStore opens the configured store and brings it to the current schema.
func OpenStore(ctx context.Context, cfg config.Config) (repository.DataStore, error) {
	store, _, err := OpenStoreWithReport(ctx, cfg)
	return store, err
}

// OpenStoreWithReport is OpenStore that also returns what the migration changed.
func OpenStoreWithReport(ctx context.Context, cfg config.Config) (repository.DataStore, repository.MigrationReport, error) {
	var report repository.MigrationReport
	var store repository.DataStore
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		client, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			return nil, report, fmt.Errorf("connect to MongoDB: %w", err)
		}
		ms := mongo.NewStore(client, client.Database(cfg.Database.Name))
		if err := ms.EnsureIndexes(ctx); err != nil {
			_ = ms.Close(ctx)
			return nil, report, fmt.Errorf("ensure indexes: %w", err)
		}
		store = ms
	default:
		ls, err := local.Open(cfg.Store.Path)
		if err != nil {
			return nil, report, err
		}
		store = ls
	}

	report, err := store.Migrate(ctx)
	if err != nil {
		_ = store.Close(ctx)
		return nil, report, fmt.Errorf("migrate store: %w", err)
	}
	if report.WorkoutsChanged > 0 || report.FromVersion != report.ToVersion {
		log.Infof("store migrated from schema v%d to v%d, %d workouts changed",
			report.FromVersion, report.ToVersion, report.WorkoutsChanged)
	}
	return store, report, nil
}

// New opens the store and builds every service on top of it.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var archive storage.FileStorage
	if cfg.S3.Enabled {
		archive, err = storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("init S3 archive: %w", err)
		}
	}

	var renderCache *cache.RenderCache
	if cfg.Cache.Enabled {
		renderCache = cache.NewRenderCache(cfg.Cache.SizeMB, cfg.Cache.TTL)
	}

	registry := prometheus.NewRegistry()
	metricsManager := metrics.NewManager(metricsNamespace, "server", registry)

	renderer := layout.NewRenderer(layout.WithCompression(cfg.Render.Compress))
	workouts := service.NewWorkoutService(store.Workouts(), store.Clients(), planner.NewEditor(nil), archive)
	documents := service.NewDocumentService(store.Workouts(), store.CoachProfiles(), renderer, metricsManager, service.DocumentOptions{
		Cache:   renderCache,
		Archive: archive,
		Timeout: cfg.Render.Timeout,
	})

	return &App{
		Config:   cfg,
		Store:    store,
		Metrics:  metricsManager,
		Registry: registry,
		Services: api.Services{
			Workouts:     workouts,
			Clients:      service.NewClientService(store.Clients()),
			CoachProfile: service.NewCoachProfileService(store.CoachProfiles()),
			Documents:    documents,
			Backup:       service.NewBackupService(backup.NewCodec(store), metricsManager, archive, renderCache),
			Stats:        service.NewStatsService(store.Workouts(), store.Clients(), documents),
		},
	}, nil
}

func (a *App) Close(ctx context.Context) error {
	return a.Store.Close(ctx)
}
