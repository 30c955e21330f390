package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/janhq/testimonial-server/internal/config"
	domain "github.com/janhq/testimonial-server/internal/domain/testimonial"
	"github.com/janhq/testimonial-server/internal/infrastructure/database"
	repo "github.com/janhq/testimonial-server/internal/infrastructure/repository/testimonial"
	"github.com/janhq/testimonial-server/internal/infrastructure/storage"
	"github.com/janhq/testimonial-server/internal/interfaces/httpserver"
)

// metadataStore is the selected Repository plus its readiness probe.
type metadataStore struct {
	repo  domain.Repository
	ready httpserver.ReadinessCheck
}

// provideMetadataStore opens Postgres and applies migrations, or falls back to the in-memory
// repository when TESTIMONIAL_METADATA_BACKEND=memory.
func provideMetadataStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*metadataStore, func(), error) {
	if cfg.IsMemoryMetadata() {
		log.Warn().Msg("using in-memory metadata store; testimonials are lost on restart")
		return &metadataStore{repo: repo.NewInMemoryRepository()}, func() {}, nil
	}

	db, err := database.Connect(database.ConfigFromApp(cfg))
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("close database")
		}
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		cleanup()
		return nil, nil, err
	}

	return &metadataStore{
		repo: repo.NewPostgresRepository(db),
		ready: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	}, cleanup, nil
}

func provideRepository(m *metadataStore) domain.Repository {
	return m.repo
}

func provideAssetStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.Store, error) {
	return storage.NewFromConfig(ctx, cfg, log)
}

func provideAssets(s storage.Store) domain.AssetStore {
	return s
}

func provideServerOptions(cfg *config.Config, m *metadataStore, s storage.Store) httpserver.Options {
	opts := httpserver.Options{
		Readiness: map[string]httpserver.ReadinessCheck{
			"storage": s.Health,
		},
	}
	if m.ready != nil {
		opts.Readiness["database"] = m.ready
	}
	if local, ok := s.(*storage.LocalStore); ok && cfg.IsLocalStorage() {
		opts.LocalAssetDir = local.BasePath()
	}
	return opts
}
