package main

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/testimonial-server/internal/config"
	repo "github.com/janhq/testimonial-server/internal/infrastructure/repository/testimonial"
)

func TestProvideMetadataStoreMemory(t *testing.T) {
	cfg := &config.Config{MetadataBackend: config.MetadataBackendMemory}

	store, cleanup, err := provideMetadataStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &repo.InMemoryRepository{}, provideRepository(store))
	assert.Nil(t, store.ready)
}

func TestProvideServerOptionsLocalBackend(t *testing.T) {
	cfg := &config.Config{
		StorageBackend:    config.StorageBackendLocal,
		LocalStoragePath:  t.TempDir(),
		LocalStorageRoute: "/assets",
		MetadataBackend:   config.MetadataBackendMemory,
	}
	assets, err := provideAssetStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	metadata, cleanup, err := provideMetadataStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer cleanup()

	opts := provideServerOptions(cfg, metadata, assets)
	assert.Equal(t, cfg.LocalStoragePath, opts.LocalAssetDir)
	assert.Contains(t, opts.Readiness, "storage")
	assert.NotContains(t, opts.Readiness, "database")
	assert.NotNil(t, provideAssets(assets))
}

func TestProvideServerOptionsS3Backend(t *testing.T) {
	cfg := &config.Config{StorageBackend: config.StorageBackendS3}
	assets, err := provideAssetStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	opts := provideServerOptions(cfg, &metadataStore{ready: func(context.Context) error { return nil }}, assets)
	assert.Empty(t, opts.LocalAssetDir)
	assert.Contains(t, opts.Readiness, "database")
}
