package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/testimonial-server/internal/config"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(&config.Config{
		LocalStoragePath:    filepath.Join(t.TempDir(), "assets"),
		LocalStorageBaseURL: "http://localhost:8290/assets/",
	}, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func TestLocalStoreUploadAndDelete(t *testing.T) {
	store := newTestLocalStore(t)
	ctx := context.Background()
	src := writeFile(t, "thumb.png", pngHeader)

	asset, err := store.Upload(ctx, src, "testimonials/thumbnails")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(asset.URL, "http://localhost:8290/assets/testimonials/thumbnails/"))
	assert.Equal(t, asset.Key, store.KeyFromURL(asset.URL))

	stored, err := os.ReadFile(filepath.Join(store.BasePath(), filepath.FromSlash(asset.Key)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)

	// staged source is left for the caller to clean up
	_, err = os.Stat(src)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, asset.Key))
	_, err = os.Stat(filepath.Join(store.BasePath(), filepath.FromSlash(asset.Key)))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStoreDeleteMissingIsNotAnError(t *testing.T) {
	store := newTestLocalStore(t)
	assert.NoError(t, store.Delete(context.Background(), "testimonials/videos/missing.mp4"))
}

func TestLocalStoreUploadMissingSource(t *testing.T) {
	store := newTestLocalStore(t)
	_, err := store.Upload(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"), "testimonials/videos")
	require.Error(t, err)
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store := newTestLocalStore(t)
	for _, key := range []string{"", "../outside.txt", "/etc/passwd", "testimonials/../../x"} {
		assert.Error(t, store.Delete(context.Background(), key), key)
	}
}

func TestLocalStoreDisabledWithoutPath(t *testing.T) {
	store, err := NewLocalStore(&config.Config{}, zerolog.Nop())
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "/tmp/x.mp4", "testimonials/videos")
	assert.ErrorIs(t, err, errLocalStorageDisabled)
	assert.ErrorIs(t, store.Delete(context.Background(), "k"), errLocalStorageDisabled)
	assert.NoError(t, store.Health(context.Background()))
}

func TestLocalStoreDefaultBaseURL(t *testing.T) {
	store, err := NewLocalStore(&config.Config{
		LocalStoragePath:  t.TempDir(),
		HTTPPort:          9000,
		LocalStorageRoute: "/assets",
	}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/assets", store.baseURL)
}

func TestNewFromConfigSelectsBackend(t *testing.T) {
	local, err := NewFromConfig(context.Background(), &config.Config{
		StorageBackend:   config.StorageBackendLocal,
		LocalStoragePath: t.TempDir(),
	}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, local)

	remote, err := NewFromConfig(context.Background(), &config.Config{StorageBackend: config.StorageBackendS3}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &S3Store{}, remote)
}
