package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/testimonial-server/internal/config"
	domain "github.com/janhq/testimonial-server/internal/domain/testimonial"
	"github.com/janhq/testimonial-server/internal/infrastructure/metrics"
	"github.com/janhq/testimonial-server/internal/infrastructure/observability"
)

const backendLocal = "local"

var errLocalStorageDisabled = errors.New("local asset storage is not configured; set ASSET_LOCAL_STORAGE_PATH to enable")

// LocalStore keeps testimonial assets on the local filesystem.
type LocalStore struct {
	basePath string
	baseURL  string
	log      zerolog.Logger
	disabled bool
}

var _ domain.AssetStore = (*LocalStore)(nil)

// NewLocalStore creates a new local filesystem asset store.
func NewLocalStore(cfg *config.Config, log zerolog.Logger) (*LocalStore, error) {
	logger := log.With().Str("component", "local-asset-store").Logger()

	basePath := strings.TrimSpace(cfg.LocalStoragePath)
	if basePath == "" {
		logger.Warn().Msg("ASSET_LOCAL_STORAGE_PATH is not set; local asset storage will be disabled")
		return &LocalStore{log: logger, disabled: true}, nil
	}

	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory: %w", err)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.LocalStorageBaseURL), "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d%s", cfg.HTTPPort, cfg.LocalStorageRoute)
	}

	store := &LocalStore{
		basePath: basePath,
		baseURL:  baseURL,
		log:      logger,
	}

	logger.Info().
		Str("path", basePath).
		Str("base_url", baseURL).
		Msg("local asset storage initialized")

	return store, nil
}

func (l *LocalStore) ensureEnabled() error {
	if l.disabled {
		return errLocalStorageDisabled
	}
	return nil
}

// BasePath is the directory served under the local asset route.
func (l *LocalStore) BasePath() string {
	return l.basePath
}

// Upload copies the staged file below the base directory.
func (l *LocalStore) Upload(ctx context.Context, localPath, prefix string) (asset domain.Asset, err error) {
	start := time.Now()
	_, span := observability.StartStorageSpan(ctx, backendLocal, "upload", prefix)
	defer func() {
		observability.RecordError(span, err)
		span.End()
		metrics.RecordStorageOperation(backendLocal, "upload", status(err), time.Since(start).Seconds())
	}()

	if err := l.ensureEnabled(); err != nil {
		return domain.Asset{}, err
	}

	staged, err := describeFile(localPath, prefix)
	if err != nil {
		return domain.Asset{}, err
	}
	fullPath, err := l.objectPath(staged.key)
	if err != nil {
		return domain.Asset{}, err
	}

	src, err := os.Open(localPath)
	if err != nil {
		return domain.Asset{}, fmt.Errorf("open staged file: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return domain.Asset{}, fmt.Errorf("failed to create directory: %w", err)
	}
	dst, err := os.Create(fullPath)
	if err != nil {
		return domain.Asset{}, fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return domain.Asset{}, fmt.Errorf("failed to write file: %w", err)
	}

	metrics.RecordUpload(prefix, written)
	l.log.Debug().
		Str("key", staged.key).
		Int64("bytes", written).
		Msg("asset written to local storage")

	return domain.Asset{URL: l.baseURL + "/" + encodeKey(staged.key), Key: staged.key}, nil
}

// Delete removes the file for key. A missing file is not an error.
func (l *LocalStore) Delete(ctx context.Context, key string) (err error) {
	start := time.Now()
	_, span := observability.StartStorageSpan(ctx, backendLocal, "delete", key)
	defer func() {
		observability.RecordError(span, err)
		span.End()
		metrics.RecordStorageOperation(backendLocal, "delete", status(err), time.Since(start).Seconds())
	}()

	if err := l.ensureEnabled(); err != nil {
		return err
	}
	fullPath, err := l.objectPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// KeyFromURL derives the object key from a URL this store issued. URLs outside the store's
// base yield "" and are logged, since their objects cannot be located.
func (l *LocalStore) KeyFromURL(rawURL string) string {
	key := keyFromURL(rawURL, l.baseURL)
	if key == "" && strings.TrimSpace(rawURL) != "" {
		l.log.Warn().Str("url", rawURL).Str("base_url", l.baseURL).Msg("asset URL is outside the store base; object left in place")
	}
	return key
}

// Health reports whether the base directory is reachable.
func (l *LocalStore) Health(context.Context) error {
	if l.disabled {
		return nil
	}
	_, err := os.Stat(l.basePath)
	return err
}

// objectPath maps key to a path under basePath, rejecting keys that escape it.
func (l *LocalStore) objectPath(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("object key is required")
	}
	if strings.HasPrefix(key, "/") || strings.HasPrefix(key, "\\") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	base, err := filepath.Abs(l.basePath)
	if err != nil {
		return "", fmt.Errorf("resolve storage path: %w", err)
	}
	full := filepath.Join(base, filepath.FromSlash(key))
	rel, err := filepath.Rel(base, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return full, nil
}
