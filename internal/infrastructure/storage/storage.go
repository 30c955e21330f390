package storage

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/janhq/testimonial-server/internal/config"
	domain "github.com/janhq/testimonial-server/internal/domain/testimonial"
)

// Store is an AssetStore that can also report backend health.
type Store interface {
	domain.AssetStore
	Health(ctx context.Context) error
}

// NewFromConfig builds the asset store selected by ASSET_STORAGE_BACKEND.
func NewFromConfig(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Store, error) {
	if cfg.IsLocalStorage() {
		return NewLocalStore(cfg, log)
	}
	return NewS3Store(ctx, cfg, log)
}
