//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/janhq/testimonial-server/internal/config"
	domain "github.com/janhq/testimonial-server/internal/domain/testimonial"
	"github.com/janhq/testimonial-server/internal/infrastructure/auth"
	"github.com/janhq/testimonial-server/internal/infrastructure/logger"
	"github.com/janhq/testimonial-server/internal/interfaces/httpserver"
)

var testimonialSet = wire.NewSet(
	provideMetadataStore,
	provideRepository,
	provideAssetStore,
	provideAssets,
	domain.NewService,
)

// BuildApplication assembles the testimonial API with Wire.
func BuildApplication(ctx context.Context) (*Application, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		auth.NewValidator,
		testimonialSet,
		provideServerOptions,
		httpserver.New,
		NewApplication,
	)
	return nil, nil, nil
}
