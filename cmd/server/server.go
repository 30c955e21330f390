package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/janhq/testimonial-server/internal/config"
	domain "github.com/janhq/testimonial-server/internal/domain/testimonial"
	"github.com/janhq/testimonial-server/internal/infrastructure/auth"
	"github.com/janhq/testimonial-server/internal/infrastructure/logger"
	"github.com/janhq/testimonial-server/internal/infrastructure/observability"
	"github.com/janhq/testimonial-server/internal/interfaces/httpserver"
)

// @title Testimonial API
// @version 1.0
// @description Testimonial records with video and thumbnail assets
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	metadata, closeMetadata, err := provideMetadataStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize metadata store")
	}
	defer closeMetadata()

	assets, err := provideAssetStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize asset storage")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth")
	}
	defer authValidator.Close()

	service := domain.NewService(metadata.repo, assets, log)
	httpServer := httpserver.New(cfg, log, service, authValidator, provideServerOptions(cfg, metadata, assets))
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
