package testimonial

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/testimonial-server/internal/infrastructure/metrics"
	"github.com/janhq/testimonial-server/internal/infrastructure/observability"
	"github.com/janhq/testimonial-server/internal/utils/platformerrors"
)

// Cleanup reasons reported to metrics and logs.
const (
	cleanupCompensate = "compensate"
	cleanupSuperseded = "superseded"
	cleanupDelete     = "delete"
)

// Service is the testimonial lifecycle manager. It sequences asset store calls against the
// metadata store so a live record never references a missing asset.
type Service interface {
	Create(ctx context.Context, in CreateInput) (*Testimonial, error)
	List(ctx context.Context) ([]*Testimonial, error)
	Get(ctx context.Context, id string) (*Testimonial, error)
	Update(ctx context.Context, id string, in UpdateInput) (*Testimonial, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	assets AssetStore
	log    zerolog.Logger
}

// NewService constructs the lifecycle manager.
func NewService(repo Repository, assets AssetStore, log zerolog.Logger) Service {
	return &service{
		repo:   repo,
		assets: assets,
		log:    log.With().Str("component", "testimonial-service").Logger(),
	}
}

func (s *service) Create(ctx context.Context, in CreateInput) (result *Testimonial, err error) {
	ctx, span := observability.StartLifecycleSpan(ctx, "create", "")
	defer func() { s.finish(span, "create", err) }()

	in.normalize()
	if msg := in.validationMessage(); msg != "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, msg, nil, "5c1f6f0e-8a1b-4d61-9a0c-3f9d2c7b1e01")
	}

	video, err := s.assets.Upload(ctx, in.VideoPath, VideoPrefix)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeStorage, "Failed to upload video to storage.", err, "0d6c2f43-3a8e-4b8e-8f6d-6a1e9f2b4c02")
	}

	thumbnail, err := s.assets.Upload(ctx, in.ThumbnailPath, ThumbnailPrefix)
	if err != nil {
		s.cleanup(ctx, span, cleanupCompensate, video.Key)
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeStorage, "Failed to upload thumbnail to storage.", err, "a4b7e1d9-6c2f-4f0a-9b3e-1d8c5e7f2a03")
	}

	record := &Testimonial{
		Name:         in.Name,
		Location:     in.Location,
		ProductName:  in.ProductName,
		VideoURL:     video.URL,
		ThumbnailURL: thumbnail.URL,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.log.Error().
			Err(err).
			Str("video_key", video.Key).
			Str("thumbnail_key", thumbnail.Key).
			Msg("testimonial not persisted, uploaded assets orphaned")
		return nil, platformerrors.AsPersistenceError(ctx, err, "Something went wrong while creating the testimonial.", "e2f9c4a1-7b3d-4c8e-a6f0-9d1b2c3e4f04")
	}

	span.SetAttributes(attribute.String("testimonial.id", record.ID))
	s.log.Info().Str("testimonial_id", record.ID).Msg("testimonial created")
	return record, nil
}

func (s *service) List(ctx context.Context) (items []*Testimonial, err error) {
	ctx, span := observability.StartLifecycleSpan(ctx, "list", "")
	defer func() { s.finish(span, "list", err) }()

	items, err = s.repo.List(ctx)
	if err != nil {
		return nil, platformerrors.AsPersistenceError(ctx, err, "Failed to fetch testimonials.", "3b8d1e6f-2c4a-4e9b-8d7f-5a6c1b2e3d05")
	}
	if items == nil {
		items = []*Testimonial{}
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id string) (result *Testimonial, err error) {
	ctx, span := observability.StartLifecycleSpan(ctx, "get", id)
	defer func() { s.finish(span, "get", err) }()

	return s.load(ctx, id)
}

func (s *service) Update(ctx context.Context, id string, in UpdateInput) (result *Testimonial, err error) {
	ctx, span := observability.StartLifecycleSpan(ctx, "update", id)
	defer func() { s.finish(span, "update", err) }()

	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// New objects are written before anything is persisted or deleted.
	var uploaded []Asset
	var superseded []string
	replace := func(localPath, prefix string, current *string, message, code string) error {
		if strings.TrimSpace(localPath) == "" {
			return nil
		}
		asset, upErr := s.assets.Upload(ctx, localPath, prefix)
		if upErr != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeStorage, message, upErr, code)
		}
		uploaded = append(uploaded, asset)
		if oldKey := s.assets.KeyFromURL(*current); oldKey != "" && oldKey != asset.Key {
			superseded = append(superseded, oldKey)
		}
		*current = asset.URL
		return nil
	}

	updated := *record
	if err := replace(in.VideoPath, VideoPrefix, &updated.VideoURL, "Failed to upload new video.", "7c2e9f1a-4b6d-4a8c-9e3f-2d1a5b6c7e06"); err != nil {
		return nil, err
	}
	if err := replace(in.ThumbnailPath, ThumbnailPrefix, &updated.ThumbnailURL, "Failed to upload new thumbnail.", "9e4a2c7f-1d3b-4f6e-8a9c-5b2d7e1f3a07"); err != nil {
		for _, asset := range uploaded {
			s.cleanup(ctx, span, cleanupCompensate, asset.Key)
		}
		return nil, err
	}

	if !in.apply(&updated) && len(uploaded) == 0 {
		return record, nil
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		keys := make([]string, 0, len(uploaded))
		for _, asset := range uploaded {
			keys = append(keys, asset.Key)
		}
		s.log.Error().
			Err(err).
			Str("testimonial_id", id).
			Strs("orphaned_keys", keys).
			Msg("testimonial update not persisted, replacement assets orphaned")
		return nil, platformerrors.AsPersistenceError(ctx, err, "Something went wrong while updating the testimonial.", "1f6b3d8e-5a2c-4e7d-9b1f-8c3a6e2d4b08")
	}

	for _, key := range superseded {
		s.cleanup(ctx, span, cleanupSuperseded, key)
	}

	s.log.Info().
		Str("testimonial_id", id).
		Int("assets_replaced", len(uploaded)).
		Msg("testimonial updated")
	return &updated, nil
}

func (s *service) Delete(ctx context.Context, id string) (err error) {
	ctx, span := observability.StartLifecycleSpan(ctx, "delete", id)
	defer func() { s.finish(span, "delete", err) }()

	record, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	keys := []string{
		s.assets.KeyFromURL(record.VideoURL),
		s.assets.KeyFromURL(record.ThumbnailURL),
	}

	// Both deletes are always attempted; their failures never abort the operation.
	var g errgroup.Group
	for _, key := range keys {
		if key == "" {
			continue
		}
		g.Go(func() error {
			s.cleanup(ctx, span, cleanupDelete, key)
			return nil
		})
	}
	_ = g.Wait()

	if err := s.repo.Delete(ctx, record.ID); err != nil {
		return platformerrors.AsPersistenceError(ctx, err, "Something went wrong while deleting the testimonial.", "6d2a8f4c-3e1b-4c9a-8f7e-1b5d3a9c2e09")
	}

	s.log.Info().Str("testimonial_id", id).Msg("testimonial deleted")
	return nil
}

func (s *service) load(ctx context.Context, id string) (*Testimonial, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, notFound(ctx, id)
	}
	record, err := s.repo.GetByID(ctx, id)
	if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		return nil, notFound(ctx, id)
	}
	if err != nil {
		return nil, platformerrors.AsPersistenceError(ctx, err, "Failed to fetch testimonial.", "4a9c6e2f-8b1d-4f3a-9c5e-7d2b1a6f8e10")
	}
	if record == nil {
		return nil, notFound(ctx, id)
	}
	return record, nil
}

// cleanup deletes an object best-effort. Failures are logged and counted, never returned.
func (s *service) cleanup(ctx context.Context, span trace.Span, reason, key string) {
	if key == "" {
		return
	}
	err := s.assets.Delete(ctx, key)
	observability.AddCleanupEvent(span, reason, key, err)
	if err != nil {
		metrics.RecordCleanup(reason, "error")
		s.log.Warn().Err(err).Str("reason", reason).Str("key", key).Msg("asset cleanup failed")
		return
	}
	metrics.RecordCleanup(reason, "success")
	s.log.Debug().Str("reason", reason).Str("key", key).Msg("asset removed")
}

func (s *service) finish(span trace.Span, operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		if pe := platformerrors.GetPlatformError(err); pe != nil {
			outcome = strings.ToLower(string(pe.Type))
		}
		observability.RecordError(span, err)
	}
	metrics.RecordLifecycle(operation, outcome)
	span.End()
}

func notFound(ctx context.Context, id string) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "Testimonial not found.", nil, "8b3e1f7a-6c4d-4a2b-9e8f-3c1d5a7b9e11", map[string]any{"testimonial_id": id})
}
