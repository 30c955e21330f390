package testimonial

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/janhq/testimonial-server/internal/domain/testimonial"
	"github.com/janhq/testimonial-server/internal/infrastructure/database/entities"
	"github.com/janhq/testimonial-server/internal/utils/platformerrors"
)

// PostgresRepository persists testimonials with gorm.
type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *domain.Testimonial) error {
	entity := toEntity(t)
	if entity.ID == uuid.Nil {
		entity.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create testimonial",
			err,
			"b1e7c3a9-2d4f-4b6e-8a1c-9f3d5e7b2a12",
		)
	}
	*t = mapEntity(entity)
	return nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Testimonial, error) {
	var rows []entities.Testimonial
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list testimonials",
			err,
			"c2f8d4b1-3e5a-4c7f-9b2d-1a4e6f8c3b13",
		)
	}
	out := make([]*domain.Testimonial, 0, len(rows))
	for _, row := range rows {
		t := mapEntity(row)
		out = append(out, &t)
	}
	return out, nil
}

// GetByID returns (nil, nil) when no row matches, including ids that are not UUIDs.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Testimonial, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	var entity entities.Testimonial
	err = r.db.WithContext(ctx).Where("id = ?", parsed).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get testimonial by id",
			err,
			"d3a9e5c2-4f6b-4d8a-8c3e-2b5f7a9d4c14",
		)
	}
	t := mapEntity(entity)
	return &t, nil
}

func (r *PostgresRepository) Update(ctx context.Context, t *domain.Testimonial) error {
	parsed, err := uuid.Parse(t.ID)
	if err != nil {
		return notFound(ctx, t.ID)
	}
	var entity entities.Testimonial
	result := r.db.WithContext(ctx).
		Model(&entity).
		Where("id = ?", parsed).
		Updates(map[string]any{
			"name":          t.Name,
			"location":      t.Location,
			"product_name":  t.ProductName,
			"video_url":     t.VideoURL,
			"thumbnail_url": t.ThumbnailURL,
		})
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update testimonial",
			result.Error,
			"e4b1f6d3-5a7c-4e9b-9d4f-3c6a8b1e5d15",
		)
	}
	if result.RowsAffected == 0 {
		return notFound(ctx, t.ID)
	}

	if err := r.db.WithContext(ctx).Where("id = ?", parsed).First(&entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to reload testimonial",
			err,
			"f5c2a7e4-6b8d-4f1c-8e5a-4d7b9c2f6e16",
		)
	}
	*t = mapEntity(entity)
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return notFound(ctx, id)
	}
	result := r.db.WithContext(ctx).Where("id = ?", parsed).Delete(&entities.Testimonial{})
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete testimonial",
			result.Error,
			"a6d3b8f5-7c9e-4a2d-9f6b-5e8c1d3a7f17",
		)
	}
	if result.RowsAffected == 0 {
		return notFound(ctx, id)
	}
	return nil
}

func toEntity(t *domain.Testimonial) entities.Testimonial {
	id, _ := uuid.Parse(t.ID)
	return entities.Testimonial{
		ID:           id,
		Name:         t.Name,
		Location:     t.Location,
		ProductName:  t.ProductName,
		VideoURL:     t.VideoURL,
		ThumbnailURL: t.ThumbnailURL,
	}
}

func mapEntity(entity entities.Testimonial) domain.Testimonial {
	return domain.Testimonial{
		ID:           entity.ID.String(),
		Name:         entity.Name,
		Location:     entity.Location,
		ProductName:  entity.ProductName,
		VideoURL:     entity.VideoURL,
		ThumbnailURL: entity.ThumbnailURL,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}
