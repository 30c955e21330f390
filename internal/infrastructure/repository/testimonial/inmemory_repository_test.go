package testimonial

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/janhq/testimonial-server/internal/domain/testimonial"
	"github.com/janhq/testimonial-server/internal/utils/platformerrors"
)

func frozenClock() func() time.Time {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func TestInMemoryCreateAssignsIDAndTimestamps(t *testing.T) {
	repo := NewInMemoryRepository()
	record := &domain.Testimonial{Name: "Ana", VideoURL: "v", ThumbnailURL: "t"}

	require.NoError(t, repo.Create(context.Background(), record))

	assert.NotEmpty(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
	assert.Equal(t, record.CreatedAt, record.UpdatedAt)

	got, err := repo.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ana", got.Name)
}

func TestInMemoryListNewestFirstWithFrozenClock(t *testing.T) {
	repo := NewInMemoryRepositoryWithClock(frozenClock())
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		record := &domain.Testimonial{Name: name}
		require.NoError(t, repo.Create(ctx, record))
		ids = append(ids, record.ID)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Name)
	assert.Equal(t, "first", list[2].Name)
	for i := 1; i < len(list); i++ {
		assert.True(t, list[i-1].CreatedAt.After(list[i].CreatedAt))
	}
}

func TestInMemoryGetUnknownReturnsNil(t *testing.T) {
	repo := NewInMemoryRepository()
	got, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryUpdateKeepsCreatedAt(t *testing.T) {
	repo := NewInMemoryRepositoryWithClock(frozenClock())
	ctx := context.Background()
	record := &domain.Testimonial{Name: "Ana"}
	require.NoError(t, repo.Create(ctx, record))
	created := record.CreatedAt

	changed := *record
	changed.Name = "Ana Maria"
	changed.CreatedAt = time.Time{}
	require.NoError(t, repo.Update(ctx, &changed))

	assert.Equal(t, created, changed.CreatedAt)
	assert.True(t, changed.UpdatedAt.After(created))

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", got.Name)
}

func TestInMemoryUpdateAndDeleteUnknown(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	err := repo.Update(ctx, &domain.Testimonial{ID: "nope"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	err = repo.Delete(ctx, "nope")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestInMemoryReturnsCopies(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	record := &domain.Testimonial{Name: "Ana"}
	require.NoError(t, repo.Create(ctx, record))

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", again.Name)
}
