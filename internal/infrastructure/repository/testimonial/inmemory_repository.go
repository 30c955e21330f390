package testimonial

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/janhq/testimonial-server/internal/domain/testimonial"
	"github.com/janhq/testimonial-server/internal/utils/platformerrors"
)

// InMemoryRepository is a thread-safe repository useful for demos/tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]domain.Testimonial
	now     func() time.Time
	last    time.Time
}

// NewInMemoryRepository returns an empty repository using the wall clock.
func NewInMemoryRepository() *InMemoryRepository {
	return NewInMemoryRepositoryWithClock(time.Now)
}

// NewInMemoryRepositoryWithClock lets tests control timestamps.
func NewInMemoryRepositoryWithClock(now func() time.Time) *InMemoryRepository {
	return &InMemoryRepository{
		entries: make(map[string]domain.Testimonial),
		now:     now,
	}
}

// tick returns a timestamp strictly after every previously issued one.
func (r *InMemoryRepository) tick() time.Time {
	ts := r.now().UTC()
	if !ts.After(r.last) {
		ts = r.last.Add(time.Microsecond)
	}
	r.last = ts
	return ts
}

func (r *InMemoryRepository) Create(ctx context.Context, t *domain.Testimonial) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	ts := r.tick()
	t.CreatedAt = ts
	t.UpdatedAt = ts
	r.entries[t.ID] = *t
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*domain.Testimonial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Testimonial, 0, len(r.entries))
	for _, entry := range r.entries {
		t := entry
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*domain.Testimonial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, t *domain.Testimonial) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entries[t.ID]
	if !ok {
		return notFound(ctx, t.ID)
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = r.tick()
	r.entries[t.ID] = *t
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return notFound(ctx, id)
	}
	delete(r.entries, id)
	return nil
}

func notFound(ctx context.Context, id string) error {
	return platformerrors.NewErrorWithContext(
		ctx,
		platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound,
		"testimonial not found",
		nil,
		"c8f5d1b7-9e2a-4c4f-9b8d-7a1e3f5c9b19",
		map[string]any{"testimonial_id": id},
	)
}
