package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/vietddude/movies/internal/core/domain"
	"github.com/vietddude/movies/internal/infra/storage"
)

// MemoryStorage keeps records in process. Listing preserves insertion order.
type MemoryStorage struct {
	movieInfos     map[string]*domain.MovieInfo
	movieInfoOrder []string
	reviews        map[string]*domain.Review
	reviewOrder    []string
	mu             sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		movieInfos: make(map[string]*domain.MovieInfo),
		reviews:    make(map[string]*domain.Review),
	}
}

func copyMovieInfo(m *domain.MovieInfo) *domain.MovieInfo {
	c := *m
	c.Cast = slices.Clone(m.Cast)
	return &c
}

func copyReview(r *domain.Review) *domain.Review {
	c := *r
	if r.MovieInfoID != nil {
		id := *r.MovieInfoID
		c.MovieInfoID = &id
	}
	return &c
}

// -----------------------------------------------------------------------------
// MovieInfo Repository
// -----------------------------------------------------------------------------

type MovieInfoRepo struct {
	store *MemoryStorage
}

func NewMovieInfoRepo(store *MemoryStorage) *MovieInfoRepo {
	return &MovieInfoRepo{store: store}
}

func (r *MovieInfoRepo) Save(ctx context.Context, info *domain.MovieInfo) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.movieInfos[info.MovieInfoID]; ok {
		return storage.ErrDuplicate
	}
	r.store.movieInfos[info.MovieInfoID] = copyMovieInfo(info)
	r.store.movieInfoOrder = append(r.store.movieInfoOrder, info.MovieInfoID)
	return nil
}

func (r *MovieInfoRepo) GetByID(ctx context.Context, id string) (*domain.MovieInfo, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	m, ok := r.store.movieInfos[id]
	if !ok {
		return nil, nil
	}
	return copyMovieInfo(m), nil
}

func (r *MovieInfoRepo) filter(match func(*domain.MovieInfo) bool) []domain.MovieInfo {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make([]domain.MovieInfo, 0, len(r.store.movieInfoOrder))
	for _, id := range r.store.movieInfoOrder {
		m := r.store.movieInfos[id]
		if match(m) {
			result = append(result, *copyMovieInfo(m))
		}
	}
	return result
}

func (r *MovieInfoRepo) GetAll(ctx context.Context) ([]domain.MovieInfo, error) {
	return r.filter(func(*domain.MovieInfo) bool { return true }), nil
}

func (r *MovieInfoRepo) GetByYear(ctx context.Context, year int) ([]domain.MovieInfo, error) {
	return r.filter(func(m *domain.MovieInfo) bool { return m.Year == year }), nil
}

func (r *MovieInfoRepo) GetByName(ctx context.Context, name string) (*domain.MovieInfo, error) {
	found := r.filter(func(m *domain.MovieInfo) bool { return m.Name == name })
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *MovieInfoRepo) Update(ctx context.Context, id string, info *domain.MovieInfo) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.movieInfos[id]; !ok {
		return storage.ErrNotFound
	}
	updated := copyMovieInfo(info)
	updated.MovieInfoID = id
	r.store.movieInfos[id] = updated
	return nil
}

func (r *MovieInfoRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.movieInfos[id]; !ok {
		return nil
	}
	delete(r.store.movieInfos, id)
	r.store.movieInfoOrder = slices.DeleteFunc(r.store.movieInfoOrder, func(s string) bool { return s == id })
	return nil
}

// -----------------------------------------------------------------------------
// Review Repository
// -----------------------------------------------------------------------------

type ReviewRepo struct {
	store *MemoryStorage
}

func NewReviewRepo(store *MemoryStorage) *ReviewRepo {
	return &ReviewRepo{store: store}
}

func (r *ReviewRepo) Save(ctx context.Context, review *domain.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.reviews[review.ReviewID]; ok {
		return storage.ErrDuplicate
	}
	r.store.reviews[review.ReviewID] = copyReview(review)
	r.store.reviewOrder = append(r.store.reviewOrder, review.ReviewID)
	return nil
}

func (r *ReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rv, ok := r.store.reviews[id]
	if !ok {
		return nil, nil
	}
	return copyReview(rv), nil
}

func (r *ReviewRepo) filter(match func(*domain.Review) bool) []domain.Review {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result := make([]domain.Review, 0, len(r.store.reviewOrder))
	for _, id := range r.store.reviewOrder {
		rv := r.store.reviews[id]
		if match(rv) {
			result = append(result, *copyReview(rv))
		}
	}
	return result
}

func (r *ReviewRepo) GetAll(ctx context.Context) ([]domain.Review, error) {
	return r.filter(func(*domain.Review) bool { return true }), nil
}

func (r *ReviewRepo) GetByMovieInfoID(ctx context.Context, movieInfoID int64) ([]domain.Review, error) {
	return r.filter(func(rv *domain.Review) bool {
		return rv.MovieInfoID != nil && *rv.MovieInfoID == movieInfoID
	}), nil
}

func (r *ReviewRepo) Update(ctx context.Context, id string, review *domain.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.reviews[id]; !ok {
		return storage.ErrNotFound
	}
	updated := copyReview(review)
	updated.ReviewID = id
	r.store.reviews[id] = updated
	return nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.reviews[id]; !ok {
		return nil
	}
	delete(r.store.reviews, id)
	r.store.reviewOrder = slices.DeleteFunc(r.store.reviewOrder, func(s string) bool { return s == id })
	return nil
}

// Verify interface compliance
var (
	_ storage.MovieInfoRepository = (*MovieInfoRepo)(nil)
	_ storage.ReviewRepository    = (*ReviewRepo)(nil)
)
