package storage

import (
	"context"
	"errors"

	"github.com/vietddude/movies/internal/core/domain"
)

var (
	// ErrNotFound is returned when an update targets a record that doesn't exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a record with the same id already exists
	ErrDuplicate = errors.New("record already exists")
)

// MovieInfoRepository handles movie catalog storage operations.
// Lookups of a missing id return nil, nil.
type MovieInfoRepository interface {
	// Save inserts a new record
	Save(ctx context.Context, info *domain.MovieInfo) error

	// GetByID retrieves a record by id
	GetByID(ctx context.Context, id string) (*domain.MovieInfo, error)

	// GetAll returns every record in insertion order
	GetAll(ctx context.Context) ([]domain.MovieInfo, error)

	// GetByYear returns records released in year
	GetByYear(ctx context.Context, year int) ([]domain.MovieInfo, error)

	// GetByName returns the first record with the exact name
	GetByName(ctx context.Context, name string) (*domain.MovieInfo, error)

	// Update replaces the record stored under id
	Update(ctx context.Context, id string, info *domain.MovieInfo) error

	// Delete removes a record; deleting a missing id is not an error
	Delete(ctx context.Context, id string) error
}

// ReviewRepository handles review storage operations.
type ReviewRepository interface {
	Save(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	GetAll(ctx context.Context) ([]domain.Review, error)
	GetByMovieInfoID(ctx context.Context, movieInfoID int64) ([]domain.Review, error)
	Update(ctx context.Context, id string, review *domain.Review) error
	Delete(ctx context.Context, id string) error
}
