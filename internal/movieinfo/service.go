// Package movieinfo serves the movie catalog and its live stream.
package movieinfo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/vietddude/movies/internal/core/domain"
	"github.com/vietddude/movies/internal/httputil"
	"github.com/vietddude/movies/internal/infra/storage"
	"github.com/vietddude/movies/internal/stream"
)

// Service implements the catalog operations.
type Service struct {
	repo      storage.MovieInfoRepository
	publisher stream.Publisher[domain.MovieInfo]
	log       *slog.Logger
}

// NewService creates a catalog service. Every created record is handed to publisher.
func NewService(repo storage.MovieInfoRepository, publisher stream.Publisher[domain.MovieInfo], logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       logger.With("component", "movie-info"),
	}
}

// Create validates and stores info, assigning an id when none is given.
func (s *Service) Create(ctx context.Context, info domain.MovieInfo) (*domain.MovieInfo, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	if info.MovieInfoID == "" {
		info.MovieInfoID = uuid.NewString()
	}

	s.log.Info("Adding movie info", "movieInfoId", info.MovieInfoID, "name", info.Name)
	if err := s.repo.Save(ctx, &info); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, &httputil.BadRequestError{Message: fmt.Sprintf("movie info %s already exists", info.MovieInfoID)}
		}
		return nil, err
	}

	if err := s.publisher.Publish(ctx, info); err != nil {
		s.log.Error("Failed to publish movie info", "movieInfoId", info.MovieInfoID, "error", err)
	}
	return &info, nil
}

// Get returns the record stored under id, or nil.
func (s *Service) Get(ctx context.Context, id string) (*domain.MovieInfo, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every record, or only those of year when year is set.
func (s *Service) List(ctx context.Context, year *int) ([]domain.MovieInfo, error) {
	if year != nil {
		return s.repo.GetByYear(ctx, *year)
	}
	return s.repo.GetAll(ctx)
}

// GetByName returns the first record named name, or nil.
func (s *Service) GetByName(ctx context.Context, name string) (*domain.MovieInfo, error) {
	return s.repo.GetByName(ctx, name)
}

// Update replaces the record stored under id.
func (s *Service) Update(ctx context.Context, id string, info domain.MovieInfo) (*domain.MovieInfo, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	info.MovieInfoID = id

	if err := s.repo.Update(ctx, id, &info); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &httputil.NotFoundError{Message: fmt.Sprintf("Movie info not found for movie ID: %s", id)}
		}
		return nil, err
	}
	return &info, nil
}

// Delete removes the record stored under id.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.log.Info("Deleting movie info", "movieInfoId", id)
	return s.repo.Delete(ctx, id)
}
