// Package review serves movie reviews and their live stream.
package review

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

// Service implements the review operations.
type Service struct {
	repo      storage.ReviewRepository
	publisher stream.Publisher[domain.Review]
	log       *slog.Logger
}

// NewService creates a review service. Every created review is handed to publisher.
func NewService(repo storage.ReviewRepository, publisher stream.Publisher[domain.Review], logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       logger.With("component", "review"),
	}
}

// Create validates and stores review, assigning an id when none is given.
func (s *Service) Create(ctx context.Context, review domain.Review) (*domain.Review, error) {
	if err := review.Validate(); err != nil {
		s.log.Info("Rejected review", "error", err)
		return nil, err
	}
	if review.ReviewID == "" {
		review.ReviewID = uuid.NewString()
	}

	if err := s.repo.Save(ctx, &review); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, &httputil.BadRequestError{Message: fmt.Sprintf("review %s already exists", review.ReviewID)}
		}
		return nil, err
	}
	s.log.Info("Review added", "reviewId", review.ReviewID, "movieInfoId", *review.MovieInfoID)

	if err := s.publisher.Publish(ctx, review); err != nil {
		s.log.Error("Failed to publish review", "reviewId", review.ReviewID, "error", err)
	}
	return &review, nil
}

// List returns every review, or only those of movieInfoID when set.
func (s *Service) List(ctx context.Context, movieInfoID *int64) ([]domain.Review, error) {
	if movieInfoID != nil {
		return s.repo.GetByMovieInfoID(ctx, *movieInfoID)
	}
	return s.repo.GetAll(ctx)
}

// Update changes the comment and rating of an existing review.
func (s *Service) Update(ctx context.Context, id string, changes domain.Review) (*domain.Review, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, reviewNotFound(id)
	}

	existing.Comment = changes.Comment
	existing.Rating = changes.Rating
	if err := existing.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, existing); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, reviewNotFound(id)
		}
		return nil, err
	}
	return existing, nil
}

// Delete removes the review stored under id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func reviewNotFound(id string) error {
	return &httputil.NotFoundError{Message: fmt.Sprintf("Review not found for given review id: %s", id)}
}
