// Package movies joins a movie info with its reviews.
package movies

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/movies/internal/core/domain"
	"github.com/vietddude/movies/internal/infra/upstream"
	"github.com/vietddude/movies/internal/metrics"
)

// MovieInfoFetcher retrieves one catalog record.
type MovieInfoFetcher interface {
	RetrieveMovieInfo(ctx context.Context, movieID string) (*domain.MovieInfo, error)
}

// ReviewFetcher retrieves the reviews of a catalog record.
type ReviewFetcher interface {
	RetrieveReviews(ctx context.Context, movieInfoID string) ([]domain.Review, error)
}

// Aggregator builds Movie values from the catalog and review services.
type Aggregator struct {
	movieInfos MovieInfoFetcher
	reviews    ReviewFetcher
	log        *slog.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(movieInfos MovieInfoFetcher, reviews ReviewFetcher, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		movieInfos: movieInfos,
		reviews:    reviews,
		log:        logger.With("component", "aggregator"),
	}
}

// RetrieveMovieByID fetches the movie info and its reviews concurrently.
//
// A catalog failure is returned as is and cancels the review call. A review
// not-found yields an empty review list; any other review failure fails the
// whole lookup, but only once the catalog call has succeeded.
func (a *Aggregator) RetrieveMovieByID(ctx context.Context, movieID string) (*domain.Movie, error) {
	g, gctx := errgroup.WithContext(ctx)

	var (
		info      *domain.MovieInfo
		reviews   []domain.Review
		reviewErr error
	)

	g.Go(func() error {
		var err error
		info, err = a.movieInfos.RetrieveMovieInfo(gctx, movieID)
		return err
	})

	// The review outcome never cancels the group.
	g.Go(func() error {
		reviews, reviewErr = a.reviews.RetrieveReviews(gctx, movieID)
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.AggregationsTotal.WithLabelValues("movie_info_error").Inc()
		a.log.Debug("Movie info lookup failed", "movieId", movieID, "error", err)
		return nil, err
	}

	if reviewErr != nil {
		if !upstream.IsNotFound(reviewErr) {
			metrics.AggregationsTotal.WithLabelValues("review_error").Inc()
			a.log.Debug("Review lookup failed", "movieId", movieID, "error", reviewErr)
			return nil, reviewErr
		}
		reviews = nil
	}

	metrics.AggregationsTotal.WithLabelValues("success").Inc()
	return domain.NewMovie(*info, reviews), nil
}
