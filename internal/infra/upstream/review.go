package upstream

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/vietddude/movies/internal/core/domain"
	"github.com/vietddude/movies/internal/metrics"
)

// ReviewService is the upstream label of the review service.
const ReviewService = "ReviewsService"

// ReviewClient looks up the reviews of a movie info.
type ReviewClient struct {
	client  *Client
	baseURL *url.URL
	retry   *RetrySpec
}

// NewReviewClient creates a client for the review service at baseURL.
func NewReviewClient(baseURL string, timeout time.Duration, retry *RetrySpec, logger *slog.Logger) (*ReviewClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid reviews url %q: %w", baseURL, err)
	}
	return &ReviewClient{
		client:  NewClient(ReviewService, timeout, logger),
		baseURL: u,
		retry:   retry,
	}, nil
}

// RetrieveReviews fetches every review of a movie info. A 404 is returned as
// a not-found ClientError; deciding what that means is left to the caller.
func (c *ReviewClient) RetrieveReviews(ctx context.Context, movieInfoID string) ([]domain.Review, error) {
	u := *c.baseURL
	q := u.Query()
	q.Set("movieInfoId", movieInfoID)
	u.RawQuery = q.Encode()
	endpoint := u.String()

	attempt := 0
	return Execute(ctx, c.retry, func(ctx context.Context) ([]domain.Review, error) {
		attempt++
		if attempt > 1 {
			metrics.UpstreamRetriesTotal.WithLabelValues(c.client.Name()).Inc()
			c.client.log.Warn("Retrying review lookup", "movieInfoId", movieInfoID, "attempt", attempt)
		}

		var reviews []domain.Review
		if err := c.client.getJSON(ctx, endpoint, &reviews); err != nil {
			return nil, err
		}
		if reviews == nil {
			reviews = []domain.Review{}
		}
		return reviews, nil
	})
}

// Close releases idle connections.
func (c *ReviewClient) Close() error {
	return c.client.Close()
}
