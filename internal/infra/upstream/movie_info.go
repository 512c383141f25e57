package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vietddude/movies/internal/core/domain"
	"github.com/vietddude/movies/internal/metrics"
)

// MovieInfoService is the upstream label of the movie-info service.
const MovieInfoService = "MoviesInfoService"

// MovieInfoClient looks up movie infos by id.
type MovieInfoClient struct {
	client  *Client
	baseURL string
	retry   *RetrySpec
}

// NewMovieInfoClient creates a client for the movie-info service at baseURL.
// A nil retry spec disables retries for lookups.
func NewMovieInfoClient(baseURL string, timeout time.Duration, retry *RetrySpec, logger *slog.Logger) *MovieInfoClient {
	return &MovieInfoClient{
		client:  NewClient(MovieInfoService, timeout, logger),
		baseURL: strings.TrimRight(baseURL, "/"),
		retry:   retry,
	}
}

// RetrieveMovieInfo fetches one movie info. A missing movie is reported as a
// not-found ClientError.
func (c *MovieInfoClient) RetrieveMovieInfo(ctx context.Context, movieID string) (*domain.MovieInfo, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(movieID)

	attempt := 0
	return Execute(ctx, c.retry, func(ctx context.Context) (*domain.MovieInfo, error) {
		attempt++
		if attempt > 1 {
			metrics.UpstreamRetriesTotal.WithLabelValues(c.client.Name()).Inc()
			c.client.log.Warn("Retrying movie info lookup", "movieId", movieID, "attempt", attempt)
		}

		var info domain.MovieInfo
		if err := c.client.getJSON(ctx, endpoint, &info); err != nil {
			var ce *ClientError
			if errors.As(err, &ce) && ce.NotFound() && ce.Message == http.StatusText(http.StatusNotFound) {
				ce.Message = fmt.Sprintf("Movie not found for movie ID: %s", movieID)
			}
			return nil, err
		}
		return &info, nil
	})
}

// StreamMovieInfos follows the upstream NDJSON stream and calls fn for every
// movie info until the stream ends, fn fails, or ctx is done.
func (c *MovieInfoClient) StreamMovieInfos(ctx context.Context, fn func(domain.MovieInfo) error) error {
	body, err := c.client.openStream(ctx, c.baseURL+"/stream")
	if err != nil {
		return err
	}
	defer body.Close()

	dec := json.NewDecoder(body)
	for {
		var info domain.MovieInfo
		if err := dec.Decode(&info); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return TransportError(c.client.Name(), fmt.Errorf("decode stream: %w", err))
		}
		if err := fn(info); err != nil {
			return err
		}
	}
}

// Close releases idle connections.
func (c *MovieInfoClient) Close() error {
	return c.client.Close()
}
