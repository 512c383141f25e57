// Package upstream implements the HTTP clients for the movie-info and review
// services, the error taxonomy their responses are classified into, and the
// retry policy wrapped around them.
package upstream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vietddude/movies/internal/metrics"
)

// Client performs GET requests against one upstream service.
type Client struct {
	name         string
	httpClient   *http.Client
	streamClient *http.Client
	log          *slog.Logger
}

// NewClient creates a new upstream client. timeout bounds each non-streaming
// request; streaming requests are bounded only by their context.
func NewClient(name string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		name: name,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		streamClient: &http.Client{Transport: transport},
		log:          logger.With("upstream", name),
	}
}

// Name returns the upstream label used in errors and metrics.
func (c *Client) Name() string {
	return c.name
}

// getJSON makes a single GET and decodes a 2xx body into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	start := time.Now()
	err := c.doGetJSON(ctx, url, out)

	metrics.UpstreamLatency.WithLabelValues(c.name).Observe(time.Since(start).Seconds())
	metrics.UpstreamRequestsTotal.WithLabelValues(c.name, outcome(err)).Inc()
	if err != nil {
		c.log.Debug("Upstream call failed", "url", url, "error", err)
	}
	return err
}

func (c *Client) doGetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportFailure(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportFailure(ctx, fmt.Errorf("read response: %w", err))
	}

	if err := Classify(c.name, resp.StatusCode, body); err != nil {
		c.log.Error("Error status code", "status", resp.StatusCode, "body", string(body))
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return TransportError(c.name, fmt.Errorf("parse response: %w", err))
	}
	return nil
}

// openStream issues a GET whose body is consumed incrementally by the caller.
func (c *Client) openStream(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, c.transportFailure(ctx, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, Classify(c.name, resp.StatusCode, body)
	}
	return resp.Body, nil
}

// transportFailure turns a request error into a ServerError unless the
// caller's context is done, which is reported as the context error.
func (c *Client) transportFailure(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return TransportError(c.name, err)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
