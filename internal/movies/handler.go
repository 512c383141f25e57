package movies

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/vietddude/movies/internal/core/domain"
	"github.com/vietddude/movies/internal/infra/upstream"
	"github.com/vietddude/movies/internal/stream"
)

// MovieInfoStreamer follows the live movie info stream of the catalog service.
type MovieInfoStreamer interface {
	StreamMovieInfos(ctx context.Context, fn func(domain.MovieInfo) error) error
}

// Handler serves the aggregated movie endpoints.
type Handler struct {
	aggregator *Aggregator
	streamer   MovieInfoStreamer
	log        *slog.Logger
}

// NewHandler creates a handler. streamer may be nil, in which case the
// stream endpoint is not registered.
func NewHandler(aggregator *Aggregator, streamer MovieInfoStreamer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		aggregator: aggregator,
		streamer:   streamer,
		log:        logger.With("component", "movies-handler"),
	}
}

// Register adds the handler's routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/movies/{id}", h.handleGetMovie)
	if h.streamer != nil {
		mux.HandleFunc("GET /v1/movies/stream", h.handleStream)
	}
}

func (h *Handler) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.aggregator.RetrieveMovieByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(movie); err != nil {
		h.log.Debug("Movie write failed", "movieId", movie.MovieInfo.MovieInfoID, "error", err)
	}
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", stream.ContentTypeNDJSON)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	lw := stream.NewLineWriter(w)
	_ = lw.Flush()

	err := h.streamer.StreamMovieInfos(r.Context(), func(info domain.MovieInfo) error {
		return lw.Write(info)
	})
	if err != nil && r.Context().Err() == nil {
		h.log.Warn("Movie info stream ended", "error", err)
	}
}

// writeError maps an aggregation failure to a plain text response.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ce *upstream.ClientError
	var se *upstream.ServerError

	switch {
	case errors.Is(err, context.Canceled):
		// Client went away
		return
	case errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "upstream request timed out", http.StatusGatewayTimeout)
	case errors.As(err, &ce):
		http.Error(w, ce.Message, ce.StatusCode)
	case errors.As(err, &se):
		h.log.Error("Upstream failure", "upstream", se.Upstream, "error", err)
		http.Error(w, se.Error(), http.StatusInternalServerError)
	default:
		h.log.Error("Movie lookup failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
