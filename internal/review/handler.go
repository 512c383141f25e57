package review

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vietddude/movies/internal/core/domain"
	"github.com/vietddude/movies/internal/httputil"
	"github.com/vietddude/movies/internal/stream"
)

// Handler exposes reviews over HTTP.
type Handler struct {
	service *Service
	hub     *stream.Hub[domain.Review]
	log     *slog.Logger
}

// NewHandler creates a handler. The stream endpoint reads from hub.
func NewHandler(service *Service, hub *stream.Hub[domain.Review], logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, hub: hub, log: logger.With("component", "review-handler")}
}

// Register adds the review routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/reviews", h.handleCreate)
	mux.HandleFunc("GET /v1/reviews", h.handleList)
	mux.HandleFunc("GET /v1/reviews/all", h.handleList)
	mux.HandleFunc("GET /v1/reviews/stream", h.handleStream)
	mux.HandleFunc("PUT /v1/reviews/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /v1/reviews/{id}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var review domain.Review
	if err := httputil.DecodeJSON(r, &review); err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	created, err := h.service.Create(r.Context(), review)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var movieInfoID *int64
	if raw := r.URL.Query().Get("movieInfoId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// Reviews only reference numeric movie info ids
			httputil.WriteJSON(w, http.StatusOK, []domain.Review{})
			return
		}
		movieInfoID = &id
	}
	reviews, err := h.service.List(r.Context(), movieInfoID)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reviews)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var changes domain.Review
	if err := httputil.DecodeJSON(r, &changes); err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	updated, err := h.service.Update(r.Context(), r.PathValue("id"), changes)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	stream.ServeNDJSON(w, r, h.hub, h.log)
}
