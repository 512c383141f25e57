package movieinfo

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vietddude/movies/internal/core/domain"
	"github.com/vietddude/movies/internal/httputil"
	"github.com/vietddude/movies/internal/stream"
)

// Handler exposes the catalog over HTTP.
type Handler struct {
	service *Service
	hub     *stream.Hub[domain.MovieInfo]
	log     *slog.Logger
}

// NewHandler creates a handler. The stream endpoint reads from hub.
func NewHandler(service *Service, hub *stream.Hub[domain.MovieInfo], logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, hub: hub, log: logger.With("component", "movie-info-handler")}
}

// Register adds the catalog routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/movies-info", h.handleCreate)
	mux.HandleFunc("GET /v1/movies-info", h.handleList)
	mux.HandleFunc("GET /v1/movies-info/all", h.handleList)
	mux.HandleFunc("GET /v1/movies-info/stream", h.handleStream)
	mux.HandleFunc("GET /v1/movies-info/year/{year}", h.handleByYear)
	mux.HandleFunc("GET /v1/movies-info/name/{name}", h.handleByName)
	mux.HandleFunc("GET /v1/movies-info/{id}", h.handleGet)
	mux.HandleFunc("PUT /v1/movies-info/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /v1/movies-info/{id}", h.handleDelete)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var info domain.MovieInfo
	if err := httputil.DecodeJSON(r, &info); err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	created, err := h.service.Create(r.Context(), info)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	var year *int
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, h.log, &httputil.BadRequestError{Message: fmt.Sprintf("invalid year %q", raw)})
			return
		}
		year = &y
	}
	infos, err := h.service.List(r.Context(), year)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, infos)
}

func (h *Handler) handleByYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		httputil.WriteError(w, h.log, &httputil.BadRequestError{Message: fmt.Sprintf("invalid year %q", r.PathValue("year"))})
		return
	}
	infos, err := h.service.List(r.Context(), &year)
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, infos)
}

func (h *Handler) handleByName(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.GetByName(r.Context(), r.PathValue("name"))
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	if info == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	if info == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var info domain.MovieInfo
	if err := httputil.DecodeJSON(r, &info); err != nil {
		httputil.WriteError(w, h.log, err)
		return
	}
	updated, err := h.service.Update(r.Context(), r.PathValue("id"), info)
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
