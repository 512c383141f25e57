// Package httputil holds the JSON helpers shared by the record handlers.
package httputil

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/vietddude/movies/internal/core/domain"
)

const maxBodyBytes = 1 << 20

// NotFoundError carries the message returned with a 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// BadRequestError is a malformed request that never reached validation.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

// WriteJSON writes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// DecodeJSON reads the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return &BadRequestError{Message: fmt.Sprintf("failed to read body: %v", err)}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &BadRequestError{Message: fmt.Sprintf("invalid request body: %v", err)}
	}
	return nil
}

// WriteError maps err to a plain text response.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ve *domain.ValidationError
	var nf *NotFoundError
	var br *BadRequestError

	switch {
	case errors.As(err, &ve):
		http.Error(w, ve.Error(), http.StatusBadRequest)
	case errors.As(err, &br):
		http.Error(w, br.Error(), http.StatusBadRequest)
	case errors.As(err, &nf):
		http.Error(w, nf.Error(), http.StatusNotFound)
	default:
		logger.Error("Request failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
