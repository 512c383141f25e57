package stream

import (
	"errors"
	"log/slog"
	"net/http"

	json "github.com/goccy/go-json"
)

// ContentTypeNDJSON is the media type of newline-delimited JSON.
const ContentTypeNDJSON = "application/x-ndjson"

// ServeNDJSON subscribes to hub and writes each value as one JSON line until
// the request ends. The subscription is released on return.
func ServeNDJSON[T any](w http.ResponseWriter, r *http.Request, hub *Hub[T], logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	ch, cancel := hub.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", ContentTypeNDJSON)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	lw := NewLineWriter(w)
	if err := lw.Flush(); err != nil {
		logger.Debug("Stream flush unsupported", "stream", hub.Name(), "error", err)
	}

	logger.Info("Stream subscriber attached", "stream", hub.Name(), "subscribers", hub.Subscribers())
	defer logger.Info("Stream subscriber detached", "stream", hub.Name())

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-ch:
			if !ok {
				return
			}
			if err := lw.Write(v); err != nil {
				logger.Debug("Stream write failed", "stream", hub.Name(), "error", err)
				return
			}
		}
	}
}

// LineWriter encodes values as NDJSON lines and flushes after each one.
type LineWriter struct {
	enc *json.Encoder
	rc  *http.ResponseController
}

// NewLineWriter wraps an http.ResponseWriter.
func NewLineWriter(w http.ResponseWriter) *LineWriter {
	return &LineWriter{
		enc: json.NewEncoder(w),
		rc:  http.NewResponseController(w),
	}
}

// Write encodes v followed by a newline and flushes it to the client.
func (lw *LineWriter) Write(v any) error {
	if err := lw.enc.Encode(v); err != nil {
		return err
	}
	if err := lw.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}

// Flush sends buffered bytes to the client.
func (lw *LineWriter) Flush() error {
	return lw.rc.Flush()
}
