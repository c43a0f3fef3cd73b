package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/usecase/media"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, msg string, err error) {
	ctx := context.Background()
	if err != nil {
		logger.Errorf(ctx, "❌  %s: %v", msg, err)
	} else {
		logger.Error(ctx, "❌  "+msg)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, status, ErrorResponse{Error: msg, Kind: kindForStatus(status)})
}

// WriteServiceError answers with the status and kind matching the use-case
// error. The error text is only exposed for known kinds.
func WriteServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := StatusFor(err)
	kind := media.ErrorKind(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf(r.Context(), "❌  %s: %v", msg, err)
	} else {
		logger.Warnf(r.Context(), "❌  %s: %v", msg, err)
	}

	text := msg
	if kind != "internal" {
		text = fmt.Sprintf("%s: %v", msg, err)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, status, ErrorResponse{Error: text, Kind: kind})
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, media.ErrAttemptInProgress):
		return http.StatusConflict
	case errors.Is(err, media.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, media.ErrUnsupportedMediaKind):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, media.ErrInvalidConfig):
		return http.StatusUnprocessableEntity
	case errors.Is(err, media.ErrEngineFailure):
		return http.StatusBadGateway
	case errors.Is(err, media.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return "invalid_request"
	case http.StatusNotFound:
		return "not_found"
	default:
		return ""
	}
}

func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to encode JSON response: %v", err)
	}
}

func RespondRawJSON(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		logger.Errorf(context.Background(), "❌  Failed to write JSON payload: %v", err)
	}
}

// decodeJSON decodes a single JSON object and rejects unknown fields.
func decodeJSON(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON object")
	}
	return nil
}
