package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fhuszti/medias-transcode-go/internal/api_context"
	"github.com/fhuszti/medias-transcode-go/internal/uuid"
)

// WithJobID parses the {id} URL parameter into the request context.
func WithJobID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			if id == "" {
				WriteError(w, http.StatusBadRequest, "job ID is required", nil)
				return
			}
			parsedID, err := uuid.Parse(id)
			if err != nil {
				WriteError(w, http.StatusBadRequest, fmt.Sprintf("job ID %q is not a valid UUID", id), nil)
				return
			}

			// stash it in context and call the real handler
			ctx := api_context.WithJobID(r.Context(), parsedID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithBodyLimit caps the request body at limit bytes.
func WithBodyLimit(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
