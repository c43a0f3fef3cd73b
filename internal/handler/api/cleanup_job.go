package api

import (
	"net/http"

	"github.com/fhuszti/medias-transcode-go/internal/api_context"
	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/port"
	"github.com/fhuszti/medias-transcode-go/internal/uuid"
	"github.com/fhuszti/medias-transcode-go/internal/validation"
)

type CleanupJobRequest struct {
	JobID string `json:"job_id" validate:"required,uuid"`
}

// CleanupJobHandler serves POST /api/cleanup.
func CleanupJobHandler(svc port.JobCleaner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CleanupJobRequest
		if err := decodeJSON(r.Body, &req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request payload", err)
			return
		}
		if errs := validation.ValidateStruct(req); errs != nil {
			errsJSON, err := validation.ErrorsToJson(errs)
			if err != nil {
				WriteError(w, http.StatusInternalServerError, "failed to encode validation errors", err)
				return
			}
			RespondRawJSON(w, http.StatusBadRequest, []byte(errsJSON))
			return
		}
		id, err := uuid.Parse(req.JobID)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid job ID", err)
			return
		}

		r = r.WithContext(api_context.WithJobID(r.Context(), id))
		if err := svc.CleanupJob(r.Context(), id); err != nil {
			WriteServiceError(w, r, "could not clean up job", err)
			return
		}

		RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
		logger.Info(r.Context(), "✅  Successfully cleaned up job")
	}
}

// DeleteJobHandler serves DELETE /api/jobs/{id}.
func DeleteJobHandler(svc port.JobCleaner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.JobIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "job ID is required", nil)
			return
		}

		if err := svc.CleanupJob(r.Context(), id); err != nil {
			WriteServiceError(w, r, "could not delete job", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Info(r.Context(), "✅  Successfully deleted job")
	}
}
