package api

import (
	"net/http"

	"github.com/fhuszti/medias-transcode-go/internal/api_context"
	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
	"github.com/fhuszti/medias-transcode-go/internal/uuid"
	"github.com/fhuszti/medias-transcode-go/internal/validation"
)

type ProcessMediaRequest struct {
	JobID    string `json:"job_id" validate:"required,uuid"`
	Platform string `json:"platform" validate:"max=64"`
	// checked when the profile is resolved so bad values surface as invalid_config
	Custom  *model.ProfileOverrides `json:"custom" validate:"-"`
	Channel string                  `json:"channel" validate:"max=128"`
}

func ProcessMediaHandler(svc port.MediaProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProcessMediaRequest
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
			logger.Warnf(r.Context(), "❌  Validation failed: %s", errsJSON)
			return
		}

		id, err := uuid.Parse(req.JobID)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid job ID", err)
			return
		}
		ctx := api_context.WithChannel(api_context.WithJobID(r.Context(), id), req.Channel)
		r = r.WithContext(ctx)

		out, err := svc.ProcessMedia(ctx, port.ProcessMediaInput{
			JobID:     id,
			Platform:  req.Platform,
			Overrides: req.Custom,
			Channel:   req.Channel,
		})
		if err != nil {
			WriteServiceError(w, r, "could not process media", err)
			return
		}

		status := http.StatusOK
		if out.Kind == model.MediaKindVideo {
			status = http.StatusAccepted
		}
		RespondJSON(w, status, out)
		logger.Infof(ctx, "✅  Processing request for platform %q answered with %q", req.Platform, out.Status)
	}
}
