package api

import (
	"net/http"

	"github.com/fhuszti/medias-transcode-go/internal/api_context"
	"github.com/fhuszti/medias-transcode-go/internal/port"
)

func GetJobHandler(svc port.JobGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.JobIDFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusBadRequest, "job ID is required", nil)
			return
		}

		job, err := svc.GetJob(r.Context(), id)
		if err != nil {
			WriteServiceError(w, r, "could not get job", err)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		RespondJSON(w, http.StatusOK, job)
	}
}
