package api

import (
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/port"
)

func DownloadOutputHandler(svc port.OutputGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "filename")

		out, err := svc.GetOutput(r.Context(), name)
		if err != nil {
			WriteServiceError(w, r, "could not get output", err)
			return
		}
		defer func() {
			if err := out.Body.Close(); err != nil {
				logger.Warnf(r.Context(), "failed to close output %q: %v", name, err)
			}
		}()

		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Name}))
		// outputs are overwritten in place by re-processing
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeContent(w, r, out.Name, out.ModTime, out.Body)
	}
}
